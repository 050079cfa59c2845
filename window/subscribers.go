package window

import "sync"

// Subscribers is a list of callbacks with stable unsubscribe funcs.
// Window implementations embed it for their render and resize hooks.
// The zero value is ready to use.
type Subscribers[F any] struct {
	mu   sync.Mutex
	next uint64
	subs []subscriber[F]
}

type subscriber[F any] struct {
	id uint64
	fn F
}

// Add registers fn and returns a func that removes it. The returned func
// is idempotent.
func (s *Subscribers[F]) Add(fn F) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	id := s.next
	s.subs = append(s.subs, subscriber[F]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Subscribers[F]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Snapshot returns the current callbacks in subscription order.
// Callers invoke them without holding the lock, so a callback may
// unsubscribe itself.
func (s *Subscribers[F]) Snapshot() []F {
	s.mu.Lock()
	defer s.mu.Unlock()
	fns := make([]F, len(s.subs))
	for i, sub := range s.subs {
		fns[i] = sub.fn
	}
	return fns
}

// Len returns the number of subscribers.
func (s *Subscribers[F]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
