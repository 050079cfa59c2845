package triangle

import (
	"sync"
)

// ResourceKind identifies a class of GPU handle.
type ResourceKind uint8

const (
	KindInstance ResourceKind = iota
	KindSurface
	KindAdapter
	KindDevice
	KindShaderModule
	KindRenderPipeline
	KindSurfaceTexture
	KindTextureView
	KindCommandEncoder
	KindRenderPassEncoder
	KindCommandBuffer
	KindQueue

	numKinds
)

var kindNames = [numKinds]string{
	KindInstance:          "Instance",
	KindSurface:           "Surface",
	KindAdapter:           "Adapter",
	KindDevice:            "Device",
	KindShaderModule:      "ShaderModule",
	KindRenderPipeline:    "RenderPipeline",
	KindSurfaceTexture:    "SurfaceTexture",
	KindTextureView:       "TextureView",
	KindCommandEncoder:    "CommandEncoder",
	KindRenderPassEncoder: "RenderPassEncoder",
	KindCommandBuffer:     "CommandBuffer",
	KindQueue:             "Queue",
}

func (k ResourceKind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "Unknown"
}

// KindStats counts the handles of one kind.
type KindStats struct {
	Created  uint64
	Released uint64
}

// Live returns the number of handles created but not yet released.
func (s KindStats) Live() int64 { return int64(s.Created) - int64(s.Released) }

// LedgerStats is a snapshot of a Ledger.
type LedgerStats struct {
	Kinds map[ResourceKind]KindStats

	// Violations counts releases of handles that were already released.
	// The second release never reaches the driver.
	Violations uint64
}

// Ledger counts handle creation and release per kind.
// It is safe for concurrent use.
type Ledger struct {
	mu         sync.Mutex
	kinds      [numKinds]KindStats
	violations uint64
}

func (l *Ledger) created(k ResourceKind) {
	l.mu.Lock()
	l.kinds[k].Created++
	l.mu.Unlock()
}

func (l *Ledger) released(k ResourceKind) {
	l.mu.Lock()
	l.kinds[k].Released++
	l.mu.Unlock()
}

func (l *Ledger) violation() {
	l.mu.Lock()
	l.violations++
	l.mu.Unlock()
}

// Stats returns a snapshot. Kinds that were never created are omitted.
func (l *Ledger) Stats() LedgerStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := LedgerStats{
		Kinds:      make(map[ResourceKind]KindStats),
		Violations: l.violations,
	}
	for k, ks := range l.kinds {
		if ks.Created > 0 {
			s.Kinds[ResourceKind(k)] = ks
		}
	}
	return s
}

// Live returns the number of unreleased handles of kind k.
func (l *Ledger) Live(k ResourceKind) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.kinds[k].Live()
}

// Outstanding returns the number of unreleased handles of every kind.
func (l *Ledger) Outstanding() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int64
	for _, ks := range l.kinds {
		n += ks.Live()
	}
	return n
}

type releaser interface {
	Release()
}

// tracked owns one driver handle and releases it at most once.
type tracked[T releaser] struct {
	handle   T
	kind     ResourceKind
	ledger   *Ledger
	released bool
}

// track records the creation of h in l and returns its owner.
func track[T releaser](l *Ledger, kind ResourceKind, h T) *tracked[T] {
	l.created(kind)
	return &tracked[T]{handle: h, kind: kind, ledger: l}
}

// Handle returns the owned driver handle.
func (t *tracked[T]) Handle() T { return t.handle }

// Release releases the handle. A second call is counted as a violation and
// does not reach the driver.
func (t *tracked[T]) Release() {
	if t == nil {
		return
	}
	if t.released {
		t.ledger.violation()
		Logger().Warn("triangle: handle released twice", "kind", t.kind)
		return
	}
	t.released = true
	t.handle.Release()
	t.ledger.released(t.kind)
}

// teardown is a LIFO stack of cleanup steps.
type teardown struct {
	steps []teardownStep
}

type teardownStep struct {
	name string
	fn   func()
}

func (td *teardown) push(name string, fn func()) {
	td.steps = append(td.steps, teardownStep{name: name, fn: fn})
}

// run executes every step in reverse push order and empties the stack.
func (td *teardown) run() {
	for i := len(td.steps) - 1; i >= 0; i-- {
		s := td.steps[i]
		Logger().Debug("triangle: teardown", "step", s.name)
		s.fn()
	}
	td.steps = nil
}

// names returns the step names in execution order.
func (td *teardown) names() []string {
	out := make([]string, 0, len(td.steps))
	for i := len(td.steps) - 1; i >= 0; i-- {
		out = append(out, td.steps[i].name)
	}
	return out
}
