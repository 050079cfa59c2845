package window

import "testing"

func TestSubscribers_AddAndUnsubscribe(t *testing.T) {
	var s Subscribers[RenderFunc]
	var calls []string

	unA := s.Add(func(float64) { calls = append(calls, "a") })
	s.Add(func(float64) { calls = append(calls, "b") })

	for _, fn := range s.Snapshot() {
		fn(0)
	}
	if len(calls) != 2 || calls[0] != "a" || calls[1] != "b" {
		t.Fatalf("calls = %v, want [a b]", calls)
	}

	unA()
	unA()
	if got := s.Len(); got != 1 {
		t.Fatalf("Len() after unsubscribe = %d, want 1", got)
	}

	calls = nil
	for _, fn := range s.Snapshot() {
		fn(0)
	}
	if len(calls) != 1 || calls[0] != "b" {
		t.Errorf("calls = %v, want [b]", calls)
	}
}

func TestSubscribers_SelfUnsubscribe(t *testing.T) {
	var s Subscribers[RenderFunc]
	var unsub func()
	n := 0
	unsub = s.Add(func(float64) {
		n++
		unsub()
	})

	for i := 0; i < 3; i++ {
		for _, fn := range s.Snapshot() {
			fn(0)
		}
	}
	if n != 1 {
		t.Errorf("callback ran %d times, want 1", n)
	}
}

func TestPlatformString(t *testing.T) {
	tests := []struct {
		p    Platform
		want string
	}{
		{PlatformUnknown, "Unknown"},
		{PlatformWin32, "Win32"},
		{PlatformCocoa, "Cocoa"},
		{PlatformX11, "X11"},
		{PlatformWayland, "Wayland"},
		{PlatformHeadless, "Headless"},
		{Platform(200), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Platform(%d).String() = %q, want %q", tt.p, got, tt.want)
		}
	}
}
