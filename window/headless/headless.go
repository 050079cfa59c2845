// Package headless provides a window without a display. Its event loop ticks
// a fixed number of times (or until closed) at a fixed step, which makes it
// suitable for tests and for driving the recording GPU driver.
package headless

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/triangle/window"
)

// DefaultStep is the elapsed time reported for each tick.
const DefaultStep = 1.0 / 60.0

// Option configures a headless Window.
type Option func(*Window)

// WithSize sets the logical window size. The framebuffer size equals the
// logical size multiplied by the scale factor.
func WithSize(width, height int) Option {
	return func(w *Window) {
		w.provider.W = width
		w.provider.H = height
	}
}

// WithScaleFactor sets the DPI scale factor.
func WithScaleFactor(sf float64) Option {
	return func(w *Window) {
		w.provider.SF = sf
	}
}

// WithPlatform makes the window report p as its hosting platform.
func WithPlatform(p window.Platform) Option {
	return func(w *Window) {
		w.platform = p
	}
}

// WithFrames bounds Run to n ticks. Zero runs until Close or context cancel.
func WithFrames(n int) Option {
	return func(w *Window) {
		w.frames = n
	}
}

// WithoutNativeHandle makes NativeHandle fail with window.ErrNoNativeHandle.
func WithoutNativeHandle() Option {
	return func(w *Window) {
		w.noHandle = true
	}
}

// Window is a display-less window.
type Window struct {
	mu       sync.Mutex
	provider gpucontext.NullWindowProvider
	platform window.Platform
	frames   int
	noHandle bool

	render window.Subscribers[window.RenderFunc]
	resize window.Subscribers[window.ResizeFunc]

	ticks    atomic.Int64
	redraws  atomic.Int64
	closed   atomic.Bool
	handleID uintptr
}

var nextHandle atomic.Uintptr

// New creates a headless window, 800x600 at scale 1 by default.
func New(opts ...Option) *Window {
	w := &Window{
		provider: gpucontext.NullWindowProvider{W: 800, H: 600},
		platform: window.PlatformHeadless,
		handleID: nextHandle.Add(1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

var _ window.Window = (*Window)(nil)

func (w *Window) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.provider.Size()
}

func (w *Window) ScaleFactor() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.provider.ScaleFactor()
}

// RequestRedraw counts requests; the loop renders every tick regardless.
func (w *Window) RequestRedraw() { w.redraws.Add(1) }

// Redraws returns how many times RequestRedraw was called.
func (w *Window) Redraws() int64 { return w.redraws.Load() }

func (w *Window) Platform() window.Platform { return w.platform }

func (w *Window) NativeHandle() (window.Handle, error) {
	if w.noHandle {
		return window.Handle{}, window.ErrNoNativeHandle
	}
	return window.Handle{Platform: w.platform, Window: w.handleID}, nil
}

func (w *Window) FramebufferSize() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	sf := w.provider.ScaleFactor()
	return int(float64(w.provider.W) * sf), int(float64(w.provider.H) * sf)
}

func (w *Window) OnRender(fn window.RenderFunc) func() { return w.render.Add(fn) }

func (w *Window) OnResize(fn window.ResizeFunc) func() { return w.resize.Add(fn) }

// Resize changes the logical size and notifies resize subscribers with the
// new framebuffer size.
func (w *Window) Resize(width, height int) {
	w.mu.Lock()
	w.provider.W = width
	w.provider.H = height
	w.mu.Unlock()

	fw, fh := w.FramebufferSize()
	for _, fn := range w.resize.Snapshot() {
		fn(fw, fh)
	}
}

// Tick runs one event-loop iteration: every render subscriber is called
// once with elapsed.
func (w *Window) Tick(elapsed float64) {
	w.ticks.Add(1)
	for _, fn := range w.render.Snapshot() {
		fn(elapsed)
	}
}

// Ticks returns the number of completed loop iterations.
func (w *Window) Ticks() int64 { return w.ticks.Load() }

// Run ticks at DefaultStep until the frame budget is spent, the window is
// closed or ctx is done. All three are graceful and return nil.
//
// A bounded run ticks back to back. An unbounded one has nothing else to
// stop it, so it waits DefaultStep of wall time between ticks.
func (w *Window) Run(ctx context.Context) error {
	var pace <-chan time.Time
	if w.frames == 0 {
		t := time.NewTicker(time.Second / 60)
		defer t.Stop()
		pace = t.C
	}
	for i := 0; w.frames == 0 || i < w.frames; i++ {
		if w.closed.Load() || ctx.Err() != nil {
			return nil
		}
		w.Tick(DefaultStep)
		if pace == nil {
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-pace:
		}
	}
	return nil
}

func (w *Window) Close() error {
	w.closed.Store(true)
	return nil
}
