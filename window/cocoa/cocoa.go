//go:build darwin

// Package cocoa implements window.Window as an AppKit window without cgo.
//
// AppKit is driven through the Objective-C runtime with goffi, the same way
// the Metal HAL reaches Metal. The content view is backed by a CAMetalLayer,
// which is what NativeHandle returns. Every call must happen on the main
// thread, so this package locks the main goroutine to its OS thread at init.
package cocoa

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/gogpu/wgpu/hal/metal"

	"github.com/gogpu/triangle/window"
)

func init() {
	runtime.LockOSThread()
}

const (
	styleTitled         = 1 << 0
	styleClosable       = 1 << 1
	styleMiniaturizable = 1 << 2
	styleResizable      = 1 << 3

	backingBuffered = 2

	activationRegular = 0

	eventMaskAny = ^uintptr(0)
)

// idleWait is how long Run sleeps between event pumps while the window is
// minimized or has no drawable area.
const idleWait = 50 * time.Millisecond

// Config describes the window to create.
type Config struct {
	Title  string
	Width  int
	Height int
}

// Window is a desktop AppKit window.
type Window struct {
	app   metal.ID
	win   metal.ID
	view  metal.ID
	layer metal.ID
	mode  metal.ID

	mu     sync.Mutex
	size   pixelSize
	closed bool

	render window.Subscribers[window.RenderFunc]
	resize window.Subscribers[window.ResizeFunc]

	closeOnce sync.Once
}

var _ window.Window = (*Window)(nil)

// New starts the shared application and opens a resizable window whose
// content view is layer-backed by a CAMetalLayer.
func New(cfg Config) (*Window, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("cocoa: invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	if err := loadObjC(); err != nil {
		return nil, err
	}

	pool := metal.NewAutoreleasePool()
	defer pool.Drain()

	app := metal.MsgSend(metal.ID(metal.GetClass("NSApplication")), metal.Sel("sharedApplication"))
	if app == 0 {
		return nil, fmt.Errorf("cocoa: NSApplication unavailable")
	}
	metal.MsgSend(app, metal.Sel("setActivationPolicy:"), activationRegular)
	metal.MsgSend(app, metal.Sel("finishLaunching"))

	alloc := metal.MsgSend(metal.ID(metal.GetClass("NSWindow")), metal.Sel("alloc"))
	win := initWindow(alloc,
		rect{W: float64(cfg.Width), H: float64(cfg.Height)},
		styleTitled|styleClosable|styleMiniaturizable|styleResizable,
		backingBuffered)
	if win == 0 {
		return nil, fmt.Errorf("cocoa: create window")
	}
	metal.MsgSend(win, metal.Sel("setReleasedWhenClosed:"), 0)

	title := metal.NSString(cfg.Title)
	metal.MsgSend(win, metal.Sel("setTitle:"), uintptr(title))
	metal.Release(title)

	view := metal.MsgSend(win, metal.Sel("contentView"))
	layer := metal.MsgSend(metal.ID(metal.GetClass("CAMetalLayer")), metal.Sel("layer"))
	if view == 0 || layer == 0 {
		metal.Release(win)
		return nil, fmt.Errorf("cocoa: create CAMetalLayer: %w", window.ErrNoNativeHandle)
	}
	metal.Retain(layer)
	metal.MsgSend(view, metal.Sel("setWantsLayer:"), 1)
	metal.MsgSend(view, metal.Sel("setLayer:"), uintptr(layer))

	metal.MsgSend(win, metal.Sel("center"))
	metal.MsgSend(win, metal.Sel("makeKeyAndOrderFront:"), 0)
	metal.MsgSend(app, metal.Sel("activateIgnoringOtherApps:"), 1)

	w := &Window{
		app:   app,
		win:   win,
		view:  view,
		layer: layer,
		mode:  metal.NSString("kCFRunLoopDefaultMode"),
	}
	w.size = w.measure()
	sendSetDouble(layer, "setContentsScale:", w.size.scale)
	return w, nil
}

// measure reads the content view size in points and the backing scale.
func (w *Window) measure() pixelSize {
	frame := sendRect(w.view, "frame")
	return pixelSize{width: frame.W, height: frame.H, scale: sendDouble(w.win, "backingScaleFactor")}
}

func (w *Window) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size.points()
}

func (w *Window) ScaleFactor() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size.factor()
}

// RequestRedraw marks the content view dirty. The loop renders
// continuously, so this only matters to AppKit's own display cycle.
func (w *Window) RequestRedraw() {
	metal.MsgSend(w.view, metal.Sel("setNeedsDisplay:"), 1)
}

func (w *Window) Platform() window.Platform { return window.PlatformCocoa }

// NativeHandle returns the CAMetalLayer backing the content view. The Metal
// surface retains the layer it is given.
func (w *Window) NativeHandle() (window.Handle, error) {
	if w.layer == 0 {
		return window.Handle{}, window.ErrNoNativeHandle
	}
	return window.Handle{Platform: window.PlatformCocoa, Window: uintptr(w.layer)}, nil
}

func (w *Window) FramebufferSize() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size.pixels()
}

func (w *Window) OnRender(fn window.RenderFunc) func() { return w.render.Add(fn) }

func (w *Window) OnResize(fn window.ResizeFunc) func() { return w.resize.Add(fn) }

// Run pumps AppKit events and invokes render subscribers once per iteration
// until the user closes the window or ctx is done. While the window is
// minimized or empty the loop only pumps events.
func (w *Window) Run(ctx context.Context) error {
	last := time.Now()
	for {
		if ctx.Err() != nil {
			return nil
		}

		pool := metal.NewAutoreleasePool()
		w.pump()
		visible := metal.MsgSendBool(w.win, metal.Sel("isVisible"))
		minimized := metal.MsgSendBool(w.win, metal.Sel("isMiniaturized"))
		if !visible && !minimized {
			pool.Drain()
			w.mu.Lock()
			w.closed = true
			w.mu.Unlock()
			return nil
		}
		w.update(w.measure())

		fw, fh := w.FramebufferSize()
		if minimized || fw == 0 || fh == 0 {
			pool.Drain()
			time.Sleep(idleWait)
			last = time.Now()
			continue
		}

		now := time.Now()
		elapsed := now.Sub(last).Seconds()
		last = now
		for _, fn := range w.render.Snapshot() {
			fn(elapsed)
		}
		pool.Drain()
	}
}

// pump dispatches every queued event without blocking.
func (w *Window) pump() {
	past := metal.MsgSend(metal.ID(metal.GetClass("NSDate")), metal.Sel("distantPast"))
	next := metal.Sel("nextEventMatchingMask:untilDate:inMode:dequeue:")
	for {
		ev := metal.MsgSend(w.app, next, eventMaskAny, uintptr(past), uintptr(w.mode), 1)
		if ev == 0 {
			break
		}
		metal.MsgSend(w.app, metal.Sel("sendEvent:"), uintptr(ev))
	}
	metal.MsgSend(w.app, metal.Sel("updateWindows"))
}

// update stores a new measurement. Resize subscribers are notified when the
// framebuffer size changes; the layer follows scale changes.
func (w *Window) update(s pixelSize) {
	w.mu.Lock()
	prev := w.size
	w.size = s
	w.mu.Unlock()

	if s.factor() != prev.factor() {
		sendSetDouble(w.layer, "setContentsScale:", s.factor())
	}
	if !s.samePixels(prev) {
		fw, fh := s.pixels()
		for _, fn := range w.resize.Snapshot() {
			fn(fw, fh)
		}
	}
}

// Close closes the window and releases the layer.
func (w *Window) Close() error {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		if w.win == 0 {
			return
		}
		metal.MsgSend(w.win, metal.Sel("close"))
		metal.Release(w.win)
		metal.Release(w.layer)
		metal.Release(w.mode)
		w.win, w.layer, w.mode = 0, 0, 0
	})
	return nil
}

// pixelSize is a content size in points with its backing scale factor.
type pixelSize struct {
	width, height float64
	scale         float64
}

func (s pixelSize) factor() float64 {
	if s.scale <= 0 {
		return 1
	}
	return s.scale
}

func (s pixelSize) points() (int, int) {
	return int(math.Round(s.width)), int(math.Round(s.height))
}

func (s pixelSize) pixels() (int, int) {
	f := s.factor()
	return int(math.Round(s.width * f)), int(math.Round(s.height * f))
}

func (s pixelSize) samePixels(o pixelSize) bool {
	w1, h1 := s.pixels()
	w2, h2 := o.pixels()
	return w1 == w2 && h1 == h2
}
