//go:build linux

// Package x11 implements window.Window as a plain X11 window without cgo.
//
// The window is created and serviced over a pure-Go X protocol connection.
// Vulkan's Xlib surface needs a Display* as well, so a second connection is
// opened through libX11 at run time; both connections share the window ID.
package x11

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/gogpu/triangle/window"
)

// idleWait is how long Run sleeps between event polls while the window has
// no drawable area.
const idleWait = 50 * time.Millisecond

// Config describes the window to create.
type Config struct {
	Title  string
	Width  int
	Height int
}

// Window is a desktop X11 window.
type Window struct {
	conn  *xgb.Conn
	xwin  xproto.Window
	wmDel xproto.Atom
	scale float64

	mu     sync.Mutex
	width  int
	height int
	closed bool

	render window.Subscribers[window.RenderFunc]
	resize window.Subscribers[window.ResizeFunc]

	nativeOnce sync.Once
	xlib       *xlibDisplay
	nativeErr  error

	closeOnce sync.Once
}

var _ window.Window = (*Window)(nil)

// New connects to $DISPLAY and maps a resizable top-level window.
func New(cfg Config) (*Window, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > 0xffff || cfg.Height > 0xffff {
		return nil, fmt.Errorf("x11: invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("x11: connect: %w", err)
	}
	w := &Window{conn: conn, width: cfg.Width, height: cfg.Height}
	if err := w.create(cfg); err != nil {
		conn.Close()
		return nil, err
	}
	return w, nil
}

func (w *Window) create(cfg Config) error {
	screen := xproto.Setup(w.conn).DefaultScreen(w.conn)

	xwin, err := xproto.NewWindowId(w.conn)
	if err != nil {
		return fmt.Errorf("x11: allocate window id: %w", err)
	}
	err = xproto.CreateWindowChecked(w.conn, screen.RootDepth, xwin, screen.Root,
		0, 0, uint16(cfg.Width), uint16(cfg.Height), 0,
		xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{
			screen.BlackPixel,
			xproto.EventMaskStructureNotify | xproto.EventMaskExposure,
		}).Check()
	if err != nil {
		return fmt.Errorf("x11: create window: %w", err)
	}
	w.xwin = xwin

	if err := w.setTitle(cfg.Title); err != nil {
		return err
	}
	protocols, err := w.atom("WM_PROTOCOLS")
	if err != nil {
		return err
	}
	if w.wmDel, err = w.atom("WM_DELETE_WINDOW"); err != nil {
		return err
	}
	data := make([]byte, 4)
	xgb.Put32(data, uint32(w.wmDel))
	xproto.ChangeProperty(w.conn, xproto.PropModeReplace, xwin, protocols, xproto.AtomAtom, 32, 1, data)

	w.scale = w.queryScale(screen.Root)

	if err := xproto.MapWindowChecked(w.conn, xwin).Check(); err != nil {
		return fmt.Errorf("x11: map window: %w", err)
	}
	return nil
}

func (w *Window) setTitle(title string) error {
	xproto.ChangeProperty(w.conn, xproto.PropModeReplace, w.xwin,
		xproto.AtomWmName, xproto.AtomString, 8, uint32(len(title)), []byte(title))

	name, err := w.atom("_NET_WM_NAME")
	if err != nil {
		return err
	}
	utf8, err := w.atom("UTF8_STRING")
	if err != nil {
		return err
	}
	xproto.ChangeProperty(w.conn, xproto.PropModeReplace, w.xwin,
		name, utf8, 8, uint32(len(title)), []byte(title))
	return nil
}

func (w *Window) atom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(w.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("x11: intern %s: %w", name, err)
	}
	return reply.Atom, nil
}

// queryScale reads Xft.dpi from the root window's resource database.
func (w *Window) queryScale(root xproto.Window) float64 {
	reply, err := xproto.GetProperty(w.conn, false, root,
		xproto.AtomResourceManager, xproto.GetPropertyTypeAny, 0, 8192).Reply()
	if err != nil || reply == nil {
		return 1
	}
	return scaleFromResources(string(reply.Value))
}

// Size returns the window size. X11 has no logical coordinate space, so it
// equals the framebuffer size.
func (w *Window) Size() (int, int) { return w.FramebufferSize() }

// ScaleFactor reports Xft.dpi relative to 96, or 1 when unset.
func (w *Window) ScaleFactor() float64 {
	if w.scale <= 0 {
		return 1
	}
	return w.scale
}

// RequestRedraw queues an Expose event. The loop renders continuously, so
// the event only marks the window damaged.
func (w *Window) RequestRedraw() {
	if w.conn == nil {
		return
	}
	xproto.ClearArea(w.conn, true, w.xwin, 0, 0, 0, 0)
}

func (w *Window) Platform() window.Platform { return window.PlatformX11 }

// NativeHandle opens the Xlib display on first use and returns it with the
// window ID.
func (w *Window) NativeHandle() (window.Handle, error) {
	w.nativeOnce.Do(func() {
		w.xlib, w.nativeErr = openXlibDisplay()
	})
	if w.nativeErr != nil {
		return window.Handle{}, fmt.Errorf("%w: %w", window.ErrNoNativeHandle, w.nativeErr)
	}
	return window.Handle{
		Platform: window.PlatformX11,
		Display:  w.xlib.display,
		Window:   uintptr(w.xwin),
	}, nil
}

func (w *Window) FramebufferSize() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *Window) OnRender(fn window.RenderFunc) func() { return w.render.Add(fn) }

func (w *Window) OnResize(fn window.ResizeFunc) func() { return w.resize.Add(fn) }

// Run drains pending X events and invokes render subscribers once per
// iteration until the window manager asks to close the window or ctx is
// done. While the window has no drawable area the loop only polls events.
func (w *Window) Run(ctx context.Context) error {
	last := time.Now()
	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := w.drain(); err != nil {
			return err
		}
		if w.isClosed() {
			return nil
		}

		fw, fh := w.FramebufferSize()
		if fw == 0 || fh == 0 {
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
	}
}

// drain handles every queued event without blocking.
func (w *Window) drain() error {
	for {
		ev, xerr := w.conn.PollForEvent()
		if xerr != nil {
			return fmt.Errorf("x11: %v", xerr)
		}
		if ev == nil {
			return nil
		}
		w.handle(ev)
	}
}

// handle applies one X event to the window state.
func (w *Window) handle(ev xgb.Event) {
	switch e := ev.(type) {
	case xproto.ConfigureNotifyEvent:
		if e.Window == w.xwin {
			w.setSize(int(e.Width), int(e.Height))
		}
	case xproto.ClientMessageEvent:
		if e.Format == 32 && len(e.Data.Data32) > 0 && xproto.Atom(e.Data.Data32[0]) == w.wmDel {
			w.markClosed()
		}
	case xproto.DestroyNotifyEvent:
		if e.Window == w.xwin {
			w.markClosed()
		}
	}
}

// setSize records a new framebuffer size and notifies resize subscribers
// when it differs from the previous one.
func (w *Window) setSize(width, height int) {
	w.mu.Lock()
	changed := width != w.width || height != w.height
	w.width, w.height = width, height
	w.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range w.resize.Snapshot() {
		fn(width, height)
	}
}

func (w *Window) markClosed() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}

func (w *Window) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Close destroys the window and closes both display connections.
func (w *Window) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.markClosed()
		if w.conn == nil {
			return
		}
		xproto.DestroyWindow(w.conn, w.xwin)
		w.conn.Close()
		err = errors.Join(err, w.xlib.close())
	})
	return err
}
