//go:build windows

// Package glfw implements window.Window on top of GLFW for Windows.
//
// GLFW needs cgo. On Windows goffi has no cgo restriction, so the binary can
// link both; macOS and Linux use the cgo-free window/cocoa and window/x11.
//
// The window is created without a client API (no OpenGL context); the GPU
// surface is created from the native handle instead. GLFW requires every
// call to happen on the main thread, so this package locks the main
// goroutine to its OS thread at init.
package glfw

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/triangle/window"
)

func init() {
	runtime.LockOSThread()
}

// idleWait bounds, in seconds, how long Run blocks on events while the
// window is minimized.
const idleWait = 0.05

// Config describes the window to create.
type Config struct {
	Title  string
	Width  int
	Height int
}

// Window is a desktop window backed by GLFW.
type Window struct {
	win *glfw.Window

	render window.Subscribers[window.RenderFunc]
	resize window.Subscribers[window.ResizeFunc]

	nativeOnce sync.Once
	native     window.Handle
	nativeErr  error

	closeOnce sync.Once
}

var _ window.Window = (*Window)(nil)

// New initializes GLFW and opens a resizable window.
func New(cfg Config) (*Window, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("glfw: invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw: init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfw: create window: %w", err)
	}

	w := &Window{win: win}
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		for _, fn := range w.resize.Snapshot() {
			fn(width, height)
		}
	})
	return w, nil
}

func (w *Window) Size() (int, int) { return w.win.GetSize() }

func (w *Window) ScaleFactor() float64 {
	x, _ := w.win.GetContentScale()
	if x <= 0 {
		return 1
	}
	return float64(x)
}

// RequestRedraw wakes the event loop. The loop renders continuously, so the
// wake-up only shortens a pending wait.
func (w *Window) RequestRedraw() { glfw.PostEmptyEvent() }

func (w *Window) Platform() window.Platform { return nativePlatform }

// NativeHandle returns the surface handles. The lookup runs once; on macOS
// it installs a CAMetalLayer on the content view.
func (w *Window) NativeHandle() (window.Handle, error) {
	w.nativeOnce.Do(func() {
		w.native, w.nativeErr = nativeHandle(w.win)
	})
	return w.native, w.nativeErr
}

func (w *Window) FramebufferSize() (int, int) { return w.win.GetFramebufferSize() }

func (w *Window) OnRender(fn window.RenderFunc) func() { return w.render.Add(fn) }

func (w *Window) OnResize(fn window.ResizeFunc) func() { return w.resize.Add(fn) }

// Run polls events and invokes render subscribers once per iteration until
// the user closes the window or ctx is done. While minimized it waits for
// events instead of rendering.
func (w *Window) Run(ctx context.Context) error {
	last := glfw.GetTime()
	for !w.win.ShouldClose() {
		if ctx.Err() != nil {
			return nil
		}
		glfw.PollEvents()

		if fw, fh := w.win.GetFramebufferSize(); fw == 0 || fh == 0 {
			glfw.WaitEventsTimeout(idleWait)
			last = glfw.GetTime()
			continue
		}

		now := glfw.GetTime()
		elapsed := now - last
		last = now

		for _, fn := range w.render.Snapshot() {
			fn(elapsed)
		}
	}
	return nil
}

// Close destroys the window and terminates GLFW.
func (w *Window) Close() error {
	w.closeOnce.Do(func() {
		w.win.Destroy()
		glfw.Terminate()
	})
	return nil
}
