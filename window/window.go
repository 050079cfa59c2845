// Package window defines the window collaborator consumed by the triangle
// context: native handles, pixel dimensions, the hosting platform and a
// per-frame callback driven by the window's event loop.
//
// Implementations live in sub-packages: window/x11, window/cocoa and
// window/glfw (Windows) for desktop windows, and window/headless for tests
// and offscreen runs.
package window

import (
	"context"
	"errors"

	"github.com/gogpu/gpucontext"
)

// Platform identifies the windowing system hosting a window.
type Platform uint8

const (
	PlatformUnknown Platform = iota
	PlatformWin32
	PlatformCocoa
	PlatformX11
	PlatformWayland
	PlatformHeadless
)

// Platforms lists every platform tag.
var Platforms = []Platform{
	PlatformUnknown,
	PlatformWin32,
	PlatformCocoa,
	PlatformX11,
	PlatformWayland,
	PlatformHeadless,
}

func (p Platform) String() string {
	switch p {
	case PlatformWin32:
		return "Win32"
	case PlatformCocoa:
		return "Cocoa"
	case PlatformX11:
		return "X11"
	case PlatformWayland:
		return "Wayland"
	case PlatformHeadless:
		return "Headless"
	default:
		return "Unknown"
	}
}

// ErrNoNativeHandle is returned by NativeHandle when the window cannot
// expose handles a GPU surface can be created from.
var ErrNoNativeHandle = errors.New("window: native handle not available")

// Handle is the native identity of a window.
// See gpucore.SurfaceTarget for the per-platform meaning of Display and Window.
type Handle struct {
	Platform Platform
	Display  uintptr
	Window   uintptr
}

// RenderFunc is invoked once per event-loop tick with the seconds elapsed
// since the previous tick.
type RenderFunc func(elapsed float64)

// ResizeFunc is invoked with the new framebuffer size in pixels.
type ResizeFunc func(width, height int)

// Window is a platform window that drives rendering.
type Window interface {
	gpucontext.WindowProvider

	// Platform reports the windowing system hosting the window.
	Platform() Platform

	// NativeHandle returns the handles a GPU surface is created from.
	NativeHandle() (Handle, error)

	// FramebufferSize returns the drawable size in pixels.
	FramebufferSize() (width, height int)

	// OnRender subscribes fn to render ticks and returns its unsubscribe func.
	OnRender(fn RenderFunc) (unsubscribe func())

	// OnResize subscribes fn to framebuffer resizes and returns its
	// unsubscribe func.
	OnResize(fn ResizeFunc) (unsubscribe func())

	// Run pumps the event loop until the window is closed or ctx is done.
	// A graceful close returns nil.
	Run(ctx context.Context) error

	// Close destroys the window. It is safe to call more than once.
	Close() error
}
