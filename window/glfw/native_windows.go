//go:build windows

package glfw

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/triangle/window"
)

const nativePlatform = window.PlatformWin32

func nativeHandle(win *glfw.Window) (window.Handle, error) {
	hwnd := uintptr(unsafe.Pointer(win.GetWin32Window()))
	if hwnd == 0 {
		return window.Handle{}, window.ErrNoNativeHandle
	}
	return window.Handle{Platform: nativePlatform, Window: hwnd}, nil
}
