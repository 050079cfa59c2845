//go:build linux

package x11

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"
)

// xlibDisplay is an Xlib connection opened through libX11 with goffi.
// VK_KHR_xlib_surface takes a Display*, which the pure-Go connection
// cannot provide.
type xlibDisplay struct {
	display  uintptr
	closeFn  unsafe.Pointer
	closeCIF *types.CallInterface
}

func openXlibDisplay() (*xlibDisplay, error) {
	lib, err := ffi.LoadLibrary("libX11.so.6")
	if err != nil {
		return nil, fmt.Errorf("x11: load libX11: %w", err)
	}
	openFn, err := ffi.GetSymbol(lib, "XOpenDisplay")
	if err != nil {
		return nil, fmt.Errorf("x11: XOpenDisplay: %w", err)
	}
	closeFn, err := ffi.GetSymbol(lib, "XCloseDisplay")
	if err != nil {
		return nil, fmt.Errorf("x11: XCloseDisplay: %w", err)
	}

	openCIF := &types.CallInterface{}
	if err := ffi.PrepareCallInterface(openCIF, types.DefaultCall,
		types.PointerTypeDescriptor, []*types.TypeDescriptor{types.PointerTypeDescriptor}); err != nil {
		return nil, fmt.Errorf("x11: prepare XOpenDisplay: %w", err)
	}
	closeCIF := &types.CallInterface{}
	if err := ffi.PrepareCallInterface(closeCIF, types.DefaultCall,
		types.SInt32TypeDescriptor, []*types.TypeDescriptor{types.PointerTypeDescriptor}); err != nil {
		return nil, fmt.Errorf("x11: prepare XCloseDisplay: %w", err)
	}

	name := os.Getenv("DISPLAY")
	var cname []byte
	var arg uintptr
	if name != "" {
		cname = append([]byte(name), 0)
		arg = uintptr(unsafe.Pointer(&cname[0]))
	}

	var display uintptr
	args := [1]unsafe.Pointer{unsafe.Pointer(&arg)}
	if err := ffi.CallFunction(openCIF, openFn, unsafe.Pointer(&display), args[:]); err != nil {
		return nil, fmt.Errorf("x11: XOpenDisplay: %w", err)
	}
	if display == 0 {
		return nil, fmt.Errorf("x11: XOpenDisplay(%q) returned NULL", name)
	}
	return &xlibDisplay{display: display, closeFn: closeFn, closeCIF: closeCIF}, nil
}

// close calls XCloseDisplay. A nil receiver is a no-op.
func (d *xlibDisplay) close() error {
	if d == nil || d.display == 0 {
		return nil
	}
	var result int32
	args := [1]unsafe.Pointer{unsafe.Pointer(&d.display)}
	err := ffi.CallFunction(d.closeCIF, d.closeFn, unsafe.Pointer(&result), args[:])
	d.display = 0
	if err != nil {
		return fmt.Errorf("x11: XCloseDisplay: %w", err)
	}
	return nil
}
