//go:build darwin

package cocoa

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"
	"github.com/gogpu/wgpu/hal/metal"
)

// rect mirrors NSRect: origin then size, all CGFloat.
type rect struct {
	X, Y, W, H float64
}

var rectType = &types.TypeDescriptor{
	Size:      32,
	Alignment: 8,
	Kind:      types.StructType,
	Members: []*types.TypeDescriptor{
		types.DoubleTypeDescriptor,
		types.DoubleTypeDescriptor,
		types.DoubleTypeDescriptor,
		types.DoubleTypeDescriptor,
	},
}

// objc holds the calls hal/metal cannot make: its MsgSend only passes
// pointer-sized integers, while AppKit needs NSRect and CGFloat arguments
// and returns.
var objc struct {
	once sync.Once
	err  error

	// CallInterface is not safe for concurrent use.
	mu        sync.Mutex
	msgSend   unsafe.Pointer
	stret     unsafe.Pointer
	initRect  types.CallInterface
	getRect   types.CallInterface
	getDouble types.CallInterface
	setDouble types.CallInterface
}

func loadObjC() error {
	objc.once.Do(func() { objc.err = prepareObjC() })
	return objc.err
}

func prepareObjC() error {
	if err := metal.Init(); err != nil {
		return fmt.Errorf("cocoa: objc runtime: %w", err)
	}
	if _, err := ffi.LoadLibrary("/System/Library/Frameworks/AppKit.framework/AppKit"); err != nil {
		return fmt.Errorf("cocoa: load AppKit: %w", err)
	}
	lib, err := ffi.LoadLibrary("/usr/lib/libobjc.A.dylib")
	if err != nil {
		return fmt.Errorf("cocoa: load libobjc: %w", err)
	}
	if objc.msgSend, err = ffi.GetSymbol(lib, "objc_msgSend"); err != nil {
		return fmt.Errorf("cocoa: objc_msgSend: %w", err)
	}
	// arm64 has no stret variant.
	if objc.stret, err = ffi.GetSymbol(lib, "objc_msgSend_stret"); err != nil {
		objc.stret = objc.msgSend
	}

	ptr := types.PointerTypeDescriptor
	cifs := []struct {
		cif  *types.CallInterface
		ret  *types.TypeDescriptor
		args []*types.TypeDescriptor
	}{
		// initWithContentRect:styleMask:backing:defer:
		{&objc.initRect, ptr, []*types.TypeDescriptor{ptr, ptr, rectType, types.UInt64TypeDescriptor, types.UInt64TypeDescriptor, types.UInt8TypeDescriptor}},
		{&objc.getRect, rectType, []*types.TypeDescriptor{ptr, ptr}},
		{&objc.getDouble, types.DoubleTypeDescriptor, []*types.TypeDescriptor{ptr, ptr}},
		{&objc.setDouble, types.VoidTypeDescriptor, []*types.TypeDescriptor{ptr, ptr, types.DoubleTypeDescriptor}},
	}
	for _, c := range cifs {
		if err := ffi.PrepareCallInterface(c.cif, types.DefaultCall, c.ret, c.args); err != nil {
			return fmt.Errorf("cocoa: prepare call: %w", err)
		}
	}
	return nil
}

func call(cif *types.CallInterface, fn unsafe.Pointer, ret unsafe.Pointer, args ...unsafe.Pointer) {
	objc.mu.Lock()
	defer objc.mu.Unlock()
	_ = ffi.CallFunction(cif, fn, ret, args)
}

// initWindow sends initWithContentRect:styleMask:backing:defer: to an
// allocated NSWindow.
func initWindow(obj metal.ID, content rect, style, backing uint64) metal.ID {
	self, sel := uintptr(obj), uintptr(metal.Sel("initWithContentRect:styleMask:backing:defer:"))
	var deferCreate uint8
	var result metal.ID
	call(&objc.initRect, objc.msgSend, unsafe.Pointer(&result),
		unsafe.Pointer(&self), unsafe.Pointer(&sel), unsafe.Pointer(&content),
		unsafe.Pointer(&style), unsafe.Pointer(&backing), unsafe.Pointer(&deferCreate))
	return result
}

// sendRect sends a selector returning NSRect.
func sendRect(obj metal.ID, sel string) rect {
	var r rect
	if obj == 0 {
		return r
	}
	fn := objc.msgSend
	if runtime.GOARCH == "amd64" {
		fn = objc.stret
	}
	self, s := uintptr(obj), uintptr(metal.Sel(sel))
	call(&objc.getRect, fn, unsafe.Pointer(&r), unsafe.Pointer(&self), unsafe.Pointer(&s))
	return r
}

// sendDouble sends a selector returning CGFloat.
func sendDouble(obj metal.ID, sel string) float64 {
	var v float64
	if obj == 0 {
		return v
	}
	self, s := uintptr(obj), uintptr(metal.Sel(sel))
	call(&objc.getDouble, objc.msgSend, unsafe.Pointer(&v), unsafe.Pointer(&self), unsafe.Pointer(&s))
	return v
}

// sendSetDouble sends a selector taking one CGFloat argument.
func sendSetDouble(obj metal.ID, sel string, v float64) {
	if obj == 0 {
		return
	}
	self, s := uintptr(obj), uintptr(metal.Sel(sel))
	call(&objc.setDouble, objc.msgSend, nil, unsafe.Pointer(&self), unsafe.Pointer(&s), unsafe.Pointer(&v))
}
