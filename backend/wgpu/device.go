package wgpu

import (
	"errors"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/triangle/gpucore"
)

type adapter struct {
	adapter *wgpu.Adapter
}

// Info returns the adapter description reported by the HAL backend.
func (a *adapter) Info() gpucore.AdapterInfo {
	return adapterInfo(a.adapter.Info())
}

// adapterInfo converts wgpu adapter info to gpucore.AdapterInfo.
func adapterInfo(info wgpu.AdapterInfo) gpucore.AdapterInfo {
	return gpucore.AdapterInfo{
		AdapterInfo: gpucontext.AdapterInfo{
			Name: info.Name,
			Type: adapterType(info.DeviceType),
		},
		Vendor:  info.Vendor,
		Driver:  info.Driver,
		Backend: info.Backend,
	}
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}

func (a *adapter) RequestDevice(desc *gpucore.DeviceDescriptor, cb gpucore.RequestDeviceCallback) {
	d := &wgpu.DeviceDescriptor{RequiredLimits: wgpu.DefaultLimits()}
	if desc != nil {
		d.Label = desc.Label
	}
	dev, err := a.adapter.RequestDevice(d)
	if err != nil {
		cb(requestStatus(err), nil, err.Error())
		return
	}
	cb(gpucore.RequestStatusSuccess, &device{dev: dev}, "")
}

func (a *adapter) Release() { a.adapter.Release() }

type device struct {
	dev *wgpu.Device

	mu      sync.Mutex
	onError gpucore.ErrorCallback

	// views released before the submission that uses them.
	pendingViews []*wgpu.TextureView
}

func (d *device) SetUncapturedErrorCallback(cb gpucore.ErrorCallback) {
	d.mu.Lock()
	d.onError = cb
	d.mu.Unlock()
}

// report delivers err to the uncaptured error callback, or logs it when no
// callback is installed.
func (d *device) report(op string, err error) {
	if err == nil {
		return
	}
	d.mu.Lock()
	cb := d.onError
	d.mu.Unlock()

	typ := classify(err)
	if cb == nil {
		wgpu.Logger().Error("wgpu: uncaptured device error", "op", op, "type", typ, "err", err)
		return
	}
	cb(typ, op+": "+err.Error())
}

// classify maps a wgpu error to the WebGPU error category it belongs to.
func classify(err error) gpucore.ErrorType {
	var gpuErr *wgpu.GPUError
	switch {
	case errors.Is(err, wgpu.ErrDeviceLost):
		return gpucore.ErrorTypeDeviceLost
	case errors.Is(err, wgpu.ErrOutOfMemory):
		return gpucore.ErrorTypeOutOfMemory
	case errors.As(err, &gpuErr):
		switch gpuErr.Type {
		case wgpu.ErrorFilterOutOfMemory:
			return gpucore.ErrorTypeOutOfMemory
		case wgpu.ErrorFilterInternal:
			return gpucore.ErrorTypeInternal
		default:
			return gpucore.ErrorTypeValidation
		}
	default:
		return gpucore.ErrorTypeValidation
	}
}

func (d *device) CreateCommandEncoder(label string) gpucore.CommandEncoder {
	enc, err := d.dev.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		d.report("CreateCommandEncoder", err)
	}
	return &commandEncoder{device: d, enc: enc}
}

func (d *device) GetQueue() gpucore.Queue {
	return &queue{device: d, q: d.dev.Queue()}
}

// holdView keeps v alive until the next submission.
func (d *device) holdView(v *wgpu.TextureView) {
	d.mu.Lock()
	d.pendingViews = append(d.pendingViews, v)
	d.mu.Unlock()
}

// releaseViews hands every held view to wgpu for destruction after the
// latest submission.
func (d *device) releaseViews() {
	d.mu.Lock()
	views := d.pendingViews
	d.pendingViews = nil
	d.mu.Unlock()
	for _, v := range views {
		v.Release()
	}
}

// Destroy waits for the GPU to finish all submitted work. The device
// itself is freed by Release.
func (d *device) Destroy() {
	if err := d.dev.WaitIdle(); err != nil && !errors.Is(err, wgpu.ErrReleased) {
		d.report("Destroy", err)
	}
	d.releaseViews()
}

func (d *device) Release() {
	d.releaseViews()
	d.dev.Release()
}
