package gpucore

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Driver creates instances for one GPU implementation.
type Driver interface {
	// Name returns the registry name of the driver.
	Name() string

	// CreateInstance creates the root API object.
	CreateInstance(desc *InstanceDescriptor) (Instance, error)
}

// Instance is the root handle of the GPU API.
type Instance interface {
	// CreateSurface binds a native window to a presentable surface.
	CreateSurface(target SurfaceTarget) (Surface, error)

	// RequestAdapter asks for an adapter. The result is delivered to cb.
	RequestAdapter(opts *RequestAdapterOptions, cb RequestAdapterCallback)

	Release()
}

// Surface is a window's presentable drawing target.
type Surface interface {
	// Configure (re)configures the presentation chain for device.
	Configure(device Device, config *gputypes.SurfaceConfiguration) error

	// Unconfigure drops the current configuration.
	Unconfigure()

	// GetCurrentTexture acquires the texture for the next frame.
	// A non-nil error means the device is unusable for this frame
	// (see ErrOutOfMemory and ErrDeviceLost); status is meaningful otherwise.
	// The returned texture is nil unless status is Good or Suboptimal.
	GetCurrentTexture() (SurfaceTexture, gputypes.SurfaceStatus, error)

	// Present schedules the acquired texture for display.
	Present(texture SurfaceTexture)

	Release()
}

// Adapter is a physical GPU and its capabilities.
type Adapter interface {
	// Info describes the adapter.
	Info() AdapterInfo

	// RequestDevice asks for a logical device. The result is delivered to cb.
	RequestDevice(desc *DeviceDescriptor, cb RequestDeviceCallback)

	Release()
}

// Device is the logical GPU context used to create resources and submit work.
type Device interface {
	// SetUncapturedErrorCallback installs the process-lifetime error sink.
	// Passing nil removes it.
	SetUncapturedErrorCallback(cb ErrorCallback)

	CreateShaderModule(desc *ShaderModuleDescriptor) (ShaderModule, error)
	CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipeline, error)
	CreateCommandEncoder(label string) CommandEncoder

	// GetQueue returns a handle to the device queue. Each call returns a
	// handle that must be released on its own.
	GetQueue() Queue

	// Destroy tears down device-owned GPU memory. The handle itself stays
	// valid until Release.
	Destroy()

	Release()
}

// ShaderModule is a compiled shader.
type ShaderModule interface {
	Release()
}

// RenderPipeline is a fixed draw configuration.
type RenderPipeline interface {
	Release()
}

// SurfaceTexture is the texture backing one frame's presentation.
type SurfaceTexture interface {
	// CreateView creates a default full-resource view.
	CreateView() TextureView

	Release()
}

// TextureView is a view into a texture usable as a render attachment.
type TextureView interface {
	Release()
}

// CommandEncoder records GPU commands into a command buffer.
type CommandEncoder interface {
	BeginRenderPass(desc *RenderPassDescriptor) RenderPassEncoder
	Finish() CommandBuffer
	Release()
}

// RenderPassEncoder records draw commands for one render pass.
type RenderPassEncoder interface {
	SetPipeline(pipeline RenderPipeline)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	End()
	Release()
}

// CommandBuffer is a finished recording ready for submission.
type CommandBuffer interface {
	Release()
}

// Queue is the device's submission channel.
type Queue interface {
	Submit(buffers ...CommandBuffer)
	Release()
}

// AdapterInfo describes an adapter for logging and selection.
type AdapterInfo struct {
	gpucontext.AdapterInfo

	Vendor  string
	Driver  string
	Backend gputypes.Backend
}

// SurfaceTarget carries the native handles a surface is created from.
//
// Per platform:
//   - Win32: Display 0, Window HWND
//   - Cocoa: Display 0, Window CAMetalLayer*
//   - X11: Display Display*, Window Window
//   - Wayland: Display wl_display*, Window wl_surface*
type SurfaceTarget struct {
	Display uintptr
	Window  uintptr
}
