package wgpu

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	// Link every HAL backend available on this platform.
	_ "github.com/gogpu/wgpu/hal/allbackends"

	"github.com/gogpu/triangle/backend"
	"github.com/gogpu/triangle/gpucore"
)

func init() {
	backend.Register(backend.NameWGPU, func() gpucore.Driver { return New() })
}

// Driver creates gogpu/wgpu instances.
type Driver struct{}

var _ gpucore.Driver = (*Driver)(nil)

// New returns a wgpu driver.
func New() *Driver { return &Driver{} }

// Name returns backend.NameWGPU.
func (*Driver) Name() string { return backend.NameWGPU }

// SetLogger routes the log output of the whole wgpu stack (public API, core
// validation and HAL backends) to l. nil silences it.
func (*Driver) SetLogger(l *slog.Logger) {
	wgpu.SetLogger(l)
}

// CreateInstance creates a wgpu instance restricted to desc.Backend.
func (*Driver) CreateInstance(desc *gpucore.InstanceDescriptor) (gpucore.Instance, error) {
	d := wgpu.InstanceDescriptor{Backends: wgpu.BackendsPrimary}
	if desc != nil {
		d.Backends = backendsFor(desc.Backend)
		d.Flags = desc.Flags
	}
	inst, err := wgpu.CreateInstance(&d)
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}
	return &instance{inst: inst}, nil
}

// backendsFor returns the instance backend mask for b.
func backendsFor(b gputypes.Backend) gputypes.Backends {
	switch b {
	case gputypes.BackendVulkan:
		return wgpu.BackendsVulkan
	case gputypes.BackendMetal:
		return wgpu.BackendsMetal
	case gputypes.BackendDX12:
		return wgpu.BackendsDX12
	case gputypes.BackendGL:
		return wgpu.BackendsGL
	default:
		return wgpu.BackendsPrimary
	}
}

type instance struct {
	inst *wgpu.Instance
}

func (i *instance) CreateSurface(target gpucore.SurfaceTarget) (gpucore.Surface, error) {
	s, err := i.inst.CreateSurface(target.Display, target.Window)
	if err != nil {
		return nil, err
	}
	return &surface{surf: s}, nil
}

func (i *instance) RequestAdapter(opts *gpucore.RequestAdapterOptions, cb gpucore.RequestAdapterCallback) {
	var o *wgpu.RequestAdapterOptions
	if opts != nil {
		o = &wgpu.RequestAdapterOptions{
			PowerPreference:      opts.PowerPreference,
			ForceFallbackAdapter: opts.ForceFallbackAdapter,
		}
		if s, ok := opts.CompatibleSurface.(*surface); ok {
			o.CompatibleSurface = s.surf
		}
	}

	a, err := i.inst.RequestAdapter(o)
	if err != nil {
		cb(requestStatus(err), nil, err.Error())
		return
	}
	cb(gpucore.RequestStatusSuccess, &adapter{adapter: a}, "")
}

func (i *instance) Release() { i.inst.Release() }

// requestStatus maps a request failure to its callback status.
func requestStatus(err error) gpucore.RequestStatus {
	switch {
	case errors.Is(err, wgpu.ErrNoAdapters), errors.Is(err, wgpu.ErrNoBackends):
		return gpucore.RequestStatusUnavailable
	case errors.Is(err, wgpu.ErrReleased):
		return gpucore.RequestStatusInstanceDropped
	default:
		return gpucore.RequestStatusError
	}
}

var (
	_ gpucore.Instance          = (*instance)(nil)
	_ gpucore.Adapter           = (*adapter)(nil)
	_ gpucore.Device            = (*device)(nil)
	_ gpucore.Surface           = (*surface)(nil)
	_ gpucore.SurfaceTexture    = (*surfaceTexture)(nil)
	_ gpucore.TextureView       = (*textureView)(nil)
	_ gpucore.ShaderModule      = (*shaderModule)(nil)
	_ gpucore.RenderPipeline    = (*renderPipeline)(nil)
	_ gpucore.CommandEncoder    = (*commandEncoder)(nil)
	_ gpucore.RenderPassEncoder = (*renderPass)(nil)
	_ gpucore.CommandBuffer     = (*commandBuffer)(nil)
	_ gpucore.Queue             = (*queue)(nil)
)
