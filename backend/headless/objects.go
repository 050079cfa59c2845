package headless

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/triangle/gpucore"
)

type instance struct {
	object
	desc gpucore.InstanceDescriptor
}

func (i *instance) CreateSurface(target gpucore.SurfaceTarget) (gpucore.Surface, error) {
	d := i.driver
	d.record("CreateSurface")
	if d.cfg.surfaceErr != nil {
		return nil, d.cfg.surfaceErr
	}
	if target.Window == 0 {
		return nil, ErrInvalidTarget
	}
	s := &surface{}
	d.track(&s.object, KindSurface, "ReleaseSurface")
	return s, nil
}

func (i *instance) RequestAdapter(opts *gpucore.RequestAdapterOptions, cb gpucore.RequestAdapterCallback) {
	d := i.driver
	d.record("RequestAdapter")
	d.mu.Lock()
	if opts != nil {
		d.adapterOp = append(d.adapterOp, *opts)
	} else {
		d.adapterOp = append(d.adapterOp, gpucore.RequestAdapterOptions{})
	}
	d.mu.Unlock()

	mode := d.cfg.adapterMode
	d.deliver(mode, func() {
		switch {
		case d.cfg.adapterFail != "":
			cb(gpucore.RequestStatusError, nil, d.cfg.adapterFail)
		case mode == CallbackNilHandle:
			cb(gpucore.RequestStatusSuccess, nil, "")
		case mode == CallbackTypedNil:
			cb(gpucore.RequestStatusSuccess, (*adapter)(nil), "")
		default:
			a := &adapter{backend: i.desc.Backend}
			d.track(&a.object, KindAdapter, "ReleaseAdapter")
			cb(gpucore.RequestStatusSuccess, a, "")
		}
	})
}

type surface struct {
	object
	configured bool
}

func (s *surface) Configure(dev gpucore.Device, config *gputypes.SurfaceConfiguration) error {
	d := s.driver
	d.record("ConfigureSurface")
	if d.cfg.configureErr != nil {
		return d.cfg.configureErr
	}
	if dev == nil || config == nil {
		return fmt.Errorf("headless: configure: nil device or configuration")
	}
	d.mu.Lock()
	d.configs = append(d.configs, *config)
	s.configured = true
	d.mu.Unlock()
	return nil
}

func (s *surface) Unconfigure() {
	d := s.driver
	d.record("UnconfigureSurface")
	d.mu.Lock()
	s.configured = false
	d.mu.Unlock()
}

func (s *surface) GetCurrentTexture() (gpucore.SurfaceTexture, gputypes.SurfaceStatus, error) {
	d := s.driver
	d.record("AcquireTexture")
	a := d.nextAcquire()
	if a.Err != nil {
		return nil, gputypes.SurfaceStatusUnknown, a.Err
	}
	if a.Status != gputypes.SurfaceStatusGood && a.Status != gputypes.SurfaceStatusSuboptimal {
		return nil, a.Status, nil
	}
	t := &surfaceTexture{}
	d.track(&t.object, KindSurfaceTexture, "ReleaseTexture")
	return t, a.Status, nil
}

func (s *surface) Present(tex gpucore.SurfaceTexture) {
	d := s.driver
	d.record("Present")
	st, ok := tex.(*surfaceTexture)
	if !ok || st.isReleased() {
		d.mu.Lock()
		d.violations++
		d.mu.Unlock()
		return
	}
	d.mu.Lock()
	st.presented = true
	d.mu.Unlock()
}

type adapter struct {
	object
	backend gputypes.Backend
}

func (a *adapter) Info() gpucore.AdapterInfo {
	return gpucore.AdapterInfo{
		AdapterInfo: gpucontext.AdapterInfo{
			Name: "Headless Adapter",
			Type: gpucontext.AdapterTypeSoftware,
		},
		Vendor:  "gogpu",
		Driver:  "headless",
		Backend: a.backend,
	}
}

func (a *adapter) RequestDevice(desc *gpucore.DeviceDescriptor, cb gpucore.RequestDeviceCallback) {
	d := a.driver
	d.record("RequestDevice")
	mode := d.cfg.deviceMode
	d.deliver(mode, func() {
		switch {
		case d.cfg.deviceFail != "":
			cb(gpucore.RequestStatusError, nil, d.cfg.deviceFail)
		case mode == CallbackNilHandle:
			cb(gpucore.RequestStatusSuccess, nil, "")
		case mode == CallbackTypedNil:
			cb(gpucore.RequestStatusSuccess, (*device)(nil), "")
		default:
			dev := &device{}
			d.track(&dev.object, KindDevice, "ReleaseDevice")
			d.mu.Lock()
			d.device = dev
			d.mu.Unlock()
			cb(gpucore.RequestStatusSuccess, dev, "")
		}
	})
}

type device struct {
	object
	errMu     sync.Mutex
	onError   gpucore.ErrorCallback
	destroyed bool
}

func (dev *device) SetUncapturedErrorCallback(cb gpucore.ErrorCallback) {
	dev.driver.record("SetUncapturedErrorCallback")
	dev.errMu.Lock()
	dev.onError = cb
	dev.errMu.Unlock()
}

func (dev *device) raise(typ gpucore.ErrorType, msg string) bool {
	dev.errMu.Lock()
	cb := dev.onError
	dev.errMu.Unlock()
	if cb == nil {
		return false
	}
	cb(typ, msg)
	return true
}

func (dev *device) CreateShaderModule(desc *gpucore.ShaderModuleDescriptor) (gpucore.ShaderModule, error) {
	d := dev.driver
	d.record("CreateShaderModule")
	if d.cfg.shaderErr != nil {
		return nil, d.cfg.shaderErr
	}
	if desc == nil || desc.Source == nil {
		return nil, fmt.Errorf("headless: shader module: missing source")
	}
	d.mu.Lock()
	d.shaders = append(d.shaders, *desc)
	d.mu.Unlock()

	m := &shaderModule{}
	d.track(&m.object, KindShaderModule, "ReleaseShaderModule")
	return m, nil
}

func (dev *device) CreateRenderPipeline(desc *gpucore.RenderPipelineDescriptor) (gpucore.RenderPipeline, error) {
	d := dev.driver
	d.record("CreateRenderPipeline")
	if d.cfg.pipelineErr != nil {
		return nil, d.cfg.pipelineErr
	}
	if desc == nil || desc.Vertex.Module == nil || desc.Fragment.Module == nil {
		return nil, fmt.Errorf("headless: render pipeline: missing shader stage")
	}
	d.mu.Lock()
	d.pipelines = append(d.pipelines, *desc)
	d.mu.Unlock()

	p := &renderPipeline{}
	d.track(&p.object, KindRenderPipeline, "ReleaseRenderPipeline")
	return p, nil
}

func (dev *device) CreateCommandEncoder(string) gpucore.CommandEncoder {
	d := dev.driver
	d.record("CreateEncoder")
	e := &commandEncoder{device: dev}
	d.track(&e.object, KindCommandEncoder, "ReleaseEncoder")
	return e
}

func (dev *device) GetQueue() gpucore.Queue {
	d := dev.driver
	d.record("GetQueue")
	q := &queue{}
	d.track(&q.object, KindQueue, "ReleaseQueue")
	return q
}

func (dev *device) Destroy() {
	d := dev.driver
	d.record("DestroyDevice")
	d.mu.Lock()
	dev.destroyed = true
	d.mu.Unlock()
}

type shaderModule struct{ object }

type renderPipeline struct{ object }

type surfaceTexture struct {
	object
	presented bool
}

func (t *surfaceTexture) CreateView() gpucore.TextureView {
	d := t.driver
	d.record("CreateView")
	v := &textureView{}
	d.track(&v.object, KindTextureView, "ReleaseView")
	return v
}

type textureView struct{ object }

type commandEncoder struct {
	object
	device *device
}

func (e *commandEncoder) BeginRenderPass(desc *gpucore.RenderPassDescriptor) gpucore.RenderPassEncoder {
	d := e.driver
	d.record("BeginRenderPass")
	if desc != nil {
		d.mu.Lock()
		for _, ca := range desc.ColorAttachments {
			d.clears = append(d.clears, ca.ClearValue)
		}
		d.mu.Unlock()
	}
	p := &renderPass{device: e.device}
	d.track(&p.object, KindRenderPassEncoder, "ReleaseRenderPassEncoder")
	return p
}

func (e *commandEncoder) Finish() gpucore.CommandBuffer {
	d := e.driver
	d.record("Finish")
	b := &commandBuffer{}
	d.track(&b.object, KindCommandBuffer, "ReleaseCommandBuffer")
	return b
}

type renderPass struct {
	object
	device *device
}

func (p *renderPass) SetPipeline(pipeline gpucore.RenderPipeline) {
	d := p.driver
	d.record("SetPipeline")
	if rp, ok := pipeline.(*renderPipeline); !ok || rp.isReleased() {
		p.device.raise(gpucore.ErrorTypeValidation, "SetPipeline: invalid pipeline")
	}
}

func (p *renderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	d := p.driver
	d.record(fmt.Sprintf("Draw(%d,%d,%d,%d)", vertexCount, instanceCount, firstVertex, firstInstance))
	d.mu.Lock()
	d.draws = append(d.draws, DrawCall{
		VertexCount:   vertexCount,
		InstanceCount: instanceCount,
		FirstVertex:   firstVertex,
		FirstInstance: firstInstance,
	})
	d.mu.Unlock()
	if e := d.cfg.drawErr; e != nil {
		p.device.raise(e.Type, e.Message)
	}
}

func (p *renderPass) End() {
	p.driver.record("EndRenderPass")
}

type commandBuffer struct{ object }

type queue struct{ object }

func (q *queue) Submit(buffers ...gpucore.CommandBuffer) {
	q.driver.record("Submit")
}
