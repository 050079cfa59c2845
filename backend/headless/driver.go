// Package headless implements gpucore.Driver without a GPU.
//
// Every call is appended to a journal and every handle is tracked in a
// table of live objects, so tests can assert exact call order and detect
// leaks or double releases. Failures can be injected per stage.
package headless

import (
	"errors"
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/triangle/backend"
	"github.com/gogpu/triangle/gpucore"
)

func init() {
	backend.Register(backend.NameHeadless, func() gpucore.Driver { return New() })
}

// Kind names a handle table.
type Kind string

// Handle kinds tracked by the driver.
const (
	KindInstance          Kind = "Instance"
	KindSurface           Kind = "Surface"
	KindAdapter           Kind = "Adapter"
	KindDevice            Kind = "Device"
	KindShaderModule      Kind = "ShaderModule"
	KindRenderPipeline    Kind = "RenderPipeline"
	KindSurfaceTexture    Kind = "SurfaceTexture"
	KindTextureView       Kind = "TextureView"
	KindCommandEncoder    Kind = "CommandEncoder"
	KindRenderPassEncoder Kind = "RenderPassEncoder"
	KindCommandBuffer     Kind = "CommandBuffer"
	KindQueue             Kind = "Queue"
)

// ErrInvalidTarget is returned by CreateSurface for a zero window handle.
var ErrInvalidTarget = errors.New("headless: invalid surface target")

// CallbackMode controls how request callbacks are delivered.
type CallbackMode uint8

const (
	// CallbackSync invokes the callback before the request call returns.
	CallbackSync CallbackMode = iota
	// CallbackDeferred invokes the callback from a goroutine after the
	// configured delay.
	CallbackDeferred
	// CallbackNever drops the callback.
	CallbackNever
	// CallbackNilHandle reports success without a handle.
	CallbackNilHandle
	// CallbackTypedNil reports success with a nil pointer wrapped in the
	// handle interface.
	CallbackTypedNil
)

// Acquire is one scripted result of Surface.GetCurrentTexture.
type Acquire struct {
	Status gputypes.SurfaceStatus
	Err    error
}

// DrawCall records the arguments of one Draw.
type DrawCall struct {
	VertexCount   uint32
	InstanceCount uint32
	FirstVertex   uint32
	FirstInstance uint32
}

// InjectedError is an error raised on the device error callback.
type InjectedError struct {
	Type    gpucore.ErrorType
	Message string
}

// Option configures a Driver.
type Option func(*config)

type config struct {
	instanceErr  error
	surfaceErr   error
	shaderErr    error
	pipelineErr  error
	configureErr error

	adapterFail string
	deviceFail  string

	adapterMode CallbackMode
	deviceMode  CallbackMode
	delay       time.Duration

	acquire []Acquire
	drawErr *InjectedError
}

// WithInstanceError makes CreateInstance fail.
func WithInstanceError(err error) Option { return func(c *config) { c.instanceErr = err } }

// WithSurfaceError makes CreateSurface fail.
func WithSurfaceError(err error) Option { return func(c *config) { c.surfaceErr = err } }

// WithShaderModuleError makes CreateShaderModule fail.
func WithShaderModuleError(err error) Option { return func(c *config) { c.shaderErr = err } }

// WithPipelineError makes CreateRenderPipeline fail.
func WithPipelineError(err error) Option { return func(c *config) { c.pipelineErr = err } }

// WithConfigureError makes Surface.Configure fail.
func WithConfigureError(err error) Option { return func(c *config) { c.configureErr = err } }

// WithAdapterFailure makes RequestAdapter report an error status with msg.
func WithAdapterFailure(msg string) Option { return func(c *config) { c.adapterFail = msg } }

// WithDeviceFailure makes RequestDevice report an error status with msg.
func WithDeviceFailure(msg string) Option { return func(c *config) { c.deviceFail = msg } }

// WithAdapterCallback sets the delivery mode of adapter callbacks.
func WithAdapterCallback(mode CallbackMode) Option {
	return func(c *config) { c.adapterMode = mode }
}

// WithDeviceCallback sets the delivery mode of device callbacks.
func WithDeviceCallback(mode CallbackMode) Option {
	return func(c *config) { c.deviceMode = mode }
}

// WithCallbackDelay sets the delay used by CallbackDeferred.
func WithCallbackDelay(d time.Duration) Option { return func(c *config) { c.delay = d } }

// WithAcquireSequence scripts GetCurrentTexture results. Once the sequence
// is exhausted every acquisition succeeds.
func WithAcquireSequence(seq ...Acquire) Option {
	return func(c *config) { c.acquire = append(c.acquire, seq...) }
}

// WithDrawError raises an error on the device error callback on every Draw.
func WithDrawError(typ gpucore.ErrorType, msg string) Option {
	return func(c *config) { c.drawErr = &InjectedError{Type: typ, Message: msg} }
}

// Driver is a recording gpucore.Driver.
type Driver struct {
	cfg    config
	logger atomic.Pointer[slog.Logger]
	wg     sync.WaitGroup

	mu         sync.Mutex
	calls      []string
	live       map[Kind]int
	created    map[Kind]int
	violations int
	nextID     uint64

	instances []gpucore.InstanceDescriptor
	adapterOp []gpucore.RequestAdapterOptions
	configs   []gputypes.SurfaceConfiguration
	shaders   []gpucore.ShaderModuleDescriptor
	pipelines []gpucore.RenderPipelineDescriptor
	draws     []DrawCall
	clears    []gputypes.Color

	device *device
}

var _ gpucore.Driver = (*Driver)(nil)

// New creates a recording driver.
func New(opts ...Option) *Driver {
	d := &Driver{
		live:    make(map[Kind]int),
		created: make(map[Kind]int),
	}
	for _, opt := range opts {
		opt(&d.cfg)
	}
	d.logger.Store(slog.New(slog.DiscardHandler))
	return d
}

// Name returns backend.NameHeadless.
func (d *Driver) Name() string { return backend.NameHeadless }

// SetLogger sets the logger used for per-call debug output.
func (d *Driver) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	d.logger.Store(l)
}

// CreateInstance records the descriptor and returns a new instance.
func (d *Driver) CreateInstance(desc *gpucore.InstanceDescriptor) (gpucore.Instance, error) {
	d.record("CreateInstance")
	if d.cfg.instanceErr != nil {
		return nil, d.cfg.instanceErr
	}
	var dd gpucore.InstanceDescriptor
	if desc != nil {
		dd = *desc
	}
	d.mu.Lock()
	d.instances = append(d.instances, dd)
	d.mu.Unlock()

	inst := &instance{desc: dd}
	d.track(&inst.object, KindInstance, "ReleaseInstance")
	return inst, nil
}

// Wait blocks until every deferred callback has run.
func (d *Driver) Wait() { d.wg.Wait() }

// Calls returns a copy of the journal.
func (d *Driver) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// ResetCalls clears the journal.
func (d *Driver) ResetCalls() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = d.calls[:0]
}

// Live returns the number of unreleased handles per kind.
// Kinds with no live handles are omitted.
func (d *Driver) Live() map[Kind]int {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[Kind]int)
	for k, n := range d.live {
		if n != 0 {
			out[k] = n
		}
	}
	return out
}

// Outstanding returns the total number of unreleased handles.
func (d *Driver) Outstanding() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	total := 0
	for _, n := range d.live {
		total += n
	}
	return total
}

// Created returns the number of handles ever created per kind.
func (d *Driver) Created() map[Kind]int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return maps.Clone(d.created)
}

// Violations returns how many releases hit an already released handle.
func (d *Driver) Violations() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.violations
}

// InstanceDescriptors returns the descriptors passed to CreateInstance.
func (d *Driver) InstanceDescriptors() []gpucore.InstanceDescriptor {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]gpucore.InstanceDescriptor(nil), d.instances...)
}

// AdapterOptions returns the options passed to RequestAdapter.
func (d *Driver) AdapterOptions() []gpucore.RequestAdapterOptions {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]gpucore.RequestAdapterOptions(nil), d.adapterOp...)
}

// Configurations returns every successful surface configuration in order.
func (d *Driver) Configurations() []gputypes.SurfaceConfiguration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]gputypes.SurfaceConfiguration(nil), d.configs...)
}

// ShaderModules returns the descriptors passed to CreateShaderModule.
func (d *Driver) ShaderModules() []gpucore.ShaderModuleDescriptor {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]gpucore.ShaderModuleDescriptor(nil), d.shaders...)
}

// Pipelines returns the descriptors passed to CreateRenderPipeline.
func (d *Driver) Pipelines() []gpucore.RenderPipelineDescriptor {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]gpucore.RenderPipelineDescriptor(nil), d.pipelines...)
}

// Draws returns every recorded draw call.
func (d *Driver) Draws() []DrawCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]DrawCall(nil), d.draws...)
}

// ClearColors returns the clear value of every color attachment of every
// render pass.
func (d *Driver) ClearColors() []gputypes.Color {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]gputypes.Color(nil), d.clears...)
}

// InjectDeviceError raises an error on the current device's error callback.
// It reports whether a callback was installed.
func (d *Driver) InjectDeviceError(typ gpucore.ErrorType, msg string) bool {
	d.mu.Lock()
	dev := d.device
	d.mu.Unlock()
	if dev == nil {
		return false
	}
	return dev.raise(typ, msg)
}

func (d *Driver) record(call string) {
	d.mu.Lock()
	d.calls = append(d.calls, call)
	d.mu.Unlock()
	d.logger.Load().Debug("headless: call", "name", call)
}

func (d *Driver) track(o *object, kind Kind, releaseCall string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	o.driver = d
	o.kind = kind
	o.id = d.nextID
	o.releaseCall = releaseCall
	d.live[kind]++
	d.created[kind]++
}

// deliver runs fn according to mode. The driver lock must not be held.
func (d *Driver) deliver(mode CallbackMode, fn func()) {
	switch mode {
	case CallbackDeferred:
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			time.Sleep(d.cfg.delay)
			fn()
		}()
	case CallbackNever:
	default:
		fn()
	}
}

func (d *Driver) nextAcquire() Acquire {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.cfg.acquire) == 0 {
		return Acquire{Status: gputypes.SurfaceStatusGood}
	}
	a := d.cfg.acquire[0]
	d.cfg.acquire = d.cfg.acquire[1:]
	return a
}

// object is the tracked part of every handle.
type object struct {
	driver      *Driver
	kind        Kind
	id          uint64
	releaseCall string
	released    bool
}

func (o *object) Release() {
	d := o.driver
	d.mu.Lock()
	d.calls = append(d.calls, o.releaseCall)
	if o.released {
		d.violations++
		d.mu.Unlock()
		d.logger.Load().Warn("headless: double release", "kind", o.kind, "id", o.id)
		return
	}
	o.released = true
	d.live[o.kind]--
	d.mu.Unlock()
}

func (o *object) isReleased() bool {
	o.driver.mu.Lock()
	defer o.driver.mu.Unlock()
	return o.released
}
