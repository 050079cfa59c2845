package triangle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/triangle/gpucore"
	"github.com/gogpu/triangle/window"
)

type state uint8

const (
	stateNew state = iota
	stateReady
	stateClosed
)

// Context owns every long-lived GPU object of one window: instance,
// surface, device, surface configuration and render pipeline.
//
// Init creates them in order; Close releases them in reverse. All methods
// are safe to call from the window's event-loop goroutine; a mutex keeps
// a misbehaving caller from rendering two frames at once.
type Context struct {
	mu     sync.Mutex
	driver gpucore.Driver
	win    window.Window
	opts   options
	state  state

	ledger   Ledger
	teardown teardown

	backend     gputypes.Backend
	adapterInfo gpucore.AdapterInfo

	instance     *tracked[gpucore.Instance]
	surface      *tracked[gpucore.Surface]
	device       *tracked[gpucore.Device]
	pipeline     *tracked[gpucore.RenderPipeline]
	configurator *SurfaceConfigurator
	renderer     *FrameRenderer

	deviceErrors atomic.Uint64
	detach       []func()
}

// New creates a Context that renders into win through driver.
// No GPU object is created until Init.
func New(driver gpucore.Driver, win window.Window, opts ...Option) *Context {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Context{driver: driver, win: win, opts: o}
}

// Init creates the instance, surface, adapter, device, surface
// configuration and render pipeline, in that order. The adapter and the
// shader module are released as soon as their dependents exist.
//
// ctx bounds the adapter and device negotiation in addition to the
// negotiation timeout option. On failure every object created so far is
// released in reverse order, the Context is closed and the returned error
// wraps the sentinel of the failing stage.
func (c *Context) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case stateReady:
		return ErrAlreadyInitialized
	case stateClosed:
		return ErrClosed
	}

	register(c)
	if err := c.init(ctx); err != nil {
		c.teardown.run()
		c.state = stateClosed
		unregister(c)
		Logger().Error("triangle: init failed", "err", err)
		return err
	}
	c.state = stateReady
	lw, lh := c.win.Size()
	Logger().Info("triangle: context ready",
		"driver", c.driver.Name(),
		"backend", c.backend,
		"adapter", c.adapterInfo.Name,
		"window", fmt.Sprintf("%dx%d", lw, lh),
		"scale", c.win.ScaleFactor(),
	)
	return nil
}

func (c *Context) init(ctx context.Context) error {
	o := &c.opts

	src, err := loadShader(o)
	if err != nil {
		return err
	}

	c.backend = o.backend
	if c.backend == gputypes.BackendEmpty {
		c.backend = SelectBackend(c.win.Platform())
	}
	flags := gputypes.InstanceFlagsNone
	if o.debug {
		flags |= gputypes.InstanceFlagsDebug
	}

	inst, err := c.driver.CreateInstance(&gpucore.InstanceDescriptor{Backend: c.backend, Flags: flags})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInstance, c.backend, err)
	}
	c.instance = track(&c.ledger, KindInstance, inst)
	c.teardown.push("release instance", c.instance.Release)

	handle, err := c.win.NativeHandle()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSurface, err)
	}
	surf, err := inst.CreateSurface(gpucore.SurfaceTarget{Display: handle.Display, Window: handle.Window})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSurface, handle.Platform, err)
	}
	c.surface = track(&c.ledger, KindSurface, surf)
	c.teardown.push("release surface", c.surface.Release)

	a, err := requestAdapter(ctx, o, inst, surf)
	if err != nil {
		return err
	}
	adapter := track(&c.ledger, KindAdapter, a)
	c.adapterInfo = a.Info()
	Logger().Info("triangle: adapter selected",
		"name", c.adapterInfo.Name,
		"vendor", c.adapterInfo.Vendor,
		"type", c.adapterInfo.Type,
		"backend", c.adapterInfo.Backend,
		"driver", c.adapterInfo.Driver,
	)

	dev, err := requestDevice(ctx, o, a)
	adapter.Release()
	if err != nil {
		return err
	}
	c.device = track(&c.ledger, KindDevice, dev)
	c.teardown.push("destroy and release device", func() {
		c.device.Handle().Destroy()
		c.device.Release()
	})
	dev.SetUncapturedErrorCallback(c.onDeviceError)

	c.configurator = NewSurfaceConfigurator(surf, dev, o.format, o.presentMode)
	w, h := c.win.FramebufferSize()
	if err := c.configurator.Configure(w, h); err != nil {
		return err
	}
	c.teardown.push("unconfigure surface", c.configurator.Unconfigure)

	c.pipeline, err = buildPipeline(&c.ledger, dev, src, o)
	if err != nil {
		return err
	}
	c.teardown.push("release render pipeline", c.pipeline.Release)

	c.renderer = &FrameRenderer{
		ledger:      &c.ledger,
		surface:     surf,
		device:      dev,
		pipeline:    c.pipeline.Handle(),
		reconfigure: c.reconfigureFromWindow,
	}
	return nil
}

// onDeviceError is the device's uncaptured error callback. Errors are
// advisory: they are logged and counted, never fatal.
func (c *Context) onDeviceError(typ gpucore.ErrorType, message string) {
	c.deviceErrors.Add(1)
	Logger().Error("triangle: unhandled device error", "type", typ, "message", message)
}

// reconfigureFromWindow configures the surface again for the current
// framebuffer size, even if the size did not change: an Outdated, Lost or
// Suboptimal surface needs a fresh configuration either way.
func (c *Context) reconfigureFromWindow() error {
	w, h := c.win.FramebufferSize()
	return c.configurator.Configure(w, h)
}

// Render draws one frame. It returns ErrNotInitialized before Init,
// ErrClosed after Close and an error wrapping ErrFrameSkipped when the
// surface had no texture to draw into.
func (c *Context) Render(elapsed float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case stateNew:
		return ErrNotInitialized
	case stateClosed:
		return ErrClosed
	}
	return c.renderer.Render()
}

// Resize reconfigures the surface for a width x height framebuffer.
// A zero dimension (a minimized window) keeps the previous configuration
// and returns an error wrapping ErrZeroSize.
func (c *Context) Resize(width, height int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case stateNew:
		return ErrNotInitialized
	case stateClosed:
		return ErrClosed
	}
	return c.configurator.Reconfigure(width, height)
}

// Run subscribes the context to the window's render and resize callbacks,
// pumps the window's event loop until it closes and unsubscribes.
// Render errors are logged and never stop the loop.
func (c *Context) Run(ctx context.Context) error {
	c.mu.Lock()
	if st := c.state; st != stateReady {
		c.mu.Unlock()
		if st == stateClosed {
			return ErrClosed
		}
		return ErrNotInitialized
	}
	unRender := c.win.OnRender(c.renderTick)
	unResize := c.win.OnResize(c.resizeTick)
	c.detach = append(c.detach, unRender, unResize)
	c.mu.Unlock()

	defer func() {
		unRender()
		unResize()
	}()
	return c.win.Run(ctx)
}

func (c *Context) renderTick(elapsed float64) {
	err := c.Render(elapsed)
	if err != nil && !errors.Is(err, ErrFrameSkipped) {
		Logger().Error("triangle: render", "err", err)
	}
}

func (c *Context) resizeTick(width, height int) {
	err := c.Resize(width, height)
	switch {
	case err == nil:
		c.win.RequestRedraw()
	case errors.Is(err, ErrZeroSize):
		Logger().Debug("triangle: resize ignored", "width", width, "height", height)
	default:
		Logger().Warn("triangle: resize", "err", err)
	}
}

// Close releases every GPU object in reverse creation order: render
// pipeline, surface configuration, device (destroyed, then released),
// surface, instance. It is safe to call more than once.
//
// Close returns ErrLeakedHandles if any tracked handle outlived teardown.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == stateClosed {
		return nil
	}
	for _, fn := range c.detach {
		fn()
	}
	c.detach = nil
	c.teardown.run()
	c.state = stateClosed
	unregister(c)

	stats := c.statsLocked()
	Logger().Info("triangle: context closed",
		"frames", stats.Frames,
		"skipped", stats.SkippedFrames,
		"device_errors", stats.DeviceErrors,
		"violations", stats.Ledger.Violations,
	)
	if n := c.ledger.Outstanding(); n != 0 {
		return fmt.Errorf("%w: %d", ErrLeakedHandles, n)
	}
	return nil
}

// Stats is a snapshot of a Context's counters.
type Stats struct {
	Frames        uint64
	SkippedFrames uint64
	DeviceErrors  uint64
	Ledger        LedgerStats
}

// Stats returns the context counters.
func (c *Context) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statsLocked()
}

func (c *Context) statsLocked() Stats {
	s := Stats{
		DeviceErrors: c.deviceErrors.Load(),
		Ledger:       c.ledger.Stats(),
	}
	if c.renderer != nil {
		s.Frames = c.renderer.Frames()
		s.SkippedFrames = c.renderer.Skipped()
	}
	return s
}

// Ledger returns the handle ledger of the context.
func (c *Context) Ledger() *Ledger { return &c.ledger }

// Backend returns the backend the instance was created with.
func (c *Context) Backend() gputypes.Backend {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backend
}

// AdapterInfo returns the adapter selected during Init.
func (c *Context) AdapterInfo() gpucore.AdapterInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.adapterInfo
}

// DeviceErrors returns the number of errors reported by the device.
func (c *Context) DeviceErrors() uint64 { return c.deviceErrors.Load() }

// SurfaceConfiguration returns the active surface configuration.
func (c *Context) SurfaceConfiguration() (gputypes.SurfaceConfiguration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configurator == nil {
		return gputypes.SurfaceConfiguration{}, false
	}
	return c.configurator.Current()
}
