package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/triangle/gpucore"
)

type surface struct {
	surf   *wgpu.Surface
	device *device
}

func (s *surface) Configure(dev gpucore.Device, config *gputypes.SurfaceConfiguration) error {
	d, ok := dev.(*device)
	if !ok {
		return fmt.Errorf("wgpu: device %T was not created by this driver", dev)
	}
	if config == nil {
		return fmt.Errorf("wgpu: surface configuration is nil")
	}
	if err := s.surf.Configure(d.dev, &wgpu.SurfaceConfiguration{
		Width:       config.Width,
		Height:      config.Height,
		Format:      config.Format,
		Usage:       config.Usage,
		PresentMode: config.PresentMode,
		AlphaMode:   config.AlphaMode,
	}); err != nil {
		return err
	}
	s.device = d
	return nil
}

func (s *surface) Unconfigure() { s.surf.Unconfigure() }

// GetCurrentTexture acquires the next surface texture. Outdated, lost and
// timed out acquisitions are reported as a status without an error.
func (s *surface) GetCurrentTexture() (gpucore.SurfaceTexture, gputypes.SurfaceStatus, error) {
	tex, suboptimal, err := s.surf.GetCurrentTexture()
	if err != nil {
		status, err := acquireStatus(err)
		return nil, status, err
	}
	status := gputypes.SurfaceStatusGood
	if suboptimal {
		status = gputypes.SurfaceStatusSuboptimal
	}
	return &surfaceTexture{surface: s, tex: tex}, status, nil
}

// acquireStatus maps an acquisition failure to a surface status. Failures
// that are not a surface state are returned as errors: gpucore.ErrOutOfMemory,
// gpucore.ErrDeviceLost or the original error.
func acquireStatus(err error) (gputypes.SurfaceStatus, error) {
	switch {
	case errors.Is(err, wgpu.ErrSurfaceOutdated):
		return gputypes.SurfaceStatusOutdated, nil
	case errors.Is(err, wgpu.ErrSurfaceLost):
		return gputypes.SurfaceStatusLost, nil
	case errors.Is(err, wgpu.ErrTimeout):
		return gputypes.SurfaceStatusTimeout, nil
	case errors.Is(err, wgpu.ErrOutOfMemory):
		return gputypes.SurfaceStatusUnknown, fmt.Errorf("%w: %w", gpucore.ErrOutOfMemory, err)
	case errors.Is(err, wgpu.ErrDeviceLost):
		return gputypes.SurfaceStatusUnknown, fmt.Errorf("%w: %w", gpucore.ErrDeviceLost, err)
	default:
		return gputypes.SurfaceStatusUnknown, err
	}
}

func (s *surface) Present(tex gpucore.SurfaceTexture) {
	st, ok := tex.(*surfaceTexture)
	if !ok || st.presented || st.released {
		s.report("Present", fmt.Errorf("wgpu: present of an invalid surface texture"))
		return
	}
	st.presented = true
	if err := s.surf.Present(st.tex); err != nil {
		s.report("Present", err)
	}
}

func (s *surface) report(op string, err error) {
	if s.device != nil {
		s.device.report(op, err)
		return
	}
	wgpu.Logger().Error("wgpu: surface error", "op", op, "err", err)
}

func (s *surface) Release() { s.surf.Release() }

// surfaceTexture is owned by the surface until presented. Releasing an
// unpresented texture discards it.
type surfaceTexture struct {
	surface   *surface
	tex       *wgpu.SurfaceTexture
	presented bool
	released  bool
}

func (t *surfaceTexture) CreateView() gpucore.TextureView {
	v, err := t.tex.CreateView(nil)
	if err != nil {
		t.surface.report("CreateView", err)
		return &textureView{device: t.surface.device}
	}
	return &textureView{device: t.surface.device, view: v}
}

func (t *surfaceTexture) Release() {
	if t.released {
		return
	}
	t.released = true
	if !t.presented {
		t.surface.surf.DiscardTexture()
	}
}

// textureView is a view of a surface texture. A nil view is the invalid
// object produced by a failed CreateView.
type textureView struct {
	device *device
	view   *wgpu.TextureView
}

func (v *textureView) Release() {
	if v.view == nil {
		return
	}
	if v.device == nil {
		v.view.Release()
	} else {
		v.device.holdView(v.view)
	}
	v.view = nil
}
