package triangle

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/triangle/gpucore"
)

// SurfaceConfigurator owns the presentation configuration of a surface.
// Configure may be called again with new dimensions; the surface replaces
// its previous configuration in place, so only one Unconfigure is needed
// at teardown.
type SurfaceConfigurator struct {
	surface     gpucore.Surface
	device      gpucore.Device
	format      gputypes.TextureFormat
	presentMode gputypes.PresentMode

	current    gputypes.SurfaceConfiguration
	configured bool
}

// NewSurfaceConfigurator creates a configurator for surface on device.
func NewSurfaceConfigurator(surface gpucore.Surface, device gpucore.Device, format gputypes.TextureFormat, mode gputypes.PresentMode) *SurfaceConfigurator {
	return &SurfaceConfigurator{
		surface:     surface,
		device:      device,
		format:      format,
		presentMode: mode,
	}
}

// Configure applies the configuration for a width x height framebuffer.
// Zero or negative dimensions return ErrZeroSize and keep the previous
// configuration.
func (c *SurfaceConfigurator) Configure(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrZeroSize, width, height)
	}
	cfg := gputypes.SurfaceConfiguration{
		Usage:       gputypes.TextureUsageRenderAttachment,
		Format:      c.format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: c.presentMode,
		AlphaMode:   gputypes.CompositeAlphaModeAuto,
	}
	if err := c.surface.Configure(c.device, &cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrSurfaceConfigure, err)
	}
	c.current = cfg
	c.configured = true

	Logger().Debug("triangle: surface configured",
		"width", width,
		"height", height,
		"format", c.format,
		"present_mode", c.presentMode,
	)
	return nil
}

// Reconfigure re-applies the current configuration with new dimensions.
// It is a no-op when the size did not change.
func (c *SurfaceConfigurator) Reconfigure(width, height int) error {
	if c.configured && c.current.Width == uint32(width) && c.current.Height == uint32(height) && width > 0 && height > 0 {
		return nil
	}
	return c.Configure(width, height)
}

// Unconfigure drops the configuration. It is safe to call more than once.
func (c *SurfaceConfigurator) Unconfigure() {
	if !c.configured {
		return
	}
	c.surface.Unconfigure()
	c.configured = false
}

// Current returns the active configuration and whether one is applied.
func (c *SurfaceConfigurator) Current() (gputypes.SurfaceConfiguration, bool) {
	return c.current, c.configured
}
