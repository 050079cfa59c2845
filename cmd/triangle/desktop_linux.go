package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/gogpu/triangle/window"
	"github.com/gogpu/triangle/window/x11"
)

// openDesktop opens an X11 window. The Vulkan HAL picks a Wayland surface
// whenever WAYLAND_DISPLAY is set, so the variable is cleared first; under
// a Wayland session the window runs through XWayland.
func openDesktop(cfg config, log *zap.Logger) (window.Window, error) {
	if wl := os.Getenv("WAYLAND_DISPLAY"); wl != "" {
		log.Info("using XWayland", zap.String("wayland_display", wl))
		if err := os.Unsetenv("WAYLAND_DISPLAY"); err != nil {
			return nil, err
		}
	}
	return x11.New(x11.Config{Title: cfg.title, Width: cfg.width, Height: cfg.height})
}
