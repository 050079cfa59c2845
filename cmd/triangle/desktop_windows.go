package main

import (
	"go.uber.org/zap"

	"github.com/gogpu/triangle/window"
	"github.com/gogpu/triangle/window/glfw"
)

func openDesktop(cfg config, _ *zap.Logger) (window.Window, error) {
	return glfw.New(glfw.Config{Title: cfg.title, Width: cfg.width, Height: cfg.height})
}
