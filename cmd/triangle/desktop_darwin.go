package main

import (
	"go.uber.org/zap"

	"github.com/gogpu/triangle/window"
	"github.com/gogpu/triangle/window/cocoa"
)

func openDesktop(cfg config, _ *zap.Logger) (window.Window, error) {
	return cocoa.New(cocoa.Config{Title: cfg.title, Width: cfg.width, Height: cfg.height})
}
