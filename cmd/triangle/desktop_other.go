//go:build !linux && !darwin && !windows

package main

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/gogpu/triangle/backend"
	"github.com/gogpu/triangle/window"
)

func openDesktop(_ config, _ *zap.Logger) (window.Window, error) {
	return nil, fmt.Errorf("no desktop window on %s; use -driver %s", runtime.GOOS, backend.NameHeadless)
}
