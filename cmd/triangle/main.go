// Command triangle opens a window and draws a red triangle on a blue
// background with WebGPU until the window is closed.
//
// Usage:
//
//	triangle [-backend vulkan|metal|dx12|gl] [-shader file.wgsl] [-debug]
//	triangle -driver headless -frames 120
//
// Flags not given on the command line fall back to TRIANGLE_DRIVER,
// TRIANGLE_BACKEND, TRIANGLE_SHADER and TRIANGLE_LOG_LEVEL.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/gogpu/triangle"
	"github.com/gogpu/triangle/backend"
	"github.com/gogpu/triangle/window"
	"github.com/gogpu/triangle/window/headless"

	_ "github.com/gogpu/triangle/backend/headless"
	_ "github.com/gogpu/triangle/backend/wgpu"
)

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	log := newLogger(os.Stderr, cfg.logLevel, cfg.logJSON || !isTerminal(os.Stderr))
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("triangle failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, log *zap.Logger) error {
	triangle.SetLogger(slogger(log.Named("gpu")))

	driver, err := backend.Lookup(cfg.driver)
	if err != nil {
		return err
	}

	win, err := openWindow(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = win.Close() }()

	c := triangle.New(driver, win, cfg.options()...)
	if err := c.Init(ctx); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	info := c.AdapterInfo()
	log.Info("rendering",
		zap.String("driver", driver.Name()),
		zap.Stringer("backend", c.Backend()),
		zap.String("adapter", info.Name),
		zap.String("vendor", info.Vendor),
	)

	runErr := c.Run(ctx)
	closeErr := c.Close()

	st := c.Stats()
	log.Info("closed",
		zap.Uint64("frames", st.Frames),
		zap.Uint64("skipped", st.SkippedFrames),
		zap.Uint64("device_errors", st.DeviceErrors),
	)
	return errors.Join(runErr, closeErr)
}

// openWindow creates the desktop window, or an offscreen one for headless
// runs.
func openWindow(cfg config, log *zap.Logger) (window.Window, error) {
	if cfg.headless() {
		return headless.New(
			headless.WithSize(cfg.width, cfg.height),
			headless.WithFrames(cfg.frames),
		), nil
	}
	return openDesktop(cfg, log)
}
