package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gogpu/gputypes"
	"go.uber.org/zap/zapcore"

	"github.com/gogpu/triangle"
	"github.com/gogpu/triangle/backend"
)

// Environment variables consulted when the matching flag is not set.
const (
	envBackend  = "TRIANGLE_BACKEND"
	envDriver   = "TRIANGLE_DRIVER"
	envLogLevel = "TRIANGLE_LOG_LEVEL"
	envShader   = "TRIANGLE_SHADER"
)

// config is the parsed command line.
type config struct {
	width    int
	height   int
	title    string
	driver   string
	backend  gputypes.Backend
	shader   string
	frames   int
	logLevel zapcore.Level
	logJSON  bool
	debug    bool
	spirv    bool
	timeout  time.Duration
}

// headless reports whether the run needs no desktop window.
func (c config) headless() bool {
	return c.driver == backend.NameHeadless
}

// options converts the configuration into context options.
func (c config) options() []triangle.Option {
	opts := []triangle.Option{
		triangle.WithBackend(c.backend),
		triangle.WithDebug(c.debug),
		triangle.WithSPIRV(c.spirv),
		triangle.WithNegotiationTimeout(c.timeout),
	}
	if c.shader != "" {
		opts = append(opts, triangle.WithShaderPath(c.shader))
	}
	return opts
}

// parseConfig parses args. getenv supplies fallbacks for flags absent from
// args.
func parseConfig(args []string, getenv func(string) string, stderr io.Writer) (config, error) {
	fs := flag.NewFlagSet("triangle", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		cfg      config
		api      string
		logLevel string
	)
	fs.IntVar(&cfg.width, "width", 800, "window width")
	fs.IntVar(&cfg.height, "height", 600, "window height")
	fs.StringVar(&cfg.title, "title", "Triangle", "window title")
	fs.StringVar(&cfg.driver, "driver", "", "GPU driver (wgpu, headless); empty picks the best registered")
	fs.StringVar(&api, "backend", "", "graphics API (vulkan, metal, dx12, gl); empty picks by platform")
	fs.StringVar(&cfg.shader, "shader", "", "WGSL shader file; empty uses the embedded shader")
	fs.IntVar(&cfg.frames, "frames", 0, "render this many frames with the headless driver and exit")
	fs.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.logJSON, "log-json", false, "always log JSON, even on a terminal")
	fs.BoolVar(&cfg.debug, "debug", false, "enable GPU validation")
	fs.BoolVar(&cfg.spirv, "spirv", false, "compile the shader to SPIR-V before upload")
	fs.DurationVar(&cfg.timeout, "timeout", triangle.DefaultNegotiationTimeout, "adapter and device request timeout")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if fs.NArg() > 0 {
		return config{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	fallback := func(name, env string, dst *string) {
		if !set[name] {
			if v := getenv(env); v != "" {
				*dst = v
			}
		}
	}
	fallback("driver", envDriver, &cfg.driver)
	fallback("backend", envBackend, &api)
	fallback("shader", envShader, &cfg.shader)
	fallback("log-level", envLogLevel, &logLevel)

	if cfg.width <= 0 || cfg.height <= 0 {
		return config{}, fmt.Errorf("invalid size %dx%d", cfg.width, cfg.height)
	}
	switch {
	case cfg.frames < 0:
		return config{}, fmt.Errorf("invalid frame count %d", cfg.frames)
	case cfg.frames > 0 && cfg.driver == "":
		cfg.driver = backend.NameHeadless
	case cfg.frames > 0 && cfg.driver != backend.NameHeadless:
		return config{}, fmt.Errorf("-frames requires the %s driver", backend.NameHeadless)
	}

	var err error
	if cfg.backend, err = parseBackend(api); err != nil {
		return config{}, err
	}
	if cfg.logLevel, err = zapcore.ParseLevel(logLevel); err != nil {
		return config{}, err
	}
	return cfg, nil
}

// parseBackend parses a graphics API name. The empty name selects by
// platform.
func parseBackend(s string) (gputypes.Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return gputypes.BackendEmpty, nil
	case "vulkan", "vk":
		return gputypes.BackendVulkan, nil
	case "metal", "mtl":
		return gputypes.BackendMetal, nil
	case "dx12", "d3d12":
		return gputypes.BackendDX12, nil
	case "gl", "opengl", "gles":
		return gputypes.BackendGL, nil
	default:
		return gputypes.BackendEmpty, fmt.Errorf("unknown backend %q", s)
	}
}
