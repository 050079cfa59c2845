package triangle

import (
	"time"

	"github.com/gogpu/gputypes"
)

// Defaults used when no option overrides them.
const (
	DefaultNegotiationTimeout = 5 * time.Second
	DefaultVertexEntryPoint   = "main_vs"
	DefaultFragmentEntryPoint = "main_fs"
)

// Option configures a Context during creation.
//
// Example:
//
//	// Defaults: platform-selected backend, embedded shader, FIFO presentation
//	c := triangle.New(driver, win)
//
//	// Custom shader file with its own entry points
//	c := triangle.New(driver, win,
//	    triangle.WithShaderPath("Shaders/triangle.wgsl"),
//	    triangle.WithEntryPoints("vs", "fs"),
//	)
type Option func(*options)

// options holds optional configuration for Context creation.
type options struct {
	timeout       time.Duration
	vertexEntry   string
	fragmentEntry string
	shaderPath    string
	shaderCode    string
	spirv         bool
	backend       gputypes.Backend
	debug         bool
	forceFallback bool
	presentMode   gputypes.PresentMode
	format        gputypes.TextureFormat
}

// defaultOptions returns the default context options.
func defaultOptions() options {
	return options{
		timeout:       DefaultNegotiationTimeout,
		vertexEntry:   DefaultVertexEntryPoint,
		fragmentEntry: DefaultFragmentEntryPoint,
		backend:       gputypes.BackendEmpty, // selected from the window platform
		presentMode:   gputypes.PresentModeFifo,
		format:        gputypes.TextureFormatBGRA8Unorm,
	}
}

// WithNegotiationTimeout bounds how long Init waits for each adapter or
// device callback. Zero or negative waits only on the Init context.
func WithNegotiationTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithEntryPoints sets the vertex and fragment entry point names.
// Empty names keep the defaults ("main_vs" and "main_fs").
func WithEntryPoints(vertex, fragment string) Option {
	return func(o *options) {
		if vertex != "" {
			o.vertexEntry = vertex
		}
		if fragment != "" {
			o.fragmentEntry = fragment
		}
	}
}

// WithShaderPath reads the WGSL source from path instead of the embedded
// shader. A missing file fails Init with ErrShaderLoad.
func WithShaderPath(path string) Option {
	return func(o *options) {
		o.shaderPath = path
	}
}

// WithShaderSource uses code as the WGSL source. It takes precedence over
// WithShaderPath.
func WithShaderSource(code string) Option {
	return func(o *options) {
		o.shaderCode = code
	}
}

// WithSPIRV compiles the WGSL source to SPIR-V before handing it to the
// device. Useful with drivers that prefer a binary module.
func WithSPIRV(enabled bool) Option {
	return func(o *options) {
		o.spirv = enabled
	}
}

// WithBackend forces the GPU backend instead of selecting it from the
// window platform. gputypes.BackendEmpty restores platform selection.
func WithBackend(b gputypes.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithDebug enables backend debug layers when available.
func WithDebug(enabled bool) Option {
	return func(o *options) {
		o.debug = enabled
	}
}

// WithForceFallbackAdapter requests a software/fallback adapter.
func WithForceFallbackAdapter(enabled bool) Option {
	return func(o *options) {
		o.forceFallback = enabled
	}
}

// WithPresentMode overrides the FIFO present mode.
func WithPresentMode(m gputypes.PresentMode) Option {
	return func(o *options) {
		o.presentMode = m
	}
}

// WithSurfaceFormat overrides the BGRA8Unorm surface format. The pipeline's
// color target uses the same format.
func WithSurfaceFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = f
	}
}
