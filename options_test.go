package triangle

import (
	"testing"
	"time"

	"github.com/gogpu/gputypes"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()

	if o.timeout != DefaultNegotiationTimeout {
		t.Errorf("timeout = %v, want %v", o.timeout, DefaultNegotiationTimeout)
	}
	if o.vertexEntry != "main_vs" || o.fragmentEntry != "main_fs" {
		t.Errorf("entry points = %q/%q, want main_vs/main_fs", o.vertexEntry, o.fragmentEntry)
	}
	if o.backend != gputypes.BackendEmpty {
		t.Errorf("backend = %v, want platform selection", o.backend)
	}
	if o.presentMode != gputypes.PresentModeFifo {
		t.Errorf("presentMode = %v, want Fifo", o.presentMode)
	}
	if o.format != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("format = %v, want BGRA8Unorm", o.format)
	}
	if o.shaderPath != "" || o.shaderCode != "" || o.spirv || o.debug || o.forceFallback {
		t.Errorf("unexpected non-default options: %+v", o)
	}
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name  string
		opt   Option
		check func(o options) bool
	}{
		{"timeout", WithNegotiationTimeout(time.Second), func(o options) bool { return o.timeout == time.Second }},
		{"entry points", WithEntryPoints("vs", "fs"), func(o options) bool { return o.vertexEntry == "vs" && o.fragmentEntry == "fs" }},
		{"entry points keep defaults", WithEntryPoints("", "fs"), func(o options) bool { return o.vertexEntry == "main_vs" && o.fragmentEntry == "fs" }},
		{"shader path", WithShaderPath("Shaders/triangle.wgsl"), func(o options) bool { return o.shaderPath == "Shaders/triangle.wgsl" }},
		{"shader source", WithShaderSource("code"), func(o options) bool { return o.shaderCode == "code" }},
		{"spirv", WithSPIRV(true), func(o options) bool { return o.spirv }},
		{"backend", WithBackend(gputypes.BackendMetal), func(o options) bool { return o.backend == gputypes.BackendMetal }},
		{"debug", WithDebug(true), func(o options) bool { return o.debug }},
		{"fallback", WithForceFallbackAdapter(true), func(o options) bool { return o.forceFallback }},
		{"present mode", WithPresentMode(gputypes.PresentModeMailbox), func(o options) bool { return o.presentMode == gputypes.PresentModeMailbox }},
		{"format", WithSurfaceFormat(gputypes.TextureFormatRGBA8Unorm), func(o options) bool { return o.format == gputypes.TextureFormatRGBA8Unorm }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultOptions()
			tt.opt(&o)
			if !tt.check(o) {
				t.Errorf("option not applied: %+v", o)
			}
		})
	}
}

func TestNew_AppliesOptions(t *testing.T) {
	c := New(nil, nil, WithDebug(true), WithNegotiationTimeout(0))
	if !c.opts.debug || c.opts.timeout != 0 {
		t.Errorf("New() options = %+v, want debug and no timeout", c.opts)
	}
}
