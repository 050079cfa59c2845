package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gogpu/triangle"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestParseConfig(t *testing.T) {
	defaults := config{
		width:    800,
		height:   600,
		title:    "Triangle",
		logLevel: zapcore.InfoLevel,
		timeout:  triangle.DefaultNegotiationTimeout,
	}

	tests := []struct {
		name string
		args []string
		env  map[string]string
		want func(*config)
	}{
		{
			name: "defaults",
			want: func(*config) {},
		},
		{
			name: "flags",
			args: []string{"-width", "320", "-height", "200", "-backend", "Vulkan", "-debug", "-spirv", "-timeout", "2s"},
			want: func(c *config) {
				c.width, c.height = 320, 200
				c.backend = gputypes.BackendVulkan
				c.debug, c.spirv = true, true
				c.timeout = 2 * time.Second
			},
		},
		{
			name: "environment fallback",
			env: map[string]string{
				envBackend:  "metal",
				envDriver:   "headless",
				envLogLevel: "debug",
				envShader:   "Shaders/triangle.wgsl",
			},
			want: func(c *config) {
				c.backend = gputypes.BackendMetal
				c.driver = "headless"
				c.logLevel = zapcore.DebugLevel
				c.shader = "Shaders/triangle.wgsl"
			},
		},
		{
			name: "flag wins over environment",
			args: []string{"-backend", "dx12", "-log-level", "error"},
			env:  map[string]string{envBackend: "gl", envLogLevel: "debug"},
			want: func(c *config) {
				c.backend = gputypes.BackendDX12
				c.logLevel = zapcore.ErrorLevel
			},
		},
		{
			name: "frames pick the headless driver",
			args: []string{"-frames", "10"},
			want: func(c *config) {
				c.frames = 10
				c.driver = "headless"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseConfig(tt.args, env(tt.env), &bytes.Buffer{})
			if err != nil {
				t.Fatalf("parseConfig() error = %v", err)
			}
			want := defaults
			tt.want(&want)
			if diff := cmp.Diff(want, got, cmp.AllowUnexported(config{})); diff != "" {
				t.Errorf("parseConfig() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"unknown flag", []string{"-nope"}, nil},
		{"positional", []string{"extra"}, nil},
		{"zero width", []string{"-width", "0"}, nil},
		{"negative frames", []string{"-frames", "-1"}, nil},
		{"frames with wgpu", []string{"-frames", "3", "-driver", "wgpu"}, nil},
		{"unknown backend", []string{"-backend", "glide"}, nil},
		{"bad env level", nil, map[string]string{envLogLevel: "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseConfig(tt.args, env(tt.env), &bytes.Buffer{}); err == nil {
				t.Error("parseConfig() succeeded, want error")
			}
		})
	}
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in   string
		want gputypes.Backend
	}{
		{"", gputypes.BackendEmpty},
		{"vulkan", gputypes.BackendVulkan},
		{" VK ", gputypes.BackendVulkan},
		{"Metal", gputypes.BackendMetal},
		{"d3d12", gputypes.BackendDX12},
		{"gles", gputypes.BackendGL},
	}
	for _, tt := range tests {
		got, err := parseBackend(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("parseBackend(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestOptions_ShaderOnlyWhenSet(t *testing.T) {
	cfg := config{timeout: time.Second}
	base := len(cfg.options())
	cfg.shader = "x.wgsl"
	if got := len(cfg.options()); got != base+1 {
		t.Errorf("len(options()) with shader = %d, want %d", got, base+1)
	}
}

func TestRun_Headless(t *testing.T) {
	cfg, err := parseConfig([]string{"-frames", "5", "-width", "64", "-height", "48"}, env(nil), &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if err := run(context.Background(), cfg, zap.NewNop()); err != nil {
		t.Fatalf("run() error = %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, zapcore.WarnLevel, true)
	log.Info("dropped")
	log.Warn("kept", zap.Int("frames", 3))
	_ = log.Sync()

	out := buf.String()
	if bytes.Contains(buf.Bytes(), []byte("dropped")) {
		t.Errorf("info entry logged at warn level: %s", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"frames":3`)) {
		t.Errorf("JSON output missing field: %s", out)
	}

	slogger(log).Warn("via slog", "op", "Submit")
	if !bytes.Contains(buf.Bytes(), []byte("via slog")) {
		t.Errorf("slog entry not forwarded: %s", buf.String())
	}
}
