//go:build linux

package x11

import (
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/triangle/window"
)

func newTestWindow() *Window {
	return &Window{xwin: 0x400001, wmDel: 301, width: 800, height: 600}
}

func TestHandle_ConfigureNotifyResizes(t *testing.T) {
	w := newTestWindow()
	var got [][2]int
	w.OnResize(func(width, height int) { got = append(got, [2]int{width, height}) })

	w.handle(xproto.ConfigureNotifyEvent{Window: w.xwin, Width: 1024, Height: 768})
	w.handle(xproto.ConfigureNotifyEvent{Window: w.xwin, Width: 1024, Height: 768})
	w.handle(xproto.ConfigureNotifyEvent{Window: 0x500001, Width: 10, Height: 10})
	w.handle(xproto.ConfigureNotifyEvent{Window: w.xwin, Width: 0, Height: 0})

	want := [][2]int{{1024, 768}, {0, 0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("resize notifications mismatch (-want +got):\n%s", diff)
	}
	if fw, fh := w.FramebufferSize(); fw != 0 || fh != 0 {
		t.Errorf("FramebufferSize() = %dx%d, want 0x0", fw, fh)
	}
}

func TestHandle_Close(t *testing.T) {
	tests := []struct {
		name   string
		ev     xgb.Event
		closed bool
	}{
		{
			name: "delete window message",
			ev: xproto.ClientMessageEvent{
				Format: 32,
				Window: 0x400001,
				Data:   xproto.ClientMessageDataUnionData32New([]uint32{301, 0, 0, 0, 0}),
			},
			closed: true,
		},
		{
			name: "other client message",
			ev: xproto.ClientMessageEvent{
				Format: 32,
				Window: 0x400001,
				Data:   xproto.ClientMessageDataUnionData32New([]uint32{999, 0, 0, 0, 0}),
			},
		},
		{
			name:   "destroy notify",
			ev:     xproto.DestroyNotifyEvent{Window: 0x400001},
			closed: true,
		},
		{
			name: "destroy of another window",
			ev:   xproto.DestroyNotifyEvent{Window: 0x500001},
		},
		{
			name: "expose",
			ev:   xproto.ExposeEvent{Window: 0x400001},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWindow()
			w.handle(tt.ev)
			if got := w.isClosed(); got != tt.closed {
				t.Errorf("closed = %v, want %v", got, tt.closed)
			}
		})
	}
}

func TestScaleFromResources(t *testing.T) {
	tests := []struct {
		name string
		db   string
		want float64
	}{
		{"empty", "", 1},
		{"standard", "Xft.antialias:\t1\nXft.dpi:\t96\n", 1},
		{"hidpi", "Xcursor.size: 48\nXft.dpi: 192\n", 2},
		{"fractional", "Xft.dpi:\t144", 1.5},
		{"garbage", "Xft.dpi: big", 1},
		{"out of range", "Xft.dpi: 4000", 1},
		{"other keys only", "Xft.hinting: 1\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scaleFromResources(tt.db); got != tt.want {
				t.Errorf("scaleFromResources(%q) = %v, want %v", tt.db, got, tt.want)
			}
		})
	}
}

func TestWindow_WithoutConnection(t *testing.T) {
	w := newTestWindow()
	if got := w.Platform(); got != window.PlatformX11 {
		t.Errorf("Platform() = %v, want X11", got)
	}
	if got := w.ScaleFactor(); got != 1 {
		t.Errorf("ScaleFactor() = %v, want 1", got)
	}
	w.RequestRedraw()
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
