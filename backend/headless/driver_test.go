package headless

import (
	"errors"
	"testing"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/triangle/backend"
	"github.com/gogpu/triangle/gpucore"
)

func newDevice(t *testing.T, d *Driver) (gpucore.Instance, gpucore.Surface, gpucore.Device) {
	t.Helper()
	inst, err := d.CreateInstance(&gpucore.InstanceDescriptor{Backend: gputypes.BackendVulkan})
	if err != nil {
		t.Fatalf("CreateInstance() error = %v", err)
	}
	surf, err := inst.CreateSurface(gpucore.SurfaceTarget{Window: 1})
	if err != nil {
		t.Fatalf("CreateSurface() error = %v", err)
	}
	var adapter gpucore.Adapter
	inst.RequestAdapter(nil, func(_ gpucore.RequestStatus, a gpucore.Adapter, _ string) { adapter = a })
	if adapter == nil {
		t.Fatal("RequestAdapter() delivered no adapter")
	}
	var dev gpucore.Device
	adapter.RequestDevice(nil, func(_ gpucore.RequestStatus, dv gpucore.Device, _ string) { dev = dv })
	adapter.Release()
	if dev == nil {
		t.Fatal("RequestDevice() delivered no device")
	}
	return inst, surf, dev
}

func TestRegistered(t *testing.T) {
	drv, err := backend.Lookup(backend.NameHeadless)
	if err != nil {
		t.Fatalf("Lookup(%q) error = %v", backend.NameHeadless, err)
	}
	if drv.Name() != backend.NameHeadless {
		t.Errorf("Name() = %q, want %q", drv.Name(), backend.NameHeadless)
	}
}

func TestDriver_TracksLiveHandles(t *testing.T) {
	d := New()
	inst, surf, dev := newDevice(t, d)

	want := map[Kind]int{KindInstance: 1, KindSurface: 1, KindDevice: 1}
	if diff := cmp.Diff(want, d.Live()); diff != "" {
		t.Errorf("Live() mismatch (-want +got):\n%s", diff)
	}

	dev.Destroy()
	dev.Release()
	surf.Release()
	inst.Release()
	if n := d.Outstanding(); n != 0 {
		t.Errorf("Outstanding() = %d, want 0", n)
	}
	if got := d.Created()[KindAdapter]; got != 1 {
		t.Errorf("Created()[Adapter] = %d, want 1", got)
	}
}

func TestDriver_DoubleReleaseIsViolation(t *testing.T) {
	d := New()
	inst, err := d.CreateInstance(nil)
	if err != nil {
		t.Fatal(err)
	}
	inst.Release()
	inst.Release()

	if got := d.Violations(); got != 1 {
		t.Errorf("Violations() = %d, want 1", got)
	}
	if n := d.Outstanding(); n != 0 {
		t.Errorf("Outstanding() = %d, want 0", n)
	}
	want := []string{"CreateInstance", "ReleaseInstance", "ReleaseInstance"}
	if diff := cmp.Diff(want, d.Calls()); diff != "" {
		t.Errorf("Calls() mismatch (-want +got):\n%s", diff)
	}
}

func TestDriver_InvalidSurfaceTarget(t *testing.T) {
	d := New()
	inst, _ := d.CreateInstance(nil)
	if _, err := inst.CreateSurface(gpucore.SurfaceTarget{}); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("CreateSurface(zero) error = %v, want ErrInvalidTarget", err)
	}
}

func TestDriver_CallbackModes(t *testing.T) {
	tests := []struct {
		name       string
		opts       []Option
		wantStatus gpucore.RequestStatus
		wantHandle bool
		wantMsg    string
	}{
		{"sync", nil, gpucore.RequestStatusSuccess, true, ""},
		{"deferred", []Option{WithAdapterCallback(CallbackDeferred), WithCallbackDelay(time.Millisecond)}, gpucore.RequestStatusSuccess, true, ""},
		{"nil handle", []Option{WithAdapterCallback(CallbackNilHandle)}, gpucore.RequestStatusSuccess, false, ""},
		{"failure", []Option{WithAdapterFailure("nope")}, gpucore.RequestStatusError, false, "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(tt.opts...)
			inst, _ := d.CreateInstance(nil)

			done := make(chan struct{})
			var (
				status gpucore.RequestStatus
				got    gpucore.Adapter
				msg    string
			)
			inst.RequestAdapter(nil, func(s gpucore.RequestStatus, a gpucore.Adapter, m string) {
				status, got, msg = s, a, m
				close(done)
			})
			<-done

			if status != tt.wantStatus || (got != nil) != tt.wantHandle || msg != tt.wantMsg {
				t.Errorf("callback = (%v, %v, %q), want (%v, handle %v, %q)", status, got, msg, tt.wantStatus, tt.wantHandle, tt.wantMsg)
			}
		})
	}
}

func TestDriver_CallbackNever(t *testing.T) {
	d := New(WithDeviceCallback(CallbackNever))
	inst, _ := d.CreateInstance(nil)
	var adapter gpucore.Adapter
	inst.RequestAdapter(nil, func(_ gpucore.RequestStatus, a gpucore.Adapter, _ string) { adapter = a })

	fired := false
	adapter.RequestDevice(nil, func(gpucore.RequestStatus, gpucore.Device, string) { fired = true })
	d.Wait()
	if fired {
		t.Error("CallbackNever delivered a callback")
	}
}

func TestDriver_AcquireSequence(t *testing.T) {
	oom := gpucore.ErrOutOfMemory
	d := New(WithAcquireSequence(
		Acquire{Status: gputypes.SurfaceStatusOutdated},
		Acquire{Err: oom},
		Acquire{Status: gputypes.SurfaceStatusSuboptimal},
	))
	_, surf, _ := newDevice(t, d)

	tests := []struct {
		wantStatus gputypes.SurfaceStatus
		wantTex    bool
		wantErr    error
	}{
		{gputypes.SurfaceStatusOutdated, false, nil},
		{gputypes.SurfaceStatusUnknown, false, oom},
		{gputypes.SurfaceStatusSuboptimal, true, nil},
		{gputypes.SurfaceStatusGood, true, nil},
	}
	for i, tt := range tests {
		tex, status, err := surf.GetCurrentTexture()
		if status != tt.wantStatus || (tex != nil) != tt.wantTex || !errors.Is(err, tt.wantErr) {
			t.Errorf("acquire %d = (%v, %v, %v), want (texture %v, %v, %v)", i, tex, status, err, tt.wantTex, tt.wantStatus, tt.wantErr)
		}
		if tex != nil {
			tex.Release()
		}
	}
}

func TestDriver_SetPipelineValidation(t *testing.T) {
	d := New()
	_, surf, dev := newDevice(t, d)

	var errs []string
	dev.SetUncapturedErrorCallback(func(typ gpucore.ErrorType, msg string) {
		errs = append(errs, typ.String()+": "+msg)
	})

	tex, _, _ := surf.GetCurrentTexture()
	enc := dev.CreateCommandEncoder("")
	pass := enc.BeginRenderPass(&gpucore.RenderPassDescriptor{
		ColorAttachments: []gpucore.ColorAttachment{{View: tex.CreateView()}},
	})
	pass.SetPipeline(nil)
	pass.End()

	want := []string{"Validation: SetPipeline: invalid pipeline"}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("device errors mismatch (-want +got):\n%s", diff)
	}
}

func TestDriver_InjectDeviceError(t *testing.T) {
	d := New()
	if d.InjectDeviceError(gpucore.ErrorTypeInternal, "x") {
		t.Error("InjectDeviceError() without a device reported delivery")
	}
	_, _, dev := newDevice(t, d)
	if d.InjectDeviceError(gpucore.ErrorTypeInternal, "x") {
		t.Error("InjectDeviceError() without a callback reported delivery")
	}

	var got gpucore.ErrorType
	dev.SetUncapturedErrorCallback(func(typ gpucore.ErrorType, _ string) { got = typ })
	if !d.InjectDeviceError(gpucore.ErrorTypeOutOfMemory, "x") {
		t.Error("InjectDeviceError() not delivered")
	}
	if got != gpucore.ErrorTypeOutOfMemory {
		t.Errorf("callback type = %v, want OutOfMemory", got)
	}
}

func TestDriver_InjectedStageErrors(t *testing.T) {
	boom := errors.New("boom")

	if _, err := New(WithInstanceError(boom)).CreateInstance(nil); !errors.Is(err, boom) {
		t.Errorf("CreateInstance() error = %v, want boom", err)
	}

	d := New(WithShaderModuleError(boom), WithPipelineError(boom), WithConfigureError(boom))
	_, surf, dev := newDevice(t, d)
	if _, err := dev.CreateShaderModule(&gpucore.ShaderModuleDescriptor{Source: gpucore.WGSLSource{}}); !errors.Is(err, boom) {
		t.Errorf("CreateShaderModule() error = %v, want boom", err)
	}
	if _, err := dev.CreateRenderPipeline(&gpucore.RenderPipelineDescriptor{}); !errors.Is(err, boom) {
		t.Errorf("CreateRenderPipeline() error = %v, want boom", err)
	}
	if err := surf.Configure(dev, &gputypes.SurfaceConfiguration{}); !errors.Is(err, boom) {
		t.Errorf("Configure() error = %v, want boom", err)
	}
	if len(d.Configurations()) != 0 {
		t.Error("failed Configure was recorded")
	}
}
