package backend

import (
	"errors"
	"testing"

	"github.com/gogpu/triangle/gpucore"
)

type stubDriver struct{ name string }

func (d stubDriver) Name() string { return d.name }

func (d stubDriver) CreateInstance(*gpucore.InstanceDescriptor) (gpucore.Instance, error) {
	return nil, errors.New("stub")
}

func TestRegistry(t *testing.T) {
	const name = "registry-test"
	Register(name, func() gpucore.Driver { return stubDriver{name: name} })
	t.Cleanup(func() { Unregister(name) })

	if !IsRegistered(name) {
		t.Fatalf("IsRegistered(%q) = false after Register", name)
	}
	d := Get(name)
	if d == nil || d.Name() != name {
		t.Fatalf("Get(%q) = %v, want stub driver", name, d)
	}

	found := false
	for _, n := range Available() {
		if n == name {
			found = true
		}
	}
	if !found {
		t.Errorf("Available() = %v, missing %q", Available(), name)
	}
}

func TestDefaultPriority(t *testing.T) {
	Register(NameHeadless, func() gpucore.Driver { return stubDriver{name: NameHeadless} })
	Register(NameWGPU, func() gpucore.Driver { return stubDriver{name: NameWGPU} })
	t.Cleanup(func() {
		Unregister(NameHeadless)
		Unregister(NameWGPU)
	})

	if got := Default().Name(); got != NameWGPU {
		t.Errorf("Default().Name() = %q, want %q", got, NameWGPU)
	}

	Unregister(NameWGPU)
	if got := Default().Name(); got != NameHeadless {
		t.Errorf("Default().Name() without wgpu = %q, want %q", got, NameHeadless)
	}
}

func TestLookup(t *testing.T) {
	if _, err := Lookup("does-not-exist"); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Lookup(unknown) error = %v, want ErrBackendNotAvailable", err)
	}

	Register(NameHeadless, func() gpucore.Driver { return stubDriver{name: NameHeadless} })
	t.Cleanup(func() { Unregister(NameHeadless) })

	d, err := Lookup("")
	if err != nil {
		t.Fatalf("Lookup(\"\") error = %v", err)
	}
	if d.Name() != NameHeadless {
		t.Errorf("Lookup(\"\").Name() = %q, want %q", d.Name(), NameHeadless)
	}
}
