package backend

import (
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/triangle/gpucore"
)

// DriverFactory creates a new driver.
type DriverFactory func() gpucore.Driver

// Priority order for driver selection (first registered wins).
// The real GPU driver is preferred; the headless driver is the fallback.
var registry = gpucontext.NewRegistry[gpucore.Driver](
	gpucontext.WithPriority(NameWGPU, NameHeadless),
)

// Register registers a driver factory with the given name.
// This is typically called from init() functions in driver packages.
// If a driver with the same name is already registered, it is replaced.
func Register(name string, factory DriverFactory) {
	registry.Register(name, factory)
}

// Unregister removes a driver from the registry.
// This is useful for testing.
func Unregister(name string) {
	registry.Unregister(name)
}

// Available returns the registered driver names.
func Available() []string {
	return registry.Available()
}

// IsRegistered checks if a driver with the given name is registered.
func IsRegistered(name string) bool {
	return registry.Has(name)
}

// Get returns a new driver by name.
// Returns nil if the driver is not registered.
func Get(name string) gpucore.Driver {
	return registry.Get(name)
}

// Default returns the best available driver based on priority.
// Priority order: wgpu > headless.
// Returns nil if no drivers are registered.
func Default() gpucore.Driver {
	return registry.Best()
}

// Lookup returns the driver registered under name, or the default driver
// when name is empty.
func Lookup(name string) (gpucore.Driver, error) {
	if name == "" {
		if d := Default(); d != nil {
			return d, nil
		}
		return nil, ErrBackendNotAvailable
	}
	d := Get(name)
	if d == nil {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrBackendNotAvailable, name, Available())
	}
	return d, nil
}
