// Package backend is the registry of GPU drivers.
//
// A driver implements gpucore.Driver and registers itself from an init()
// function, so selecting a driver is a matter of importing its package:
//
//	import _ "github.com/gogpu/triangle/backend/wgpu"
//
// # Driver Selection
//
// Use Default() to get the best available driver, or Get() to request a
// specific driver by name:
//
//	// Get the default (best available) driver
//	d := backend.Default()
//
//	// Or request a specific driver
//	d := backend.Get(backend.NameHeadless)
//
// # Available Drivers
//
//   - wgpu: gogpu/wgpu, a pure Go WebGPU implementation (Vulkan, Metal, DX12)
//   - headless: records every call and owns no GPU memory; used by tests and
//     offscreen runs
package backend
