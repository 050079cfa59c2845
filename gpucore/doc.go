// Package gpucore defines the driver contract the triangle context is written
// against.
//
// Every GPU object the context touches is an opaque handle with a single
// owner and a single release. The interfaces in this package mirror the
// WebGPU object model one-to-one so that a driver is a thin translation layer:
//
//	+-----------------------+
//	|   triangle.Context    |
//	| (lifecycle + frames)  |
//	+-----------+-----------+
//	            |
//	      gpucore.Driver
//	            |
//	 +----------+----------+
//	 |                     |
//	 v                     v
//	backend/wgpu        backend/headless
//	(gogpu/wgpu)        (recording stub)
//
// # Asynchronous requests
//
// [Instance.RequestAdapter] and [Adapter.RequestDevice] report their result
// through a callback. Drivers may invoke the callback before the request call
// returns, later from another goroutine, or not at all. Callers must not
// assume any of these.
//
// # Errors
//
// Object creation that can fail for reasons outside the caller's control
// returns an error. Recording operations (render pass, draw, submit, present)
// do not: failures there are delivered to the device's [ErrorCallback], the
// same way a WebGPU implementation reports them asynchronously.
//
// # Release
//
// Every handle has a Release method. Releasing a handle twice is a driver
// contract violation; the triangle context guards against it with its own
// tracked wrappers.
package gpucore
