// Package wgpu implements gpucore.Driver on top of gogpu/wgpu, the Pure Go
// WebGPU implementation. It supports the Vulkan, Metal and DX12 backends,
// depending on the platform.
//
// Importing the package registers the driver under backend.NameWGPU and links
// every HAL backend available on the build platform:
//
//	import _ "github.com/gogpu/triangle/backend/wgpu"
//
// # Callbacks
//
// gogpu/wgpu requests adapters and devices synchronously. The driver invokes
// the request callback before RequestAdapter or RequestDevice returns.
//
// # Errors
//
// Recording calls (render pass, finish, submit, present) do not return
// errors in gpucore. Failures reported by gogpu/wgpu at those points are
// routed to the device's uncaptured error callback, classified by
// [classify].
//
// # Deferred destruction
//
// gogpu/wgpu defers the destruction of a texture view until the submission
// that last referenced it completes. A view released before its command
// buffer was submitted is therefore held by the device and released right
// after the next Submit.
package wgpu
