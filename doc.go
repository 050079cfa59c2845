// Package triangle renders a single colored triangle into a window through
// WebGPU, following the WebGPU object lifecycle and per-frame protocol
// exactly.
//
// # Overview
//
// A [Context] owns the long-lived GPU objects of one window. [Context.Init]
// creates them in dependency order:
//
//	instance -> surface -> adapter -> device -> surface configuration -> pipeline
//
// The adapter is released as soon as the device exists, and the shader
// module as soon as the pipeline exists. [Context.Close] releases the rest
// in reverse order.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/triangle"
//	    "github.com/gogpu/triangle/backend/wgpu"
//	    "github.com/gogpu/triangle/window/x11"
//	)
//
//	func main() {
//	    win, err := x11.New(x11.Config{Title: "Triangle", Width: 800, Height: 600})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer win.Close()
//
//	    c := triangle.New(wgpu.New(), win)
//	    if err := c.Init(context.Background()); err != nil {
//	        log.Fatal(err)
//	    }
//	    defer c.Close()
//
//	    if err := c.Run(context.Background()); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Backend Selection
//
// [SelectBackend] picks the GPU API from the window's platform: DX12 on
// Win32, Metal on Cocoa and Vulkan everywhere else. [WithBackend] overrides
// the choice.
//
// # Adapter and Device Negotiation
//
// Adapters and devices are requested through callbacks. The Context blocks
// on a single-slot channel until the callback fires, bounded by
// [WithNegotiationTimeout] and the Init context. A callback that arrives
// after the Context gave up releases its handle.
//
// # Frames
//
// [FrameRenderer] runs once per window tick: acquire the surface texture,
// record one render pass that clears to opaque blue and draws three
// vertices, submit, present and release every per-frame object before
// returning. If the surface reports Outdated or Lost the frame is skipped
// and the surface reconfigured; Suboptimal frames are presented and then
// reconfigured.
//
// # Errors
//
// Init failures wrap one sentinel per stage ([ErrInstance],
// [ErrAdapterRequest], ...). Errors the GPU reports while rendering reach
// the device's uncaptured-error callback, are logged and counted
// ([Context.DeviceErrors]) and never stop rendering.
//
// # Resource Accounting
//
// Every handle passes through a [Ledger] that counts creations and
// releases per [ResourceKind]. A handle released twice is counted as a
// violation and the second release never reaches the driver.
//
// # Logging
//
// Logging is silent by default. See [SetLogger].
package triangle
