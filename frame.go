package triangle

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/triangle/gpucore"
)

// clearColor is the opaque blue every frame is cleared to.
var clearColor = gputypes.Color{R: 0, G: 121.0 / 255.0, B: 255.0 / 255.0, A: 1}

// FrameRenderer executes the per-frame protocol against long-lived handles
// owned by a Context.
type FrameRenderer struct {
	ledger   *Ledger
	surface  gpucore.Surface
	device   gpucore.Device
	pipeline gpucore.RenderPipeline

	// reconfigure re-applies the surface configuration for the current
	// framebuffer size.
	reconfigure func() error

	frames  uint64
	skipped uint64
}

// Render draws one frame:
//
//	acquire texture, create view
//	create encoder, begin pass, set pipeline, draw(3,1,0,0), end pass
//	release view, release pass
//	finish, release encoder
//	get queue, submit
//	release command buffer, release queue, present
//	release texture
//
// Encoding never fails here; GPU-side errors reach the device error
// callback. An acquisition that yields no texture returns ErrFrameSkipped.
func (r *FrameRenderer) Render() error {
	tex, status, err := r.surface.GetCurrentTexture()
	if err != nil {
		return r.skip(status, err)
	}

	switch status {
	case gputypes.SurfaceStatusGood, gputypes.SurfaceStatusSuboptimal:
	case gputypes.SurfaceStatusOutdated, gputypes.SurfaceStatusLost:
		if !r.refresh(status) {
			return r.idle(status)
		}
		return r.skip(status, nil)
	default:
		return r.skip(status, nil)
	}
	if tex == nil {
		return r.skip(status, ErrNilHandle)
	}

	texture := track(r.ledger, KindSurfaceTexture, tex)
	view := track(r.ledger, KindTextureView, texture.Handle().CreateView())

	encoder := track(r.ledger, KindCommandEncoder, r.device.CreateCommandEncoder("triangle frame"))
	pass := track(r.ledger, KindRenderPassEncoder, encoder.Handle().BeginRenderPass(&gpucore.RenderPassDescriptor{
		Label: "triangle pass",
		ColorAttachments: []gpucore.ColorAttachment{{
			View:       view.Handle(),
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clearColor,
		}},
	}))
	pass.Handle().SetPipeline(r.pipeline)
	pass.Handle().Draw(3, 1, 0, 0)
	pass.Handle().End()

	view.Release()
	pass.Release()

	cmd := track(r.ledger, KindCommandBuffer, encoder.Handle().Finish())
	encoder.Release()

	queue := track(r.ledger, KindQueue, r.device.GetQueue())
	queue.Handle().Submit(cmd.Handle())

	cmd.Release()
	queue.Release()
	r.surface.Present(texture.Handle())

	texture.Release()
	r.frames++

	if status == gputypes.SurfaceStatusSuboptimal {
		r.refresh(status)
	}
	return nil
}

// refresh reconfigures the surface after status. It reports false when the
// window has no drawable area, in which case nothing was configured.
func (r *FrameRenderer) refresh(status gputypes.SurfaceStatus) bool {
	err := r.reconfigure()
	switch {
	case err == nil:
	case errors.Is(err, ErrZeroSize):
		return false
	default:
		Logger().Warn("triangle: surface reconfigure failed", "status", status, "err", err)
	}
	return true
}

// idle skips a frame while the window is minimized or empty. It happens
// every tick until the window is restored, so it only logs at debug level.
func (r *FrameRenderer) idle(status gputypes.SurfaceStatus) error {
	r.skipped++
	Logger().Debug("triangle: window has no area, frame skipped", "status", status)
	return fmt.Errorf("%w: surface status %s: %w", ErrFrameSkipped, status, ErrZeroSize)
}

func (r *FrameRenderer) skip(status gputypes.SurfaceStatus, cause error) error {
	r.skipped++
	if cause != nil {
		Logger().Error("triangle: surface texture unavailable", "status", status, "err", cause)
		return fmt.Errorf("%w: %w", ErrFrameSkipped, cause)
	}
	Logger().Warn("triangle: surface texture unavailable", "status", status)
	return fmt.Errorf("%w: surface status %s", ErrFrameSkipped, status)
}

// Frames returns the number of presented frames.
func (r *FrameRenderer) Frames() uint64 { return r.frames }

// Skipped returns the number of frames skipped at acquisition.
func (r *FrameRenderer) Skipped() uint64 { return r.skipped }
