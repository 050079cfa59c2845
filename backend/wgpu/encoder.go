package wgpu

import (
	"fmt"

	"github.com/gogpu/wgpu"

	"github.com/gogpu/triangle/gpucore"
)

// commandEncoder records one command buffer. A nil enc is the invalid
// object produced by a failed CreateCommandEncoder; every call on it is a
// no-op.
type commandEncoder struct {
	device   *device
	enc      *wgpu.CommandEncoder
	finished bool
}

func (e *commandEncoder) BeginRenderPass(desc *gpucore.RenderPassDescriptor) gpucore.RenderPassEncoder {
	if e.enc == nil || desc == nil {
		return &renderPass{device: e.device}
	}
	rp := &wgpu.RenderPassDescriptor{Label: desc.Label}
	for _, ca := range desc.ColorAttachments {
		v, ok := ca.View.(*textureView)
		if !ok || v.view == nil {
			e.device.report("BeginRenderPass", fmt.Errorf("wgpu: invalid color attachment view"))
			return &renderPass{device: e.device}
		}
		rp.ColorAttachments = append(rp.ColorAttachments, wgpu.RenderPassColorAttachment{
			View:       v.view,
			LoadOp:     ca.LoadOp,
			StoreOp:    ca.StoreOp,
			ClearValue: ca.ClearValue,
		})
	}
	pass, err := e.enc.BeginRenderPass(rp)
	if err != nil {
		e.device.report("BeginRenderPass", err)
		return &renderPass{device: e.device}
	}
	return &renderPass{device: e.device, pass: pass}
}

func (e *commandEncoder) Finish() gpucore.CommandBuffer {
	if e.enc == nil {
		return &commandBuffer{}
	}
	e.finished = true
	cb, err := e.enc.Finish()
	if err != nil {
		e.device.report("Finish", err)
		return &commandBuffer{}
	}
	return &commandBuffer{cb: cb}
}

// Release discards the encoder if it was never finished.
func (e *commandEncoder) Release() {
	if e.enc != nil && !e.finished {
		e.enc.DiscardEncoding()
	}
	e.enc = nil
}

// renderPass records draw commands. A nil pass is an invalid object.
type renderPass struct {
	device *device
	pass   *wgpu.RenderPassEncoder
}

func (p *renderPass) SetPipeline(pipeline gpucore.RenderPipeline) {
	if p.pass == nil {
		return
	}
	rp, ok := pipeline.(*renderPipeline)
	if !ok || rp.pipeline == nil {
		p.device.report("SetPipeline", fmt.Errorf("wgpu: invalid render pipeline"))
		return
	}
	p.pass.SetPipeline(rp.pipeline)
}

func (p *renderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	if p.pass == nil {
		return
	}
	p.pass.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *renderPass) End() {
	if p.pass == nil {
		return
	}
	if err := p.pass.End(); err != nil {
		p.device.report("EndRenderPass", err)
	}
}

// Release is a no-op: the pass belongs to its encoder.
func (p *renderPass) Release() { p.pass = nil }

// commandBuffer is a finished command buffer. A nil cb is an invalid object.
type commandBuffer struct {
	cb *wgpu.CommandBuffer
}

// Release recycles the encoder of an unsubmitted buffer; after Submit
// it only drops the bookkeeping.
func (b *commandBuffer) Release() {
	if b.cb != nil {
		b.cb.Release()
	}
	b.cb = nil
}

type queue struct {
	device *device
	q      *wgpu.Queue
}

// Submit submits every valid buffer and then lets wgpu destroy the views
// released while they were recorded.
func (q *queue) Submit(buffers ...gpucore.CommandBuffer) {
	cbs := make([]*wgpu.CommandBuffer, 0, len(buffers))
	for _, b := range buffers {
		if cb, ok := b.(*commandBuffer); ok && cb.cb != nil {
			cbs = append(cbs, cb.cb)
		}
	}
	if len(cbs) > 0 {
		if _, err := q.q.Submit(cbs...); err != nil {
			q.device.report("Submit", err)
		}
	}
	q.device.releaseViews()
}

// Release is a no-op: the queue belongs to the device.
func (q *queue) Release() {}
