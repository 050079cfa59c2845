package triangle

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/triangle/gpucore"
)

// pipelineDescriptor returns the fixed pipeline state: premultiplied alpha
// blending, single-sampled, triangle list with counter-clockwise front
// faces and back-face culling, no vertex buffers and no depth/stencil.
func pipelineDescriptor(module gpucore.ShaderModule, format gputypes.TextureFormat, vertexEntry, fragmentEntry string) *gpucore.RenderPipelineDescriptor {
	blend := gputypes.BlendStatePremultiplied()
	return &gpucore.RenderPipelineDescriptor{
		Label: "triangle pipeline",
		Vertex: gpucore.ProgrammableStage{
			Module:     module,
			EntryPoint: vertexEntry,
		},
		Fragment: gpucore.ProgrammableStage{
			Module:     module,
			EntryPoint: fragmentEntry,
		},
		Targets: []gputypes.ColorTargetState{{
			Format:    format,
			Blend:     &blend,
			WriteMask: gputypes.ColorWriteMaskAll,
		}},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeBack,
		},
		Multisample: gputypes.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	}
}

// buildPipeline creates the shader module, builds the render pipeline from
// it and releases the module before returning, whether or not the build
// succeeded.
func buildPipeline(l *Ledger, device gpucore.Device, src gpucore.ShaderSource, o *options) (*tracked[gpucore.RenderPipeline], error) {
	sm, err := device.CreateShaderModule(&gpucore.ShaderModuleDescriptor{
		Label:  "triangle shader",
		Source: src,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShaderModule, err)
	}
	module := track(l, KindShaderModule, sm)
	defer module.Release()

	p, err := device.CreateRenderPipeline(pipelineDescriptor(module.Handle(), o.format, o.vertexEntry, o.fragmentEntry))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPipeline, err)
	}
	return track(l, KindRenderPipeline, p), nil
}
