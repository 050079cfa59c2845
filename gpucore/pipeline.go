package gpucore

import "github.com/gogpu/gputypes"

// InstanceDescriptor configures instance creation.
// The backend is a plain field rather than a chained extension struct.
type InstanceDescriptor struct {
	Backend gputypes.Backend
	Flags   gputypes.InstanceFlags
}

// RequestAdapterOptions configures adapter selection.
type RequestAdapterOptions struct {
	CompatibleSurface    Surface
	PowerPreference      gputypes.PowerPreference
	ForceFallbackAdapter bool
}

// DeviceDescriptor configures device creation. The zero value requests a
// device with default features and limits.
type DeviceDescriptor struct {
	Label string
}

// ShaderSource is the source of a shader module. It is one of
// [WGSLSource] or [SPIRVSource].
type ShaderSource interface {
	shaderSource()
}

// WGSLSource is WGSL shader text.
type WGSLSource struct {
	Code string
}

// SPIRVSource is a SPIR-V binary as 32-bit words.
type SPIRVSource struct {
	Words []uint32
}

func (WGSLSource) shaderSource()  {}
func (SPIRVSource) shaderSource() {}

// ShaderModuleDescriptor configures shader module creation.
type ShaderModuleDescriptor struct {
	Label  string
	Source ShaderSource
}

// ProgrammableStage names a shader module entry point.
type ProgrammableStage struct {
	Module     ShaderModule
	EntryPoint string
}

// RenderPipelineDescriptor configures render pipeline creation.
// There are no vertex buffers and no depth/stencil state.
type RenderPipelineDescriptor struct {
	Label       string
	Vertex      ProgrammableStage
	Fragment    ProgrammableStage
	Targets     []gputypes.ColorTargetState
	Primitive   gputypes.PrimitiveState
	Multisample gputypes.MultisampleState
}

// ColorAttachment is one color target of a render pass.
type ColorAttachment struct {
	View       TextureView
	LoadOp     gputypes.LoadOp
	StoreOp    gputypes.StoreOp
	ClearValue gputypes.Color
}

// RenderPassDescriptor configures a render pass.
type RenderPassDescriptor struct {
	Label            string
	ColorAttachments []ColorAttachment
}
