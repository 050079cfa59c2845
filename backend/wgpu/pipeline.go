package wgpu

import (
	"fmt"

	"github.com/gogpu/wgpu"

	"github.com/gogpu/triangle/gpucore"
)

type shaderModule struct {
	module *wgpu.ShaderModule
}

func (m *shaderModule) Release() { m.module.Release() }

// shaderDescriptor converts a gpucore shader descriptor.
func shaderDescriptor(desc *gpucore.ShaderModuleDescriptor) (*wgpu.ShaderModuleDescriptor, error) {
	d := &wgpu.ShaderModuleDescriptor{Label: desc.Label}
	switch src := desc.Source.(type) {
	case gpucore.WGSLSource:
		d.WGSL = src.Code
	case gpucore.SPIRVSource:
		d.SPIRV = src.Words
	default:
		return nil, fmt.Errorf("wgpu: unsupported shader source %T", desc.Source)
	}
	return d, nil
}

func (d *device) CreateShaderModule(desc *gpucore.ShaderModuleDescriptor) (gpucore.ShaderModule, error) {
	if desc == nil {
		return nil, fmt.Errorf("wgpu: shader module descriptor is nil")
	}
	wd, err := shaderDescriptor(desc)
	if err != nil {
		return nil, err
	}
	m, err := d.dev.CreateShaderModule(wd)
	if err != nil {
		return nil, err
	}
	return &shaderModule{module: m}, nil
}

// renderPipeline owns the pipeline and the empty layout it was built with.
type renderPipeline struct {
	pipeline *wgpu.RenderPipeline
	layout   *wgpu.PipelineLayout
}

func (p *renderPipeline) Release() {
	p.pipeline.Release()
	p.layout.Release()
}

// CreateRenderPipeline builds the pipeline with an explicit layout that has
// no bind groups. Shader modules must come from this device.
func (d *device) CreateRenderPipeline(desc *gpucore.RenderPipelineDescriptor) (gpucore.RenderPipeline, error) {
	if desc == nil {
		return nil, fmt.Errorf("wgpu: render pipeline descriptor is nil")
	}
	vs, ok := desc.Vertex.Module.(*shaderModule)
	if !ok {
		return nil, fmt.Errorf("wgpu: vertex module %T was not created by this driver", desc.Vertex.Module)
	}
	fs, ok := desc.Fragment.Module.(*shaderModule)
	if !ok {
		return nil, fmt.Errorf("wgpu: fragment module %T was not created by this driver", desc.Fragment.Module)
	}

	layout, err := d.dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{Label: desc.Label + " layout"})
	if err != nil {
		return nil, fmt.Errorf("wgpu: pipeline layout: %w", err)
	}

	d.dev.PushErrorScope(wgpu.ErrorFilterValidation)
	p, err := d.dev.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     vs.module,
			EntryPoint: desc.Vertex.EntryPoint,
		},
		Primitive:   desc.Primitive,
		Multisample: desc.Multisample,
		Fragment: &wgpu.FragmentState{
			Module:     fs.module,
			EntryPoint: desc.Fragment.EntryPoint,
			Targets:    desc.Targets,
		},
	})
	if scoped := d.dev.PopErrorScope(); scoped != nil && err == nil {
		err = scoped
	}
	if err != nil {
		if p != nil {
			p.Release()
		}
		layout.Release()
		return nil, err
	}
	return &renderPipeline{pipeline: p, layout: layout}, nil
}
