package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("flat", "// wgsl")

	assert.Equal(t, "flat", p.PipelineKey())
	assert.Equal(t, "// wgsl", p.Source())
	assert.Equal(t, DefaultVertexEntryPoint, p.VertexEntryPoint())
	assert.Equal(t, DefaultFragmentEntryPoint, p.FragmentEntryPoint())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
	assert.False(t, p.BlendEnabled())
	assert.NotNil(t, p.BlendState())
	assert.Nil(t, p.Pipeline())
}

func TestPipelineOptions(t *testing.T) {
	layout := wgpu.VertexBufferLayout{ArrayStride: 16, StepMode: wgpu.VertexStepModeVertex}
	p := NewPipeline("textured", "",
		WithEntryPoints("vert", ""),
		WithVertexLayouts(layout),
		WithBindGroupLayouts(SampledTextureLayout("image")),
		WithBlendEnabled(true),
		WithCullMode(wgpu.CullModeBack),
		WithTopology(wgpu.PrimitiveTopologyLineStrip),
	)

	assert.Equal(t, "vert", p.VertexEntryPoint())
	assert.Equal(t, DefaultFragmentEntryPoint, p.FragmentEntryPoint())
	assert.Len(t, p.VertexLayouts(), 1)
	assert.Equal(t, uint64(16), p.VertexLayouts()[0].ArrayStride)
	assert.Len(t, p.BindGroupLayouts(), 1)
	assert.True(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyLineStrip, p.Topology())
}

func TestSampledTextureLayout(t *testing.T) {
	desc := SampledTextureLayout("image")

	assert.Equal(t, "image", desc.Label)
	assert.Len(t, desc.Entries, 2)
	assert.Equal(t, uint32(SampledTextureBinding), desc.Entries[0].Binding)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, desc.Entries[0].Texture.SampleType)
	assert.Equal(t, uint32(SampledSamplerBinding), desc.Entries[1].Binding)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, desc.Entries[1].Sampler.Type)
}

func TestReleaseWithoutRegistration(t *testing.T) {
	p := NewPipeline("unused", "")

	assert.NotPanics(t, func() {
		p.Release()
		p.Release()
	})
}
