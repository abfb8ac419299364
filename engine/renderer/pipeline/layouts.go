package pipeline

import "github.com/cogentcore/webgpu/wgpu"

const (
	// SampledTextureBinding is the binding of the texture view in SampledTextureLayout.
	SampledTextureBinding = 0

	// SampledSamplerBinding is the binding of the sampler in SampledTextureLayout.
	SampledSamplerBinding = 1
)

// SampledTextureLayout returns the bind group layout used for images: a filterable 2D float texture
// and a filtering sampler, both visible to the fragment stage.
// Pipelines that sample an image declare this layout at the group the image is bound to.
//
// Parameters:
//   - label: the debug label for the layout
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the texture plus sampler layout
func SampledTextureLayout(label string) wgpu.BindGroupLayoutDescriptor {
	texture := wgpu.BindGroupLayoutEntry{
		Binding:    SampledTextureBinding,
		Visibility: wgpu.ShaderStageFragment,
	}
	texture.Texture.SampleType = wgpu.TextureSampleTypeFloat
	texture.Texture.ViewDimension = wgpu.TextureViewDimension2D

	sampler := wgpu.BindGroupLayoutEntry{
		Binding:    SampledSamplerBinding,
		Visibility: wgpu.ShaderStageFragment,
	}
	sampler.Sampler.Type = wgpu.SamplerBindingTypeFiltering

	return wgpu.BindGroupLayoutDescriptor{
		Label:   label,
		Entries: []wgpu.BindGroupLayoutEntry{texture, sampler},
	}
}
