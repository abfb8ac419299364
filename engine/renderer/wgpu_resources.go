package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-harness/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuBuffer struct {
	label  string
	size   uint64
	buffer *wgpu.Buffer
}

var _ Buffer = &wgpuBuffer{}

func (b *wgpuBuffer) Label() string {
	return b.label
}

func (b *wgpuBuffer) Size() uint64 {
	return b.size
}

func (b *wgpuBuffer) Release() {
	if b.buffer != nil {
		b.buffer.Release()
		b.buffer = nil
	}
}

type wgpuImage struct {
	label         string
	width, height uint32

	texture   *wgpu.Texture
	view      *wgpu.TextureView
	sampler   *wgpu.Sampler
	bindGroup *wgpu.BindGroup
}

var _ Image = &wgpuImage{}

func (i *wgpuImage) Label() string {
	return i.label
}

func (i *wgpuImage) Width() uint32 {
	return i.width
}

func (i *wgpuImage) Height() uint32 {
	return i.height
}

func (i *wgpuImage) Release() {
	if i.bindGroup != nil {
		i.bindGroup.Release()
		i.bindGroup = nil
	}
	if i.sampler != nil {
		i.sampler.Release()
		i.sampler = nil
	}
	if i.view != nil {
		i.view.Release()
		i.view = nil
	}
	if i.texture != nil {
		i.texture.Release()
		i.texture = nil
	}
}

// wgpuRenderPass adapts a *wgpu.RenderPassEncoder to RenderPass.
type wgpuRenderPass struct {
	pass *wgpu.RenderPassEncoder
}

var _ RenderPass = &wgpuRenderPass{}

func (p *wgpuRenderPass) SetPipeline(pl pipeline.Pipeline) {
	rp := pl.Pipeline()
	if rp == nil {
		panic(fmt.Sprintf("renderer: pipeline %q used before registration", pl.PipelineKey()))
	}
	p.pass.SetPipeline(rp)
}

func (p *wgpuRenderPass) SetVertexBuffer(slot uint32, buf Buffer, offset uint64) {
	p.pass.SetVertexBuffer(slot, unwrapBuffer(buf), offset, wgpu.WholeSize)
}

func (p *wgpuRenderPass) SetIndexBuffer(buf Buffer, format wgpu.IndexFormat) {
	p.pass.SetIndexBuffer(unwrapBuffer(buf), format, 0, wgpu.WholeSize)
}

func (p *wgpuRenderPass) SetImage(slot uint32, img Image) {
	if slot >= MaxBindGroups {
		panic(fmt.Sprintf("renderer: image group %d exceeds the %d bind group limit", slot, MaxBindGroups))
	}
	wi, ok := img.(*wgpuImage)
	if !ok || wi.bindGroup == nil {
		panic(fmt.Sprintf("renderer: image %T is not a live wgpu image", img))
	}
	p.pass.SetBindGroup(slot, wi.bindGroup, nil)
}

func (p *wgpuRenderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.pass.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

// unwrapBuffer returns the native handle behind buf. Passing a buffer from another device or a
// released buffer is a programming error.
func unwrapBuffer(buf Buffer) *wgpu.Buffer {
	wb, ok := buf.(*wgpuBuffer)
	if !ok || wb.buffer == nil {
		panic(fmt.Sprintf("renderer: buffer %T is not a live wgpu buffer", buf))
	}
	return wb.buffer
}
