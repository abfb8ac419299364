package mesh

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-harness/common"
	"github.com/Carmen-Shannon/oxy-harness/engine/renderer"
	"github.com/Carmen-Shannon/oxy-harness/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

type testVertex struct {
	Pos [2]float32
	UV  [2]float32
}

func (testVertex) Layout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 16,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
		},
	}
}

type oddVertex struct {
	A, B, C uint8
}

func (oddVertex) Layout() wgpu.VertexBufferLayout { return wgpu.VertexBufferLayout{ArrayStride: 3} }

func quad() ([]testVertex, []uint16) {
	verts := []testVertex{
		{Pos: [2]float32{-1, -1}, UV: [2]float32{0, 1}},
		{Pos: [2]float32{1, -1}, UV: [2]float32{1, 1}},
		{Pos: [2]float32{1, 1}, UV: [2]float32{1, 0}},
		{Pos: [2]float32{-1, 1}, UV: [2]float32{0, 0}},
	}
	return verts, []uint16{0, 1, 2, 0, 2, 3}
}

type fakeBuffer struct {
	label    string
	usage    wgpu.BufferUsage
	data     []byte
	releases int
}

func (b *fakeBuffer) Label() string { return b.label }
func (b *fakeBuffer) Size() uint64  { return uint64(len(b.data)) }
func (b *fakeBuffer) Release()      { b.releases++ }

type fakeWrite struct {
	buf    *fakeBuffer
	offset uint64
	size   int
}

type fakeDevice struct {
	frame   uint64
	buffers []*fakeBuffer
	writes  []fakeWrite
	failOn  string
}

var _ renderer.Device = &fakeDevice{}

func (d *fakeDevice) newBuffer(label string, size int, usage wgpu.BufferUsage) (renderer.Buffer, error) {
	if d.failOn != "" && d.failOn == label {
		return nil, errors.New("out of memory")
	}
	b := &fakeBuffer{label: label, usage: usage, data: make([]byte, size)}
	d.buffers = append(d.buffers, b)
	return b, nil
}

func (d *fakeDevice) CreateBufferInit(label string, contents []byte, usage wgpu.BufferUsage) (renderer.Buffer, error) {
	buf, err := d.newBuffer(label, len(contents), usage)
	if err != nil {
		return nil, err
	}
	copy(buf.(*fakeBuffer).data, contents)
	return buf, nil
}

func (d *fakeDevice) CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (renderer.Buffer, error) {
	return d.newBuffer(label, int(size), usage)
}

func (d *fakeDevice) WriteBuffer(buf renderer.Buffer, offset uint64, data []byte) error {
	fb := buf.(*fakeBuffer)
	if offset+uint64(len(data)) > uint64(len(fb.data)) {
		return errors.New("write out of bounds")
	}
	copy(fb.data[offset:], data)
	d.writes = append(d.writes, fakeWrite{buf: fb, offset: offset, size: len(data)})
	return nil
}

func (d *fakeDevice) CreateImage(label string, _ common.TextureStagingData, _ common.SamplerStagingData) (renderer.Image, error) {
	return &fakeImage{label: label}, nil
}

func (d *fakeDevice) FrameIndex() uint64 { return d.frame }

func (d *fakeDevice) buffer(label string) *fakeBuffer {
	for i := len(d.buffers) - 1; i >= 0; i-- {
		if d.buffers[i].label == label {
			return d.buffers[i]
		}
	}
	return nil
}

type fakeImage struct {
	label string
}

func (i *fakeImage) Label() string  { return i.label }
func (i *fakeImage) Width() uint32  { return 1 }
func (i *fakeImage) Height() uint32 { return 1 }
func (i *fakeImage) Release()       {}

type drawCall struct {
	indexCount, instanceCount, firstIndex uint32
	baseVertex                            int32
	firstInstance                         uint32
}

type fakePass struct {
	vertexBuffer renderer.Buffer
	vertexOffset uint64
	indexBuffer  renderer.Buffer
	indexFormat  wgpu.IndexFormat
	images       map[uint32]renderer.Image
	draws        []drawCall
}

var _ renderer.RenderPass = &fakePass{}

func newFakePass() *fakePass {
	return &fakePass{images: map[uint32]renderer.Image{}}
}

func (p *fakePass) SetPipeline(pipeline.Pipeline) {}

func (p *fakePass) SetVertexBuffer(_ uint32, buf renderer.Buffer, offset uint64) {
	p.vertexBuffer, p.vertexOffset = buf, offset
}

func (p *fakePass) SetIndexBuffer(buf renderer.Buffer, format wgpu.IndexFormat) {
	p.indexBuffer, p.indexFormat = buf, format
}

func (p *fakePass) SetImage(slot uint32, img renderer.Image) { p.images[slot] = img }

func (p *fakePass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.draws = append(p.draws, drawCall{indexCount, instanceCount, firstIndex, baseVertex, firstInstance})
}
