package mesh

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-harness/common"
	"github.com/Carmen-Shannon/oxy-harness/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

// StaticMesh is indexed geometry uploaded once at creation. Its buffers are never written again.
type StaticMesh[V Vertex, I Index] struct {
	imageSlots

	label        string
	vertexBuffer renderer.Buffer
	indexBuffer  renderer.Buffer
	vertexCount  int
	indexCount   uint32
	indexFormat  wgpu.IndexFormat
}

// NewStaticMesh creates the vertex and index buffers for verts and indices and uploads them.
// The slices are not retained.
//
// Parameters:
//   - dev: the device that creates the buffers; borrowed, not owned
//   - verts: the vertex data, at least one vertex
//   - indices: the index data, at least one index
//   - opts: variadic MeshBuilderOption functions (WithLabel)
//
// Returns:
//   - *StaticMesh[V, I]: the uploaded mesh
//   - error: ErrEmptyMesh, or an error if a buffer could not be created
func NewStaticMesh[V Vertex, I Index](dev renderer.Device, verts []V, indices []I, opts ...MeshBuilderOption) (*StaticMesh[V, I], error) {
	cfg := newMeshConfig("Static Mesh", opts...)
	if len(verts) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("%w: %q has %d vertices, %d indices", ErrEmptyMesh, cfg.label, len(verts), len(indices))
	}

	m := &StaticMesh[V, I]{
		label:       cfg.label,
		vertexCount: len(verts),
		indexCount:  uint32(len(indices)),
		indexFormat: IndexFormat[I](),
	}

	var err error
	m.vertexBuffer, err = dev.CreateBufferInit(
		cfg.label+" Vertex Buffer",
		common.PadBytes(common.SliceToBytes(verts)),
		wgpu.BufferUsageVertex,
	)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: vertex buffer: %w", cfg.label, err)
	}

	m.indexBuffer, err = createIndexBuffer(dev, cfg.label, indices)
	if err != nil {
		m.Release()
		return nil, err
	}
	return m, nil
}

// DrawAll binds the mesh's images and buffers and draws every index once.
func (m *StaticMesh[V, I]) DrawAll(pass renderer.RenderPass) {
	m.bind(pass)
	pass.SetVertexBuffer(0, m.vertexBuffer, 0)
	pass.SetIndexBuffer(m.indexBuffer, m.indexFormat)
	pass.DrawIndexed(m.indexCount, 1, 0, 0, 0)
}

func (m *StaticMesh[V, I]) Label() string {
	return m.label
}

// IndexCount returns the number of indices, which is the length of the slice the mesh was created from.
func (m *StaticMesh[V, I]) IndexCount() uint32 {
	return m.indexCount
}

func (m *StaticMesh[V, I]) VertexCount() int {
	return m.vertexCount
}

// Release frees both GPU buffers. Calls after the first do nothing.
func (m *StaticMesh[V, I]) Release() {
	releaseBuffer(&m.vertexBuffer)
	releaseBuffer(&m.indexBuffer)
}
