package mesh

import (
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-harness/common"
	"github.com/Carmen-Shannon/oxy-harness/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

// DynamicMesh is indexed geometry whose vertices are rewritten from a CPU mirror.
//
// Vertices is the source of truth. The GPU buffer only changes when UploadAll, UploadSlice or
// AppendSlice is called, so edits to Vertices are invisible to draws until then. The index buffer
// is fixed at creation.
type DynamicMesh[V Vertex, I Index] struct {
	imageSlots

	// Vertices is the CPU mirror. Edit it in place or grow it, then upload.
	Vertices []V

	dev          renderer.Device
	label        string
	vertexSize   uint64
	vertexBuffer renderer.Buffer
	indexBuffer  renderer.Buffer
	indexCount   uint32
	indexFormat  wgpu.IndexFormat

	// capacity is the vertex buffer size in whole vertices
	capacity int

	// baseOffset is the byte offset draws bind the vertex buffer at
	baseOffset uint64

	// append cursor in bytes, valid for cursorFrame only
	cursor      uint64
	cursorFrame uint64

	uploaded    bool
	uploadFrame uint64
}

// NewDynamicMesh creates a streaming vertex buffer holding verts and an immutable index buffer.
// verts becomes the mesh's Vertices mirror and is retained, not copied.
//
// Parameters:
//   - dev: the device that creates and writes the buffers; borrowed, not owned
//   - verts: the initial mirror; may be empty when WithCapacity reserves room
//   - indices: the index data, at least one index
//   - opts: variadic MeshBuilderOption functions (WithLabel, WithCapacity)
//
// Returns:
//   - *DynamicMesh[V, I]: the mesh with verts uploaded
//   - error: ErrEmptyMesh, ErrUnalignedVertex, or an error if a buffer could not be created
func NewDynamicMesh[V Vertex, I Index](dev renderer.Device, verts []V, indices []I, opts ...MeshBuilderOption) (*DynamicMesh[V, I], error) {
	cfg := newMeshConfig("Dynamic Mesh", opts...)
	capacity := max(len(verts), cfg.capacity)
	if capacity == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("%w: %q has capacity %d, %d indices", ErrEmptyMesh, cfg.label, capacity, len(indices))
	}
	vertexSize := common.SizeOf[V]()
	if vertexSize%common.CopyAlignment != 0 {
		return nil, fmt.Errorf("%w: %q vertex is %d bytes", ErrUnalignedVertex, cfg.label, vertexSize)
	}

	m := &DynamicMesh[V, I]{
		Vertices:    verts,
		dev:         dev,
		label:       cfg.label,
		vertexSize:  vertexSize,
		indexCount:  uint32(len(indices)),
		indexFormat: IndexFormat[I](),
		cursorFrame: dev.FrameIndex(),
	}

	var err error
	m.indexBuffer, err = createIndexBuffer(dev, cfg.label, indices)
	if err != nil {
		return nil, err
	}
	if err = m.allocate(capacity); err != nil {
		m.Release()
		return nil, err
	}
	if data := common.SliceToBytes(verts); len(data) > 0 {
		if err = dev.WriteBuffer(m.vertexBuffer, 0, data); err != nil {
			m.Release()
			return nil, fmt.Errorf("mesh %q: initial upload: %w", cfg.label, err)
		}
	}
	return m, nil
}

// allocate replaces the vertex buffer with a fresh one holding n vertices.
func (m *DynamicMesh[V, I]) allocate(n int) error {
	buf, err := m.dev.CreateBuffer(
		m.label+" Vertex Buffer",
		uint64(n)*m.vertexSize,
		wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst,
	)
	if err != nil {
		return fmt.Errorf("mesh %q: vertex buffer for %d vertices: %w", m.label, n, err)
	}
	releaseBuffer(&m.vertexBuffer)
	m.vertexBuffer = buf
	m.capacity = n
	return nil
}

// UploadAll replaces the GPU vertex contents with the whole mirror. If the mirror has outgrown the
// buffer a new buffer is allocated and the old one released. The base offset and the append cursor
// both return to zero.
//
// Call it at most once per frame. Debug builds panic on a second successful call within the same
// Device.FrameIndex; release builds do not check. A failed call may be retried in the same frame.
//
// Returns:
//   - error: an error if the buffer could not be reallocated or written
func (m *DynamicMesh[V, I]) UploadAll() error {
	frame := m.dev.FrameIndex()
	if debugChecks {
		assertf(!m.uploaded || m.uploadFrame != frame, "%q: UploadAll called twice in frame %d", m.label, frame)
	}

	if len(m.Vertices) > m.capacity {
		slog.Debug("mesh: growing vertex buffer", "mesh", m.label, "from", m.capacity, "to", len(m.Vertices))
		if err := m.allocate(len(m.Vertices)); err != nil {
			return err
		}
	}
	if data := common.SliceToBytes(m.Vertices); len(data) > 0 {
		if err := m.dev.WriteBuffer(m.vertexBuffer, 0, data); err != nil {
			return fmt.Errorf("mesh %q: upload all: %w", m.label, err)
		}
	}

	m.uploaded, m.uploadFrame = true, frame
	m.baseOffset = 0
	m.cursor = 0
	m.cursorFrame = frame
	return nil
}

// UploadSlice overwrites GPU vertices [start, start+count) in place from the same mirror range.
// The base offset is unchanged. count must not exceed len(Vertices); a violation panics in every build.
//
// Parameters:
//   - start: the first vertex to copy
//   - count: the number of vertices to copy
//
// Returns:
//   - error: ErrCapacityExceeded if the range lies past the GPU buffer, or a write error
func (m *DynamicMesh[V, I]) UploadSlice(start, count int) error {
	assertf(count <= len(m.Vertices), "%q: UploadSlice count %d exceeds mirror length %d", m.label, count, len(m.Vertices))
	if count <= 0 {
		return nil
	}

	data := common.SliceToBytes(m.Vertices[start : start+count])
	offset := uint64(start) * m.vertexSize
	if offset+uint64(len(data)) > m.vertexBuffer.Size() {
		return fmt.Errorf("%w: %q vertices [%d, %d) with capacity %d", ErrCapacityExceeded, m.label, start, start+count, m.capacity)
	}
	if err := m.dev.WriteBuffer(m.vertexBuffer, offset, data); err != nil {
		return fmt.Errorf("mesh %q: upload slice: %w", m.label, err)
	}
	return nil
}

// AppendSlice writes mirror vertices [start, start+count) at the append cursor and advances it.
// The cursor restarts at zero on each new frame and after UploadAll. The returned byte offset becomes
// the base offset, so the next Draw addresses the appended vertices.
//
// Debug builds panic when start+count exceeds len(Vertices).
//
// Parameters:
//   - start: the first mirror vertex to append
//   - count: the number of vertices to append
//
// Returns:
//   - uint64: the byte offset the data was written at
//   - error: ErrAppendOverflow if the data does not fit, or a write error
func (m *DynamicMesh[V, I]) AppendSlice(start, count int) (uint64, error) {
	if debugChecks {
		assertf(start >= 0 && count >= 0 && start+count <= len(m.Vertices),
			"%q: AppendSlice [%d, %d) exceeds mirror length %d", m.label, start, start+count, len(m.Vertices))
	}

	if frame := m.dev.FrameIndex(); frame != m.cursorFrame {
		m.cursor = 0
		m.cursorFrame = frame
	}

	offset := m.cursor
	data := common.SliceToBytes(m.Vertices[start : start+count])
	if offset+uint64(len(data)) > m.vertexBuffer.Size() {
		return 0, fmt.Errorf("%w: %q needs %d bytes at %d, buffer is %d", ErrAppendOverflow, m.label, len(data), offset, m.vertexBuffer.Size())
	}
	if len(data) > 0 {
		if err := m.dev.WriteBuffer(m.vertexBuffer, offset, data); err != nil {
			return 0, fmt.Errorf("mesh %q: append: %w", m.label, err)
		}
	}

	m.cursor += uint64(len(data))
	m.baseOffset = offset
	return offset, nil
}

// Draw binds the mesh's images, binds the vertex buffer at the base offset and draws indexCount
// indices starting at baseElement. Vertex indices are relative to the base offset.
//
// Parameters:
//   - pass: the render pass to record into
//   - baseElement: the first index to draw
//   - indexCount: the number of indices to draw
func (m *DynamicMesh[V, I]) Draw(pass renderer.RenderPass, baseElement, indexCount uint32) {
	m.bind(pass)
	pass.SetVertexBuffer(0, m.vertexBuffer, m.baseOffset)
	pass.SetIndexBuffer(m.indexBuffer, m.indexFormat)
	pass.DrawIndexed(indexCount, 1, baseElement, 0, 0)
}

// DrawAll draws every index, as Draw(pass, 0, IndexCount()).
func (m *DynamicMesh[V, I]) DrawAll(pass renderer.RenderPass) {
	m.Draw(pass, 0, m.indexCount)
}

func (m *DynamicMesh[V, I]) Label() string {
	return m.label
}

func (m *DynamicMesh[V, I]) IndexCount() uint32 {
	return m.indexCount
}

// BaseOffset returns the byte offset draws currently bind the vertex buffer at.
func (m *DynamicMesh[V, I]) BaseOffset() uint64 {
	return m.baseOffset
}

// Capacity returns the vertex buffer size in vertices.
func (m *DynamicMesh[V, I]) Capacity() int {
	return m.capacity
}

// Release frees both GPU buffers. The mirror is kept. Calls after the first do nothing.
func (m *DynamicMesh[V, I]) Release() {
	releaseBuffer(&m.vertexBuffer)
	releaseBuffer(&m.indexBuffer)
}
