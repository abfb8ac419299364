// Package mesh owns GPU vertex and index buffers for indexed geometry.
//
// A StaticMesh uploads its data once and never changes. A DynamicMesh keeps a CPU mirror of its
// vertices that the caller edits directly and pushes to the GPU with UploadAll, UploadSlice or
// AppendSlice before drawing.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-harness/common"
	"github.com/Carmen-Shannon/oxy-harness/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

// MaxImageSlots is the number of image bind slots a mesh carries. Each slot is bound as its own
// bind group, so the count is capped by the device bind group limit.
const MaxImageSlots = renderer.MaxBindGroups

var (
	// ErrEmptyMesh is returned when a mesh is created without indices, or a static mesh without vertices.
	ErrEmptyMesh = errors.New("mesh: no vertices or indices")

	// ErrAppendOverflow is returned by AppendSlice when the data does not fit behind the append cursor.
	ErrAppendOverflow = errors.New("mesh: append past vertex buffer capacity")

	// ErrCapacityExceeded is returned by UploadSlice when the range lies past the vertex buffer.
	// UploadAll grows the buffer; UploadSlice never does.
	ErrCapacityExceeded = errors.New("mesh: range past vertex buffer capacity")

	// ErrUnalignedVertex is returned when a dynamic mesh vertex size is not a multiple of
	// common.CopyAlignment, which partial buffer writes require.
	ErrUnalignedVertex = errors.New("mesh: vertex size not a multiple of the copy alignment")
)

// Vertex is a fixed-layout vertex struct. Layout describes its attributes and stride.
type Vertex interface {
	Layout() wgpu.VertexBufferLayout
}

// Index is a 16 or 32 bit index element.
type Index interface {
	~uint16 | ~uint32
}

// VertexLayout returns the buffer layout of V, for use in pipeline.WithVertexLayouts.
func VertexLayout[V Vertex]() wgpu.VertexBufferLayout {
	var zero V
	return zero.Layout()
}

// IndexFormat returns the wgpu index format matching the size of I.
func IndexFormat[I Index]() wgpu.IndexFormat {
	if common.SizeOf[I]() == 2 {
		return wgpu.IndexFormatUint16
	}
	return wgpu.IndexFormatUint32
}

// SequentialIndices returns 0..n-1. It turns a plain triangle list into an indexed mesh.
func SequentialIndices[I Index](n int) []I {
	out := make([]I, n)
	for i := range out {
		out[i] = I(i)
	}
	return out
}

// imageSlots holds the images bound to a mesh. Images are borrowed; the mesh never releases them.
type imageSlots [MaxImageSlots]renderer.Image

// BindImage attaches img to slot, replacing what was there. A nil img clears the slot.
// The slot must be in [0, MaxImageSlots); anything else is a programming error and panics.
func (s *imageSlots) BindImage(slot int, img renderer.Image) {
	if slot < 0 || slot >= MaxImageSlots {
		panic(fmt.Sprintf("mesh: image slot %d out of range [0, %d)", slot, MaxImageSlots))
	}
	s[slot] = img
}

// Image returns the image bound to slot, or nil.
func (s *imageSlots) Image(slot int) renderer.Image {
	if slot < 0 || slot >= MaxImageSlots {
		return nil
	}
	return s[slot]
}

func (s *imageSlots) bind(pass renderer.RenderPass) {
	for slot, img := range s {
		if img != nil {
			pass.SetImage(uint32(slot), img)
		}
	}
}

func createIndexBuffer[I Index](dev renderer.Device, label string, indices []I) (renderer.Buffer, error) {
	buf, err := dev.CreateBufferInit(
		label+" Index Buffer",
		common.PadBytes(common.SliceToBytes(indices)),
		wgpu.BufferUsageIndex,
	)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: index buffer: %w", label, err)
	}
	return buf, nil
}

func releaseBuffer(buf *renderer.Buffer) {
	if *buf != nil {
		(*buf).Release()
		*buf = nil
	}
}
