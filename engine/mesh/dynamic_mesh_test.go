package mesh

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-harness/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vertexBytes = 16

func newQuadDynamic(t *testing.T, dev *fakeDevice, opts ...MeshBuilderOption) *DynamicMesh[testVertex, uint16] {
	t.Helper()
	verts, indices := quad()
	m, err := NewDynamicMesh(dev, verts, indices, append([]MeshBuilderOption{WithLabel("dyn")}, opts...)...)
	require.NoError(t, err)
	return m
}

func TestNewDynamicMeshBuffers(t *testing.T) {
	dev := &fakeDevice{}
	m := newQuadDynamic(t, dev, WithCapacity(10))

	vb := dev.buffer("dyn Vertex Buffer")
	require.NotNil(t, vb)
	assert.Equal(t, uint64(10*vertexBytes), vb.Size())
	assert.Equal(t, wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst, vb.usage)
	assert.Equal(t, common.SliceToBytes(m.Vertices), vb.data[:4*vertexBytes])
	assert.Equal(t, wgpu.BufferUsageIndex, dev.buffer("dyn Index Buffer").usage)

	assert.Equal(t, 10, m.Capacity())
	assert.Equal(t, uint32(6), m.IndexCount())
	assert.Equal(t, uint64(0), m.BaseOffset())
}

func TestNewDynamicMeshCapacityOnly(t *testing.T) {
	dev := &fakeDevice{}

	m, err := NewDynamicMesh[testVertex](dev, nil, []uint32{0, 1, 2}, WithCapacity(3))

	require.NoError(t, err)
	assert.Equal(t, 3, m.Capacity())
	assert.Empty(t, dev.writes)
}

func TestNewDynamicMeshValidation(t *testing.T) {
	dev := &fakeDevice{}

	_, err := NewDynamicMesh[testVertex](dev, nil, []uint16{0})
	assert.ErrorIs(t, err, ErrEmptyMesh)

	verts, _ := quad()
	_, err = NewDynamicMesh[testVertex, uint16](dev, verts, nil)
	assert.ErrorIs(t, err, ErrEmptyMesh)

	_, err = NewDynamicMesh(dev, []oddVertex{{1, 2, 3}}, []uint16{0})
	assert.ErrorIs(t, err, ErrUnalignedVertex)
}

func TestUploadAllWritesMirrorAndResetsOffsets(t *testing.T) {
	dev := &fakeDevice{}
	m := newQuadDynamic(t, dev)

	_, err := m.AppendSlice(0, 2)
	require.NoError(t, err)
	_, err = m.AppendSlice(2, 2)
	require.NoError(t, err)
	require.NotZero(t, m.BaseOffset())

	m.Vertices[0].Pos = [2]float32{5, 5}
	require.NoError(t, m.UploadAll())

	assert.Equal(t, uint64(0), m.BaseOffset())
	vb := dev.buffer("dyn Vertex Buffer")
	assert.Equal(t, common.SliceToBytes(m.Vertices), vb.data)
}

func TestUploadAllThenAppendStartsAtZero(t *testing.T) {
	dev := &fakeDevice{}
	m := newQuadDynamic(t, dev, WithCapacity(8))

	_, err := m.AppendSlice(0, 4)
	require.NoError(t, err)

	require.NoError(t, m.UploadAll(), "same frame as the append")
	offset, err := m.AppendSlice(0, 1)

	require.NoError(t, err)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, uint64(0), m.BaseOffset())
}

func TestUploadAllGrowsBuffer(t *testing.T) {
	dev := &fakeDevice{}
	m := newQuadDynamic(t, dev)
	old := dev.buffer("dyn Vertex Buffer")

	m.Vertices = append(m.Vertices, testVertex{}, testVertex{})
	require.NoError(t, m.UploadAll())

	grown := dev.buffer("dyn Vertex Buffer")
	assert.NotSame(t, old, grown)
	assert.Equal(t, 1, old.releases)
	assert.Equal(t, 6, m.Capacity())
	assert.Equal(t, uint64(6*vertexBytes), grown.Size())

	pass := newFakePass()
	m.DrawAll(pass)
	assert.Same(t, grown, pass.vertexBuffer)
}

func TestUploadAllRetryAfterFailedGrow(t *testing.T) {
	dev := &fakeDevice{}
	m := newQuadDynamic(t, dev)

	m.Vertices = append(m.Vertices, testVertex{})
	dev.failOn = "dyn Vertex Buffer"
	require.Error(t, m.UploadAll())
	assert.Equal(t, 4, m.Capacity(), "old buffer kept")

	dev.failOn = ""
	assert.NotPanics(t, func() { require.NoError(t, m.UploadAll()) }, "same frame retry")
	assert.Equal(t, 5, m.Capacity())
}

func TestUploadAllTwicePerFrame(t *testing.T) {
	dev := &fakeDevice{}
	m := newQuadDynamic(t, dev)

	require.NoError(t, m.UploadAll())
	dev.frame++
	require.NoError(t, m.UploadAll(), "one call per frame is allowed")

	if !debugChecks {
		t.Skip("release build does not check")
	}
	assert.Panics(t, func() { _ = m.UploadAll() })
}

func TestUploadSliceOverwritesRangeInPlace(t *testing.T) {
	dev := &fakeDevice{}
	m := newQuadDynamic(t, dev)
	dev.writes = nil

	m.Vertices[2].UV = [2]float32{9, 9}
	require.NoError(t, m.UploadSlice(2, 2))

	require.Len(t, dev.writes, 1)
	assert.Equal(t, uint64(2*vertexBytes), dev.writes[0].offset)
	assert.Equal(t, 2*vertexBytes, dev.writes[0].size)
	vb := dev.buffer("dyn Vertex Buffer")
	assert.Equal(t, common.SliceToBytes(m.Vertices[2:4]), vb.data[2*vertexBytes:4*vertexBytes])
	assert.Equal(t, uint64(0), m.BaseOffset())
}

func TestUploadSliceBounds(t *testing.T) {
	dev := &fakeDevice{}
	m := newQuadDynamic(t, dev)

	assert.Panics(t, func() { _ = m.UploadSlice(0, 5) }, "count beyond the mirror is always fatal")
	assert.NoError(t, m.UploadSlice(0, 0))

	m.Vertices = append(m.Vertices, testVertex{})
	err := m.UploadSlice(4, 1)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestAppendSliceRecordsLatestOffset(t *testing.T) {
	dev := &fakeDevice{}
	m := newQuadDynamic(t, dev)

	first, err := m.AppendSlice(0, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), first)

	pass := newFakePass()
	m.Draw(pass, 0, m.IndexCount())
	assert.Equal(t, uint64(0), pass.vertexOffset)

	second, err := m.AppendSlice(1, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(vertexBytes), second)
	assert.Equal(t, second, m.BaseOffset())

	pass = newFakePass()
	m.Draw(pass, 3, 3)
	assert.Equal(t, second, pass.vertexOffset)
	assert.Equal(t, drawCall{indexCount: 3, instanceCount: 1, firstIndex: 3}, pass.draws[0])
}

func TestAppendCursorResetsEachFrame(t *testing.T) {
	dev := &fakeDevice{}
	m := newQuadDynamic(t, dev)

	_, err := m.AppendSlice(0, 4)
	require.NoError(t, err)
	_, err = m.AppendSlice(0, 1)
	assert.ErrorIs(t, err, ErrAppendOverflow)

	dev.frame++
	offset, err := m.AppendSlice(0, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), offset)
}

func TestAppendSliceBoundsChecked(t *testing.T) {
	if !debugChecks {
		t.Skip("release build trusts the caller")
	}
	dev := &fakeDevice{}
	m := newQuadDynamic(t, dev)

	assert.Panics(t, func() { _, _ = m.AppendSlice(3, 2) })
}

func TestDynamicDrawAllBindsImages(t *testing.T) {
	dev := &fakeDevice{}
	m := newQuadDynamic(t, dev)
	img, _ := dev.CreateImage("tex", common.TextureStagingData{}, common.SamplerStagingData{})
	m.BindImage(3, img)

	pass := newFakePass()
	m.DrawAll(pass)

	assert.Same(t, img, pass.images[3])
	assert.Equal(t, drawCall{indexCount: 6, instanceCount: 1}, pass.draws[0])
	assert.Equal(t, wgpu.IndexFormatUint16, pass.indexFormat)
}

func TestDynamicMeshReleaseOnce(t *testing.T) {
	dev := &fakeDevice{}
	m := newQuadDynamic(t, dev)

	m.Release()
	m.Release()

	for _, b := range dev.buffers {
		assert.Equal(t, 1, b.releases, b.label)
	}
	assert.Len(t, m.Vertices, 4, "mirror survives release")
}
