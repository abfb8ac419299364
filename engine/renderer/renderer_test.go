package renderer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/oxy-harness/common"
	"github.com/Carmen-Shannon/oxy-harness/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBuffer struct {
	label string
	size  uint64
}

func (b *fakeBuffer) Label() string { return b.label }
func (b *fakeBuffer) Size() uint64  { return b.size }
func (b *fakeBuffer) Release()      {}

type fakeBackend struct {
	configured   [][2]int
	presentMode  PresentMode
	registered   []string
	registerErr  error
	configureErr error
	beginErr     error
	presents     int
	releases     int
}

func (f *fakeBackend) ConfigureSurface(width, height int) error {
	if f.configureErr != nil {
		return f.configureErr
	}
	f.configured = append(f.configured, [2]int{width, height})
	return nil
}

func (f *fakeBackend) SetPresentMode(mode PresentMode) { f.presentMode = mode }

func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = append(f.registered, p.PipelineKey())
	return nil
}

func (f *fakeBackend) CreateBufferInit(label string, contents []byte, _ wgpu.BufferUsage) (Buffer, error) {
	return &fakeBuffer{label: label, size: uint64(len(contents))}, nil
}

func (f *fakeBackend) CreateBuffer(label string, size uint64, _ wgpu.BufferUsage) (Buffer, error) {
	return &fakeBuffer{label: label, size: size}, nil
}

func (f *fakeBackend) WriteBuffer(Buffer, uint64, []byte) error { return nil }

func (f *fakeBackend) CreateImage(string, common.TextureStagingData, common.SamplerStagingData) (Image, error) {
	return nil, errors.New("not supported")
}

func (f *fakeBackend) BeginFrame() (RenderPass, error) { return nil, f.beginErr }
func (f *fakeBackend) EndFrame() error                 { return nil }
func (f *fakeBackend) Present()                        { f.presents++ }
func (f *fakeBackend) Release()                        { f.releases++ }

func TestNewRendererDefaults(t *testing.T) {
	r := newRenderer()

	assert.Equal(t, PresentModeVSync, r.presentMode)
	assert.Equal(t, MSAAOff, r.sampleCount)
	assert.Equal(t, DefaultClearColor, r.clearColor)
	assert.False(t, r.forceFallbackAdapter)
}

func TestAttachConfiguresAndRegistersPending(t *testing.T) {
	backend := &fakeBackend{}
	r := newRenderer(
		WithPresentMode(PresentModeUncapped),
		WithClearColor(wgpu.Color{R: 1, A: 1}),
		WithForceSoftwareRenderer(true),
		WithPipeline(pipeline.NewPipeline("flat", "src")),
	)

	require.NoError(t, r.attach(backend, 800, 600))

	assert.Equal(t, PresentModeUncapped, backend.presentMode)
	assert.Equal(t, [][2]int{{800, 600}}, backend.configured)
	assert.Equal(t, []string{"flat"}, backend.registered)
	assert.NotNil(t, r.Pipeline("flat"))
	assert.True(t, r.forceFallbackAdapter)
	assert.Equal(t, 1.0, r.clearColor.R)
}

func TestResizeIgnoresZeroSizes(t *testing.T) {
	backend := &fakeBackend{}
	r := newRenderer()
	require.NoError(t, r.attach(backend, 0, 0))
	assert.Empty(t, backend.configured)

	require.NoError(t, r.Resize(0, 720))
	require.NoError(t, r.Resize(1280, 0))
	assert.Empty(t, backend.configured)

	require.NoError(t, r.Resize(1280, 720))
	require.NoError(t, r.Resize(1280, 720))
	assert.Len(t, backend.configured, 2, "same size is reconfigured, needed after a lost surface")

	w, h := r.Size()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
}

func TestResizeWrapsBackendError(t *testing.T) {
	cause := errors.New("boom")
	r := newRenderer()
	r.backend = &fakeBackend{configureErr: cause}

	err := r.Resize(10, 10)

	assert.ErrorIs(t, err, cause)
}

func TestRegisterPipelineSkipsKnownKeys(t *testing.T) {
	backend := &fakeBackend{}
	r := newRenderer()
	require.NoError(t, r.attach(backend, 1, 1))

	first := pipeline.NewPipeline("flat", "a")
	require.NoError(t, r.RegisterPipeline(first))
	require.NoError(t, r.RegisterPipeline(pipeline.NewPipeline("flat", "b")))

	assert.Equal(t, []string{"flat"}, backend.registered)
	assert.Same(t, first, r.Pipeline("flat"))
	assert.Nil(t, r.Pipeline("missing"))
}

func TestRegisterPipelineFailureIsNotCached(t *testing.T) {
	backend := &fakeBackend{registerErr: errors.New("bad wgsl")}
	r := newRenderer()
	r.backend = backend

	err := r.RegisterPipeline(pipeline.NewPipeline("broken", "x"))

	assert.ErrorIs(t, err, backend.registerErr)
	assert.Nil(t, r.Pipeline("broken"))
}

func TestPresentAdvancesFrameIndex(t *testing.T) {
	backend := &fakeBackend{}
	r := newRenderer()
	r.backend = backend

	assert.Equal(t, uint64(0), r.Device().FrameIndex())
	r.Present()
	r.Present()

	assert.Equal(t, uint64(2), r.Device().FrameIndex())
	assert.Equal(t, 2, backend.presents)
}

func TestBeginFrameSurfacesTransientError(t *testing.T) {
	r := newRenderer()
	r.backend = &fakeBackend{beginErr: fmt.Errorf("%w: outdated", ErrSurfaceUnavailable)}

	pass, err := r.BeginFrame()

	assert.Nil(t, pass)
	assert.ErrorIs(t, err, ErrSurfaceUnavailable)
}

func TestDeviceDelegatesToBackend(t *testing.T) {
	r := newRenderer()
	r.backend = &fakeBackend{}

	buf, err := r.Device().CreateBufferInit("verts", make([]byte, 12), wgpu.BufferUsageVertex)
	require.NoError(t, err)
	assert.Equal(t, "verts", buf.Label())
	assert.Equal(t, uint64(12), buf.Size())

	buf, err = r.Device().CreateBuffer("stream", 64, wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
	require.NoError(t, err)
	assert.Equal(t, uint64(64), buf.Size())
}

func TestReleaseRunsOnce(t *testing.T) {
	backend := &fakeBackend{}
	r := newRenderer(WithPipeline(pipeline.NewPipeline("flat", "src")))
	require.NoError(t, r.attach(backend, 1, 1))

	r.Release()
	r.Release()

	assert.Equal(t, 1, backend.releases)
	assert.Nil(t, r.Pipeline("flat"))
}

func TestSkipFrameAdvancesFrameIndexWithoutPresenting(t *testing.T) {
	backend := &fakeBackend{}
	r := newRenderer()
	r.backend = backend

	r.SkipFrame()
	r.Present()

	assert.Equal(t, uint64(2), r.Device().FrameIndex())
	assert.Equal(t, 1, backend.presents)
}
