package renderer

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-harness/common"
	"github.com/Carmen-Shannon/oxy-harness/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-harness/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer and Device interfaces.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backend    RendererBackend
	frameIndex atomic.Uint64

	// last size handed to the backend
	width, height int

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	sampleCount          MSAASampleCount
	clearColor           wgpu.Color
	pendingPipelines     []pipeline.Pipeline

	released bool
}

// Renderer owns the GPU device, queue and window surface, and drives the per-frame
// BeginFrame, EndFrame and Present sequence.
//
// Renderer is not safe to share between goroutines that record frames; the frame driver calls
// it from a single thread.
type Renderer interface {
	// Device returns the resource creation interface backed by this renderer.
	//
	// Returns:
	//   - Device: the device used to create buffers and images
	Device() Device

	// RegisterPipeline creates the GPU objects for p and caches it by PipelineKey.
	// Keys that are already registered are skipped.
	//
	// Parameters:
	//   - p: the Pipeline to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipeline(p pipeline.Pipeline) error

	// Pipeline retrieves the registered Pipeline associated with the given key, or nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Resize reconfigures the surface for a new framebuffer size in pixels.
	// A zero width or height (minimized window) is ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the surface could not be reconfigured
	Resize(width, height int) error

	// Size returns the size the surface was last configured with.
	//
	// Returns:
	//   - int: the surface width in pixels
	//   - int: the surface height in pixels
	Size() (int, int)

	// BeginFrame acquires the next surface texture and begins a render pass cleared to the configured color.
	// ErrSurfaceUnavailable is returned (wrapped) when the texture is not available; the caller should
	// Resize and skip the frame.
	//
	// Returns:
	//   - RenderPass: the pass to record draws into
	//   - error: an error if the frame could not be started
	BeginFrame() (RenderPass, error)

	// EndFrame ends the render pass and submits the recorded commands.
	//
	// Returns:
	//   - error: an error if the commands could not be submitted
	EndFrame() error

	// Present shows the submitted frame and advances the device frame index.
	Present()

	// SkipFrame advances the device frame index for a frame that produced simulation time but was
	// never presented, so per-frame resource state (upload guards, append cursors) starts fresh.
	SkipFrame()

	// Release frees registered pipelines and every GPU object owned by the renderer.
	// Resources created through Device must be released by their owners first.
	Release()
}

var (
	_ Renderer = &renderer{}
	_ Device   = &renderer{}
)

// NewRenderer creates the GPU instance, surface, adapter and device for the given window, configures
// the surface at the window's framebuffer size and registers any pipelines passed through WithPipeline.
//
// Parameters:
//   - win: the window whose surface is rendered to
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new Renderer ready to record frames
//   - error: an error if any part of GPU initialization fails
func NewRenderer(win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	r := newRenderer(options...)

	backend, err := newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, r.sampleCount, r.clearColor)
	if err != nil {
		return nil, fmt.Errorf("renderer: init wgpu backend: %w", err)
	}

	width, height := win.FramebufferSize()
	if err := r.attach(backend, width, height); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

func newRenderer(options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		presentMode:   PresentModeVSync,
		sampleCount:   MSAAOff,
		clearColor:    DefaultClearColor,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// attach binds a created backend, configures the surface and registers queued pipelines.
func (r *renderer) attach(backend RendererBackend, width, height int) error {
	r.backend = backend
	r.backend.SetPresentMode(r.presentMode)

	if err := r.Resize(width, height); err != nil {
		return err
	}

	pending := r.pendingPipelines
	r.pendingPipelines = nil
	for _, p := range pending {
		if err := r.RegisterPipeline(p); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) Device() Device {
	return r
}

func (r *renderer) RegisterPipeline(p pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := p.PipelineKey()
	if _, exists := r.pipelineCache[key]; exists {
		return nil
	}
	if err := r.backend.RegisterRenderPipeline(p); err != nil {
		return fmt.Errorf("renderer: register pipeline %q: %w", key, err)
	}
	r.pipelineCache[key] = p
	return nil
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		return fmt.Errorf("renderer: configure surface %dx%d: %w", width, height, err)
	}
	r.width, r.height = width, height
	return nil
}

func (r *renderer) Size() (int, int) {
	return r.width, r.height
}

func (r *renderer) BeginFrame() (RenderPass, error) {
	return r.backend.BeginFrame()
}

func (r *renderer) EndFrame() error {
	return r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
	r.frameIndex.Add(1)
}

func (r *renderer) SkipFrame() {
	r.frameIndex.Add(1)
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return
	}
	r.released = true

	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	if r.backend != nil {
		r.backend.Release()
	}
}

func (r *renderer) CreateBufferInit(label string, contents []byte, usage wgpu.BufferUsage) (Buffer, error) {
	return r.backend.CreateBufferInit(label, contents, usage)
}

func (r *renderer) CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (Buffer, error) {
	return r.backend.CreateBuffer(label, size, usage)
}

func (r *renderer) WriteBuffer(buf Buffer, offset uint64, data []byte) error {
	return r.backend.WriteBuffer(buf, offset, data)
}

func (r *renderer) CreateImage(label string, texture common.TextureStagingData, sampler common.SamplerStagingData) (Image, error) {
	return r.backend.CreateImage(label, texture, sampler)
}

func (r *renderer) FrameIndex() uint64 {
	return r.frameIndex.Load()
}
