package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-harness/common"
	"github.com/Carmen-Shannon/oxy-harness/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrSurfaceUnavailable is returned by BeginFrame when the swapchain texture could not be acquired.
// It is transient: reconfigure the surface and try again next frame.
var ErrSurfaceUnavailable = errors.New("renderer: surface texture unavailable")

// MaxBindGroups is the number of bind groups a pipeline may use, the WebGPU default limit the device
// is requested with. RenderPass.SetImage group indices must stay below it.
const MaxBindGroups = 4

// Buffer is a GPU buffer handle owned by whoever created it.
type Buffer interface {
	// Label returns the debug label the buffer was created with.
	Label() string

	// Size returns the allocated size of the buffer in bytes.
	Size() uint64

	// Release frees the GPU buffer. Calls after the first are no-ops.
	Release()
}

// Image is a sampled 2D texture together with its sampler, ready to bind to a render pass.
type Image interface {
	// Label returns the debug label the image was created with.
	Label() string

	// Width returns the texture width in pixels.
	Width() uint32

	// Height returns the texture height in pixels.
	Height() uint32

	// Release frees the texture, view, sampler and bind group. Calls after the first are no-ops.
	Release()
}

// Device creates and writes GPU resources.
type Device interface {
	// CreateBufferInit creates a buffer holding contents. The buffer size is len(contents).
	//
	// Parameters:
	//   - label: the debug label for the buffer
	//   - contents: the initial bytes, already padded to common.CopyAlignment
	//   - usage: the buffer usage flags
	//
	// Returns:
	//   - Buffer: the created buffer
	//   - error: an error if the buffer could not be created
	CreateBufferInit(label string, contents []byte, usage wgpu.BufferUsage) (Buffer, error)

	// CreateBuffer creates an uninitialized buffer.
	//
	// Parameters:
	//   - label: the debug label for the buffer
	//   - size: the buffer size in bytes
	//   - usage: the buffer usage flags
	//
	// Returns:
	//   - Buffer: the created buffer
	//   - error: an error if the buffer could not be created
	CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (Buffer, error)

	// WriteBuffer queues a write of data into buf at the byte offset. The buffer must have CopyDst usage.
	//
	// Parameters:
	//   - buf: the destination buffer
	//   - offset: the destination byte offset, a multiple of common.CopyAlignment
	//   - data: the bytes to write, a multiple of common.CopyAlignment in length
	//
	// Returns:
	//   - error: an error if the write could not be queued
	WriteBuffer(buf Buffer, offset uint64, data []byte) error

	// CreateImage uploads RGBA8 pixels into a sampled texture and builds its bind group using
	// pipeline.SampledTextureLayout.
	//
	// Parameters:
	//   - label: the debug label for the image
	//   - texture: the staging pixels and dimensions
	//   - sampler: the sampler settings, zero values select defaults
	//
	// Returns:
	//   - Image: the created image
	//   - error: an error if the staging data is invalid or any GPU object could not be created
	CreateImage(label string, texture common.TextureStagingData, sampler common.SamplerStagingData) (Image, error)

	// FrameIndex returns the number of frames presented so far.
	//
	// Returns:
	//   - uint64: the current frame index
	FrameIndex() uint64
}

// RenderPass records draw commands for the frame started by Renderer.BeginFrame.
type RenderPass interface {
	SetPipeline(p pipeline.Pipeline)
	SetVertexBuffer(slot uint32, buf Buffer, offset uint64)
	SetIndexBuffer(buf Buffer, format wgpu.IndexFormat)
	// SetImage binds img's bind group at the given group index, which must be below MaxBindGroups.
	SetImage(slot uint32, img Image)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
}
