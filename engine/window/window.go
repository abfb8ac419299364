package window

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-harness/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides a presentable surface and a polled stream of input and window events.
type Window interface {
	// PollEvents processes pending platform events without blocking and returns them in arrival order.
	// The batch is finite; events raised while it is being handled arrive in the next call.
	//
	// Returns:
	//   - []Event: the events since the previous call, or nil
	PollEvents() []Event

	// Focused reports whether the window currently has input focus.
	//
	// Returns:
	//   - bool: true if focused
	Focused() bool

	// FramebufferSize returns the drawable size in pixels. On high-DPI displays this differs from Size.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	FramebufferSize() (int, int)

	// Size returns the window client area size in screen coordinates.
	//
	// Returns:
	//   - int: width in screen coordinates
	//   - int: height in screen coordinates
	Size() (int, int)

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and the pending event queue.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// size limits in screen coordinates, zero means unlimited
	maxWidth, maxHeight int
	minWidth, minHeight int

	// width and height are the client area size in screen coordinates.
	width, height int

	// fbWidth and fbHeight are the framebuffer size in pixels.
	fbWidth, fbHeight int

	resizable bool
	highDPI   bool
	focused   bool

	queue eventQueue

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order.
// The calling goroutine's OS thread is locked; poll events from the same goroutine.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: an error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("window: %w", err)
	}
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "oxy-harness",
		width:     1280,
		height:    720,
		resizable: true,
		highDPI:   true,
	}
	for _, opt := range options {
		opt(w)
	}
	w.fbWidth, w.fbHeight = w.width, w.height
	return w
}

func (w *engineWindow) PollEvents() []Event {
	platformPollEvents(w)
	return w.queue.drain()
}

func (w *engineWindow) Focused() bool {
	return w.focused
}

func (w *engineWindow) FramebufferSize() (int, int) {
	return w.fbWidth, w.fbHeight
}

func (w *engineWindow) Size() (int, int) {
	return w.width, w.height
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

// The handle* methods translate platform callbacks into queued events.

func (w *engineWindow) handleClose() {
	w.queue.push(Event{Type: EventQuit})
}

func (w *engineWindow) handleFocus(focused bool) {
	if focused == w.focused {
		return
	}
	w.focused = focused
	if focused {
		w.queue.push(Event{Type: EventFocusGained})
	} else {
		w.queue.push(Event{Type: EventFocusLost})
	}
}

func (w *engineWindow) handleKey(key uint32, pressed bool) {
	if key == common.KeyEsc && pressed {
		w.queue.push(Event{Type: EventQuit})
		return
	}
	if pressed {
		w.queue.push(Event{Type: EventKeyDown, Key: key})
	} else {
		w.queue.push(Event{Type: EventKeyUp, Key: key})
	}
}

func (w *engineWindow) handleFramebufferSize(width, height int) {
	changed := width != w.fbWidth || height != w.fbHeight
	w.fbWidth, w.fbHeight = width, height
	if !changed || width <= 0 || height <= 0 {
		return
	}
	w.queue.push(Event{Type: EventResize, Width: width, Height: height})
}

func (w *engineWindow) handleSize(width, height int) {
	w.width, w.height = width, height
}
