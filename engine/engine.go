package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-harness/engine/clock"
	"github.com/Carmen-Shannon/oxy-harness/engine/profiler"
	"github.com/Carmen-Shannon/oxy-harness/engine/renderer"
	"github.com/Carmen-Shannon/oxy-harness/engine/window"
)

// DefaultUnfocusedPollInterval is how long the loop sleeps between event polls while the window is unfocused.
const DefaultUnfocusedPollInterval = 200 * time.Millisecond

var (
	// ErrNoWindow is returned by Run when the engine was built without a window.
	ErrNoWindow = errors.New("engine: no window")

	// ErrNoRenderer is returned by Run when the engine was built without a renderer.
	ErrNoRenderer = errors.New("engine: no renderer")
)

// engine implements the Engine interface.
// Drives events, simulation steps and frames on the calling goroutine.
type engine struct {
	window   window.Window
	renderer renderer.Renderer
	clock    clock.Clock
	sleeper  *clock.Sleeper

	clockOptions          []clock.ClockBuilderOption
	unfocusedPollInterval time.Duration

	profiler         *profiler.Profiler
	profilingEnabled bool
	profilerOptions  []profiler.ProfilerBuilderOption

	updateCallback func(dt time.Duration) error
	renderCallback func(pass renderer.RenderPass) error
	eventCallback  func(ev window.Event)

	quit    atomic.Bool
	running atomic.Bool
}

// Engine is the main entry point for the engine.
// It runs a single-threaded frame loop: poll window events, gate on focus, advance the fixed-step
// clock, update, render, present and then sleep until the next step is due.
type Engine interface {
	// Window returns the window the engine polls.
	//
	// Returns:
	//   - window.Window: the window instance, or nil
	Window() window.Window

	// Renderer returns the renderer the engine presents through.
	//
	// Returns:
	//   - renderer.Renderer: the renderer instance, or nil
	Renderer() renderer.Renderer

	// Clock returns the frame clock. Before Run it is nil unless one was supplied with WithClock.
	//
	// Returns:
	//   - clock.Clock: the clock driving the loop
	Clock() clock.Clock

	// SetUpdateCallback registers the function called once per frame that produced simulation time.
	// The duration is a whole number of clock steps. A returned error stops Run.
	//
	// Parameters:
	//   - callback: function receiving the simulated time to advance
	SetUpdateCallback(callback func(dt time.Duration) error)

	// SetRenderCallback registers the function called with the open render pass of each frame.
	// A returned error stops Run after the frame has been submitted and presented.
	//
	// Parameters:
	//   - callback: function recording draws into the pass
	SetRenderCallback(callback func(pass renderer.RenderPass) error)

	// SetEventCallback registers the function called for every polled window event, after the engine
	// has applied its own handling (focus, resize, quit).
	//
	// Parameters:
	//   - callback: function receiving each event
	SetEventCallback(callback func(ev window.Event))

	// Run blocks, driving the frame loop until a quit event arrives, Quit is called or a callback fails.
	//
	// Returns:
	//   - error: ErrNoWindow or ErrNoRenderer when collaborators are missing, or the first fatal frame error
	Run() error

	// Quit asks the loop to stop after the current event batch. Safe to call multiple times.
	Quit()

	// Running reports whether Run is currently executing.
	//
	// Returns:
	//   - bool: true while the loop is active
	Running() bool
}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, clock, profiling, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		sleeper: &clock.Sleeper{
			Coarse: clock.DefaultCoarseSleep,
			Fine:   clock.DefaultFineSleep,
		},
		unfocusedPollInterval: DefaultUnfocusedPollInterval,
	}

	for _, opt := range options {
		opt(e)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Clock() clock.Clock {
	return e.clock
}

func (e *engine) SetUpdateCallback(callback func(dt time.Duration) error) {
	e.updateCallback = callback
}

func (e *engine) SetRenderCallback(callback func(pass renderer.RenderPass) error) {
	e.renderCallback = callback
}

func (e *engine) SetEventCallback(callback func(ev window.Event)) {
	e.eventCallback = callback
}

func (e *engine) Quit() {
	e.quit.Store(true)
}

func (e *engine) Running() bool {
	return e.running.Load()
}

func (e *engine) Run() error {
	if e.window == nil {
		return ErrNoWindow
	}
	if e.renderer == nil {
		return ErrNoRenderer
	}

	e.running.Store(true)
	defer e.running.Store(false)

	e.seedClock()
	if e.profilingEnabled && e.profiler == nil {
		e.profiler = profiler.NewProfiler(e.profilerOptions...)
	}

	slog.Info("engine: loop started",
		"target_step", e.clock.TargetStep(),
		"max_steps", e.clock.MaxSteps(),
		"focused", e.window.Focused(),
	)

	for {
		for _, ev := range e.window.PollEvents() {
			e.handleEvent(ev)
		}
		if e.quit.Load() {
			break
		}

		if !e.clock.Tick() {
			e.idle(e.unfocusedPollInterval)
			continue
		}

		if err := e.frame(); err != nil {
			return err
		}

		if e.profiler != nil {
			e.profiler.Tick()
		}

		if wait, ok := e.clock.WaitDuration(); ok {
			e.sleeper.Sleep(wait)
		}
	}

	slog.Info("engine: loop stopped")
	return nil
}

// seedClock makes sure the clock exists and starts from the window's current focus.
// A clock the engine creates starts with both focus slots set; a supplied clock only gets the
// pending slot, so its first tick sees a transition when focus differs.
func (e *engine) seedClock() {
	focused := e.window.Focused()
	if e.clock == nil {
		opts := append(append([]clock.ClockBuilderOption{}, e.clockOptions...), clock.WithInitialFocus(focused))
		e.clock = clock.NewClock(opts...)
		return
	}
	e.clock.RecordFocus(focused)
}

// handleEvent applies the engine's own reaction to ev, then forwards it to the event callback.
// A quit event only marks the loop done so the rest of the batch is still delivered.
func (e *engine) handleEvent(ev window.Event) {
	switch ev.Type {
	case window.EventQuit:
		e.quit.Store(true)
	case window.EventFocusGained:
		e.clock.RecordFocus(true)
	case window.EventFocusLost:
		e.clock.RecordFocus(false)
	case window.EventResize:
		if err := e.renderer.Resize(ev.Width, ev.Height); err != nil {
			slog.Warn("engine: resize failed", "width", ev.Width, "height", ev.Height, "error", err)
		}
	}

	if e.eventCallback != nil {
		e.eventCallback(ev)
	}
}

// frame consumes due simulation time and, when any was produced, updates and renders one frame.
func (e *engine) frame() error {
	dt, ok := e.clock.ConsumeTimestep()
	if !ok {
		return nil
	}
	if e.profiler != nil {
		e.profiler.RecordUpdate(e.clock.LastSteps(), e.clock.MaxSteps())
	}

	if e.updateCallback != nil {
		if err := e.updateCallback(dt); err != nil {
			return fmt.Errorf("engine: update: %w", err)
		}
	}

	pass, err := e.renderer.BeginFrame()
	if errors.Is(err, renderer.ErrSurfaceUnavailable) {
		width, height := e.window.FramebufferSize()
		slog.Warn("engine: surface unavailable, skipping frame", "width", width, "height", height, "error", err)
		if rerr := e.renderer.Resize(width, height); rerr != nil {
			slog.Warn("engine: surface reconfigure failed", "error", rerr)
		}
		// the update already ran for this frame, so per-frame mesh state must not carry over
		e.renderer.SkipFrame()
		if e.profiler != nil {
			e.profiler.RecordSkippedFrame()
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("engine: begin frame: %w", err)
	}

	var renderErr error
	if e.renderCallback != nil {
		renderErr = e.renderCallback(pass)
	}

	// the pass is always closed and submitted so the surface texture is not left acquired
	if err := e.renderer.EndFrame(); err != nil {
		return errors.Join(wrapRenderErr(renderErr), fmt.Errorf("engine: end frame: %w", err))
	}
	e.renderer.Present()
	if e.profiler != nil {
		e.profiler.RecordFrame()
	}

	return wrapRenderErr(renderErr)
}

// idle sleeps for d with the sleeper's raw sleep, skipping the precise coarse/fine loop.
func (e *engine) idle(d time.Duration) {
	if e.sleeper.SleepFunc != nil {
		e.sleeper.SleepFunc(d)
		return
	}
	time.Sleep(d)
}

func wrapRenderErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("engine: render: %w", err)
}
