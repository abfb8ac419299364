package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-harness/engine/clock"
	"github.com/Carmen-Shannon/oxy-harness/engine/profiler"
	"github.com/Carmen-Shannon/oxy-harness/engine/renderer"
	"github.com/Carmen-Shannon/oxy-harness/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//   - options: options for the profiler created when the loop starts
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool, options ...profiler.ProfilerBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
		e.profilerOptions = options
	}
}

// WithWindow sets the window the engine polls for events and focus.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer used to begin, end and present frames.
//
// Parameters:
//   - r: a Renderer already attached to the engine's window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithClock sets a pre-built frame clock. When omitted, Run creates one from WithClockOptions
// seeded with the window's focus.
//
// Parameters:
//   - c: the Clock driving the loop
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(c clock.Clock) EngineBuilderOption {
	return func(e *engine) {
		e.clock = c
	}
}

// WithClockOptions sets the options used when Run creates the clock. Ignored when WithClock is used.
//
// Parameters:
//   - options: clock options such as clock.WithTargetRate or clock.WithMaxSteps
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClockOptions(options ...clock.ClockBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.clockOptions = append(e.clockOptions, options...)
	}
}

// WithSleeper sets the sleeper used to pace frames. Its SleepFunc, when set, also performs the
// unfocused idle wait. A nil sleeper is ignored.
//
// Parameters:
//   - s: the Sleeper to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSleeper(s *clock.Sleeper) EngineBuilderOption {
	return func(e *engine) {
		if s != nil {
			e.sleeper = s
		}
	}
}

// WithUnfocusedPollInterval sets how long the loop sleeps between polls while unfocused.
// Values <= 0 will be treated as the default (200ms).
//
// Parameters:
//   - d: the idle interval
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithUnfocusedPollInterval(d time.Duration) EngineBuilderOption {
	return func(e *engine) {
		if d <= 0 {
			d = DefaultUnfocusedPollInterval
		}
		e.unfocusedPollInterval = d
	}
}

// WithUpdateCallback is the builder form of SetUpdateCallback.
func WithUpdateCallback(callback func(dt time.Duration) error) EngineBuilderOption {
	return func(e *engine) {
		e.updateCallback = callback
	}
}

// WithRenderCallback is the builder form of SetRenderCallback.
func WithRenderCallback(callback func(pass renderer.RenderPass) error) EngineBuilderOption {
	return func(e *engine) {
		e.renderCallback = callback
	}
}

// WithEventCallback is the builder form of SetEventCallback.
func WithEventCallback(callback func(ev window.Event)) EngineBuilderOption {
	return func(e *engine) {
		e.eventCallback = callback
	}
}
