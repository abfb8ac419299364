package clock

import (
	"log/slog"
	"time"
)

const (
	// DefaultTargetRate is the simulation rate in steps per second used when no rate is configured.
	DefaultTargetRate = 60.0

	// DefaultMaxSteps caps how many steps a single ConsumeTimestep call may report.
	DefaultMaxSteps = 3
)

// clock is the implementation of the Clock interface.
type clock struct {
	// now is the wall-clock source. Tests replace it with a fake.
	now func() time.Time
	// last is the instant of the previous Tick (or of the last reset).
	last time.Time

	// rate is the target number of steps per second.
	rate float64
	// targetStep is the duration of a single simulation step (1/rate).
	targetStep time.Duration
	// dueThreshold is 1/(rate+1): at or above it a step is considered accumulated.
	dueThreshold time.Duration
	// snapThreshold is 1/(rate-1): a remainder below it is snapped to zero when a step is consumed.
	snapThreshold time.Duration

	maxSteps  int
	lastSteps int

	// accumulated is the unconsumed wall-clock time. Never negative.
	accumulated time.Duration

	// focus[0] is the committed focus of the previous tick, focus[1] the pending focus
	// written by RecordFocus. Tick commits focus[1] into focus[0].
	focus [2]bool
}

// Clock is a fixed-timestep accumulator that decouples the simulation rate from the rate at which real
// frames arrive. It runs only while the window keeps focus across two consecutive ticks.
//
// Per real frame the caller does:
//  1. RecordFocus for every focus event polled this frame
//  2. Tick; when it returns false, sleep a coarse interval and poll again
//  3. ConsumeTimestep; on ok, update once with the returned dt and render
//  4. WaitDuration; on ok, sleep precisely for the returned duration
type Clock interface {
	// RecordFocus stores the focus state reported by the window.
	// Only the pending slot is written; the value takes effect on the next Tick.
	//
	// Parameters:
	//   - hasFocus: true if the window currently has input focus
	RecordFocus(hasFocus bool)

	// Tick commits the pending focus state and accumulates elapsed wall-clock time.
	// Time accumulates only when the window was focused on both the previous and the current tick;
	// on any focus transition or while unfocused, the accumulator is reset to zero.
	//
	// Returns:
	//   - bool: true if the caller should simulate this frame
	Tick() bool

	// ConsumeTimestep drains whole steps from the accumulator.
	// At most MaxSteps steps worth of time is reported; anything beyond that is dropped so the
	// simulation runs fast, one oversized step, instead of spiraling.
	//
	// Returns:
	//   - time.Duration: steps*TargetStep, clamped to MaxSteps*TargetStep
	//   - bool: false if no step had accumulated; the frame should skip update and render
	ConsumeTimestep() (time.Duration, bool)

	// WaitDuration returns how long to sleep before the next frame is due.
	//
	// Returns:
	//   - time.Duration: TargetStep minus the accumulated time
	//   - bool: false if another step is already due and the caller should not sleep
	WaitDuration() (time.Duration, bool)

	// TargetStep returns the duration of one simulation step.
	//
	// Returns:
	//   - time.Duration: 1/rate seconds
	TargetStep() time.Duration

	// MaxSteps returns the catch-up cap applied by ConsumeTimestep.
	//
	// Returns:
	//   - int: the maximum number of steps reported per call
	MaxSteps() int

	// LastSteps returns the unclamped number of steps drained by the last ConsumeTimestep call.
	//
	// Returns:
	//   - int: raw step count; greater than MaxSteps when the last call was clamped
	LastSteps() int

	// Accumulated returns the current unconsumed time.
	//
	// Returns:
	//   - time.Duration: the accumulator value (>= 0)
	Accumulated() time.Duration

	// Focus returns the committed (previous) and pending (current) focus states.
	//
	// Returns:
	//   - bool: focus committed by the last Tick
	//   - bool: focus recorded since then
	Focus() (previous, current bool)
}

var _ Clock = &clock{}

// NewClock creates a Clock running at DefaultTargetRate with a DefaultMaxSteps catch-up cap.
// The clock starts unfocused; seed it with RecordFocus (or WithInitialFocus) before the first Tick.
//
// Parameters:
//   - options: functional options to configure the clock
//
// Returns:
//   - Clock: the configured clock
func NewClock(options ...ClockBuilderOption) Clock {
	c := &clock{
		now:      time.Now,
		rate:     DefaultTargetRate,
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range options {
		opt(c)
	}
	c.setRate(c.rate)
	c.last = c.now()
	return c
}

// setRate derives the step duration and the two thresholds from a rate.
// The thresholds bracket the step so that frame jitter does not cause off-by-one step misses.
func (c *clock) setRate(rate float64) {
	c.rate = rate
	c.targetStep = secondsToDuration(1 / rate)
	c.dueThreshold = secondsToDuration(1 / (rate + 1))
	c.snapThreshold = secondsToDuration(1 / (rate - 1))
}

func (c *clock) RecordFocus(hasFocus bool) {
	c.focus[1] = hasFocus
}

func (c *clock) Tick() bool {
	tick := c.commitFocus()

	next := c.now()
	if tick {
		if elapsed := next.Sub(c.last); elapsed > 0 {
			c.accumulated += elapsed
		}
	} else {
		c.accumulated = 0
	}
	c.last = next

	return tick
}

func (c *clock) ConsumeTimestep() (time.Duration, bool) {
	steps := 0
	for c.consumeOneStep() {
		steps++
	}
	c.lastSteps = steps

	switch {
	case steps > c.maxSteps:
		slog.Debug("clock: catch-up clamped", "steps", steps, "max", c.maxSteps)
		return c.targetStep * time.Duration(c.maxSteps), true
	case steps > 0:
		return c.targetStep * time.Duration(steps), true
	default:
		return 0, false
	}
}

func (c *clock) WaitDuration() (time.Duration, bool) {
	if c.accumulated >= c.dueThreshold {
		return 0, false
	}
	return c.targetStep - c.accumulated, true
}

func (c *clock) TargetStep() time.Duration {
	return c.targetStep
}

func (c *clock) MaxSteps() int {
	return c.maxSteps
}

func (c *clock) LastSteps() int {
	return c.lastSteps
}

func (c *clock) Accumulated() time.Duration {
	return c.accumulated
}

func (c *clock) Focus() (bool, bool) {
	return c.focus[0], c.focus[1]
}

// commitFocus swaps the focus double buffer and reports whether the window stayed focused.
// A gain or a loss both count as "not focused" for this tick.
func (c *clock) commitFocus() bool {
	tick := c.focus[0] && c.focus[1]
	c.focus[0] = c.focus[1]
	return tick
}

// consumeOneStep removes one step from the accumulator if one is due.
// A remainder that would land between the step size and the snap threshold is dropped to zero,
// which keeps fractional leftovers from creeping across frames.
func (c *clock) consumeOneStep() bool {
	if c.accumulated < c.dueThreshold {
		return false
	}
	if c.accumulated < c.snapThreshold {
		c.accumulated = 0
	} else {
		c.accumulated -= c.targetStep
	}
	return true
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
