package clock

import "time"

// ClockBuilderOption is a functional option for configuring a Clock.
type ClockBuilderOption func(*clock)

// WithTargetRate sets the simulation rate in steps per second.
// Rates of 2 or less fall back to DefaultTargetRate since the snap threshold is 1/(rate-1).
//
// Parameters:
//   - hz: target steps per second (default 60)
//
// Returns:
//   - ClockBuilderOption: option function to apply
func WithTargetRate(hz float64) ClockBuilderOption {
	return func(c *clock) {
		if hz <= 2 {
			hz = DefaultTargetRate
		}
		c.rate = hz
	}
}

// WithMaxSteps sets the catch-up cap for ConsumeTimestep.
//
// Parameters:
//   - n: maximum steps reported per call (values < 1 use DefaultMaxSteps)
//
// Returns:
//   - ClockBuilderOption: option function to apply
func WithMaxSteps(n int) ClockBuilderOption {
	return func(c *clock) {
		if n < 1 {
			n = DefaultMaxSteps
		}
		c.maxSteps = n
	}
}

// WithTimeSource replaces time.Now as the clock's wall-clock source.
//
// Parameters:
//   - now: function returning the current instant
//
// Returns:
//   - ClockBuilderOption: option function to apply
func WithTimeSource(now func() time.Time) ClockBuilderOption {
	return func(c *clock) {
		if now != nil {
			c.now = now
		}
	}
}

// WithInitialFocus seeds both focus slots, so a focused clock starts accumulating on its first Tick.
//
// Parameters:
//   - focused: the initial focus state
//
// Returns:
//   - ClockBuilderOption: option function to apply
func WithInitialFocus(focused bool) ClockBuilderOption {
	return func(c *clock) {
		c.focus = [2]bool{focused, focused}
	}
}
