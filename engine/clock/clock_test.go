package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTime is a manually advanced wall clock.
type fakeTime struct {
	t time.Time
}

func newFakeTime() *fakeTime {
	return &fakeTime{t: time.Unix(1_700_000_000, 0)}
}

func (f *fakeTime) Now() time.Time { return f.t }

func (f *fakeTime) Advance(d time.Duration) { f.t = f.t.Add(d) }

// newFocusedClock returns a clock whose focus state is already (true, true).
func newFocusedClock(ft *fakeTime, options ...ClockBuilderOption) Clock {
	opts := append([]ClockBuilderOption{WithTimeSource(ft.Now), WithInitialFocus(true)}, options...)
	return NewClock(opts...)
}

func TestNewClockDefaults(t *testing.T) {
	c := NewClock()
	assert.Equal(t, time.Second/60, c.TargetStep())
	assert.Equal(t, DefaultMaxSteps, c.MaxSteps())
	assert.Zero(t, c.Accumulated())

	prev, cur := c.Focus()
	assert.False(t, prev)
	assert.False(t, cur)
}

func TestWithTargetRateFallsBackOnInvalidRate(t *testing.T) {
	assert.Equal(t, time.Second/60, NewClock(WithTargetRate(0)).TargetStep())
	assert.Equal(t, time.Second/60, NewClock(WithTargetRate(2)).TargetStep())
	assert.Equal(t, time.Second/120, NewClock(WithTargetRate(120)).TargetStep())
	assert.Equal(t, DefaultMaxSteps, NewClock(WithMaxSteps(0)).MaxSteps())
}

func TestRecordFocusIsDeferredUntilTick(t *testing.T) {
	ft := newFakeTime()
	c := NewClock(WithTimeSource(ft.Now))

	c.RecordFocus(true)
	prev, cur := c.Focus()
	assert.False(t, prev, "committed focus must not change before Tick")
	assert.True(t, cur)

	// (false, true): focus gained, no simulation this frame
	ft.Advance(time.Second)
	assert.False(t, c.Tick())
	assert.Zero(t, c.Accumulated())

	// (true, true): accumulates only what elapsed since the previous tick
	ft.Advance(10 * time.Millisecond)
	assert.True(t, c.Tick())
	assert.Equal(t, 10*time.Millisecond, c.Accumulated())
}

func TestTickResetsOnAnyNonFocusedPair(t *testing.T) {
	ft := newFakeTime()
	c := newFocusedClock(ft)

	sequence := []struct {
		focus    bool
		wantTick bool
	}{
		{true, true},   // (true, true)
		{false, false}, // (true, false) lost
		{false, false}, // (false, false) still unfocused
		{true, false},  // (false, true) gained
		{true, true},   // (true, true)
		{false, false}, // (true, false) lost
	}

	for i, step := range sequence {
		ft.Advance(5 * time.Millisecond)
		c.RecordFocus(step.focus)
		got := c.Tick()
		require.Equal(t, step.wantTick, got, "step %d", i)
		if !got {
			assert.Zero(t, c.Accumulated(), "step %d: accumulator must reset", i)
		} else {
			assert.Positive(t, c.Accumulated(), "step %d", i)
		}
	}
}

func TestTickIgnoresBackwardTime(t *testing.T) {
	ft := newFakeTime()
	c := newFocusedClock(ft)

	ft.Advance(-time.Second)
	assert.True(t, c.Tick())
	assert.Zero(t, c.Accumulated())
}

func TestConsumeExactlyOneStep(t *testing.T) {
	ft := newFakeTime()
	c := newFocusedClock(ft)

	ft.Advance(c.TargetStep())
	require.True(t, c.Tick())

	dt, ok := c.ConsumeTimestep()
	require.True(t, ok)
	assert.Equal(t, c.TargetStep(), dt)
	assert.Equal(t, 1, c.LastSteps())

	// the remainder fell into the dead zone and was snapped to zero,
	// so a full step remains until the next frame is due
	assert.Zero(t, c.Accumulated())
	wait, ok := c.WaitDuration()
	require.True(t, ok)
	assert.Equal(t, c.TargetStep(), wait)
}

func TestConsumeVeryFastFrame(t *testing.T) {
	ft := newFakeTime()
	c := newFocusedClock(ft)

	ft.Advance(time.Second / 600)
	require.True(t, c.Tick())

	_, ok := c.ConsumeTimestep()
	assert.False(t, ok)
	assert.Equal(t, 0, c.LastSteps())

	wait, ok := c.WaitDuration()
	require.True(t, ok)
	assert.InDelta(t, float64(c.TargetStep())*9/10, float64(wait), float64(time.Microsecond))
}

func TestConsumeClampsLongStall(t *testing.T) {
	ft := newFakeTime()
	c := newFocusedClock(ft)

	ft.Advance(10 * time.Second)
	require.True(t, c.Tick())

	dt, ok := c.ConsumeTimestep()
	require.True(t, ok)
	assert.Equal(t, 3*c.TargetStep(), dt)
	assert.Greater(t, c.LastSteps(), c.MaxSteps())

	// the whole stall is drained in one burst
	_, ok = c.ConsumeTimestep()
	assert.False(t, ok)
}

func TestConsumeMultipleSteps(t *testing.T) {
	ft := newFakeTime()
	c := newFocusedClock(ft)

	ft.Advance(2*c.TargetStep() + time.Millisecond)
	require.True(t, c.Tick())

	dt, ok := c.ConsumeTimestep()
	require.True(t, ok)
	assert.Equal(t, 2*c.TargetStep(), dt)
	assert.Equal(t, 2, c.LastSteps())
}

func TestConsumeIsIdempotentWithoutElapsedTime(t *testing.T) {
	ft := newFakeTime()
	c := newFocusedClock(ft)

	ft.Advance(c.TargetStep())
	require.True(t, c.Tick())
	_, ok := c.ConsumeTimestep()
	require.True(t, ok)

	for range 5 {
		dt, ok := c.ConsumeTimestep()
		assert.False(t, ok)
		assert.Zero(t, dt)
	}

	// ticking with no elapsed time changes nothing either
	require.True(t, c.Tick())
	_, ok = c.ConsumeTimestep()
	assert.False(t, ok)
}

func TestWaitDurationWhenStepAlreadyDue(t *testing.T) {
	ft := newFakeTime()
	c := newFocusedClock(ft)

	ft.Advance(c.TargetStep())
	require.True(t, c.Tick())

	_, ok := c.WaitDuration()
	assert.False(t, ok)
}

func TestAccumulatorNeverNegative(t *testing.T) {
	ft := newFakeTime()
	c := newFocusedClock(ft, WithMaxSteps(5))

	frames := []time.Duration{
		time.Millisecond, 17 * time.Millisecond, 33 * time.Millisecond, 16 * time.Millisecond,
		250 * time.Millisecond, 16666 * time.Microsecond, 16949 * time.Microsecond, 0,
	}
	for _, f := range frames {
		ft.Advance(f)
		require.True(t, c.Tick())
		dt, ok := c.ConsumeTimestep()
		if ok {
			assert.LessOrEqual(t, dt, 5*c.TargetStep())
		}
		assert.GreaterOrEqual(t, c.Accumulated(), time.Duration(0))
	}
}
