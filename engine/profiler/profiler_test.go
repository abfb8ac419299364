package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTime struct {
	t time.Time
}

func (f *fakeTime) Now() time.Time { return f.t }

func TestTickLogsOncePerInterval(t *testing.T) {
	ft := &fakeTime{t: time.Unix(100, 0)}
	var out bytes.Buffer
	p := NewProfiler(
		WithTimeSource(ft.Now),
		WithLogger(slog.New(slog.NewTextHandler(&out, nil))),
		WithMemStats(false),
	)

	for range 30 {
		p.RecordFrame()
		p.RecordUpdate(1, 3)
	}
	p.RecordUpdate(7, 3)
	p.RecordSkippedFrame()

	ft.t = ft.t.Add(500 * time.Millisecond)
	assert.False(t, p.Tick())
	assert.Empty(t, out.String())

	ft.t = ft.t.Add(500 * time.Millisecond)
	require.True(t, p.Tick())

	s := p.Last()
	assert.InDelta(t, 30.0, s.FPS, 1e-9)
	assert.InDelta(t, 33.0, s.UPS, 1e-9, "clamped catch-up counts max steps")
	assert.Equal(t, 1, s.Clamps)
	assert.Equal(t, 1, s.Skipped)
	assert.Contains(t, out.String(), "fps=30")
	assert.Contains(t, out.String(), "clamps=1")

	ft.t = ft.t.Add(time.Second)
	require.True(t, p.Tick())
	assert.Zero(t, p.Last().FPS, "counters reset each interval")
	assert.Zero(t, p.Last().Clamps)
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	assert.Equal(t, time.Second, NewProfiler(WithInterval(0)).updateInterval)
	assert.Equal(t, 250*time.Millisecond, NewProfiler(WithInterval(250*time.Millisecond)).updateInterval)
}

func TestMemStatsAreRead(t *testing.T) {
	ft := &fakeTime{t: time.Unix(0, 0)}
	p := NewProfiler(WithTimeSource(ft.Now), WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

	ft.t = ft.t.Add(time.Second)
	require.True(t, p.Tick())

	assert.Positive(t, p.Last().SysMB)
}
