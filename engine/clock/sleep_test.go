package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// recordingSleeper builds a Sleeper on a fake clock where each sleep advances time exactly.
func recordingSleeper(ft *fakeTime, calls *[]time.Duration) *Sleeper {
	return &Sleeper{
		Coarse: time.Millisecond,
		Fine:   time.Microsecond,
		Now:    ft.Now,
		SleepFunc: func(d time.Duration) {
			*calls = append(*calls, d)
			ft.Advance(d)
		},
	}
}

func TestSleeperCoarseThenFine(t *testing.T) {
	ft := newFakeTime()
	var calls []time.Duration
	s := recordingSleeper(ft, &calls)

	start := ft.Now()
	s.Sleep(5*time.Millisecond + 300*time.Microsecond)
	elapsed := ft.Now().Sub(start)

	assert.GreaterOrEqual(t, elapsed, 5*time.Millisecond+300*time.Microsecond)
	assert.LessOrEqual(t, elapsed, 5*time.Millisecond+301*time.Microsecond)

	coarse, fine := 0, 0
	for i, d := range calls {
		switch d {
		case time.Millisecond:
			coarse++
			assert.Zero(t, fine, "coarse sleep %d after fine sleeps began", i)
		case time.Microsecond:
			fine++
		}
	}
	assert.Equal(t, 5, coarse)
	assert.Equal(t, 300, fine)
}

func TestSleeperShortDurationUsesOnlyFine(t *testing.T) {
	ft := newFakeTime()
	var calls []time.Duration
	s := recordingSleeper(ft, &calls)

	s.Sleep(20 * time.Microsecond)
	assert.Len(t, calls, 20)
	for _, d := range calls {
		assert.Equal(t, time.Microsecond, d)
	}
}

func TestSleeperNonPositive(t *testing.T) {
	ft := newFakeTime()
	var calls []time.Duration
	s := recordingSleeper(ft, &calls)

	s.Sleep(0)
	s.Sleep(-time.Second)
	assert.Empty(t, calls)
}

func TestSleepRealClock(t *testing.T) {
	start := time.Now()
	Sleep(2 * time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 2*time.Millisecond)
}
