package clock

import "time"

const (
	// DefaultCoarseSleep is the increment used while more than one coarse step remains.
	DefaultCoarseSleep = time.Millisecond

	// DefaultFineSleep is the increment used for the final stretch of a precise sleep.
	DefaultFineSleep = time.Microsecond
)

// Sleeper suspends the calling goroutine with sub-millisecond precision without spinning for the
// whole duration. It sleeps in Coarse increments until within Coarse of the deadline, then in Fine
// increments for the remainder. OS timer slack makes each increment a lower bound, so the result
// may overshoot slightly; that is tolerated.
type Sleeper struct {
	// Coarse is the increment for the bulk of the wait.
	Coarse time.Duration
	// Fine is the increment for the last Coarse of the wait.
	Fine time.Duration

	// Now and SleepFunc default to time.Now and time.Sleep. Tests inject fakes.
	Now       func() time.Time
	SleepFunc func(time.Duration)
}

// defaultSleeper is used by the package-level Sleep.
var defaultSleeper = &Sleeper{
	Coarse: DefaultCoarseSleep,
	Fine:   DefaultFineSleep,
}

// Sleep waits for d using the default coarse/fine increments.
//
// Parameters:
//   - d: the duration to wait; non-positive values return immediately
func Sleep(d time.Duration) {
	defaultSleeper.Sleep(d)
}

// Sleep waits for d. It is not cancellable once started.
//
// Parameters:
//   - d: the duration to wait; non-positive values return immediately
func (s *Sleeper) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}

	now := s.Now
	if now == nil {
		now = time.Now
	}
	sleep := s.SleepFunc
	if sleep == nil {
		sleep = time.Sleep
	}
	coarse := s.Coarse
	if coarse <= 0 {
		coarse = DefaultCoarseSleep
	}
	fine := s.Fine
	if fine <= 0 {
		fine = DefaultFineSleep
	}

	start := now()

	if d > coarse {
		for now().Sub(start) < d-coarse {
			sleep(coarse)
		}
	}

	for now().Sub(start) < d {
		sleep(fine)
	}
}
