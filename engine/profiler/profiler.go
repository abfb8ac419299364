package profiler

import (
	"log/slog"
	"runtime"
	"time"
)

// Stats is one interval's worth of frame and memory statistics.
type Stats struct {
	// FPS is presented frames per second.
	FPS float64
	// UPS is simulation steps per second, after clamping.
	UPS float64
	// Clamps counts frames whose catch-up was cut to the step limit.
	Clamps int
	// Skipped counts frames dropped because the surface was unavailable.
	Skipped int

	HeapMB      float64
	AllocRateMB float64
	SysMB       float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
}

// Profiler tracks frame rate, update rate and memory statistics for performance monitoring.
// Outputs stats through slog at a configurable interval.
type Profiler struct {
	now            func() time.Time
	logger         *slog.Logger
	updateInterval time.Duration
	readMem        bool

	frameCount  int
	stepCount   int
	clampCount  int
	skipCount   int
	lastTime    time.Time
	last        Stats
	memStats    runtime.MemStats
	lastGCCount uint32

	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options (interval, time source, logger)
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		now:            time.Now,
		logger:         slog.Default(),
		updateInterval: time.Second,
		readMem:        true,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// RecordFrame counts one presented frame.
func (p *Profiler) RecordFrame() {
	p.frameCount++
}

// RecordUpdate counts the simulation steps produced by one ConsumeTimestep call.
//
// Parameters:
//   - steps: the raw number of steps that were due
//   - maxSteps: the catch-up limit; steps above it count as a clamp
func (p *Profiler) RecordUpdate(steps, maxSteps int) {
	if steps > maxSteps {
		p.clampCount++
		steps = maxSteps
	}
	p.stepCount += steps
}

// RecordSkippedFrame counts a frame that was dropped before rendering.
func (p *Profiler) RecordSkippedFrame() {
	p.skipCount++
}

// Tick should be called once per loop iteration.
// Logs performance statistics when the update interval has elapsed, then starts a new interval.
// Statistics include: FPS, UPS, clamps, skipped frames, heap usage, allocation rate, GC count/pause times.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	s := Stats{
		FPS:     float64(p.frameCount) / elapsed.Seconds(),
		UPS:     float64(p.stepCount) / elapsed.Seconds(),
		Clamps:  p.clampCount,
		Skipped: p.skipCount,
	}

	if p.readMem {
		runtime.ReadMemStats(&p.memStats)
		// Alloc is live heap, TotalAlloc grows forever and tracks churn, Sys is the process footprint.
		s.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
		s.SysMB = float64(p.memStats.Sys) / 1024 / 1024
		allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
		s.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

		s.GCCount = p.memStats.NumGC
		if s.GCCount > 0 {
			// PauseNs is a circular buffer of last 256 GC pauses
			s.LastPauseUs = p.memStats.PauseNs[(s.GCCount-1)%256] / 1000

			startIdx := p.lastGCCount
			if s.GCCount-startIdx > 256 {
				startIdx = s.GCCount - 256
			}
			for i := startIdx; i < s.GCCount; i++ {
				s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
			}
		}
		p.lastGCCount = s.GCCount
		p.lastTotalAlloc = p.memStats.TotalAlloc
	}

	p.logger.Info("profiler",
		"fps", s.FPS,
		"ups", s.UPS,
		"clamps", s.Clamps,
		"skipped", s.Skipped,
		"heap_mb", s.HeapMB,
		"alloc_rate_mb", s.AllocRateMB,
		"gc", s.GCCount,
		"gc_last_us", s.LastPauseUs,
		"gc_max_us", s.MaxPauseUs,
		"sys_mb", s.SysMB,
	)

	p.last = s
	p.frameCount, p.stepCount, p.clampCount, p.skipCount = 0, 0, 0, 0
	p.lastTime = currentTime
	return true
}

// Last returns the statistics logged by the most recent successful Tick.
func (p *Profiler) Last() Stats {
	return p.last
}
