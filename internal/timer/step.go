// Package timer provides the render loop step clock.
package timer

import (
	"time"

	"github.com/aretw0/hololoop/pkg/domain"
)

// fixedStepTolerance snaps deltas within a quarter millisecond of the target
// onto the target, so a 60Hz loop does not drift against a 59.94Hz display.
const fixedStepTolerance = 250 * time.Microsecond

// DefaultMaxDelta bounds a single tick after a pause (debugger, suspend).
const DefaultMaxDelta = 100 * time.Millisecond

// StepTimer converts wall-clock samples into update steps.
// In variable mode every Tick runs the update once with the measured delta.
// In fixed mode Tick runs the update zero or more times with exactly the target delta.
// Samples that move backwards are treated as a zero delta, so totals are monotonic.
//
// Not safe for concurrent use.
type StepTimer struct {
	started bool
	last    time.Time

	elapsed    time.Duration
	total      time.Duration
	leftover   time.Duration
	frameCount uint64

	fps              uint32
	framesThisSecond uint32
	secondCounter    time.Duration

	fixed    bool
	target   time.Duration
	maxDelta time.Duration
}

// Option configures a StepTimer.
type Option func(*StepTimer)

// WithFixedTimeStep switches to fixed mode with the given step.
// A non-positive step keeps variable mode.
func WithFixedTimeStep(step time.Duration) Option {
	return func(t *StepTimer) {
		if step > 0 {
			t.fixed = true
			t.target = step
		}
	}
}

// WithMaxDelta overrides DefaultMaxDelta.
func WithMaxDelta(d time.Duration) Option {
	return func(t *StepTimer) {
		if d > 0 {
			t.maxDelta = d
		}
	}
}

// New creates a StepTimer in variable mode.
func New(opts ...Option) *StepTimer {
	t := &StepTimer{maxDelta: DefaultMaxDelta}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tick samples now and invokes update once per step. It returns the number of steps run.
func (t *StepTimer) Tick(now time.Time, update func(domain.StepTiming)) int {
	var delta time.Duration
	sampled := t.started
	if sampled {
		delta = now.Sub(t.last)
	}
	if delta < 0 {
		delta = 0
	}
	t.started = true
	t.last = now

	if delta > t.maxDelta {
		delta = t.maxDelta
	}

	if sampled {
		t.framesThisSecond++
		t.secondCounter += delta
		if t.secondCounter >= time.Second {
			t.fps = t.framesThisSecond
			t.framesThisSecond = 0
			t.secondCounter %= time.Second
		}
	}

	steps := 0
	if t.fixed {
		if diff := delta - t.target; diff > -fixedStepTolerance && diff < fixedStepTolerance {
			delta = t.target
		}
		t.leftover += delta
		for t.leftover >= t.target {
			t.elapsed = t.target
			t.total += t.target
			t.leftover -= t.target
			t.frameCount++
			steps++
			if update != nil {
				update(t.Timing())
			}
		}
		return steps
	}

	t.elapsed = delta
	t.total += delta
	t.leftover = 0
	t.frameCount++
	if update != nil {
		update(t.Timing())
	}
	return 1
}

// ResetElapsed forgets the last sample so the next Tick reports a zero delta.
// Call it after a long intentional pause such as resuming a suspended app.
func (t *StepTimer) ResetElapsed() {
	t.started = false
	t.leftover = 0
	t.framesThisSecond = 0
	t.secondCounter = 0
}

// Timing returns the current timer snapshot.
func (t *StepTimer) Timing() domain.StepTiming {
	return domain.StepTiming{
		Elapsed:    t.elapsed,
		Total:      t.total,
		FrameCount: t.frameCount,
		FPS:        t.fps,
	}
}
