package hololoop

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/hololoop/pkg/domain"
)

// DefaultFrameInterval is a 60Hz display refresh.
const DefaultFrameInterval = time.Second / 60

// RunStats summarizes a Runner session.
type RunStats struct {
	Frames    uint64
	Presented uint64
}

// Runner drives the Update/Render cycle of an App at a fixed cadence.
// This allows hosts without their own display loop (CLI, tests, servers) to run the app.
type Runner struct {
	Interval  time.Duration
	MaxFrames uint64

	// Clock supplies the time passed to Update. Defaults to time.Now.
	Clock func() time.Time

	// BeforeFrame runs before Update with the upcoming frame number, starting at 1.
	// Hosts use it to inject input or device events at precise frames.
	BeforeFrame func(number uint64)

	// AfterFrame runs after Render with the frame and whether it was presented.
	AfterFrame func(frame domain.FrameDescriptor, presented bool)

	// SkipPersistence disables LoadAppState on start and SaveAppState on exit.
	SkipPersistence bool
}

// NewRunner creates a Runner at DefaultFrameInterval with no frame limit.
func NewRunner() *Runner {
	return &Runner{
		Interval: DefaultFrameInterval,
		Clock:    time.Now,
	}
}

// Run restores state, runs frames until ctx is done or MaxFrames is reached,
// and saves state on the way out. The save uses a context detached from ctx
// so cancellation does not lose state.
func (r *Runner) Run(ctx context.Context, app *App) (RunStats, error) {
	var stats RunStats
	if app == nil {
		return stats, fmt.Errorf("app must be set")
	}

	clock := r.Clock
	if clock == nil {
		clock = time.Now
	}
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}

	if !r.SkipPersistence {
		if err := app.LoadAppState(ctx); err != nil {
			app.logger.Warn("Starting with default state", "err", err)
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

loop:
	for r.MaxFrames == 0 || stats.Frames < r.MaxFrames {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
		}

		if r.BeforeFrame != nil {
			r.BeforeFrame(stats.Frames + 1)
		}
		frame := app.Update(ctx, clock())
		presented := app.Render(ctx, frame)

		stats.Frames++
		if presented {
			stats.Presented++
		}
		if r.AfterFrame != nil {
			r.AfterFrame(frame, presented)
		}
	}

	if r.SkipPersistence {
		return stats, nil
	}
	if err := app.SaveAppState(context.WithoutCancel(ctx)); err != nil {
		return stats, fmt.Errorf("save on exit: %w", err)
	}
	return stats, nil
}
