package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/hololoop"
	"github.com/aretw0/hololoop/internal/config"
	"github.com/aretw0/hololoop/internal/presentation/graph"
	"github.com/aretw0/hololoop/internal/presentation/tui"
)

// InspectOptions configures the inspect command.
type InspectOptions struct {
	RunOptions
	Mermaid bool
}

// Inspect runs a short simulated session and prints a report of the resulting snapshot.
// The report is rendered with glamour on terminals and printed as markdown otherwise.
func Inspect(ctx context.Context, opts InspectOptions) error {
	out, errOut := opts.writers()

	script, err := ParseScript(opts.Script)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	logger, err := createLogger(errOut, cfg.LogLevel, opts.Debug)
	if err != nil {
		return err
	}

	session, err := openSession(ctx, cfg, logger, sessionOptions{})
	if err != nil {
		return err
	}
	defer session.Close(context.WithoutCancel(ctx))

	frames := opts.Frames
	if frames == 0 {
		frames = script.Last() + 1
	}

	r := hololoop.NewRunner()
	r.Interval = time.Millisecond
	r.MaxFrames = frames
	r.SkipPersistence = true
	r.BeforeFrame = script.BeforeFrame(session.Host, session.App)
	if err := session.App.LoadAppState(ctx); err != nil {
		logger.Warn("Inspecting default state", "err", err)
	}
	if _, err := r.Run(ctx, session.App); err != nil {
		return err
	}

	snap := session.App.Snapshot()
	if opts.Mermaid {
		_, err := fmt.Fprint(out, graph.GenerateMermaid(snap))
		return err
	}

	report := tui.Report(session.App.Name, snap)
	if isTerminal(out) {
		render, err := tui.NewRenderer(100)
		if err != nil {
			return err
		}
		if report, err = render(report); err != nil {
			return err
		}
	}
	_, err = fmt.Fprint(out, report)
	return err
}
