package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/hololoop"
	"github.com/aretw0/hololoop/internal/config"
	"github.com/aretw0/hololoop/internal/presentation/tui"
	httpadapter "github.com/aretw0/hololoop/pkg/adapters/http"
	"github.com/aretw0/hololoop/pkg/domain"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	ConfigPath  string
	Debug       bool
	Frames      uint64
	Interval    time.Duration // Overrides the configured frame rate when positive
	Fresh       bool          // Delete saved state before starting
	Quiet       bool
	MetricsAddr string
	Script      ScriptOptions

	// Out receives banners and summaries. Logs go to Err.
	Out io.Writer
	Err io.Writer
}

func (o *RunOptions) writers() (io.Writer, io.Writer) {
	out, errOut := o.Out, o.Err
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return out, errOut
}

// Run drives the App against the simulated host until Frames are rendered or ctx ends.
func Run(ctx context.Context, opts RunOptions) (hololoop.RunStats, error) {
	out, errOut := opts.writers()

	script, err := ParseScript(opts.Script)
	if err != nil {
		return hololoop.RunStats{}, err
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return hololoop.RunStats{}, err
	}
	logger, err := createLogger(errOut, cfg.LogLevel, opts.Debug)
	if err != nil {
		return hololoop.RunStats{}, err
	}

	if !opts.Quiet && isTerminal(out) {
		tui.PrintBanner(out)
	}

	if opts.Fresh {
		if err := resetState(ctx, cfg, logger); err != nil {
			return hololoop.RunStats{}, err
		}
	}

	session, err := openSession(ctx, cfg, logger, sessionOptions{})
	if err != nil {
		return hololoop.RunStats{}, err
	}
	defer func() {
		if err := session.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("Failed to close session", "err", err)
		}
	}()

	if opts.MetricsAddr != "" {
		stop, err := serveMetrics(opts.MetricsAddr, session)
		if err != nil {
			return hololoop.RunStats{}, err
		}
		defer stop()
	}

	for _, line := range script.Describe() {
		logger.Debug("Scheduled", "event", line)
	}

	r := hololoop.NewRunner()
	r.Interval = cfg.FrameInterval()
	if opts.Interval > 0 {
		r.Interval = opts.Interval
	}
	r.MaxFrames = opts.Frames
	r.BeforeFrame = script.BeforeFrame(session.Host, session.App)
	r.AfterFrame = func(frame domain.FrameDescriptor, presented bool) {
		if !presented {
			logger.Debug("Frame not presented", "frame", frame.Timing.FrameCount)
		}
	}

	stats, err := r.Run(ctx, session.App)
	if err != nil {
		return stats, err
	}

	if !opts.Quiet {
		p := session.App.State().Placement.Position
		printSystemMessage(out, "Content at (%.2f, %.2f, %.2f), tracking %s.",
			p.X, p.Y, p.Z, session.App.Snapshot().Locatability)
	}
	return stats, nil
}

// serveMetrics exposes /metrics and the introspection API while a run is in progress.
func serveMetrics(addr string, s *Session) (func(), error) {
	srv := &http.Server{
		Addr: addr,
		Handler: httpadapter.NewHandler(s.App,
			httpadapter.WithMetrics(s.Metrics.Registry()),
			httpadapter.WithLogger(s.Logger),
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	// Fail fast on bind errors; anything later is logged.
	select {
	case err := <-errCh:
		return nil, fmt.Errorf("metrics server: %w", err)
	case <-time.After(50 * time.Millisecond):
	}
	s.Logger.Info("Metrics endpoint listening", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			s.Logger.Warn("Metrics server shutdown incomplete", "err", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Warn("Metrics server stopped", "err", err)
		}
	}, nil
}

// Execute handles the 'run' command: signal handling, the run itself and the summary line.
func Execute(opts RunOptions) error {
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	stats, err := Run(sigCtx, opts)
	out, _ := opts.writers()
	if err == nil || isInterrupted(err) {
		logCompletion(out, stats, opts.Quiet, sigCtx.Signal())
	}
	return handleExecutionError(err)
}
