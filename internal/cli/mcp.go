package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/hololoop"
	"github.com/aretw0/hololoop/internal/config"
	mcpadapter "github.com/aretw0/hololoop/pkg/adapters/mcp"
)

// MCPOptions configures the mcp command. Out carries the protocol, so
// banners and summaries are never printed.
type MCPOptions struct {
	RunOptions

	// In carries requests. Defaults to os.Stdin.
	In io.Reader
}

func newMCPServer(s *Session, logger *slog.Logger) *mcpadapter.Server {
	return mcpadapter.NewServer(s.App,
		mcpadapter.WithSpeaker(s.Host.Recognizer),
		mcpadapter.WithLogger(logger),
	)
}

// ServeMCP runs the simulated App and serves the Model Context Protocol over
// In and Out until ctx ends or In is closed.
func ServeMCP(ctx context.Context, opts MCPOptions) error {
	out, errOut := opts.writers()
	in := opts.In
	if in == nil {
		in = os.Stdin
	}

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
	defer func() {
		if err := session.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("Failed to close session", "err", err)
		}
	}()

	loopCtx, stopLoop := context.WithCancel(ctx)
	defer stopLoop()

	r := hololoop.NewRunner()
	r.Interval = cfg.FrameInterval()
	if opts.Interval > 0 {
		r.Interval = opts.Interval
	}
	r.MaxFrames = opts.Frames
	r.BeforeFrame = script.BeforeFrame(session.Host, session.App)

	loopDone := make(chan error, 1)
	go func() {
		_, err := r.Run(loopCtx, session.App)
		loopDone <- err
	}()

	logger.Info("Serving MCP over stdio")
	serveErr := newMCPServer(session, logger).Listen(loopCtx, in, out)
	if errors.Is(serveErr, context.Canceled) {
		serveErr = nil
	}

	stopLoop()
	return errors.Join(serveErr, <-loopDone)
}
