package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/aretw0/hololoop"
	"github.com/aretw0/hololoop/internal/config"
	"github.com/aretw0/hololoop/internal/presentation/tui"
	httpadapter "github.com/aretw0/hololoop/pkg/adapters/http"
	"github.com/go-chi/chi/v5"
)

// ServeOptions configures the serve command.
type ServeOptions struct {
	RunOptions

	// Addr overrides the configured listen address.
	Addr string

	// Ready is called with the bound address once the listener is open.
	Ready func(addr string)
}

// Serve runs the simulated App and exposes it over HTTP until ctx ends. The
// MCP streamable transport is mounted at /mcp.
// State is restored on start and saved on shutdown like a regular run.
func Serve(ctx context.Context, opts ServeOptions) error {
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

	addr := cfg.HTTP.Addr
	if opts.Addr != "" {
		addr = opts.Addr
	}

	session, err := openSession(ctx, cfg, logger, sessionOptions{streams: true})
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("Failed to close session", "err", err)
		}
	}()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	router := chi.NewRouter()
	router.Mount("/mcp", newMCPServer(session, logger).Handler())
	router.Mount("/", httpadapter.NewHandler(session.App,
		httpadapter.WithStreams(session.Streams),
		httpadapter.WithMetrics(session.Metrics.Registry()),
		httpadapter.WithLogger(logger),
	))

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Serve(ln)
	}()

	if !opts.Quiet {
		if isTerminal(out) {
			tui.PrintBanner(out)
		}
		printSystemMessage(out, "Serving hololoop on http://%s", ln.Addr())
	}
	if opts.Ready != nil {
		opts.Ready(ln.Addr().String())
	}

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

	var serveErr error
	select {
	case err := <-serverErrors:
		serveErr = fmt.Errorf("server error: %w", err)
		stopLoop()
	case <-ctx.Done():
	}

	// Give outstanding requests a deadline for completion.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Graceful shutdown did not complete", "err", err)
		_ = srv.Close()
	}

	stopLoop()
	loopErr := <-loopDone

	if serveErr == nil {
		if err := <-serverErrors; err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	}
	return errors.Join(serveErr, loopErr)
}
