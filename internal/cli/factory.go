package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/hololoop"
	"github.com/aretw0/hololoop/internal/adapters/file"
	"github.com/aretw0/hololoop/internal/adapters/redis"
	"github.com/aretw0/hololoop/internal/config"
	httpadapter "github.com/aretw0/hololoop/pkg/adapters/http"
	"github.com/aretw0/hololoop/pkg/adapters/memory"
	"github.com/aretw0/hololoop/pkg/adapters/sim"
	"github.com/aretw0/hololoop/pkg/domain"
	"github.com/aretw0/hololoop/pkg/observability"
	"github.com/aretw0/hololoop/pkg/persistence/middleware"
	"github.com/aretw0/hololoop/pkg/ports"
	"github.com/aretw0/hololoop/pkg/session"
)

// openStore builds the configured state store, wrapped in encryption when a key is set
// and in a session.Manager that serializes writes per key.
// The returned closer releases backend connections and is never nil.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.StateStore, func() error, error) {
	var (
		store   ports.StateStore
		closer  = func() error { return nil }
		manager = []session.Option{session.WithLogger(logger)}
	)

	switch cfg.Store.Backend {
	case config.BackendMemory:
		store = memory.NewStore()
	case config.BackendFile:
		store = file.New(cfg.Store.Dir)
	case config.BackendRedis:
		var opts []redis.Option
		if cfg.Store.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Store.Redis.Prefix))
		}
		if cfg.Store.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Store.Redis.TTL))
		}
		rs := redis.New(cfg.Store.Redis.Addr, cfg.Store.Redis.Password, cfg.Store.Redis.DB, opts...)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, nil, fmt.Errorf("redis store unavailable at %s: %w", cfg.Store.Redis.Addr, err)
		}
		store, closer = rs, rs.Close
		manager = append(manager, session.WithLocker(rs.Locker()))
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	key, err := cfg.EncryptionKey()
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	if key != nil {
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			_ = closer()
			return nil, nil, err
		}
		store = middleware.Chain(store, enc)
	}

	logger.Debug("State store ready", "backend", cfg.Store.Backend, "encrypted", key != nil)
	return session.NewManager(store, manager...), closer, nil
}

// newHost builds a simulated host with the configured cameras already attached.
func newHost(cfg *config.Config) (*sim.Host, error) {
	loc, err := domain.ParseLocatability(cfg.Sim.Locatability)
	if err != nil {
		return nil, err
	}
	host := sim.NewHost(loc)
	for _, id := range cfg.Sim.Cameras {
		host.Space.AddCamera(domain.CameraID(id))
	}
	return host, nil
}

// appOptions translates the configuration into App options.
func appOptions(cfg *config.Config) ([]hololoop.Option, error) {
	commands, err := cfg.SpeechCommands()
	if err != nil {
		return nil, err
	}
	confidence, err := domain.ParseConfidence(cfg.Speech.MinConfidence)
	if err != nil {
		return nil, err
	}

	opts := []hololoop.Option{
		hololoop.WithStateKey(cfg.SessionID),
		hololoop.WithSpeechCommands(commands),
		hololoop.WithMinConfidence(confidence),
	}
	if cfg.Content.Distance > 0 {
		opts = append(opts, hololoop.WithContentDistance(cfg.Content.Distance))
	}
	if cfg.Content.DegreesPerSecond > 0 {
		opts = append(opts, hololoop.WithSpinRate(cfg.Content.DegreesPerSecond))
	}
	if cfg.FixedTimeStep > 0 {
		opts = append(opts, hololoop.WithFixedTimeStep(cfg.FixedTimeStep))
	}
	return opts, nil
}

// Session is a fully wired App running against the simulated host.
type Session struct {
	Config  *config.Config
	Host    *sim.Host
	App     *hololoop.App
	Metrics *observability.Metrics
	Streams *httpadapter.StreamManager
	Logger  *slog.Logger

	closeStore func() error
}

type sessionOptions struct {
	streams bool
}

// openSession builds the store, the simulated host and the App, and attaches the space.
func openSession(ctx context.Context, cfg *config.Config, logger *slog.Logger, so sessionOptions) (*Session, error) {
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	host, err := newHost(cfg)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	opts, err := appOptions(cfg)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	s := &Session{
		Config:     cfg,
		Host:       host,
		Metrics:    observability.NewMetrics(),
		Logger:     logger,
		closeStore: closeStore,
	}

	opts = append(opts,
		hololoop.WithLogger(logger),
		hololoop.WithName("hololoop-sim"),
		hololoop.WithStore(store),
		hololoop.WithAudio(host.Audio),
		hololoop.WithLifecycleHooks(s.Metrics.Hooks()),
		hololoop.WithLifecycleHooks(observability.LoggingHooks(logger)),
	)
	if so.streams {
		s.Streams = httpadapter.NewStreamManager(logger)
		opts = append(opts, hololoop.WithLifecycleHooks(s.Streams.Hooks()))
	}

	app, err := hololoop.New(host.Device, host.Recognizer, opts...)
	if err != nil {
		_ = closeStore()
		return nil, err
	}
	s.App = app

	if err := app.SetSpace(ctx, host.Space); err != nil {
		_ = s.Close(ctx)
		return nil, err
	}
	return s, nil
}

// Close detaches the App and releases the store.
func (s *Session) Close(ctx context.Context) error {
	err := s.App.Close(ctx)
	if cerr := s.closeStore(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
