package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/hololoop/internal/codec"
	"github.com/aretw0/hololoop/internal/config"
	"github.com/aretw0/hololoop/pkg/domain"
	"gopkg.in/yaml.v3"
)

// StateOptions selects the configuration and output format of the state commands.
type StateOptions struct {
	ConfigPath string
	Debug      bool
	YAML       bool
	Out        io.Writer
	Err        io.Writer
}

func (o *StateOptions) setup() (*config.Config, *slog.Logger, io.Writer, error) {
	ro := RunOptions{Out: o.Out, Err: o.Err}
	out, errOut := ro.writers()

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := createLogger(errOut, cfg.LogLevel, o.Debug)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, out, nil
}

// storedState is the printed form of a persisted session.
type storedState struct {
	Key   string               `json:"key" yaml:"key"`
	Found bool                 `json:"found" yaml:"found"`
	State *domain.SessionState `json:"state" yaml:"state"`
}

// ShowState prints the persisted session state, or the defaults when nothing
// usable is saved.
func ShowState(ctx context.Context, opts StateOptions) error {
	cfg, logger, out, err := opts.setup()
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	view := storedState{Key: cfg.SessionID, State: domain.NewSessionState()}
	blob, err := store.Read(ctx, cfg.SessionID)
	switch {
	case errors.Is(err, domain.ErrStateNotFound):
	case errors.Is(err, domain.ErrMalformedState):
		logger.Warn("Saved session state malformed; showing defaults", "key", cfg.SessionID, "err", err)
	case err != nil:
		return fmt.Errorf("failed to read state: %w", err)
	default:
		state, err := codec.Decode(blob)
		if err != nil {
			logger.Warn("Saved session state malformed; showing defaults", "key", cfg.SessionID, "err", err)
			break
		}
		view.Found, view.State = true, state
	}

	if opts.YAML {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(view)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

// ResetState deletes the persisted session state.
func ResetState(ctx context.Context, opts StateOptions) error {
	cfg, logger, out, err := opts.setup()
	if err != nil {
		return err
	}
	if err := resetState(ctx, cfg, logger); err != nil {
		return err
	}
	printSystemMessage(out, "State '%s' cleared.", cfg.SessionID)
	return nil
}

func resetState(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.Delete(ctx, cfg.SessionID); err != nil {
		return fmt.Errorf("failed to reset state: %w", err)
	}
	logger.Info("Session state cleared", "key", cfg.SessionID)
	return nil
}
