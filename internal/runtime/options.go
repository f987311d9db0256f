package runtime

import (
	"log/slog"
	"time"

	"github.com/aretw0/hololoop/internal/speech"
	"github.com/aretw0/hololoop/internal/timer"
	"github.com/aretw0/hololoop/pkg/domain"
	"github.com/aretw0/hololoop/pkg/ports"
)

// DefaultStateKey is the storage key of the session state.
const DefaultStateKey = "app-state"

// DefaultContentDistance is how far in front of the user repositioned content lands, in meters.
const DefaultContentDistance = 2.0

// RepositionCue is the audio cue played when content is moved.
const RepositionCue = "reposition"

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *Orchestrator) {
		o.hooks = hooks
	}
}

// WithAudio sets the engine used for audio cues.
func WithAudio(audio ports.AudioEngine) Option {
	return func(o *Orchestrator) {
		o.audio = audio
	}
}

// WithStore sets the persistence collaborator. Defaults to an in-memory store.
func WithStore(store ports.StateStore) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithStateKey overrides DefaultStateKey.
func WithStateKey(key string) Option {
	return func(o *Orchestrator) {
		if key != "" {
			o.stateKey = key
		}
	}
}

// WithContentDistance overrides DefaultContentDistance.
func WithContentDistance(meters float64) Option {
	return func(o *Orchestrator) {
		if meters > 0 {
			o.distance = meters
		}
	}
}

// WithFixedTimeStep runs content updates at a fixed step instead of once per frame.
func WithFixedTimeStep(step time.Duration) Option {
	return func(o *Orchestrator) {
		o.timerOpts = append(o.timerOpts, timer.WithFixedTimeStep(step))
	}
}

// WithMaxDelta bounds the time a single Update can advance content.
func WithMaxDelta(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.timerOpts = append(o.timerOpts, timer.WithMaxDelta(d))
	}
}

// WithSpeechCommands replaces the phrase to command table.
func WithSpeechCommands(commands map[string]domain.Command) Option {
	return func(o *Orchestrator) {
		o.speechOpts = append(o.speechOpts, speech.WithCommands(commands))
	}
}

// WithMinConfidence sets the lowest confidence a speech result needs to be acted on.
func WithMinConfidence(level domain.Confidence) Option {
	return func(o *Orchestrator) {
		o.speechOpts = append(o.speechOpts, speech.WithMinConfidence(level))
	}
}

// WithClock overrides the source of event timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *Orchestrator) {
		if clock != nil {
			o.clock = clock
		}
	}
}
