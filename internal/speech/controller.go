// Package speech manages the voice-command grammar installed on a recognizer.
package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/aretw0/hololoop/internal/logging"
	"github.com/aretw0/hololoop/pkg/domain"
	"github.com/aretw0/hololoop/pkg/ports"
)

// DefaultCommands is the phrase table used when none is configured.
func DefaultCommands() map[string]domain.Command {
	return map[string]domain.Command{
		"move molecule":  domain.CommandReposition,
		"reposition":     domain.CommandReposition,
		"bring it here":  domain.CommandReposition,
		"place molecule": domain.CommandPlace,
		"reset molecule": domain.CommandReset,
	}
}

// Controller owns the single grammar registration of a recognizer.
//
// Every build releases the previous grammar first, so at most one grammar is
// ever installed. Not safe for concurrent use.
type Controller struct {
	recognizer    ports.Recognizer
	commands      map[string]domain.Command
	minConfidence domain.Confidence
	logger        *slog.Logger

	active    []string
	installed bool
	synced    bool
	builds    int
	token     ports.Token
	quality   map[domain.QualityProblem]int
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger configures a logger for the Controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithCommands replaces the phrase table. Phrases are normalized.
func WithCommands(commands map[string]domain.Command) Option {
	return func(c *Controller) {
		c.commands = make(map[string]domain.Command, len(commands))
		for phrase, cmd := range commands {
			if norm := domain.NormalizePhrase(phrase); norm != "" {
				c.commands[norm] = cmd
			}
		}
	}
}

// WithMinConfidence sets the lowest confidence a result needs to be acted on.
func WithMinConfidence(level domain.Confidence) Option {
	return func(c *Controller) {
		c.minConfidence = level
	}
}

// NewController creates a Controller for recognizer with the default phrase table.
func NewController(recognizer ports.Recognizer, opts ...Option) *Controller {
	c := &Controller{
		recognizer:    recognizer,
		minConfidence: domain.ConfidenceMedium,
		logger:        logging.NewNop(),
		quality:       make(map[domain.QualityProblem]int),
	}
	WithCommands(DefaultCommands())(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers the result and quality callbacks on the recognizer,
// replacing an earlier subscription.
func (c *Controller) Subscribe(onResult func(domain.SpeechResult), onQuality func(domain.QualityProblem)) {
	if c.token != "" {
		c.recognizer.Unsubscribe(c.token)
	}
	c.token = c.recognizer.Subscribe(onResult, onQuality)
}

// PhrasesFor returns the sorted phrases meaningful in state.
func (c *Controller) PhrasesFor(state *domain.SessionState) []string {
	if state == nil {
		state = domain.NewSessionState()
	}
	phrases := make([]string, 0, len(c.commands))
	for phrase, cmd := range c.commands {
		if available(cmd, state) {
			phrases = append(phrases, phrase)
		}
	}
	sort.Strings(phrases)
	return phrases
}

func available(cmd domain.Command, state *domain.SessionState) bool {
	switch cmd {
	case domain.CommandReposition:
		return !state.RepositionPending
	case domain.CommandPlace:
		return !state.RepositionPending && !state.Placement.Placed
	case domain.CommandReset:
		return state.Placement.Placed
	default:
		return false
	}
}

// Build releases the current grammar and installs the one for state.
// A state with no meaningful phrases leaves the recognizer without a grammar.
func (c *Controller) Build(ctx context.Context, state *domain.SessionState) error {
	releaseErr := c.Release(ctx)

	phrases := c.PhrasesFor(state)
	c.synced = true
	if len(phrases) == 0 {
		c.logger.Debug("No speech commands for current state")
		return releaseErr
	}

	if err := c.recognizer.InstallGrammar(ctx, phrases); err != nil {
		c.synced = false
		return errors.Join(releaseErr, fmt.Errorf("install grammar: %w", err))
	}
	c.active = phrases
	c.installed = true
	c.builds++
	c.logger.Debug("Speech grammar installed", "phrases", len(phrases))
	return releaseErr
}

// Release uninstalls the active grammar, if any.
func (c *Controller) Release(ctx context.Context) error {
	c.synced = false
	if !c.installed {
		return nil
	}
	c.installed = false
	c.active = nil
	if err := c.recognizer.UninstallGrammar(ctx); err != nil {
		return fmt.Errorf("uninstall grammar: %w", err)
	}
	return nil
}

// Sync rebuilds the grammar only when state calls for a different phrase set
// than the last build. It reports whether a rebuild happened.
func (c *Controller) Sync(ctx context.Context, state *domain.SessionState) (bool, error) {
	if c.synced && slices.Equal(c.active, c.PhrasesFor(state)) {
		return false, nil
	}
	return true, c.Build(ctx, state)
}

// Match maps a result to a command of the active grammar. Results below the
// minimum confidence or outside the grammar are not matched.
func (c *Controller) Match(result domain.SpeechResult) (domain.Command, bool) {
	if !c.installed || result.Confidence < c.minConfidence {
		return "", false
	}
	phrase := domain.NormalizePhrase(result.Text)
	if !slices.Contains(c.active, phrase) {
		return "", false
	}
	cmd, ok := c.commands[phrase]
	return cmd, ok
}

// NoteQuality records an audio quality problem. It never affects the grammar.
func (c *Controller) NoteQuality(problem domain.QualityProblem) {
	c.quality[problem]++
	c.logger.Warn("Speech quality degraded", "problem", string(problem), "count", c.quality[problem])
}

// Degradations returns how often each quality problem was reported.
func (c *Controller) Degradations() map[domain.QualityProblem]int {
	out := make(map[domain.QualityProblem]int, len(c.quality))
	for k, v := range c.quality {
		out[k] = v
	}
	return out
}

// Active returns the installed phrases, or nil when no grammar is installed.
func (c *Controller) Active() []string {
	if !c.installed {
		return nil
	}
	return slices.Clone(c.active)
}

// Installed reports whether a grammar is installed.
func (c *Controller) Installed() bool {
	return c.installed
}

// Builds counts successful grammar installations.
func (c *Controller) Builds() int {
	return c.builds
}

// Close unsubscribes from the recognizer and releases the grammar.
func (c *Controller) Close(ctx context.Context) error {
	if c.token != "" {
		c.recognizer.Unsubscribe(c.token)
		c.token = ""
	}
	return c.Release(ctx)
}
