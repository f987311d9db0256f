package hololoop

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/hololoop/internal/content"
	"github.com/aretw0/hololoop/internal/runtime"
	"github.com/aretw0/hololoop/pkg/domain"
	"github.com/aretw0/hololoop/pkg/ports"
)

// DefaultStateKey is the storage key of the session state unless WithStateKey is used.
const DefaultStateKey = runtime.DefaultStateKey

// App is the high-level entry point for the hololoop library.
// It wraps the internal orchestrator and provides a simplified API for hosts.
type App struct {
	orchestrator *runtime.Orchestrator
	content      ports.ContentRenderer
	logger       *slog.Logger

	hooks         domain.LifecycleHooks
	store         ports.StateStore
	audio         ports.AudioEngine
	degreesPerSec float64
	runtimeOpts   []runtime.Option
	Name          string
}

// Option defines a functional option for configuring the App.
type Option func(*App)

// WithLifecycleHooks registers observability hooks. Multiple calls are merged.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *App) {
		a.hooks = a.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the App.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithStore sets where session state is persisted. Defaults to memory.
func WithStore(store ports.StateStore) Option {
	return func(a *App) {
		a.store = store
	}
}

// WithAudio sets the engine used for audio cues.
func WithAudio(audio ports.AudioEngine) Option {
	return func(a *App) {
		a.audio = audio
	}
}

// WithContent replaces the sample molecule with a custom renderer.
func WithContent(renderer ports.ContentRenderer) Option {
	return func(a *App) {
		a.content = renderer
	}
}

// WithSpinRate sets the rotation speed of the sample molecule in degrees per second.
func WithSpinRate(degreesPerSecond float64) Option {
	return func(a *App) {
		a.degreesPerSec = degreesPerSecond
	}
}

// WithStateKey sets the storage key of the session state (default: "app-state").
func WithStateKey(key string) Option {
	return func(a *App) {
		a.runtimeOpts = append(a.runtimeOpts, runtime.WithStateKey(key))
	}
}

// WithContentDistance sets how far in front of the user repositioned content lands.
func WithContentDistance(meters float64) Option {
	return func(a *App) {
		a.runtimeOpts = append(a.runtimeOpts, runtime.WithContentDistance(meters))
	}
}

// WithFixedTimeStep advances content in fixed steps instead of once per frame.
func WithFixedTimeStep(step time.Duration) Option {
	return func(a *App) {
		a.runtimeOpts = append(a.runtimeOpts, runtime.WithFixedTimeStep(step))
	}
}

// WithSpeechCommands replaces the phrase to command table.
func WithSpeechCommands(commands map[string]domain.Command) Option {
	return func(a *App) {
		a.runtimeOpts = append(a.runtimeOpts, runtime.WithSpeechCommands(commands))
	}
}

// WithMinConfidence sets the lowest recognizer confidence that is acted on.
func WithMinConfidence(level domain.Confidence) Option {
	return func(a *App) {
		a.runtimeOpts = append(a.runtimeOpts, runtime.WithMinConfidence(level))
	}
}

// WithName labels the App in logs.
func WithName(name string) Option {
	return func(a *App) {
		a.Name = name
	}
}

// New initializes an App drawing through device and listening through recognizer.
// By default the content is the sample molecule and state is kept in memory.
func New(device ports.Device, recognizer ports.Recognizer, opts ...Option) (*App, error) {
	if device == nil {
		return nil, errors.New("device is required")
	}
	if recognizer == nil {
		return nil, errors.New("recognizer is required")
	}

	app := &App{}
	for _, opt := range opts {
		opt(app)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime, which would overwrite its default)
	if app.logger == nil {
		app.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if app.Name != "" {
		app.logger = app.logger.With("app", app.Name)
	}

	if app.content == nil {
		var molOpts []content.Option
		if app.degreesPerSec > 0 {
			molOpts = append(molOpts, content.WithDegreesPerSecond(app.degreesPerSec))
		}
		app.content = content.NewMolecule(device, molOpts...)
	}

	runtimeOpts := []runtime.Option{
		runtime.WithLogger(app.logger),
		runtime.WithLifecycleHooks(app.hooks),
	}
	if app.store != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithStore(app.store))
	}
	if app.audio != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithAudio(app.audio))
	}
	runtimeOpts = append(runtimeOpts, app.runtimeOpts...)

	app.orchestrator = runtime.NewOrchestrator(device, app.content, recognizer, runtimeOpts...)
	return app, nil
}

// SetSpace attaches the app to a holographic space, replacing any previous one.
func (a *App) SetSpace(ctx context.Context, space ports.Space) error {
	return a.orchestrator.SetSpace(ctx, space)
}

// Update advances one tick and returns the descriptor to pass to Render.
func (a *App) Update(ctx context.Context, now time.Time) domain.FrameDescriptor {
	return a.orchestrator.Update(ctx, now)
}

// Render draws frame. It reports whether anything was presented.
func (a *App) Render(ctx context.Context, frame domain.FrameDescriptor) bool {
	return a.orchestrator.Render(ctx, frame)
}

// OnDeviceLost releases device resources. Hosts normally let the device notify the app directly.
func (a *App) OnDeviceLost() {
	a.orchestrator.OnDeviceLost()
}

// OnDeviceRestored recreates device resources.
func (a *App) OnDeviceRestored() {
	a.orchestrator.OnDeviceRestored()
}

// Activate records a tap or click that moves the content on the next Update.
func (a *App) Activate(source string) {
	a.orchestrator.Activate(source)
}

// CreateSpeechConstraints installs the grammar for the current state.
func (a *App) CreateSpeechConstraints(ctx context.Context) error {
	return a.orchestrator.CreateSpeechConstraintsForCurrentState(ctx)
}

// ReleaseSpeechConstraints uninstalls the grammar until CreateSpeechConstraints is called.
func (a *App) ReleaseSpeechConstraints(ctx context.Context) error {
	return a.orchestrator.ReleaseSpeechConstraintsForCurrentState(ctx)
}

// SaveAppState persists the session state. Call it when the app is suspended.
func (a *App) SaveAppState(ctx context.Context) error {
	return a.orchestrator.SaveAppState(ctx)
}

// LoadAppState restores the session state, falling back to defaults.
// Call it when the app is resumed.
func (a *App) LoadAppState(ctx context.Context) error {
	return a.orchestrator.LoadAppState(ctx)
}

// State returns a copy of the session state.
func (a *App) State() *domain.SessionState {
	return a.orchestrator.State()
}

// Snapshot returns a read-only view for introspection.
func (a *App) Snapshot() domain.Snapshot {
	return a.orchestrator.Snapshot()
}

// Content returns the content renderer driven by the app.
func (a *App) Content() ports.ContentRenderer {
	return a.content
}

// Close releases every subscription and device resource.
func (a *App) Close(ctx context.Context) error {
	return a.orchestrator.Close(ctx)
}
