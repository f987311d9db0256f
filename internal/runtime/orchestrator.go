// Package runtime drives the holographic frame loop.
//
// The Orchestrator funnels every asynchronous notification (camera churn,
// tracking quality, speech results) through an ordered inbox that is drained
// at the start of Update and Render, so shared state is only mutated by the
// goroutine that runs the frame loop. Device loss and restoration are the
// exception: they are applied synchronously because the host must not issue
// another frame until they are handled.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/hololoop/internal/cameras"
	"github.com/aretw0/hololoop/internal/codec"
	"github.com/aretw0/hololoop/internal/input"
	"github.com/aretw0/hololoop/internal/logging"
	"github.com/aretw0/hololoop/internal/speech"
	"github.com/aretw0/hololoop/internal/timer"
	"github.com/aretw0/hololoop/internal/tracking"
	"github.com/aretw0/hololoop/pkg/adapters/memory"
	"github.com/aretw0/hololoop/pkg/domain"
	"github.com/aretw0/hololoop/pkg/ports"
)

// registrations holds the event subscriptions taken on one space.
// They are always released together.
type registrations struct {
	space        ports.Space
	locator      ports.Locator
	added        ports.Token
	removed      ports.Token
	locatability ports.Token
}

func (r *registrations) count() int {
	n := 0
	for _, t := range []ports.Token{r.added, r.removed, r.locatability} {
		if t != "" {
			n++
		}
	}
	return n
}

func (r *registrations) release() {
	if r.space != nil {
		r.space.RemoveCameraAdded(r.added)
		r.space.RemoveCameraRemoved(r.removed)
	}
	if r.locator != nil && r.locatability != "" {
		r.locator.RemoveLocatabilityChanged(r.locatability)
	}
	*r = registrations{}
}

// Orchestrator is the head of the application loop. It owns the space handle,
// the step timer, the content, the input mailbox and the speech grammar.
//
// Lifecycle hooks run while the orchestrator is locked and must not call back into it.
type Orchestrator struct {
	mu sync.Mutex

	device     ports.Device
	content    ports.ContentRenderer
	recognizer ports.Recognizer
	audio      ports.AudioEngine
	store      ports.StateStore

	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	clock    func() time.Time
	stateKey string
	distance float64

	timerOpts  []timer.Option
	speechOpts []speech.Option

	timer    *timer.StepTimer
	input    *input.Handler
	speech   *speech.Controller
	cameras  *cameras.Manager
	tracking *tracking.Monitor
	inbox    inbox

	space    ports.Space
	locator  ports.Locator
	regs     registrations
	epoch    uint64
	frame    domain.ReferenceFrame
	hasFrame bool

	state         *domain.SessionState
	frames        uint64
	deviceLost    bool
	contentReady  bool
	speechEnabled bool
	closed        bool
}

var _ ports.DeviceNotify = (*Orchestrator)(nil)

// NewOrchestrator wires the collaborators and registers for device notifications
// and speech results. No space is attached yet.
func NewOrchestrator(device ports.Device, content ports.ContentRenderer, recognizer ports.Recognizer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		device:     device,
		content:    content,
		recognizer: recognizer,
		logger:     logging.NewNop(),
		clock:      time.Now,
		stateKey:   DefaultStateKey,
		distance:   DefaultContentDistance,
		input:      input.NewHandler(),
		state:      domain.NewSessionState(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.store == nil {
		o.store = memory.NewStore()
	}

	o.timer = timer.New(o.timerOpts...)
	o.speech = speech.NewController(recognizer, append([]speech.Option{speech.WithLogger(o.logger)}, o.speechOpts...)...)
	o.cameras = cameras.NewManager(device, cameras.WithLogger(o.logger))
	o.tracking = tracking.NewMonitor(domain.LocatabilityUnavailable, tracking.WithLogger(o.logger))

	o.speech.Subscribe(o.OnResultGenerated, o.OnSpeechQualityDegraded)
	device.RegisterDeviceNotify(o)
	return o
}

// SetSpace releases every subscription taken on the previous space and attaches
// to space. Cameras of the previous space are forgotten and their resources released.
// A nil space detaches and returns domain.ErrNoSpace.
func (o *Orchestrator) SetSpace(ctx context.Context, space ports.Space) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.regs.release()
	o.epoch++
	for _, id := range o.cameras.Known() {
		o.cameras.Remove(id)
		o.emitCamera(ctx, domain.EventCameraRemoved, id, false)
	}
	o.tracking.Reset(domain.LocatabilityUnavailable)
	o.space, o.locator = nil, nil
	o.frame, o.hasFrame = domain.ReferenceFrame{}, false

	if space == nil {
		return domain.ErrNoSpace
	}

	epoch := o.epoch
	o.space = space
	o.locator = space.Locator()
	o.regs.space = space
	o.regs.added = space.OnCameraAdded(func(id domain.CameraID) {
		o.inbox.post(event{kind: eventCameraAdded, epoch: epoch, at: o.clock(), camera: id})
	})
	o.regs.removed = space.OnCameraRemoved(func(id domain.CameraID) {
		o.inbox.post(event{kind: eventCameraRemoved, epoch: epoch, at: o.clock(), camera: id})
	})

	if o.locator != nil {
		o.regs.locator = o.locator
		o.regs.locatability = o.locator.OnLocatabilityChanged(func(l domain.Locatability) {
			o.inbox.post(event{kind: eventLocatability, epoch: epoch, at: o.clock(), locatability: l})
		})
		o.tracking.Reset(o.locator.Locatability())
		o.requestFrameLocked()
	}

	if !o.contentReady && !o.deviceLost {
		if err := o.content.CreateDeviceDependentResources(); err != nil {
			o.logger.Warn("Content resources unavailable", "err", err)
		} else {
			o.contentReady = true
		}
	}

	o.speechEnabled = true
	if err := o.speech.Build(ctx, o.state); err != nil {
		o.logger.Warn("Speech grammar not installed", "err", err)
	}

	o.logger.Info("Holographic space attached", "space", space.ID(), "tracking", o.tracking.Current().String())
	return nil
}

func (o *Orchestrator) requestFrameLocked() {
	frame, err := o.locator.ReferenceFrame()
	if err != nil {
		o.logger.Warn("Reference frame unavailable", "err", err)
		o.hasFrame = false
		return
	}
	o.frame, o.hasFrame = frame, true
}

// Update advances one tick: it applies pending notifications, consumes a pending
// activation, computes a pose per ready camera and advances the content.
// It never blocks on tracking; cameras without a pose use the last known one.
func (o *Orchestrator) Update(ctx context.Context, now time.Time) domain.FrameDescriptor {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.drainLocked(ctx)

	if ev := o.input.CheckForInput(); ev != nil {
		o.state.RepositionPending = true
		o.logger.Debug("Activation received", "source", ev.Source)
	}

	if o.locator != nil {
		o.recordLocatabilityLocked(ctx, o.locator.Locatability(), now)
	}
	loc := o.tracking.Current()
	if loc.HasPose() && o.locator != nil && !o.hasFrame {
		o.requestFrameLocked()
	}

	o.frames++
	frame := domain.FrameDescriptor{
		Number:       o.frames,
		Time:         now,
		Locatability: loc,
	}

	var gaze *domain.Pose
	for _, id := range o.cameras.Ready() {
		pose, fallback := o.poseLocked(id, now, loc)
		frame.Cameras = append(frame.Cameras, domain.CameraPose{Camera: id, Pose: pose, Fallback: fallback})
		if !fallback && gaze == nil {
			gaze = &pose
		}
	}

	if o.state.RepositionPending && gaze != nil {
		o.repositionLocked(gaze.Ahead(o.distance))
	}

	o.timer.Tick(now, o.content.Update)
	frame.Timing = o.timer.Timing()
	frame.ContentPosition = o.content.Position()

	if o.speechEnabled {
		if _, err := o.speech.Sync(ctx, o.state); err != nil {
			o.logger.Warn("Speech grammar rebuild failed", "err", err)
		}
	}
	return frame
}

func (o *Orchestrator) poseLocked(id domain.CameraID, now time.Time, loc domain.Locatability) (domain.Pose, bool) {
	if loc.HasPose() && o.locator != nil && o.hasFrame {
		pose, err := o.locator.PoseAt(o.frame, now, id)
		if err == nil {
			o.tracking.Observe(id, pose)
			return pose, false
		}
		if !errors.Is(err, domain.ErrTrackingUnavailable) {
			o.logger.Debug("Pose query failed", "camera", id, "err", err)
		}
	}
	pose, _ := o.tracking.Fallback(id)
	return pose, true
}

func (o *Orchestrator) repositionLocked(target domain.Vec3) {
	o.content.PositionHologram(target)
	o.state.Placement = domain.Placement{Position: target, Placed: true}
	o.state.RepositionPending = false
	o.state.Repositions++
	o.logger.Info("Content repositioned", "x", target.X, "y", target.Y, "z", target.Z)

	if o.audio != nil {
		if err := o.audio.Play(RepositionCue); err != nil {
			o.logger.Warn("Audio cue failed", "cue", RepositionCue, "err", err)
		}
	}
}

// Render draws the content for every camera of frame that still has resources
// and presents. Cameras removed since Update are skipped. It reports whether at
// least one camera was drawn and presented.
func (o *Orchestrator) Render(ctx context.Context, frame domain.FrameDescriptor) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.drainLocked(ctx)

	rendered := 0
	if !o.deviceLost {
		for _, cp := range frame.Cameras {
			res, ok := o.cameras.Resources(cp.Camera)
			if !ok {
				o.logger.Debug("Skipping camera without resources", "camera", cp.Camera)
				continue
			}
			err := o.content.Render(res, cp.Pose)
			if errors.Is(err, domain.ErrDeviceLost) {
				o.deviceLostLocked(ctx)
				rendered = 0
				break
			}
			if err != nil {
				o.logger.Debug("Skipping camera", "camera", cp.Camera, "err", err)
				continue
			}
			rendered++
		}
	}

	ok := rendered > 0
	if ok {
		if err := o.device.Present(); err != nil {
			o.logger.Warn("Present failed", "frame", frame.Number, "err", err)
			if errors.Is(err, domain.ErrDeviceLost) {
				o.deviceLostLocked(ctx)
			}
			ok = false
		}
	}
	o.emitFrame(ctx, frame.Number, len(frame.Cameras), rendered)
	return ok
}

func (o *Orchestrator) drainLocked(ctx context.Context) {
	for _, ev := range o.inbox.drain() {
		if ev.spaceBound() && ev.epoch != o.epoch {
			continue
		}
		switch ev.kind {
		case eventCameraAdded:
			_, err := o.cameras.Add(ev.camera)
			if err != nil {
				o.logger.Warn("Camera added without resources", "camera", ev.camera, "err", err)
			} else {
				o.logger.Debug("Camera added", "camera", ev.camera)
			}
			o.emitCamera(ctx, domain.EventCameraAdded, ev.camera, err == nil)
		case eventCameraRemoved:
			if o.cameras.Remove(ev.camera) {
				o.tracking.Forget(ev.camera)
				o.logger.Debug("Camera removed", "camera", ev.camera)
				o.emitCamera(ctx, domain.EventCameraRemoved, ev.camera, false)
			}
		case eventLocatability:
			o.recordLocatabilityLocked(ctx, ev.locatability, ev.at)
		case eventSpeechResult:
			o.applySpeechLocked(ctx, ev.result)
		case eventSpeechQuality:
			o.speech.NoteQuality(ev.problem)
		}
	}
}

func (o *Orchestrator) recordLocatabilityLocked(ctx context.Context, l domain.Locatability, at time.Time) {
	prev := o.tracking.Current()
	if !o.tracking.Record(l, at) {
		return
	}
	if l.HasPose() && o.locator != nil && !o.hasFrame {
		o.requestFrameLocked()
	}
	o.emitTracking(ctx, prev, l)
}

func (o *Orchestrator) applySpeechLocked(ctx context.Context, result domain.SpeechResult) {
	cmd, ok := o.speech.Match(result)
	o.emitSpeech(ctx, result, cmd, ok)
	if !ok {
		o.logger.Debug("Speech result ignored", "text", result.Text, "confidence", result.Confidence.String())
		return
	}

	o.logger.Info("Speech command recognized", "command", string(cmd), "text", result.Text)
	switch {
	case cmd.Moves():
		o.state.RepositionPending = true
	case cmd == domain.CommandReset:
		o.state.RepositionPending = false
		o.state.Placement = domain.Placement{Position: domain.DefaultContentPosition}
		o.content.PositionHologram(domain.DefaultContentPosition)
	}
}

// OnDeviceLost releases every device-owned resource. Cameras stay known so
// OnDeviceRestored can recreate them; session, registration and speech state
// are untouched.
func (o *Orchestrator) OnDeviceLost() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deviceLostLocked(context.Background())
}

// deviceLostLocked also runs when Draw or Present report ErrDeviceLost before
// the device notification arrives.
func (o *Orchestrator) deviceLostLocked(ctx context.Context) {
	if o.deviceLost {
		return
	}
	o.deviceLost = true
	o.cameras.ReleaseAll()
	o.content.ReleaseDeviceDependentResources()
	o.contentReady = false

	known := len(o.cameras.Known())
	o.logger.Warn("Graphics device lost", "cameras", known)
	o.emitDevice(ctx, domain.EventDeviceLost, known)
}

// OnDeviceRestored recreates resources for the content and every known camera.
func (o *Orchestrator) OnDeviceRestored() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.deviceLost = false
	if err := o.content.CreateDeviceDependentResources(); err != nil {
		o.logger.Warn("Content resources not recreated", "err", err)
	} else {
		o.contentReady = true
	}
	if err := o.cameras.RecreateAll(); err != nil {
		o.logger.Warn("Camera resources not recreated", "err", err)
	}

	ready := len(o.cameras.Ready())
	o.logger.Info("Graphics device restored", "cameras", ready)
	o.emitDevice(context.Background(), domain.EventDeviceRestored, ready)
}

// CreateSpeechConstraintsForCurrentState installs the grammar for the current
// session state, releasing the previous one first. It re-enables automatic
// rebuilds after ReleaseSpeechConstraintsForCurrentState.
func (o *Orchestrator) CreateSpeechConstraintsForCurrentState(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.speechEnabled = true
	return o.speech.Build(ctx, o.state)
}

// ReleaseSpeechConstraintsForCurrentState uninstalls the grammar. Update does not
// rebuild it until CreateSpeechConstraintsForCurrentState is called.
func (o *Orchestrator) ReleaseSpeechConstraintsForCurrentState(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.speechEnabled = false
	return o.speech.Release(ctx)
}

// OnResultGenerated queues a recognition result for the next Update or Render.
func (o *Orchestrator) OnResultGenerated(result domain.SpeechResult) {
	o.inbox.post(event{kind: eventSpeechResult, at: o.clock(), result: result})
}

// OnSpeechQualityDegraded queues an audio quality notice. It never changes session state.
func (o *Orchestrator) OnSpeechQualityDegraded(problem domain.QualityProblem) {
	o.inbox.post(event{kind: eventSpeechQuality, at: o.clock(), problem: problem})
}

// Activate records a discrete activation gesture. Only the most recent one
// before the next Update is honored.
func (o *Orchestrator) Activate(source string) {
	o.input.Press(source, o.clock())
}

// SaveAppState writes the session state to the store and suspends audio.
// It must not be called from within the frame loop.
func (o *Orchestrator) SaveAppState(ctx context.Context) error {
	o.mu.Lock()
	state := o.state.Clone()
	o.mu.Unlock()

	if o.audio != nil {
		o.audio.Suspend()
	}

	blob, err := codec.Encode(state)
	if err != nil {
		return err
	}
	if err := o.store.Write(ctx, o.stateKey, blob); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	o.logger.Debug("Session state saved", "key", o.stateKey, "bytes", len(blob))
	return nil
}

// LoadAppState restores the session state and resumes audio. Absent or
// malformed state is replaced by defaults. A store failure is returned after
// defaults were applied, so the orchestrator is usable either way.
func (o *Orchestrator) LoadAppState(ctx context.Context) error {
	state, loadErr := o.readState(ctx)

	o.mu.Lock()
	o.state = state
	o.content.PositionHologram(state.Placement.Position)
	o.timer.ResetElapsed()
	if o.speechEnabled {
		if _, err := o.speech.Sync(ctx, o.state); err != nil {
			o.logger.Warn("Speech grammar rebuild failed", "err", err)
		}
	}
	o.mu.Unlock()

	if o.audio != nil {
		o.audio.Resume()
	}
	return loadErr
}

func (o *Orchestrator) readState(ctx context.Context) (*domain.SessionState, error) {
	blob, err := o.store.Read(ctx, o.stateKey)
	switch {
	case errors.Is(err, domain.ErrStateNotFound):
		o.logger.Debug("No saved session state; using defaults", "key", o.stateKey)
		return domain.NewSessionState(), nil
	case errors.Is(err, domain.ErrMalformedState):
		o.logger.Warn("Saved session state malformed; using defaults", "key", o.stateKey, "err", err)
		return domain.NewSessionState(), nil
	case err != nil:
		o.logger.Warn("Session state unreadable; using defaults", "key", o.stateKey, "err", err)
		return domain.NewSessionState(), fmt.Errorf("failed to load state: %w", err)
	}

	state, err := codec.Decode(blob)
	if err != nil {
		o.logger.Warn("Saved session state malformed; using defaults", "key", o.stateKey, "err", err)
		return domain.NewSessionState(), nil
	}
	return state, nil
}

// State returns a copy of the session state.
func (o *Orchestrator) State() *domain.SessionState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.Clone()
}

// Snapshot returns a read-only view for introspection.
func (o *Orchestrator) Snapshot() domain.Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap := domain.Snapshot{
		State:         *o.state.Clone(),
		Locatability:  o.tracking.Current().String(),
		KnownCameras:  o.cameras.Known(),
		ReadyCameras:  o.cameras.Ready(),
		Grammar:       o.speech.Active(),
		Frames:        o.frames,
		Registrations: o.regs.count(),
		DeviceLost:    o.deviceLost,
		Timing:        o.timer.Timing(),
	}
	if o.space != nil {
		snap.SpaceID = o.space.ID()
	}
	if snap.Grammar == nil {
		snap.Grammar = []string{}
	}
	return snap
}

// Close releases subscriptions, the grammar and all device resources.
// The orchestrator must not be used afterwards.
func (o *Orchestrator) Close(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true
	o.regs.release()
	o.epoch++
	o.cameras.Clear()
	if o.contentReady {
		o.content.ReleaseDeviceDependentResources()
		o.contentReady = false
	}
	o.speechEnabled = false
	o.space, o.locator = nil, nil
	return o.speech.Close(ctx)
}
