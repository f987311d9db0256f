package runtime

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/hololoop/internal/content"
	"github.com/aretw0/hololoop/pkg/adapters/memory"
	"github.com/aretw0/hololoop/pkg/adapters/sim"
	"github.com/aretw0/hololoop/pkg/domain"
	"github.com/aretw0/hololoop/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	t     *testing.T
	ctx   context.Context
	host  *sim.Host
	mol   *content.Molecule
	store *memory.Store
	orch  *Orchestrator
	now   time.Time
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	host := sim.NewHost(domain.LocatabilityPositionalTrackingActive)
	mol := content.NewMolecule(host.Device)
	store := memory.NewStore()
	all := append([]Option{WithAudio(host.Audio), WithStore(store)}, opts...)

	return &fixture{
		t:     t,
		ctx:   context.Background(),
		host:  host,
		mol:   mol,
		store: store,
		orch:  NewOrchestrator(host.Device, mol, host.Recognizer, all...),
		now:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) attach() *fixture {
	f.t.Helper()
	require.NoError(f.t, f.orch.SetSpace(f.ctx, f.host.Space))
	return f
}

func (f *fixture) tick() (domain.FrameDescriptor, bool) {
	f.now = f.now.Add(16 * time.Millisecond)
	frame := f.orch.Update(f.ctx, f.now)
	return frame, f.orch.Render(f.ctx, frame)
}

func TestOrchestrator_CameraScenario(t *testing.T) {
	f := newFixture(t).attach()

	f.host.Space.AddCamera("A")
	frame, ok := f.tick()
	assert.True(t, ok)
	require.Len(t, frame.Cameras, 1)
	assert.Equal(t, domain.CameraID("A"), frame.Cameras[0].Camera)
	assert.Equal(t, 1, f.host.Device.Draws("A"))
	assert.Equal(t, 1, f.host.Device.Presents())

	f.host.Space.RemoveCamera("A")
	frame, ok = f.tick()
	assert.False(t, ok)
	assert.Empty(t, frame.Cameras)
	assert.Equal(t, 1, f.host.Device.Draws("A"))
	assert.Equal(t, 1, f.host.Device.Presents(), "an empty frame is never presented")
}

func TestOrchestrator_RenderWithoutCameras(t *testing.T) {
	f := newFixture(t)

	_, ok := f.tick()
	assert.False(t, ok, "no space")

	f.attach()
	_, ok = f.tick()
	assert.False(t, ok, "no cameras")
	assert.Zero(t, f.host.Device.Presents())
}

func TestOrchestrator_CameraRemovedBetweenUpdateAndRender(t *testing.T) {
	f := newFixture(t).attach()
	f.host.Space.AddCamera("A")
	f.host.Space.AddCamera("B")
	f.tick()

	f.now = f.now.Add(16 * time.Millisecond)
	frame := f.orch.Update(f.ctx, f.now)
	require.Len(t, frame.Cameras, 2)

	f.host.Space.RemoveCamera("A")
	assert.NotPanics(t, func() {
		assert.True(t, f.orch.Render(f.ctx, frame))
	})
	assert.Equal(t, 1, f.host.Device.Draws("A"), "A is skipped")
	assert.Equal(t, 2, f.host.Device.Draws("B"))

	f.host.Space.RemoveCamera("B")
	frame = f.orch.Update(f.ctx, f.now.Add(time.Millisecond))
	f.host.Device.Lose()
	assert.False(t, f.orch.Render(f.ctx, frame))
}

func TestOrchestrator_NoLeakedResources(t *testing.T) {
	f := newFixture(t).attach()
	ids := []domain.CameraID{"a", "b", "c"}

	for i := 0; i < 30; i++ {
		id := ids[i%len(ids)]
		if i%4 == 3 {
			f.host.Space.RemoveCamera(id)
		} else {
			f.host.Space.AddCamera(id)
		}
		f.tick()

		attached := f.host.Space.Cameras()
		sort.Slice(attached, func(i, j int) bool { return attached[i] < attached[j] })
		snap := f.orch.Snapshot()
		assert.ElementsMatch(t, attached, snap.ReadyCameras)
		assert.ElementsMatch(t, attached, f.host.Device.Live())
	}
}

func TestOrchestrator_SpeechRepositionScenario(t *testing.T) {
	f := newFixture(t).attach()
	f.host.Space.AddCamera("A")
	f.host.Locator.SetHeadPose(domain.Pose{Position: domain.Vec3{X: 1}, Forward: domain.Vec3{X: 1}, Up: domain.Up})
	f.tick()

	f.host.Recognizer.Say("reposition", domain.ConfidenceHigh)
	frame, ok := f.tick()
	require.True(t, ok)

	state := f.orch.State()
	assert.False(t, state.RepositionPending, "set and consumed by the same Update")
	assert.Equal(t, 1, state.Repositions)
	assert.True(t, state.Placement.Placed)
	assert.Equal(t, domain.Vec3{X: 3}, state.Placement.Position)
	assert.Equal(t, domain.Vec3{X: 3}, frame.ContentPosition)
	assert.Equal(t, domain.Vec3{X: 3}, f.host.Device.LastDraw().Position)
	assert.Equal(t, []string{RepositionCue}, f.host.Audio.Played())

	f.tick()
	state = f.orch.State()
	assert.False(t, state.RepositionPending)
	assert.Equal(t, 1, state.Repositions, "no new result, no new reposition")
}

func TestOrchestrator_ActivationConsumedOnce(t *testing.T) {
	f := newFixture(t).attach()
	f.host.Space.AddCamera("A")

	f.orch.Activate("tap")
	f.orch.Activate("tap")
	f.tick()
	assert.Equal(t, 1, f.orch.State().Repositions)

	f.tick()
	assert.Equal(t, 1, f.orch.State().Repositions)
}

func TestOrchestrator_RepositionWaitsForTracking(t *testing.T) {
	f := newFixture(t).attach()
	f.host.Space.AddCamera("A")
	f.tick()

	f.host.Locator.SetLocatability(domain.LocatabilityUnavailable)
	f.orch.Activate("tap")
	frame, _ := f.tick()

	require.Len(t, frame.Cameras, 1)
	assert.True(t, frame.Cameras[0].Fallback)
	assert.Equal(t, domain.LocatabilityUnavailable, frame.Locatability)
	assert.True(t, f.orch.State().RepositionPending, "kept until a pose is available")
	assert.Equal(t, domain.DefaultContentPosition, frame.ContentPosition)

	f.host.Locator.SetLocatability(domain.LocatabilityPositionalTrackingActive)
	frame, _ = f.tick()
	assert.False(t, frame.Cameras[0].Fallback)
	assert.False(t, f.orch.State().RepositionPending)
	assert.Equal(t, 1, f.orch.State().Repositions)
}

func TestOrchestrator_FallbackUsesLastKnownPose(t *testing.T) {
	f := newFixture(t).attach()
	f.host.Space.AddCamera("A")
	seen := domain.Pose{Position: domain.Vec3{Y: 1.7}, Forward: domain.Forward, Up: domain.Up}
	f.host.Locator.SetHeadPose(seen)
	f.tick()

	f.host.Locator.SetLocatability(domain.LocatabilityUnavailable)
	frame, ok := f.tick()
	assert.True(t, ok, "rendering continues without tracking")
	assert.Equal(t, seen, frame.Cameras[0].Pose)
	assert.True(t, frame.Cameras[0].Fallback)
}

func TestOrchestrator_IgnoredSpeech(t *testing.T) {
	var events []*domain.SpeechEvent
	f := newFixture(t, WithLifecycleHooks(domain.LifecycleHooks{
		OnSpeechResult: func(_ context.Context, e *domain.SpeechEvent) { events = append(events, e) },
	})).attach()
	f.host.Space.AddCamera("A")

	f.host.Recognizer.Say("reposition", domain.ConfidenceLow)
	f.host.Recognizer.Say("make coffee", domain.ConfidenceHigh)
	f.orch.OnResultGenerated(domain.SpeechResult{Text: "reset molecule", Confidence: domain.ConfidenceHigh})
	f.tick()

	assert.Equal(t, *domain.NewSessionState(), *f.orch.State())
	require.Len(t, events, 3)
	for _, e := range events {
		assert.False(t, e.Recognized, e.Result.Text)
	}
}

func TestOrchestrator_ResetCommand(t *testing.T) {
	f := newFixture(t).attach()
	f.host.Space.AddCamera("A")
	f.host.Locator.SetHeadPose(domain.Pose{Forward: domain.Vec3{X: -1}, Up: domain.Up})
	f.orch.Activate("tap")
	f.tick()
	require.True(t, f.orch.State().Placement.Placed)
	assert.Contains(t, f.orch.Snapshot().Grammar, "reset molecule")

	f.host.Recognizer.Say("reset molecule", domain.ConfidenceHigh)
	frame, _ := f.tick()

	state := f.orch.State()
	assert.False(t, state.Placement.Placed)
	assert.Equal(t, domain.DefaultContentPosition, state.Placement.Position)
	assert.Equal(t, domain.DefaultContentPosition, frame.ContentPosition)
	assert.Contains(t, f.orch.Snapshot().Grammar, "place molecule")
}

func TestOrchestrator_GrammarFollowsState(t *testing.T) {
	f := newFixture(t).attach()
	f.host.Space.AddCamera("A")
	f.tick()

	fresh := f.orch.Snapshot().Grammar
	assert.Contains(t, fresh, "place molecule")
	assert.NotContains(t, fresh, "reset molecule")
	assert.ElementsMatch(t, fresh, f.host.Recognizer.Grammar())

	f.host.Locator.SetLocatability(domain.LocatabilityUnavailable)
	f.host.Recognizer.Say("move molecule", domain.ConfidenceMedium)
	f.tick()
	pending := f.orch.Snapshot().Grammar
	assert.Empty(t, pending, "no commands while a reposition is pending and nothing is placed")
	assert.False(t, f.host.Recognizer.Installed())

	f.host.Locator.SetLocatability(domain.LocatabilityPositionalTrackingActive)
	f.tick()
	placed := f.orch.Snapshot().Grammar
	assert.Contains(t, placed, "reset molecule")
	assert.NotContains(t, placed, "place molecule")
	assert.ElementsMatch(t, placed, f.host.Recognizer.Grammar())

	assert.Zero(t, f.host.Recognizer.Overlaps(), "never two grammars at once")
}

func TestOrchestrator_SpeechConstraintsLifecycle(t *testing.T) {
	f := newFixture(t).attach()
	require.True(t, f.host.Recognizer.Installed())

	require.NoError(t, f.orch.ReleaseSpeechConstraintsForCurrentState(f.ctx))
	assert.False(t, f.host.Recognizer.Installed())
	f.tick()
	assert.False(t, f.host.Recognizer.Installed(), "released grammar stays released")

	installs := f.host.Recognizer.Installs()
	require.NoError(t, f.orch.CreateSpeechConstraintsForCurrentState(f.ctx))
	require.NoError(t, f.orch.CreateSpeechConstraintsForCurrentState(f.ctx))
	assert.True(t, f.host.Recognizer.Installed())
	assert.Equal(t, installs+2, f.host.Recognizer.Installs())
	assert.Zero(t, f.host.Recognizer.Overlaps())
}

func TestOrchestrator_QualityDegradedIsInformational(t *testing.T) {
	f := newFixture(t).attach()
	installs := f.host.Recognizer.Installs()

	f.host.Recognizer.Degrade(domain.QualityTooNoisy)
	f.orch.OnSpeechQualityDegraded(domain.QualityTooQuiet)
	f.tick()

	assert.Equal(t, *domain.NewSessionState(), *f.orch.State())
	assert.Equal(t, installs, f.host.Recognizer.Installs())
	assert.Equal(t, 1, f.orch.speech.Degradations()[domain.QualityTooNoisy])
	assert.Equal(t, 1, f.orch.speech.Degradations()[domain.QualityTooQuiet])
}

func TestOrchestrator_SetSpaceReplacesRegistrations(t *testing.T) {
	f := newFixture(t).attach()
	first := f.host.Space
	first.AddCamera("A")
	f.tick()
	assert.Equal(t, 3, first.Subscriptions())
	assert.Equal(t, 1, f.host.Locator.FramesCreated())

	first.AddCamera("late")
	second := sim.NewSpace(sim.NewLocator(domain.LocatabilityOrientationOnly))
	second.AddCamera("B")
	require.NoError(t, f.orch.SetSpace(f.ctx, second))
	require.NoError(t, f.orch.SetSpace(f.ctx, second))

	assert.Zero(t, first.Subscriptions(), "old space fully unregistered")
	assert.Equal(t, 3, second.Subscriptions(), "no duplicate registrations")

	first.AddCamera("stale")
	f.tick()

	snap := f.orch.Snapshot()
	assert.Equal(t, second.ID(), snap.SpaceID)
	assert.Equal(t, []domain.CameraID{"B"}, snap.KnownCameras)
	assert.Equal(t, 3, snap.Registrations)
	assert.Equal(t, domain.LocatabilityOrientationOnly.String(), snap.Locatability)
	assert.ElementsMatch(t, []domain.CameraID{"B"}, f.host.Device.Live())
}

func TestOrchestrator_SetNilSpace(t *testing.T) {
	f := newFixture(t).attach()
	f.host.Space.AddCamera("A")
	f.tick()

	err := f.orch.SetSpace(f.ctx, nil)
	assert.ErrorIs(t, err, domain.ErrNoSpace)
	assert.Zero(t, f.host.Space.Subscriptions())
	assert.Empty(t, f.orch.Snapshot().KnownCameras)
	assert.Empty(t, f.host.Device.Live())

	_, ok := f.tick()
	assert.False(t, ok)
}

func TestOrchestrator_DeviceLostAndRestored(t *testing.T) {
	var lost, restored []*domain.DeviceEvent
	f := newFixture(t, WithLifecycleHooks(domain.LifecycleHooks{
		OnDeviceLost:     func(_ context.Context, e *domain.DeviceEvent) { lost = append(lost, e) },
		OnDeviceRestored: func(_ context.Context, e *domain.DeviceEvent) { restored = append(restored, e) },
	})).attach()
	f.host.Space.AddCamera("A")
	f.host.Space.AddCamera("B")
	f.orch.Activate("tap")
	f.tick()

	before := map[domain.CameraID]uint64{}
	for _, id := range []domain.CameraID{"A", "B"} {
		res, ok := f.orch.cameras.Resources(id)
		require.True(t, ok)
		before[id] = res.Generation
	}
	state := f.orch.State()
	subs := f.host.Space.Subscriptions()
	installs := f.host.Recognizer.Installs()

	f.host.Device.Lose()
	snap := f.orch.Snapshot()
	assert.True(t, snap.DeviceLost)
	assert.Equal(t, []domain.CameraID{"A", "B"}, snap.KnownCameras)
	assert.Empty(t, snap.ReadyCameras)
	assert.False(t, f.mol.Loaded())
	_, ok := f.tick()
	assert.False(t, ok)

	f.host.Device.Restore()
	snap = f.orch.Snapshot()
	assert.False(t, snap.DeviceLost)
	assert.Equal(t, []domain.CameraID{"A", "B"}, snap.ReadyCameras)
	assert.True(t, f.mol.Loaded())
	for id, gen := range before {
		res, ok := f.orch.cameras.Resources(id)
		require.True(t, ok)
		assert.Greater(t, res.Generation, gen, "fresh resources for %s", id)
	}

	assert.Equal(t, state, f.orch.State())
	assert.Equal(t, subs, f.host.Space.Subscriptions())
	assert.Equal(t, installs, f.host.Recognizer.Installs())

	_, ok = f.tick()
	assert.True(t, ok)

	require.Len(t, lost, 1)
	assert.Equal(t, 2, lost[0].Cameras)
	require.Len(t, restored, 1)
	assert.Equal(t, 2, restored[0].Cameras)
}

func TestOrchestrator_DeviceRestoredWithoutCameras(t *testing.T) {
	f := newFixture(t)
	assert.NotPanics(t, func() {
		f.orch.OnDeviceRestored()
		f.orch.OnDeviceLost()
		f.orch.OnDeviceLost()
		f.orch.OnDeviceRestored()
	})
	assert.Empty(t, f.orch.Snapshot().KnownCameras)
}

func TestOrchestrator_CameraAddedWhileDeviceLost(t *testing.T) {
	f := newFixture(t).attach()
	f.host.Device.Lose()

	f.host.Space.AddCamera("A")
	_, ok := f.tick()
	assert.False(t, ok)
	assert.Equal(t, []domain.CameraID{"A"}, f.orch.Snapshot().KnownCameras)

	f.host.Device.Restore()
	_, ok = f.tick()
	assert.True(t, ok)
}

func TestOrchestrator_PresentFailure(t *testing.T) {
	f := newFixture(t).attach()
	f.host.Space.AddCamera("A")
	f.host.Device.FailPresent(func() error { return errors.New("swap chain busy") })

	_, ok := f.tick()
	assert.False(t, ok)

	f.host.Device.FailPresent(nil)
	_, ok = f.tick()
	assert.True(t, ok)
}

func TestOrchestrator_PresentReportsDeviceLost(t *testing.T) {
	var lost []*domain.DeviceEvent
	f := newFixture(t, WithLifecycleHooks(domain.LifecycleHooks{
		OnDeviceLost: func(_ context.Context, e *domain.DeviceEvent) { lost = append(lost, e) },
	})).attach()
	f.host.Space.AddCamera("A")
	_, ok := f.tick()
	require.True(t, ok)

	f.host.Device.FailPresent(func() error { return domain.ErrDeviceLost })
	_, ok = f.tick()
	assert.False(t, ok)

	snap := f.orch.Snapshot()
	assert.True(t, snap.DeviceLost)
	assert.Equal(t, []domain.CameraID{"A"}, snap.KnownCameras)
	assert.Empty(t, snap.ReadyCameras, "stale resources released")
	assert.False(t, f.mol.Loaded())
	require.Len(t, lost, 1)

	f.host.Device.FailPresent(nil)
	f.host.Device.Restore()
	_, ok = f.tick()
	assert.True(t, ok)
	assert.Equal(t, []domain.CameraID{"A"}, f.orch.Snapshot().ReadyCameras)
}

func TestOrchestrator_SaveLoadRoundTrip(t *testing.T) {
	f := newFixture(t).attach()
	f.host.Space.AddCamera("A")
	f.host.Locator.SetHeadPose(domain.Pose{Position: domain.Vec3{Y: 1}, Forward: domain.Forward, Up: domain.Up})
	f.orch.Activate("tap")
	f.tick()
	f.host.Locator.SetLocatability(domain.LocatabilityUnavailable)
	f.orch.Activate("tap")
	f.tick()

	saved := f.orch.State()
	require.True(t, saved.RepositionPending)
	require.NoError(t, f.orch.SaveAppState(f.ctx))
	assert.True(t, f.host.Audio.Suspended())

	host := sim.NewHost(domain.LocatabilityPositionalTrackingActive)
	mol := content.NewMolecule(host.Device)
	restored := NewOrchestrator(host.Device, mol, host.Recognizer, WithStore(f.store), WithAudio(f.host.Audio))
	require.NoError(t, restored.LoadAppState(f.ctx))

	assert.Equal(t, saved, restored.State())
	assert.Equal(t, saved.Placement.Position, mol.Position())
	assert.False(t, f.host.Audio.Suspended())
}

func TestOrchestrator_LoadDefaults(t *testing.T) {
	tests := map[string][]byte{
		"empty storage": nil,
		"corrupt blob":  []byte("{not json"),
		"future layout": []byte(`{"version":99,"state":{"reposition_pending":true}}`),
		"wrong types":   []byte(`{"version":1,"state":{"placement":"here"}}`),
	}

	for name, blob := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			if blob != nil {
				require.NoError(t, f.store.Write(f.ctx, DefaultStateKey, blob))
			}
			f.mol.PositionHologram(domain.Vec3{X: 9})

			require.NoError(t, f.orch.LoadAppState(f.ctx))
			assert.Equal(t, domain.NewSessionState(), f.orch.State())
			assert.False(t, f.orch.State().RepositionPending)
			assert.Equal(t, domain.DefaultContentPosition, f.mol.Position())
		})
	}
}

func TestOrchestrator_LoadDefaultsThroughEncryption(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	require.NoError(t, err)

	tests := map[string][]byte{
		"corrupt ciphertext": []byte("HLENC1:garbage-that-is-long-enough-for-a-nonce"),
		"plaintext blob":     []byte(`{"version":1,"state":{"reposition_pending":true}}`),
	}

	for name, blob := range tests {
		t.Run(name, func(t *testing.T) {
			raw := memory.NewStore()
			f := newFixture(t, WithStore(middleware.Chain(raw, enc)))
			require.NoError(t, raw.Write(f.ctx, DefaultStateKey, blob))

			require.NoError(t, f.orch.LoadAppState(f.ctx))
			assert.Equal(t, domain.NewSessionState(), f.orch.State())
			assert.False(t, f.orch.State().RepositionPending)
		})
	}
}

func TestOrchestrator_SaveThenLoadOnEmptyStore(t *testing.T) {
	f := newFixture(t, WithStateKey("custom"))
	require.NoError(t, f.orch.SaveAppState(f.ctx))
	require.NoError(t, f.orch.LoadAppState(f.ctx))
	assert.Equal(t, domain.NewSessionState(), f.orch.State())

	keys, err := f.store.List(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"custom"}, keys)
}

type failingStore struct {
	memory.Store
	err error
}

func (s *failingStore) Read(context.Context, string) ([]byte, error) {
	return nil, s.err
}

func (s *failingStore) Write(context.Context, string, []byte) error {
	return s.err
}

func TestOrchestrator_StoreFailures(t *testing.T) {
	boom := errors.New("disk on fire")
	f := newFixture(t, WithStore(&failingStore{err: boom})).attach()
	f.host.Space.AddCamera("A")
	f.orch.Activate("tap")
	f.tick()

	assert.ErrorIs(t, f.orch.SaveAppState(f.ctx), boom)

	err := f.orch.LoadAppState(f.ctx)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, domain.NewSessionState(), f.orch.State(), "defaults still applied")

	_, ok := f.tick()
	assert.True(t, ok, "frame loop unaffected")
}

func TestOrchestrator_LocatabilityHooks(t *testing.T) {
	var changes []*domain.TrackingEvent
	var frames []*domain.FrameEvent
	f := newFixture(t, WithLifecycleHooks(domain.LifecycleHooks{
		OnLocatabilityChanged: func(_ context.Context, e *domain.TrackingEvent) { changes = append(changes, e) },
		OnFrame:               func(_ context.Context, e *domain.FrameEvent) { frames = append(frames, e) },
	})).attach()
	f.host.Space.AddCamera("A")
	f.tick()

	f.host.Locator.SetLocatability(domain.LocatabilityDegraded)
	f.tick()

	require.Len(t, changes, 1)
	assert.Equal(t, domain.LocatabilityPositionalTrackingActive, changes[0].Previous)
	assert.Equal(t, domain.LocatabilityDegraded, changes[0].Current)
	assert.Equal(t, f.host.Space.ID(), changes[0].SpaceID)

	require.Len(t, frames, 2)
	assert.Equal(t, uint64(2), frames[1].Number)
	assert.Equal(t, 1, frames[1].Rendered)
	assert.Equal(t, 1, frames[1].Ready)
}

func TestOrchestrator_ConcurrentNotifications(t *testing.T) {
	f := newFixture(t).attach()

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				id := domain.CameraID(fmt.Sprintf("g%d-%d", g, i%3))
				if i%2 == 0 {
					f.host.Space.AddCamera(id)
				} else {
					f.host.Space.RemoveCamera(id)
				}
				f.host.Recognizer.Say("reposition", domain.ConfidenceHigh)
				f.orch.Activate("tap")
			}
		}(g)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

loop:
	for {
		select {
		case <-done:
			break loop
		default:
			f.tick()
		}
	}
	f.tick()

	attached := f.host.Space.Cameras()
	sort.Slice(attached, func(i, j int) bool { return attached[i] < attached[j] })
	snap := f.orch.Snapshot()
	assert.ElementsMatch(t, attached, snap.KnownCameras)
	assert.ElementsMatch(t, attached, snap.ReadyCameras)
	assert.ElementsMatch(t, attached, f.host.Device.Live())
	assert.Zero(t, f.orch.inbox.pending())
}

func TestOrchestrator_Close(t *testing.T) {
	f := newFixture(t).attach()
	f.host.Space.AddCamera("A")
	f.tick()

	require.NoError(t, f.orch.Close(f.ctx))
	require.NoError(t, f.orch.Close(f.ctx))

	assert.Zero(t, f.host.Space.Subscriptions())
	assert.Zero(t, f.host.Recognizer.Subscriptions())
	assert.False(t, f.host.Recognizer.Installed())
	assert.Empty(t, f.host.Device.Live())
	assert.False(t, f.mol.Loaded())
}
