package hololoop_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/hololoop"
	"github.com/aretw0/hololoop/internal/content"
	"github.com/aretw0/hololoop/pkg/adapters/memory"
	"github.com/aretw0/hololoop/pkg/adapters/sim"
	"github.com/aretw0/hololoop/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresCollaborators(t *testing.T) {
	host := sim.NewHost(domain.LocatabilityPositionalTrackingActive)

	_, err := hololoop.New(nil, host.Recognizer)
	assert.Error(t, err)
	_, err = hololoop.New(host.Device, nil)
	assert.Error(t, err)
}

func TestApp_EndToEnd(t *testing.T) {
	ctx := context.Background()
	host := sim.NewHost(domain.LocatabilityPositionalTrackingActive)
	store := memory.NewStore()

	var frames, added int
	app, err := hololoop.New(host.Device, host.Recognizer,
		hololoop.WithStore(store),
		hololoop.WithAudio(host.Audio),
		hololoop.WithName("test"),
		hololoop.WithContentDistance(1),
		hololoop.WithLifecycleHooks(domain.LifecycleHooks{
			OnFrame: func(context.Context, *domain.FrameEvent) { frames++ },
		}),
		hololoop.WithLifecycleHooks(domain.LifecycleHooks{
			OnCameraAdded: func(context.Context, *domain.CameraEvent) { added++ },
		}),
	)
	require.NoError(t, err)
	require.NoError(t, app.SetSpace(ctx, host.Space))

	host.Space.AddCamera("primary")
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	frame := app.Update(ctx, now)
	assert.True(t, app.Render(ctx, frame))

	host.Recognizer.Say("bring it here", domain.ConfidenceHigh)
	frame = app.Update(ctx, now.Add(time.Second/60))
	assert.True(t, app.Render(ctx, frame))
	assert.Equal(t, domain.Vec3{Z: -1}, frame.ContentPosition)
	assert.Equal(t, domain.Vec3{Z: -1}, app.Content().Position())

	require.NoError(t, app.SaveAppState(ctx))
	require.NoError(t, app.Close(ctx))

	assert.Equal(t, 2, frames, "hooks from both options run")
	assert.Equal(t, 1, added)

	other := sim.NewHost(domain.LocatabilityPositionalTrackingActive)
	restored, err := hololoop.New(other.Device, other.Recognizer, hololoop.WithStore(store))
	require.NoError(t, err)
	require.NoError(t, restored.LoadAppState(ctx))
	assert.Equal(t, app.State(), restored.State())
	assert.True(t, restored.State().Placement.Placed)
}

func TestApp_CustomContent(t *testing.T) {
	ctx := context.Background()
	host := sim.NewHost(domain.LocatabilityPositionalTrackingActive)
	mol := content.NewMolecule(host.Device, content.WithDegreesPerSecond(90))

	app, err := hololoop.New(host.Device, host.Recognizer,
		hololoop.WithContent(mol),
		hololoop.WithFixedTimeStep(time.Second/10),
	)
	require.NoError(t, err)
	require.NoError(t, app.SetSpace(ctx, host.Space))

	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	app.Update(ctx, now)
	frame := app.Update(ctx, now.Add(time.Second/10))

	assert.Equal(t, uint64(1), frame.Timing.FrameCount)
	assert.InDelta(t, 9.0, mol.Angle(), 1e-9)
}

func TestApp_SpeechConstraints(t *testing.T) {
	ctx := context.Background()
	host := sim.NewHost(domain.LocatabilityPositionalTrackingActive)
	app, err := hololoop.New(host.Device, host.Recognizer,
		hololoop.WithSpeechCommands(map[string]domain.Command{"over here": domain.CommandReposition}),
		hololoop.WithMinConfidence(domain.ConfidenceHigh),
	)
	require.NoError(t, err)
	require.NoError(t, app.SetSpace(ctx, host.Space))
	assert.Equal(t, []string{"over here"}, app.Snapshot().Grammar)

	require.NoError(t, app.ReleaseSpeechConstraints(ctx))
	assert.Empty(t, app.Snapshot().Grammar)
	require.NoError(t, app.CreateSpeechConstraints(ctx))
	assert.Equal(t, []string{"over here"}, host.Recognizer.Grammar())

	host.Space.AddCamera("primary")
	host.Recognizer.Say("over here", domain.ConfidenceMedium)
	app.Update(ctx, time.Now())
	assert.Zero(t, app.State().Repositions, "below the configured confidence")
}

func TestApp_DeviceNotifications(t *testing.T) {
	ctx := context.Background()
	host := sim.NewHost(domain.LocatabilityPositionalTrackingActive)
	app, err := hololoop.New(host.Device, host.Recognizer)
	require.NoError(t, err)
	require.NoError(t, app.SetSpace(ctx, host.Space))
	host.Space.AddCamera("primary")
	app.Render(ctx, app.Update(ctx, time.Now()))

	app.OnDeviceLost()
	assert.True(t, app.Snapshot().DeviceLost)
	app.OnDeviceRestored()
	assert.Equal(t, []domain.CameraID{"primary"}, app.Snapshot().ReadyCameras)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, hololoop.Version)
}
