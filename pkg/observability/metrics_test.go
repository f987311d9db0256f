package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/hololoop"
	"github.com/aretw0/hololoop/internal/logging"
	"github.com/aretw0/hololoop/pkg/adapters/sim"
	"github.com/aretw0/hololoop/pkg/domain"
	"github.com/aretw0/hololoop/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordsLifecycle(t *testing.T) {
	ctx := context.Background()
	metrics := observability.NewMetrics()
	host := sim.NewHost(domain.LocatabilityPositionalTrackingActive)

	app, err := hololoop.New(host.Device, host.Recognizer, hololoop.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, err)
	require.NoError(t, app.SetSpace(ctx, host.Space))

	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	tick := func() {
		now = now.Add(time.Second / 60)
		app.Render(ctx, app.Update(ctx, now))
	}

	tick()
	host.Space.AddCamera("left")
	host.Space.AddCamera("right")
	tick()
	host.Recognizer.Say("reposition", domain.ConfidenceHigh)
	host.Recognizer.Say("reposition", domain.ConfidenceLow)
	host.Locator.SetLocatability(domain.LocatabilityDegraded)
	tick()
	host.Space.RemoveCamera("right")
	host.Device.Lose()
	host.Device.Restore()
	tick()

	reg := metrics.Registry()
	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["hololoop_frames_total"])
	assert.True(t, names["hololoop_device_lost_total"])

	expected := `
# HELP hololoop_frames_total Total number of rendered frames, presented or not.
# TYPE hololoop_frames_total counter
hololoop_frames_total 4
# HELP hololoop_frames_presented_total Frames in which at least one camera was drawn.
# TYPE hololoop_frames_presented_total counter
hololoop_frames_presented_total 3
# HELP hololoop_camera_draws_total Per-camera draws across all frames.
# TYPE hololoop_camera_draws_total counter
hololoop_camera_draws_total 5
# HELP hololoop_cameras_ready Cameras currently holding rendering resources.
# TYPE hololoop_cameras_ready gauge
hololoop_cameras_ready 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, bytes.NewBufferString(expected),
		"hololoop_frames_total", "hololoop_frames_presented_total", "hololoop_camera_draws_total", "hololoop_cameras_ready"))

	expected = `
# HELP hololoop_camera_events_total Camera attach and detach events applied.
# TYPE hololoop_camera_events_total counter
hololoop_camera_events_total{event="camera_added"} 2
hololoop_camera_events_total{event="camera_removed"} 1
# HELP hololoop_speech_results_total Speech recognition results by matched command.
# TYPE hololoop_speech_results_total counter
hololoop_speech_results_total{command="none",recognized="false"} 1
hololoop_speech_results_total{command="reposition",recognized="true"} 1
# HELP hololoop_tracking_locatability 1 for the current positional tracking level, 0 otherwise.
# TYPE hololoop_tracking_locatability gauge
hololoop_tracking_locatability{level="degraded"} 1
hololoop_tracking_locatability{level="orientation_only"} 0
hololoop_tracking_locatability{level="positional_tracking_active"} 0
hololoop_tracking_locatability{level="unavailable"} 0
# HELP hololoop_device_lost_total Graphics device loss notifications.
# TYPE hololoop_device_lost_total counter
hololoop_device_lost_total 1
# HELP hololoop_device_restored_total Graphics device restore notifications.
# TYPE hololoop_device_restored_total counter
hololoop_device_restored_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, bytes.NewBufferString(expected),
		"hololoop_camera_events_total", "hololoop_speech_results_total", "hololoop_tracking_locatability",
		"hololoop_device_lost_total", "hololoop_device_restored_total"))
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	hooks := observability.LoggingHooks(logging.NewWithWriter(&buf, slog.LevelInfo))
	ctx := context.Background()

	hooks.OnCameraAdded(ctx, &domain.CameraEvent{Camera: "primary", Ready: true})
	hooks.OnDeviceLost(ctx, &domain.DeviceEvent{Cameras: 2})
	hooks.OnFrame(ctx, &domain.FrameEvent{Number: 1})

	out := buf.String()
	assert.Contains(t, out, "camera_added")
	assert.Contains(t, out, "camera=primary")
	assert.Contains(t, out, "level=WARN msg=device_lost")
	assert.NotContains(t, out, "msg=frame", "frames are debug only")
}
