package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/hololoop/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that write one structured record per event.
// Frames are logged at debug level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCameraAdded: func(ctx context.Context, e *domain.CameraEvent) {
			logger.InfoContext(ctx, "camera_added", "camera", e.Camera, "ready", e.Ready, "space", e.SpaceID)
		},
		OnCameraRemoved: func(ctx context.Context, e *domain.CameraEvent) {
			logger.InfoContext(ctx, "camera_removed", "camera", e.Camera, "space", e.SpaceID)
		},
		OnLocatabilityChanged: func(ctx context.Context, e *domain.TrackingEvent) {
			logger.InfoContext(ctx, "locatability_changed", "previous", e.Previous.String(), "current", e.Current.String())
		},
		OnSpeechResult: func(ctx context.Context, e *domain.SpeechEvent) {
			logger.InfoContext(ctx, "speech_result",
				"text", e.Result.Text,
				"confidence", e.Result.Confidence.String(),
				"command", string(e.Command),
				"recognized", e.Recognized,
			)
		},
		OnFrame: func(ctx context.Context, e *domain.FrameEvent) {
			logger.DebugContext(ctx, "frame", "number", e.Number, "rendered", e.Rendered, "ready", e.Ready)
		},
		OnDeviceLost: func(ctx context.Context, e *domain.DeviceEvent) {
			logger.WarnContext(ctx, "device_lost", "cameras", e.Cameras)
		},
		OnDeviceRestored: func(ctx context.Context, e *domain.DeviceEvent) {
			logger.InfoContext(ctx, "device_restored", "cameras", e.Cameras)
		},
	}
}
