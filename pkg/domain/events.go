package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventCameraAdded         EventType = "camera_added"
	EventCameraRemoved       EventType = "camera_removed"
	EventLocatabilityChanged EventType = "locatability_changed"
	EventSpeechResult        EventType = "speech_result"
	EventFrame               EventType = "frame"
	EventDeviceLost          EventType = "device_lost"
	EventDeviceRestored      EventType = "device_restored"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SpaceID   string    `json:"space_id,omitempty"`
}

// CameraEvent represents a camera attach or detach after it was applied.
type CameraEvent struct {
	EventBase
	Camera CameraID `json:"camera"`
	Ready  bool     `json:"ready"`
}

// TrackingEvent represents a locatability transition.
type TrackingEvent struct {
	EventBase
	Previous Locatability `json:"previous"`
	Current  Locatability `json:"current"`
}

// SpeechEvent represents a recognition result and what it was matched to.
type SpeechEvent struct {
	EventBase
	Result     SpeechResult `json:"result"`
	Command    Command      `json:"command,omitempty"`
	Recognized bool         `json:"recognized"`
}

// FrameEvent is emitted after each Render.
type FrameEvent struct {
	EventBase
	Number   uint64 `json:"number"`
	Cameras  int    `json:"cameras"`
	Rendered int    `json:"rendered"`
	Ready    int    `json:"ready"`
}

// DeviceEvent represents graphics device loss or restoration.
type DeviceEvent struct {
	EventBase
	Cameras int `json:"cameras"`
}

// LifecycleHooks defines callbacks for orchestrator observability.
// Hooks run on the goroutine that applied the event and must not block.
type LifecycleHooks struct {
	OnCameraAdded         func(context.Context, *CameraEvent)
	OnCameraRemoved       func(context.Context, *CameraEvent)
	OnLocatabilityChanged func(context.Context, *TrackingEvent)
	OnSpeechResult        func(context.Context, *SpeechEvent)
	OnFrame               func(context.Context, *FrameEvent)
	OnDeviceLost          func(context.Context, *DeviceEvent)
	OnDeviceRestored      func(context.Context, *DeviceEvent)
}

// Merge returns hooks that call h first and then other for every event.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnCameraAdded:         chain(h.OnCameraAdded, other.OnCameraAdded),
		OnCameraRemoved:       chain(h.OnCameraRemoved, other.OnCameraRemoved),
		OnLocatabilityChanged: chain(h.OnLocatabilityChanged, other.OnLocatabilityChanged),
		OnSpeechResult:        chain(h.OnSpeechResult, other.OnSpeechResult),
		OnFrame:               chain(h.OnFrame, other.OnFrame),
		OnDeviceLost:          chain(h.OnDeviceLost, other.OnDeviceLost),
		OnDeviceRestored:      chain(h.OnDeviceRestored, other.OnDeviceRestored),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
