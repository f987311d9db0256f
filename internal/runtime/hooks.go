package runtime

import (
	"context"

	"github.com/aretw0/hololoop/pkg/domain"
)

func (o *Orchestrator) base(t domain.EventType) domain.EventBase {
	b := domain.EventBase{Timestamp: o.clock(), Type: t}
	if o.space != nil {
		b.SpaceID = o.space.ID()
	}
	return b
}

func (o *Orchestrator) emitCamera(ctx context.Context, t domain.EventType, camera domain.CameraID, ready bool) {
	h := o.hooks.OnCameraAdded
	if t == domain.EventCameraRemoved {
		h = o.hooks.OnCameraRemoved
	}
	if h == nil {
		return
	}
	h(ctx, &domain.CameraEvent{EventBase: o.base(t), Camera: camera, Ready: ready})
}

func (o *Orchestrator) emitTracking(ctx context.Context, prev, cur domain.Locatability) {
	if o.hooks.OnLocatabilityChanged == nil {
		return
	}
	o.hooks.OnLocatabilityChanged(ctx, &domain.TrackingEvent{
		EventBase: o.base(domain.EventLocatabilityChanged),
		Previous:  prev,
		Current:   cur,
	})
}

func (o *Orchestrator) emitSpeech(ctx context.Context, result domain.SpeechResult, cmd domain.Command, ok bool) {
	if o.hooks.OnSpeechResult == nil {
		return
	}
	o.hooks.OnSpeechResult(ctx, &domain.SpeechEvent{
		EventBase:  o.base(domain.EventSpeechResult),
		Result:     result,
		Command:    cmd,
		Recognized: ok,
	})
}

func (o *Orchestrator) emitFrame(ctx context.Context, number uint64, cameras, rendered int) {
	if o.hooks.OnFrame == nil {
		return
	}
	o.hooks.OnFrame(ctx, &domain.FrameEvent{
		EventBase: o.base(domain.EventFrame),
		Number:    number,
		Cameras:   cameras,
		Rendered:  rendered,
		Ready:     len(o.cameras.Ready()),
	})
}

func (o *Orchestrator) emitDevice(ctx context.Context, t domain.EventType, cameras int) {
	h := o.hooks.OnDeviceLost
	if t == domain.EventDeviceRestored {
		h = o.hooks.OnDeviceRestored
	}
	if h == nil {
		return
	}
	h(ctx, &domain.DeviceEvent{EventBase: o.base(t), Cameras: cameras})
}
