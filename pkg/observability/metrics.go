package observability

import (
	"context"

	"github.com/aretw0/hololoop/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hololoop"

// Metrics holds the collectors fed by lifecycle hooks.
type Metrics struct {
	registry *prometheus.Registry

	frames         prometheus.Counter
	presented      prometheus.Counter
	camerasDrawn   prometheus.Counter
	readyCameras   prometheus.Gauge
	cameraEvents   *prometheus.CounterVec
	locatability   *prometheus.GaugeVec
	speechResults  *prometheus.CounterVec
	deviceLosses   prometheus.Counter
	deviceRestores prometheus.Counter
}

// NewMetrics creates the collectors and registers them on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Total number of rendered frames, presented or not.",
		}),
		presented: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_presented_total",
			Help:      "Frames in which at least one camera was drawn.",
		}),
		camerasDrawn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "camera_draws_total",
			Help:      "Per-camera draws across all frames.",
		}),
		readyCameras: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cameras_ready",
			Help:      "Cameras currently holding rendering resources.",
		}),
		cameraEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "camera_events_total",
			Help:      "Camera attach and detach events applied.",
		}, []string{"event"}),
		locatability: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tracking_locatability",
			Help:      "1 for the current positional tracking level, 0 otherwise.",
		}, []string{"level"}),
		speechResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "speech_results_total",
			Help:      "Speech recognition results by matched command.",
		}, []string{"command", "recognized"}),
		deviceLosses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "device_lost_total",
			Help:      "Graphics device loss notifications.",
		}),
		deviceRestores: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "device_restored_total",
			Help:      "Graphics device restore notifications.",
		}),
	}

	m.registry.MustRegister(
		m.frames, m.presented, m.camerasDrawn, m.readyCameras, m.cameraEvents,
		m.locatability, m.speechResults, m.deviceLosses, m.deviceRestores,
	)
	return m
}

// Registry exposes the private registry for promhttp.HandlerFor.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// SetLocatability marks l as the current tracking level.
func (m *Metrics) SetLocatability(l domain.Locatability) {
	for _, level := range []domain.Locatability{
		domain.LocatabilityUnavailable,
		domain.LocatabilityOrientationOnly,
		domain.LocatabilityPositionalTrackingActive,
		domain.LocatabilityDegraded,
	} {
		v := 0.0
		if level == l {
			v = 1
		}
		m.locatability.WithLabelValues(level.String()).Set(v)
	}
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCameraAdded: func(_ context.Context, e *domain.CameraEvent) {
			m.cameraEvents.WithLabelValues(string(domain.EventCameraAdded)).Inc()
		},
		OnCameraRemoved: func(_ context.Context, e *domain.CameraEvent) {
			m.cameraEvents.WithLabelValues(string(domain.EventCameraRemoved)).Inc()
		},
		OnLocatabilityChanged: func(_ context.Context, e *domain.TrackingEvent) {
			m.SetLocatability(e.Current)
		},
		OnSpeechResult: func(_ context.Context, e *domain.SpeechEvent) {
			cmd := string(e.Command)
			if cmd == "" {
				cmd = "none"
			}
			recognized := "false"
			if e.Recognized {
				recognized = "true"
			}
			m.speechResults.WithLabelValues(cmd, recognized).Inc()
		},
		OnFrame: func(_ context.Context, e *domain.FrameEvent) {
			m.frames.Inc()
			if e.Rendered > 0 {
				m.presented.Inc()
			}
			m.camerasDrawn.Add(float64(e.Rendered))
			m.readyCameras.Set(float64(e.Ready))
		},
		OnDeviceLost: func(_ context.Context, e *domain.DeviceEvent) {
			m.deviceLosses.Inc()
			m.readyCameras.Set(0)
		},
		OnDeviceRestored: func(_ context.Context, e *domain.DeviceEvent) {
			m.deviceRestores.Inc()
			m.readyCameras.Set(float64(e.Cameras))
		},
	}
}
