// Package tracking records positional-tracking quality and the last poses it produced.
package tracking

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/hololoop/internal/logging"
	"github.com/aretw0/hololoop/pkg/domain"
)

var guidance = map[domain.Locatability]string{
	domain.LocatabilityUnavailable:              "Tracking lost; holding content at its last known placement",
	domain.LocatabilityOrientationOnly:          "Positional tracking inactive; only head orientation is available",
	domain.LocatabilityPositionalTrackingActive: "Positional tracking active",
	domain.LocatabilityDegraded:                 "Positional tracking degraded; poses may drift",
}

// Monitor keeps the last observed locatability and a per-camera pose history used
// when tracking cannot answer.
//
// Not safe for concurrent use.
type Monitor struct {
	logger  *slog.Logger
	current domain.Locatability
	since   time.Time
	changes int
	poses   map[domain.CameraID]domain.Pose
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLogger configures a logger for the Monitor.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) {
		m.logger = logger
	}
}

// NewMonitor creates a Monitor starting at initial.
func NewMonitor(initial domain.Locatability, opts ...Option) *Monitor {
	m := &Monitor{
		logger:  logging.NewNop(),
		current: initial,
		poses:   make(map[domain.CameraID]domain.Pose),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Record stores l as the current locatability. It reports whether the level changed.
func (m *Monitor) Record(l domain.Locatability, at time.Time) bool {
	if l == m.current {
		return false
	}
	prev := m.current
	m.current = l
	m.since = at
	m.changes++

	msg, ok := guidance[l]
	if !ok {
		msg = "Tracking state changed"
	}
	level := slog.LevelInfo
	if l != domain.LocatabilityPositionalTrackingActive {
		level = slog.LevelWarn
	}
	m.logger.Log(context.Background(), level, msg, "previous", prev.String(), "current", l.String())
	return true
}

// Current returns the last recorded locatability.
func (m *Monitor) Current() domain.Locatability {
	return m.current
}

// Since returns when the current level was recorded. Zero until the first change.
func (m *Monitor) Since() time.Time {
	return m.since
}

// Changes returns how many transitions were recorded.
func (m *Monitor) Changes() int {
	return m.changes
}

// ShouldQueryPose reports whether asking the tracker for a pose is worthwhile.
func (m *Monitor) ShouldQueryPose() bool {
	return m.current.HasPose()
}

// Observe records pose as the last good pose of camera.
func (m *Monitor) Observe(camera domain.CameraID, pose domain.Pose) {
	m.poses[camera] = pose
}

// Fallback returns the last good pose of camera, or the identity pose when none was
// observed. The boolean reports whether a remembered pose was found.
func (m *Monitor) Fallback(camera domain.CameraID) (domain.Pose, bool) {
	if pose, ok := m.poses[camera]; ok {
		return pose, true
	}
	return domain.IdentityPose(), false
}

// Forget drops the pose history of camera.
func (m *Monitor) Forget(camera domain.CameraID) {
	delete(m.poses, camera)
}

// Reset drops all pose history and adopts l without counting a transition.
func (m *Monitor) Reset(l domain.Locatability) {
	m.current = l
	m.since = time.Time{}
	m.poses = make(map[domain.CameraID]domain.Pose)
}
