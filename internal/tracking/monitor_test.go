package tracking

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/hololoop/internal/logging"
	"github.com/aretw0/hololoop/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestMonitor_Record(t *testing.T) {
	var buf bytes.Buffer
	m := NewMonitor(domain.LocatabilityPositionalTrackingActive,
		WithLogger(logging.NewWithWriter(&buf, slog.LevelDebug)))
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, m.Record(domain.LocatabilityPositionalTrackingActive, at), "same level is not a change")
	assert.Zero(t, m.Changes())

	assert.True(t, m.Record(domain.LocatabilityUnavailable, at))
	assert.Equal(t, domain.LocatabilityUnavailable, m.Current())
	assert.Equal(t, at, m.Since())
	assert.Equal(t, 1, m.Changes())
	assert.False(t, m.ShouldQueryPose())
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "current=unavailable")

	buf.Reset()
	assert.True(t, m.Record(domain.LocatabilityPositionalTrackingActive, at.Add(time.Second)))
	assert.True(t, m.ShouldQueryPose())
	assert.Contains(t, buf.String(), "level=INFO")
}

func TestMonitor_Fallback(t *testing.T) {
	m := NewMonitor(domain.LocatabilityPositionalTrackingActive)

	pose, ok := m.Fallback("primary")
	assert.False(t, ok)
	assert.Equal(t, domain.IdentityPose(), pose)

	seen := domain.Pose{Position: domain.Vec3{X: 1}, Forward: domain.Forward, Up: domain.Up}
	m.Observe("primary", seen)
	pose, ok = m.Fallback("primary")
	assert.True(t, ok)
	assert.Equal(t, seen, pose)

	m.Forget("primary")
	_, ok = m.Fallback("primary")
	assert.False(t, ok)
}

func TestMonitor_Reset(t *testing.T) {
	m := NewMonitor(domain.LocatabilityUnavailable)
	m.Observe("primary", domain.IdentityPose())

	m.Reset(domain.LocatabilityOrientationOnly)
	assert.Equal(t, domain.LocatabilityOrientationOnly, m.Current())
	assert.Zero(t, m.Changes())
	_, ok := m.Fallback("primary")
	assert.False(t, ok)
}
