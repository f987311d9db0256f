// Package cameras tracks the rendering resources of attached display surfaces.
package cameras

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/aretw0/hololoop/internal/logging"
	"github.com/aretw0/hololoop/pkg/domain"
	"github.com/aretw0/hololoop/pkg/ports"
)

// Manager maps every known camera to its resource set.
//
// A camera is known from its added event until its removed event. It is ready while
// it also holds resources; device loss releases resources but keeps cameras known,
// so restoration recreates sets under the same identifiers.
//
// Not safe for concurrent use; the orchestrator serializes access.
type Manager struct {
	device ports.Device
	logger *slog.Logger
	sets   map[domain.CameraID]*domain.CameraResources
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates an empty Manager allocating through device.
func NewManager(device ports.Device, opts ...Option) *Manager {
	m := &Manager{
		device: device,
		logger: logging.NewNop(),
		sets:   make(map[domain.CameraID]*domain.CameraResources),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add makes camera known and allocates its resources.
// Adding a camera that is already ready is a no-op. If allocation fails the camera
// stays known without resources and is retried by RecreateAll.
func (m *Manager) Add(camera domain.CameraID) (bool, error) {
	if res, ok := m.sets[camera]; ok && res != nil {
		return false, nil
	}

	res, err := m.device.CreateCameraResources(camera)
	if err != nil {
		m.sets[camera] = nil
		return false, fmt.Errorf("create resources for camera %s: %w", camera, err)
	}
	m.sets[camera] = res
	m.logger.Debug("Camera resources created", "camera", camera, "generation", res.Generation)
	return true, nil
}

// Remove releases camera's resources and forgets it. Removing an unknown camera is a no-op.
func (m *Manager) Remove(camera domain.CameraID) bool {
	res, ok := m.sets[camera]
	if !ok {
		return false
	}
	delete(m.sets, camera)
	if res != nil {
		m.device.ReleaseCameraResources(res)
	}
	m.logger.Debug("Camera resources released", "camera", camera)
	return true
}

// Resources returns the resource set of a ready camera.
func (m *Manager) Resources(camera domain.CameraID) (*domain.CameraResources, bool) {
	res, ok := m.sets[camera]
	if !ok || res == nil {
		return nil, false
	}
	return res, true
}

// Known returns all known cameras in a stable order.
func (m *Manager) Known() []domain.CameraID {
	ids := make([]domain.CameraID, 0, len(m.sets))
	for id := range m.sets {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// Ready returns the cameras that currently hold resources in a stable order.
func (m *Manager) Ready() []domain.CameraID {
	ids := make([]domain.CameraID, 0, len(m.sets))
	for id, res := range m.sets {
		if res != nil {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	return ids
}

// ReleaseAll releases every resource set but keeps the cameras known.
func (m *Manager) ReleaseAll() {
	for id, res := range m.sets {
		if res != nil {
			m.device.ReleaseCameraResources(res)
		}
		m.sets[id] = nil
	}
}

// RecreateAll allocates resources for every known camera that lacks them.
// Failures are collected; successfully recreated cameras stay ready.
func (m *Manager) RecreateAll() error {
	var errs []error
	for _, id := range m.Known() {
		if _, err := m.Add(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Clear releases everything and forgets all cameras.
func (m *Manager) Clear() {
	for _, id := range m.Known() {
		m.Remove(id)
	}
}

func sortIDs(ids []domain.CameraID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
