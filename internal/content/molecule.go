// Package content holds the sample world-locked hologram.
package content

import (
	"fmt"
	"math"
	"sync"

	"github.com/aretw0/hololoop/pkg/domain"
	"github.com/aretw0/hololoop/pkg/ports"
)

// MeshName identifies the molecule mesh in draw calls.
const MeshName = "molecule"

// DefaultDegreesPerSecond is the spin rate of the molecule.
const DefaultDegreesPerSecond = 45.0

// Molecule is a spinning molecule roughly 20 centimeters wide, locked to a world position.
type Molecule struct {
	device ports.Device

	mu               sync.Mutex
	loaded           bool
	position         domain.Vec3
	degreesPerSecond float64
	angle            float64
}

// Option configures a Molecule.
type Option func(*Molecule)

// WithDegreesPerSecond overrides the spin rate.
func WithDegreesPerSecond(d float64) Option {
	return func(m *Molecule) {
		m.degreesPerSecond = d
	}
}

// NewMolecule creates the content at the default position. Resources are not yet loaded.
func NewMolecule(device ports.Device, opts ...Option) *Molecule {
	m := &Molecule{
		device:           device,
		position:         domain.DefaultContentPosition,
		degreesPerSecond: DefaultDegreesPerSecond,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateDeviceDependentResources loads the mesh. Calling it twice is harmless.
func (m *Molecule) CreateDeviceDependentResources() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = true
	return nil
}

// ReleaseDeviceDependentResources drops the mesh. Render fails until resources are recreated.
func (m *Molecule) ReleaseDeviceDependentResources() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = false
}

// Loaded reports whether the mesh is resident.
func (m *Molecule) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// Update spins the molecule by the elapsed step.
func (m *Molecule) Update(timing domain.StepTiming) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.angle = math.Mod(m.angle+m.degreesPerSecond*timing.Elapsed.Seconds(), 360)
	if m.angle < 0 {
		m.angle += 360
	}
}

// Angle returns the current spin in degrees, in [0, 360).
func (m *Molecule) Angle() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.angle
}

// PositionHologram moves the molecule.
func (m *Molecule) PositionHologram(position domain.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = position
}

// Position returns the molecule origin.
func (m *Molecule) Position() domain.Vec3 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

// Render submits one draw of the molecule for the camera.
func (m *Molecule) Render(res *domain.CameraResources, view domain.Pose) error {
	m.mu.Lock()
	loaded := m.loaded
	call := domain.DrawCall{
		Mesh:            MeshName,
		Position:        m.position,
		RotationDegrees: m.angle,
		View:            view,
	}
	m.mu.Unlock()

	if !loaded {
		return fmt.Errorf("%s mesh: %w", MeshName, domain.ErrResourceAbsent)
	}
	if res == nil {
		return fmt.Errorf("camera resources: %w", domain.ErrResourceAbsent)
	}
	return m.device.Draw(res, call)
}
