package content

import (
	"testing"
	"time"

	"github.com/aretw0/hololoop/pkg/domain"
	"github.com/aretw0/hololoop/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDevice struct {
	mock.Mock
}

var _ ports.Device = (*mockDevice)(nil)

func (m *mockDevice) CreateCameraResources(camera domain.CameraID) (*domain.CameraResources, error) {
	args := m.Called(camera)
	res, _ := args.Get(0).(*domain.CameraResources)
	return res, args.Error(1)
}

func (m *mockDevice) ReleaseCameraResources(res *domain.CameraResources) {
	m.Called(res)
}

func (m *mockDevice) Draw(res *domain.CameraResources, call domain.DrawCall) error {
	return m.Called(res, call).Error(0)
}

func (m *mockDevice) Present() error {
	return m.Called().Error(0)
}

func (m *mockDevice) RegisterDeviceNotify(notify ports.DeviceNotify) {
	m.Called(notify)
}

func TestMolecule_Update(t *testing.T) {
	m := NewMolecule(new(mockDevice), WithDegreesPerSecond(90))

	m.Update(domain.StepTiming{Elapsed: time.Second})
	assert.InDelta(t, 90, m.Angle(), 1e-9)

	m.Update(domain.StepTiming{Elapsed: 3 * time.Second})
	assert.InDelta(t, 0, m.Angle(), 1e-9, "angle wraps at 360 degrees")
}

func TestMolecule_UpdateReverseSpin(t *testing.T) {
	m := NewMolecule(new(mockDevice), WithDegreesPerSecond(-90))

	m.Update(domain.StepTiming{Elapsed: time.Second})
	assert.InDelta(t, 270, m.Angle(), 1e-9)

	m.Update(domain.StepTiming{Elapsed: 5 * time.Second})
	assert.InDelta(t, 180, m.Angle(), 1e-9)
	assert.GreaterOrEqual(t, m.Angle(), 0.0)
}

func TestMolecule_RenderRequiresResources(t *testing.T) {
	dev := new(mockDevice)
	m := NewMolecule(dev)
	res := &domain.CameraResources{Camera: "primary", Generation: 1}

	err := m.Render(res, domain.IdentityPose())
	assert.ErrorIs(t, err, domain.ErrResourceAbsent)

	require.NoError(t, m.CreateDeviceDependentResources())
	assert.True(t, m.Loaded())

	err = m.Render(nil, domain.IdentityPose())
	assert.ErrorIs(t, err, domain.ErrResourceAbsent)

	m.ReleaseDeviceDependentResources()
	assert.ErrorIs(t, m.Render(res, domain.IdentityPose()), domain.ErrResourceAbsent)
	dev.AssertNotCalled(t, "Draw", mock.Anything, mock.Anything)
}

func TestMolecule_RenderSubmitsDrawCall(t *testing.T) {
	dev := new(mockDevice)
	m := NewMolecule(dev)
	require.NoError(t, m.CreateDeviceDependentResources())

	target := domain.Vec3{X: 1, Y: 0, Z: -2}
	m.PositionHologram(target)
	assert.Equal(t, target, m.Position())

	res := &domain.CameraResources{Camera: "primary", Generation: 1}
	view := domain.IdentityPose()
	dev.On("Draw", res, domain.DrawCall{Mesh: MeshName, Position: target, View: view}).Return(nil).Once()

	require.NoError(t, m.Render(res, view))
	dev.AssertExpectations(t)
}
