package ports

import "github.com/aretw0/hololoop/pkg/domain"

// DeviceNotify receives graphics device loss notifications.
// Notifications are never delivered from within a Draw or Present call.
type DeviceNotify interface {
	OnDeviceLost()
	OnDeviceRestored()
}

// Device is the rendering backend: per-camera resources, draw submission and presentation.
type Device interface {
	// CreateCameraResources allocates the render targets for a camera.
	// It returns domain.ErrDeviceLost while the device is lost.
	CreateCameraResources(camera domain.CameraID) (*domain.CameraResources, error)

	// ReleaseCameraResources frees a set created by CreateCameraResources.
	ReleaseCameraResources(res *domain.CameraResources)

	// Draw submits one draw call against the camera's resources.
	Draw(res *domain.CameraResources, call domain.DrawCall) error

	// Present shows the frame on every camera that was drawn.
	Present() error

	// RegisterDeviceNotify sets the receiver of loss/restore notifications.
	RegisterDeviceNotify(notify DeviceNotify)
}

// ContentRenderer owns the world-locked content.
type ContentRenderer interface {
	CreateDeviceDependentResources() error
	ReleaseDeviceDependentResources()

	// Update advances animation state by one timer step.
	Update(timing domain.StepTiming)

	// PositionHologram moves the content origin.
	PositionHologram(position domain.Vec3)
	Position() domain.Vec3

	// Render draws the content for one camera.
	// It returns domain.ErrResourceAbsent when its resources are not loaded.
	Render(res *domain.CameraResources, view domain.Pose) error
}
