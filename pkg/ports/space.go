package ports

import (
	"time"

	"github.com/aretw0/hololoop/pkg/domain"
)

// Token identifies one event subscription so it can be removed later.
type Token string

// Space is the host-provided holographic space: the set of display surfaces
// and the tracking context for a mixed-reality session.
//
// Handlers may be invoked from any goroutine, including synchronously from
// within the registration call for cameras that are already attached.
type Space interface {
	// ID identifies the space for the lifetime of the session.
	ID() string

	OnCameraAdded(handler func(domain.CameraID)) Token
	OnCameraRemoved(handler func(domain.CameraID)) Token
	RemoveCameraAdded(token Token)
	RemoveCameraRemoved(token Token)

	// Locator returns the tracking source attached to the primary camera.
	// It may return nil when the device has no spatial tracking.
	Locator() Locator
}

// Locator is the positional tracking source of a space.
type Locator interface {
	// Locatability returns the current tracking quality snapshot.
	Locatability() domain.Locatability

	OnLocatabilityChanged(handler func(domain.Locatability)) Token
	RemoveLocatabilityChanged(token Token)

	// ReferenceFrame returns a stationary coordinate basis for world-locked content.
	ReferenceFrame() (domain.ReferenceFrame, error)

	// PoseAt returns the pose of camera at the given time in frame.
	// It must not block. It returns domain.ErrTrackingUnavailable when no pose exists.
	PoseAt(frame domain.ReferenceFrame, at time.Time, camera domain.CameraID) (domain.Pose, error)
}
