package domain

// CameraID identifies a display surface attached to the holographic space.
type CameraID string

// CameraResources is the set of rendering resources allocated for one camera.
// Generation increases every time the device allocates a new set, so a value
// recreated after device loss can be told apart from the one it replaced.
type CameraResources struct {
	Camera     CameraID
	Generation uint64

	// Handle is the backend-specific resource bundle (render targets, viewport, buffers).
	Handle any
}

// DrawCall describes one draw of the world-locked content for a camera.
type DrawCall struct {
	Mesh            string
	Position        Vec3
	RotationDegrees float64
	View            Pose
}
