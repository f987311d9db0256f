package domain

// Snapshot is a read-only view of the orchestrator used for introspection.
type Snapshot struct {
	SpaceID       string       `json:"space_id,omitempty" yaml:"space_id,omitempty"`
	State         SessionState `json:"state" yaml:"state"`
	Locatability  string       `json:"locatability" yaml:"locatability"`
	KnownCameras  []CameraID   `json:"known_cameras" yaml:"known_cameras"`
	ReadyCameras  []CameraID   `json:"ready_cameras" yaml:"ready_cameras"`
	Grammar       []string     `json:"grammar" yaml:"grammar"`
	Frames        uint64       `json:"frames" yaml:"frames"`
	Registrations int          `json:"registrations" yaml:"registrations"`
	DeviceLost    bool         `json:"device_lost" yaml:"device_lost"`
	Timing        StepTiming   `json:"timing" yaml:"timing"`
}
