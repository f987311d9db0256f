package domain

import "time"

// StepTiming is the timer snapshot used by content updates.
type StepTiming struct {
	Elapsed    time.Duration `json:"elapsed"`
	Total      time.Duration `json:"total"`
	FrameCount uint64        `json:"frame_count"`
	FPS        uint32        `json:"fps"`
}

// CameraPose is the pose computed for one camera during Update.
type CameraPose struct {
	Camera CameraID `json:"camera"`
	Pose   Pose     `json:"pose"`

	// Fallback is true when tracking had no pose and the last known or default pose was used.
	Fallback bool `json:"fallback,omitempty"`
}

// FrameDescriptor is produced by Update and consumed by Render for the same tick.
type FrameDescriptor struct {
	Number          uint64       `json:"number"`
	Time            time.Time    `json:"time"`
	Timing          StepTiming   `json:"timing"`
	Locatability    Locatability `json:"locatability"`
	Cameras         []CameraPose `json:"cameras"`
	ContentPosition Vec3         `json:"content_position"`
}
