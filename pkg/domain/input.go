package domain

import "time"

// InputEvent is a discrete "activate" gesture (air tap, clicker, controller select).
type InputEvent struct {
	Source string    `json:"source"`
	At     time.Time `json:"at"`
}
