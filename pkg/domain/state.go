package domain

// StateVersion is the layout version written into persisted state blobs.
const StateVersion = 1

// DefaultContentPosition is where content sits before it has ever been placed:
// two meters in front of the origin of the reference frame.
var DefaultContentPosition = Vec3{Z: -2}

// Placement describes where the world-locked content sits.
type Placement struct {
	// Position is the content origin in the stationary reference frame.
	Position Vec3 `json:"position" mapstructure:"position" yaml:"position"`

	// Placed reports whether the user has explicitly positioned the content.
	Placed bool `json:"placed" mapstructure:"placed" yaml:"placed"`
}

// SessionState is the serializable application state owned by the orchestrator.
// Fields missing from a persisted blob take the values of NewSessionState.
type SessionState struct {
	// RepositionPending is set by a reposition request and cleared by the Update that honors it.
	RepositionPending bool `json:"reposition_pending" mapstructure:"reposition_pending" yaml:"reposition_pending"`

	// Placement holds the persisted content placement.
	Placement Placement `json:"placement" mapstructure:"placement" yaml:"placement"`

	// Repositions counts how many times the content has been moved.
	Repositions int `json:"repositions" mapstructure:"repositions" yaml:"repositions"`
}

// NewSessionState returns the default state used for fresh sessions and as the
// fallback when a persisted blob is absent or unreadable.
func NewSessionState() *SessionState {
	return &SessionState{
		Placement: Placement{Position: DefaultContentPosition},
	}
}

// Clone returns an independent copy of s.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return NewSessionState()
	}
	c := *s
	return &c
}
