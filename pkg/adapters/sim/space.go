package sim

import (
	"sync"
	"time"

	"github.com/aretw0/hololoop/pkg/domain"
	"github.com/aretw0/hololoop/pkg/ports"
	"github.com/google/uuid"
)

// Space simulates a holographic space with hot-pluggable cameras.
type Space struct {
	id      string
	locator *Locator

	mu      sync.Mutex
	cameras []domain.CameraID
	added   map[ports.Token]func(domain.CameraID)
	removed map[ports.Token]func(domain.CameraID)
}

var _ ports.Space = (*Space)(nil)

// NewSpace creates a space with no cameras. locator may be nil.
func NewSpace(locator *Locator) *Space {
	return &Space{
		id:      uuid.NewString(),
		locator: locator,
		added:   make(map[ports.Token]func(domain.CameraID)),
		removed: make(map[ports.Token]func(domain.CameraID)),
	}
}

func (s *Space) ID() string {
	return s.id
}

// OnCameraAdded registers handler and immediately replays every attached camera to it.
func (s *Space) OnCameraAdded(handler func(domain.CameraID)) ports.Token {
	token := newToken()
	s.mu.Lock()
	s.added[token] = handler
	attached := append([]domain.CameraID(nil), s.cameras...)
	s.mu.Unlock()

	for _, id := range attached {
		handler(id)
	}
	return token
}

func (s *Space) OnCameraRemoved(handler func(domain.CameraID)) ports.Token {
	token := newToken()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed[token] = handler
	return token
}

func (s *Space) RemoveCameraAdded(token ports.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.added, token)
}

func (s *Space) RemoveCameraRemoved(token ports.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.removed, token)
}

func (s *Space) Locator() ports.Locator {
	if s.locator == nil {
		return nil
	}
	return s.locator
}

// AddCamera attaches a camera and notifies subscribers. Attaching twice is a no-op.
func (s *Space) AddCamera(id domain.CameraID) {
	s.mu.Lock()
	for _, c := range s.cameras {
		if c == id {
			s.mu.Unlock()
			return
		}
	}
	s.cameras = append(s.cameras, id)
	handlers := collect(s.added)
	s.mu.Unlock()

	for _, h := range handlers {
		h(id)
	}
}

// RemoveCamera detaches a camera and notifies subscribers. Detaching an unknown camera is a no-op.
func (s *Space) RemoveCamera(id domain.CameraID) {
	s.mu.Lock()
	idx := -1
	for i, c := range s.cameras {
		if c == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.cameras = append(s.cameras[:idx], s.cameras[idx+1:]...)
	handlers := collect(s.removed)
	s.mu.Unlock()

	for _, h := range handlers {
		h(id)
	}
}

// Cameras returns the attached cameras in attach order.
func (s *Space) Cameras() []domain.CameraID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CameraID(nil), s.cameras...)
}

// Subscriptions counts live camera handlers plus the locator's handlers.
func (s *Space) Subscriptions() int {
	s.mu.Lock()
	n := len(s.added) + len(s.removed)
	s.mu.Unlock()
	if s.locator != nil {
		n += s.locator.Subscriptions()
	}
	return n
}

// Locator simulates the positional tracking source of a space.
type Locator struct {
	mu           sync.Mutex
	locatability domain.Locatability
	head         domain.Pose
	handlers     map[ports.Token]func(domain.Locatability)
	frames       int
}

var _ ports.Locator = (*Locator)(nil)

// NewLocator creates a locator with the head at the origin looking forward.
func NewLocator(initial domain.Locatability) *Locator {
	return &Locator{
		locatability: initial,
		head:         domain.IdentityPose(),
		handlers:     make(map[ports.Token]func(domain.Locatability)),
	}
}

func (l *Locator) Locatability() domain.Locatability {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.locatability
}

func (l *Locator) OnLocatabilityChanged(handler func(domain.Locatability)) ports.Token {
	token := newToken()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers[token] = handler
	return token
}

func (l *Locator) RemoveLocatabilityChanged(token ports.Token) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.handlers, token)
}

// ReferenceFrame creates a new stationary frame at the origin.
func (l *Locator) ReferenceFrame() (domain.ReferenceFrame, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frames++
	return domain.ReferenceFrame{ID: uuid.NewString()}, nil
}

// PoseAt returns the simulated head pose. Orientation-only tracking pins the position
// to the frame origin.
func (l *Locator) PoseAt(frame domain.ReferenceFrame, at time.Time, camera domain.CameraID) (domain.Pose, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.locatability.HasPose() || frame.ID == "" {
		return domain.Pose{}, domain.ErrTrackingUnavailable
	}
	pose := l.head
	if l.locatability == domain.LocatabilityOrientationOnly {
		pose.Position = frame.Origin
	}
	return pose, nil
}

// SetLocatability changes tracking quality and notifies subscribers when it differs.
func (l *Locator) SetLocatability(next domain.Locatability) {
	l.mu.Lock()
	if l.locatability == next {
		l.mu.Unlock()
		return
	}
	l.locatability = next
	handlers := collect(l.handlers)
	l.mu.Unlock()

	for _, h := range handlers {
		h(next)
	}
}

// SetHeadPose moves the simulated user.
func (l *Locator) SetHeadPose(p domain.Pose) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.head = p
}

// FramesCreated counts ReferenceFrame calls.
func (l *Locator) FramesCreated() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// Subscriptions counts live locatability handlers.
func (l *Locator) Subscriptions() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.handlers)
}

func newToken() ports.Token {
	return ports.Token(uuid.NewString())
}

func collect[F any](m map[ports.Token]F) []F {
	out := make([]F, 0, len(m))
	for _, f := range m {
		out = append(out, f)
	}
	return out
}
