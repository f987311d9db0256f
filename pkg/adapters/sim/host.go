package sim

import "github.com/aretw0/hololoop/pkg/domain"

// Host bundles one simulated instance of every collaborator.
type Host struct {
	Space      *Space
	Locator    *Locator
	Device     *Device
	Recognizer *Recognizer
	Audio      *Audio
}

// NewHost creates a host whose tracking starts at the given locatability.
func NewHost(initial domain.Locatability) *Host {
	locator := NewLocator(initial)
	return &Host{
		Space:      NewSpace(locator),
		Locator:    locator,
		Device:     NewDevice(),
		Recognizer: NewRecognizer(),
		Audio:      NewAudio(),
	}
}
