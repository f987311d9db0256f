package runtime

import (
	"sync"
	"time"

	"github.com/aretw0/hololoop/pkg/domain"
)

type eventKind int

const (
	eventCameraAdded eventKind = iota
	eventCameraRemoved
	eventLocatability
	eventSpeechResult
	eventSpeechQuality
)

// event is one asynchronous notification waiting to be applied by the frame loop.
// Space-bound events carry the epoch of the SetSpace call that subscribed them.
type event struct {
	kind  eventKind
	epoch uint64
	at    time.Time

	camera       domain.CameraID
	locatability domain.Locatability
	result       domain.SpeechResult
	problem      domain.QualityProblem
}

func (e event) spaceBound() bool {
	return e.kind == eventCameraAdded || e.kind == eventCameraRemoved || e.kind == eventLocatability
}

// inbox is the ordered queue between notification goroutines and the frame loop.
type inbox struct {
	mu     sync.Mutex
	events []event
}

func (b *inbox) post(e event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

// drain removes and returns every queued event in arrival order.
func (b *inbox) drain() []event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.events
	b.events = nil
	return out
}

func (b *inbox) pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}
