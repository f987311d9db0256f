// Package input captures discrete activation gestures for the frame loop.
package input

import (
	"sync/atomic"
	"time"

	"github.com/aretw0/hololoop/pkg/domain"
)

// Handler is a one-slot mailbox holding the most recent activation.
// Press may be called from any goroutine; a newer press replaces an unconsumed one.
type Handler struct {
	pending atomic.Pointer[domain.InputEvent]
	presses atomic.Uint64
}

// NewHandler creates an empty Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Press records an activation from source.
func (h *Handler) Press(source string, at time.Time) {
	h.presses.Add(1)
	h.pending.Store(&domain.InputEvent{Source: source, At: at})
}

// CheckForInput returns the pending activation and clears the slot, or nil.
// Each press is observed by at most one caller.
func (h *Handler) CheckForInput() *domain.InputEvent {
	return h.pending.Swap(nil)
}

// Presses returns the total number of activations recorded.
func (h *Handler) Presses() uint64 {
	return h.presses.Load()
}
