package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/hololoop/pkg/domain"
)

// Message is one server-sent event.
type Message struct {
	Type string
	Data string
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan Message]struct{}
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamManager{
		subscribers: make(map[chan Message]struct{}),
		logger:      logger,
	}
}

func (sm *StreamManager) Subscribe() (<-chan Message, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Message, 16)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Subscribers returns the number of connected clients.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast sends msg to every subscriber without blocking.
func (sm *StreamManager) Broadcast(msg Message) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "type", msg.Type)
		}
	}
}

func (sm *StreamManager) publish(t domain.EventType, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		sm.logger.Error("SSE: Event encode failed", "type", t, "error", err)
		return
	}
	sm.Broadcast(Message{Type: string(t), Data: string(data)})
}

// Hooks returns lifecycle hooks that publish every event except frames.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCameraAdded: func(_ context.Context, e *domain.CameraEvent) {
			sm.publish(e.Type, e)
		},
		OnCameraRemoved: func(_ context.Context, e *domain.CameraEvent) {
			sm.publish(e.Type, e)
		},
		OnLocatabilityChanged: func(_ context.Context, e *domain.TrackingEvent) {
			sm.publish(e.Type, e)
		},
		OnSpeechResult: func(_ context.Context, e *domain.SpeechEvent) {
			sm.publish(e.Type, e)
		},
		OnDeviceLost: func(_ context.Context, e *domain.DeviceEvent) {
			sm.publish(e.Type, e)
		},
		OnDeviceRestored: func(_ context.Context, e *domain.DeviceEvent) {
			sm.publish(e.Type, e)
		},
	}
}
