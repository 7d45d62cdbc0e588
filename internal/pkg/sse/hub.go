package sse

import (
	"sync"
)

// Event names pushed to attendance screen streams
const (
	EventAttendanceChanged = "attendance.changed"
	EventSelectionChanged  = "selection.changed"
)

// Event represents an SSE event for the open streams of one browser session
type Event struct {
	SessionID string
	Event     string
	Data      interface{}
}

// Hub fans events out to every open stream of a session
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a stream for a session and returns the event channel and cleanup function
func (h *Hub) Subscribe(sessionID string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)

	if h.subscribers[sessionID] == nil {
		h.subscribers[sessionID] = make(map[chan Event]struct{})
	}
	h.subscribers[sessionID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[sessionID], ch)
			close(ch)
			if len(h.subscribers[sessionID]) == 0 {
				delete(h.subscribers, sessionID)
			}
		})
	}

	return ch, cleanup
}

// Publish sends an event to all streams of a session
func (h *Hub) Publish(sessionID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.SessionID = sessionID
	if subs, ok := h.subscribers[sessionID]; ok {
		for ch := range subs {
			select {
			case ch <- event:
			default:
				// Skip if channel is full (non-blocking to prevent deadlock)
			}
		}
	}
}

// SubscriberCount returns the number of open streams for a session
func (h *Hub) SubscriberCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if subs, ok := h.subscribers[sessionID]; ok {
		return len(subs)
	}
	return 0
}

// TotalSubscribers returns the total number of open streams across all sessions
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
