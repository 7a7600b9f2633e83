package handlers

import (
	"sync"
	"time"

	"focusframe-server/internal/domain/item"
	"focusframe-server/internal/domain/notice"
	"focusframe-server/internal/domain/session"
	"focusframe-server/internal/infrastructure/metrics"
	"focusframe-server/internal/interfaces/httpserver/responses/itemres"
)

const (
	EventSnapshot = "snapshot"
	EventNotice   = "notice"
	EventState    = "state"
	EventError    = "error"
	EventPong     = "pong"

	maxPendingEvents = 64
)

// StreamEvent wraps every message pushed on a live stream.
type StreamEvent struct {
	Type      string `json:"type"`
	Data      any    `json:"data"`
	Timestamp int64  `json:"timestamp"`
}

// SnapshotPayload is the data of a snapshot event.
type SnapshotPayload struct {
	OwnerID string                `json:"owner_id"`
	Items   []itemres.ItemResponse `json:"items"`
}

// StatePayload is the data of a state event.
type StatePayload struct {
	State   session.State `json:"state"`
	OwnerID string        `json:"owner_id"`
}

// ErrorPayload is the data of an error event.
type ErrorPayload struct {
	Message string `json:"message"`
}

// outbox queues events for one connection's writer. A new snapshot replaces
// any snapshot still pending, so a slow client only ever receives the latest
// list. When the queue is full the oldest non-snapshot event is dropped.
type outbox struct {
	transport string
	signal    chan struct{}

	mu     sync.Mutex
	events []StreamEvent
}

func newOutbox(transport string) *outbox {
	return &outbox{
		transport: transport,
		signal:    make(chan struct{}, 1),
	}
}

func (o *outbox) Snapshot(ownerID string, items []item.Item) {
	list := itemres.NewItemListResponse(items)
	metrics.SnapshotsDelivered.WithLabelValues(o.transport).Inc()
	o.push(EventSnapshot, SnapshotPayload{OwnerID: ownerID, Items: list.Data})
}

func (o *outbox) Notice(n notice.Notice) {
	o.push(EventNotice, n)
}

func (o *outbox) State(state session.State, ownerID string) {
	o.push(EventState, StatePayload{State: state, OwnerID: ownerID})
}

func (o *outbox) Error(message string) {
	o.push(EventError, ErrorPayload{Message: message})
}

func (o *outbox) push(eventType string, data any) {
	ev := StreamEvent{Type: eventType, Data: data, Timestamp: time.Now().Unix()}

	o.mu.Lock()
	if eventType == EventSnapshot {
		o.events = removeType(o.events, EventSnapshot)
	}
	if len(o.events) >= maxPendingEvents {
		o.events = dropOldest(o.events)
	}
	o.events = append(o.events, ev)
	o.mu.Unlock()

	select {
	case o.signal <- struct{}{}:
	default:
	}
}

// drain returns and clears the pending events in order.
func (o *outbox) drain() []StreamEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := o.events
	o.events = nil
	return out
}

func removeType(events []StreamEvent, eventType string) []StreamEvent {
	kept := events[:0]
	for _, ev := range events {
		if ev.Type != eventType {
			kept = append(kept, ev)
		}
	}
	return kept
}

func dropOldest(events []StreamEvent) []StreamEvent {
	for i, ev := range events {
		if ev.Type != EventSnapshot {
			return append(events[:i], events[i+1:]...)
		}
	}
	return events[1:]
}

var _ session.Sink = (*outbox)(nil)
