package testutil

import (
	"sync"

	"github.com/samber/lo"

	"github.com/dtroode/fingerprint-server/internal/model"
)

// EventRecorder is a Publisher that keeps every event for assertions.
type EventRecorder struct {
	mu     sync.Mutex
	events []model.Event
}

func (r *EventRecorder) Publish(event model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events in publish order.
func (r *EventRecorder) Events() []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Event(nil), r.events...)
}

// Kinds returns the kinds of the recorded events in publish order.
func (r *EventRecorder) Kinds() []model.EventKind {
	return lo.Map(r.Events(), func(e model.Event, _ int) model.EventKind { return e.Kind })
}

// OfKind returns recorded events of the given kind.
func (r *EventRecorder) OfKind(kind model.EventKind) []model.Event {
	return lo.Filter(r.Events(), func(e model.Event, _ int) bool { return e.Kind == kind })
}
