package model

import (
	"time"

	"github.com/google/uuid"
)

// EventKind names a state transition published to observers.
type EventKind string

const (
	EventScanSucceeded         EventKind = "scan.succeeded"
	EventScanRetry             EventKind = "scan.retry"
	EventScanFailed            EventKind = "scan.failed"
	EventScanFatal             EventKind = "scan.fatal"
	EventVerifyMatched         EventKind = "verify.matched"
	EventVerifyRejected        EventKind = "verify.rejected"
	EventVerifyUnknownIdentity EventKind = "verify.unknown_identity"
	EventEnrollStarted         EventKind = "enroll.started"
	EventEnrollDuplicate       EventKind = "enroll.duplicate"
	EventEnrollFailed          EventKind = "enroll.failed"
	EventEnrollCompleted       EventKind = "enroll.completed"
	EventSessionReset          EventKind = "session.reset"
	EventDeviceOpened          EventKind = "device.opened"
	EventDeviceClosed          EventKind = "device.closed"
	EventSensorAttached        EventKind = "sensor.attached"
	EventSensorDetached        EventKind = "sensor.detached"
	EventArchiveFailed         EventKind = "archive.failed"
)

// Event is a human-readable progress or result notification.
type Event struct {
	ID      uuid.UUID
	Kind    EventKind
	Message string
	Context map[string]string
	Time    time.Time
}

// NewEvent builds an event stamped with a fresh ID and the current time.
func NewEvent(kind EventKind, message string, kv ...string) Event {
	ctx := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		ctx[kv[i]] = kv[i+1]
	}
	return Event{
		ID:      uuid.New(),
		Kind:    kind,
		Message: message,
		Context: ctx,
		Time:    time.Now().UTC(),
	}
}

// Publisher accepts events. Implementations must not block the caller.
type Publisher interface {
	Publish(event Event)
}
