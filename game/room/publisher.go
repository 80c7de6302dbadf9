package room

import (
	"github.com/sirupsen/logrus"
)

// EventKind labels a room state change.
type EventKind string

const (
	EventJoinAccepted    EventKind = "JOIN_ACCEPTED"
	EventRoomStarted     EventKind = "ROOM_STARTED"
	EventOrderAccepted   EventKind = "ORDER_ACCEPTED"
	EventWeekAdvanced    EventKind = "WEEK_ADVANCED"
	EventInstanceFaulted EventKind = "INSTANCE_FAULTED"
	EventRoomFinished    EventKind = "ROOM_FINISHED"
)

// StateEvent is the outbound notification emitted on every room state change.
// The core guarantees exactly one Publish call per change; delivery to
// interested observers is the collaborator's problem, synchronous or not.
type StateEvent struct {
	RoomID        string
	Kind          EventKind
	Week          int
	ParticipantID string // set for join/order events
	InstanceID    string // set for instance-scoped events
}

// Publisher is the notification collaborator boundary. Implementations must
// tolerate being called from the room's coordinating goroutine, so a slow
// transport should hand off internally rather than block the room.
type Publisher interface {
	Publish(event StateEvent)
}

// LogPublisher writes every state change to the log. It is the default
// collaborator when no transport is wired in.
type LogPublisher struct{}

func (LogPublisher) Publish(event StateEvent) {
	logrus.WithFields(logrus.Fields{
		"room":        event.RoomID,
		"kind":        event.Kind,
		"week":        event.Week,
		"participant": event.ParticipantID,
		"instance":    event.InstanceID,
	}).Info("room state change")
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(StateEvent) {}
