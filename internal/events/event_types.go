package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginSucceeded  EventType = "login_succeeded"
	EventLoginRejected   EventType = "login_rejected"
	EventTokenRefreshed  EventType = "token_refreshed"
	EventPasswordChanged EventType = "password_changed"
	EventUserCreated     EventType = "user_created"
	EventUserDeleted     EventType = "user_deleted"
)

// AllEventTypes lists every type the auth service emits.
var AllEventTypes = []EventType{
	EventLoginSucceeded,
	EventLoginRejected,
	EventTokenRefreshed,
	EventPasswordChanged,
	EventUserCreated,
	EventUserDeleted,
}

// Event is an audit fact emitted by the auth service. It never carries
// secrets or tokens.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	SubjectID  string    `json:"subject_id,omitempty"`
	Identifier string    `json:"identifier,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewEvent stamps an event with a fresh id.
func NewEvent(eventType EventType, subjectID string, at time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Timestamp: at.UTC(),
	}
}
