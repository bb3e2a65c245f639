package domain

import "time"

// EventType is the routing key used when a change is announced on the broker.
type EventType string

const (
	EventLocationUpdated   EventType = "location.updated"
	EventTaskStatusChanged EventType = "task.status_changed"
	EventReviewCreated     EventType = "review.created"
)

// Event is an outbound notification about a state change. Key identifies the
// entity the event concerns (user or task id).
type Event struct {
	Type       EventType
	Key        string
	OccurredAt time.Time
	Payload    any
}
