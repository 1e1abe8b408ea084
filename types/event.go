package types

import "time"

// Event types published on the events channel.
const (
	EventUserCreated   = "user.created"
	EventExerciseAdded = "exercise.added"
)

// Event is the envelope published to the message broker whenever a user
// is created or an exercise is logged.
type Event struct {
	// ID uniquely identifies the event.
	ID string `json:"id"`

	// Type is one of the Event* constants.
	Type string `json:"type"`

	// UserID is the user the event refers to.
	UserID string `json:"user_id"`

	// Username is the user's name at the time of the event.
	Username string `json:"username"`

	// Exercise is set for exercise.added events.
	Exercise *Exercise `json:"exercise,omitempty"`

	// OccurredAt is when the event was produced.
	OccurredAt time.Time `json:"occurred_at"`
}
