package domain

import "time"

// Outcome describes what handling an event resulted in
type Outcome string

const (
	OutcomeFailed  Outcome = "failed"  // Player could not be spawned
	OutcomePlayed  Outcome = "played"  // Player spawned, completion not awaited
	OutcomeSkipped Outcome = "skipped" // No sound configured for the event type
)

// EventRecord is a history entry for one handled event
type EventRecord struct {
	Error     string
	ID        string
	Outcome   Outcome
	SessionID string
	SoundPath string
	Timestamp time.Time
	Type      EventType
}
