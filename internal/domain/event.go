package domain

// EventType identifies which lifecycle moment the host reported
type EventType = string

// Lifecycle events chime reacts to by default
const (
	EventSessionIdle       EventType = "session.idle"
	EventPermissionUpdated EventType = "permission.updated"
)

// Event is a lifecycle event emitted by the host.
// It is owned by the host: chime reads it and never retains it past a single handle call.
type Event struct {
	Properties map[string]any
	SessionID  string
	Type       EventType
}

// NewEvent creates an event with only a type and an optional session ID
func NewEvent(eventType EventType, sessionID string) Event {
	return Event{
		SessionID: sessionID,
		Type:      eventType,
	}
}
