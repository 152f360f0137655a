package ports

import (
	"context"
	"time"

	"chime/internal/domain"
)

// EventFilter specifies criteria for filtering recorded events
type EventFilter struct {
	EventType string
	From      time.Time
	Limit     int
	SessionID string
	To        time.Time
}

// EventRecorder persists handled events
type EventRecorder interface {
	// Record stores a single handled event
	Record(ctx context.Context, record domain.EventRecord) error
}

// EventHistory reads and maintains recorded events
type EventHistory interface {
	EventRecorder

	// List returns records matching the filter, newest first
	List(ctx context.Context, filter EventFilter) ([]domain.EventRecord, error)

	// Prune deletes all but the newest keep records and returns how many were deleted
	Prune(ctx context.Context, keep int) (int64, error)

	// Close releases the underlying storage
	Close() error
}
