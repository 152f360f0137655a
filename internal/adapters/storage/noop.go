package storage

import (
	"context"

	"chime/internal/domain"
	"chime/internal/ports"
)

// NoopRecorder discards records; used when history is disabled
type NoopRecorder struct{}

var _ ports.EventRecorder = NoopRecorder{}

// Record does nothing
func (NoopRecorder) Record(context.Context, domain.EventRecord) error { return nil }
