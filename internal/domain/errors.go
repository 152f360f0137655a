package domain

import "errors"

var (
	ErrEmptyEventType  = errors.New("event type is empty")
	ErrNoSoundForEvent = errors.New("no sound configured for event")
)
