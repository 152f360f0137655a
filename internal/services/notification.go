package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"chime/internal/config"
	"chime/internal/domain"
	"chime/internal/logging"
	"chime/internal/ports"
)

// NotificationService turns host lifecycle events into notification sounds
type NotificationService struct {
	now         func() time.Time
	recorder    ports.EventRecorder
	soundPlayer ports.SoundPlayer
	sounds      config.SoundMap
}

// NewNotificationService creates a new NotificationService.
// sounds maps event types to sound files; recorder may be nil to disable history.
func NewNotificationService(
	soundPlayer ports.SoundPlayer,
	sounds config.SoundMap,
	recorder ports.EventRecorder,
) *NotificationService {
	return &NotificationService{
		now:         time.Now,
		recorder:    recorder,
		soundPlayer: soundPlayer,
		sounds:      sounds,
	}
}

// HandleEvent plays the sound configured for the event type, if any.
// Playback is fire-and-forget: a player that cannot be started is logged and
// reported as OutcomeFailed, never returned to the caller.
// Only events with a sound are recorded.
func (s *NotificationService) HandleEvent(ctx context.Context, event domain.Event) domain.Outcome {
	path, ok := s.sounds.Lookup(event.Type)
	if !ok {
		logging.Logger.Debug("No sound for event type, skipping", "event", event.Type)
		return domain.OutcomeSkipped
	}

	logging.Logger.Info("Handling event",
		"event", event.Type,
		"session_id", event.SessionID,
		"sound", path)

	if err := s.soundPlayer.Play(ctx, path); err != nil {
		logging.Logger.Warn("Failed to play notification sound", "event", event.Type, "error", err)
		s.record(ctx, event, domain.OutcomeFailed, path, err)
		return domain.OutcomeFailed
	}

	s.record(ctx, event, domain.OutcomePlayed, path, nil)
	return domain.OutcomePlayed
}

// ShouldPlaySound reports whether a sound is configured for the event type
func (s *NotificationService) ShouldPlaySound(eventType string) bool {
	_, ok := s.sounds.Lookup(eventType)
	return ok
}

// SoundFor returns the sound file configured for the event type
func (s *NotificationService) SoundFor(eventType string) (string, bool) {
	return s.sounds.Lookup(eventType)
}

// EventTypes returns the event types that have a sound, sorted
func (s *NotificationService) EventTypes() []string {
	return s.sounds.EventTypes()
}

// PlaySoundForEvent plays the sound for an event type and reports failures.
// Unlike HandleEvent it is meant for interactive use, so errors are returned.
func (s *NotificationService) PlaySoundForEvent(ctx context.Context, eventType string) error {
	if eventType == "" {
		return domain.ErrEmptyEventType
	}
	path, ok := s.sounds.Lookup(eventType)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNoSoundForEvent, eventType)
	}

	logging.Logger.Debug("Playing sound for event", "event", eventType, "sound", path)
	return s.soundPlayer.Play(ctx, path)
}

func (s *NotificationService) record(
	ctx context.Context,
	event domain.Event,
	outcome domain.Outcome,
	path string,
	playErr error,
) {
	if s.recorder == nil {
		return
	}

	record := domain.EventRecord{
		ID:        uuid.New().String(),
		Outcome:   outcome,
		SessionID: event.SessionID,
		SoundPath: path,
		Timestamp: s.now(),
		Type:      event.Type,
	}
	if playErr != nil {
		record.Error = playErr.Error()
	}

	if err := s.recorder.Record(ctx, record); err != nil {
		logging.Logger.Warn("Failed to record event", "event", event.Type, "error", err)
	}
}
