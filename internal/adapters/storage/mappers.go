package storage

import (
	"chime/internal/domain"
)

// eventModelToDomain converts an EventModel (GORM) to domain.EventRecord
func eventModelToDomain(m EventModel) domain.EventRecord {
	return domain.EventRecord{
		Error:     m.Error,
		ID:        m.ID,
		Outcome:   domain.Outcome(m.Outcome),
		SessionID: m.SessionID,
		SoundPath: m.SoundPath,
		Timestamp: m.Timestamp,
		Type:      m.Type,
	}
}

// domainToEventModel converts a domain.EventRecord to EventModel (GORM)
func domainToEventModel(r domain.EventRecord) EventModel {
	return EventModel{
		Error:     r.Error,
		ID:        r.ID,
		Outcome:   string(r.Outcome),
		SessionID: r.SessionID,
		SoundPath: r.SoundPath,
		Timestamp: r.Timestamp.UTC(),
		Type:      r.Type,
	}
}
