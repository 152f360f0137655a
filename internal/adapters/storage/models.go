package storage

import "time"

// EventModel is the GORM model for the events table
type EventModel struct {
	CreatedAt time.Time
	Error     string    `gorm:"not null;default:''"`
	ID        string    `gorm:"primaryKey"`
	Outcome   string    `gorm:"not null;check:outcome IN ('played','skipped','failed')"`
	SessionID string    `gorm:"not null;default:'';index:idx_session_id"`
	SoundPath string    `gorm:"not null;default:''"`
	Timestamp time.Time `gorm:"not null;index:idx_timestamp"`
	Type      string    `gorm:"not null;index:idx_type"`
}

// TableName specifies the table name for GORM
func (EventModel) TableName() string { return "events" }
