package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"chime/internal/config"
	"chime/internal/domain"
	"chime/internal/logging"
	"chime/internal/ports"
)

// SQLiteRepository implements ports.EventHistory using GORM
type SQLiteRepository struct {
	db *gorm.DB
}

// Verify interface compliance at compile time
var _ ports.EventHistory = (*SQLiteRepository)(nil)

// gormLogger wraps the chime logger for GORM
type gormLogger struct {
	level logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		logging.Logger.Error("gorm query error", "error", err, "duration", elapsed, "sql", sql, "rows", rows)
	case elapsed > 200*time.Millisecond:
		logging.Logger.Warn("slow query", "duration", elapsed, "sql", sql, "rows", rows)
	default:
		logging.Logger.Debug("gorm query", "duration", elapsed, "sql", sql, "rows", rows)
	}
}

func newGormLogger() logger.Interface {
	if os.Getenv("CHIME_DEBUG") == "1" {
		return (&gormLogger{}).LogMode(logger.Info)
	}
	return (&gormLogger{}).LogMode(logger.Silent)
}

// NewSQLiteRepository opens (and creates if needed) the history database at dbPath
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	dbPath = config.ExpandPath(dbPath)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:      newGormLogger(),
		NowFunc:     func() time.Time { return time.Now().UTC() },
		PrepareStmt: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Hooks from several opencode sessions may write at the same time
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA synchronous=NORMAL")

	if err := db.AutoMigrate(&EventModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate events schema: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &SQLiteRepository{db: db}, nil
}

// Record stores a handled event. A missing ID or timestamp is filled in.
func (r *SQLiteRepository) Record(ctx context.Context, record domain.EventRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	model := domainToEventModel(record)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrBusy {
			return fmt.Errorf("history database is busy: %w", err)
		}
		return fmt.Errorf("failed to record event: %w", err)
	}

	logging.Logger.Debug("Event recorded", "id", model.ID, "type", model.Type, "outcome", model.Outcome)
	return nil
}

// List returns records matching the filter, newest first
func (r *SQLiteRepository) List(ctx context.Context, filter ports.EventFilter) ([]domain.EventRecord, error) {
	query := r.db.WithContext(ctx).Model(&EventModel{})

	if filter.EventType != "" {
		query = query.Where("type = ?", filter.EventType)
	}
	if filter.SessionID != "" {
		query = query.Where("session_id = ?", filter.SessionID)
	}
	if !filter.From.IsZero() {
		query = query.Where("timestamp >= ?", filter.From.UTC())
	}
	if !filter.To.IsZero() {
		query = query.Where("timestamp <= ?", filter.To.UTC())
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var models []EventModel
	if err := query.Order("timestamp DESC").Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	records := make([]domain.EventRecord, 0, len(models))
	for _, m := range models {
		records = append(records, eventModelToDomain(m))
	}
	return records, nil
}

// Prune deletes all but the newest keep records
func (r *SQLiteRepository) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must not be negative: %d", keep)
	}

	newest := r.db.Model(&EventModel{}).
		Select("id").
		Order("timestamp DESC").
		Order("created_at DESC").
		Limit(keep)

	result := r.db.WithContext(ctx).
		Where("id NOT IN (?)", newest).
		Delete(&EventModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune events: %w", result.Error)
	}

	logging.Logger.Info("Pruned event history", "deleted", result.RowsAffected, "kept", keep)
	return result.RowsAffected, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
