package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"albaranes/internal/logger"
)

// kvEntry is one stored key.
type kvEntry struct {
	Key       string `gorm:"column:entry_key;primaryKey"`
	Value     string `gorm:"column:value;not null"`
	UpdatedAt time.Time
}

func (kvEntry) TableName() string { return "kv_entries" }

// SQLiteStore keeps keys as rows of a single SQLite table.
type SQLiteStore struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path and
// migrates the kv_entries table. ":memory:" is accepted.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	const op = "NewSQLiteStore"

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, wrapError(op, "", fmt.Errorf("failed to create database directory: %w", err))
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, wrapError(op, "", fmt.Errorf("failed to open sqlite database %s: %w", path, err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, wrapError(op, "", err)
	}
	// A single connection keeps ":memory:" databases alive and shared.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		sqlDB.Close()
		return nil, wrapError(op, "", fmt.Errorf("failed to migrate kv_entries: %w", err))
	}

	s := &SQLiteStore{db: db, log: logger.WithComponent("store-sqlite")}
	s.log.Debug().Str("path", path).Msg("SQLite store ready")
	return s, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry kvEntry
	err := s.db.WithContext(ctx).Where("entry_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapError("Get", key, err)
	}
	return entry.Value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	entry := kvEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return wrapError("Set", key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
