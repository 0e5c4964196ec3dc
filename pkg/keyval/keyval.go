package keyval

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/davidcastaneda/clubsync/pkg/config"
	"github.com/davidcastaneda/clubsync/pkg/logger"
)

// Store is the durable client-side key-value state (session, theme,
// pending join code). Backed by a single-file sqlite database.
type Store struct {
	conn *gorm.DB
}

type entry struct {
	Key       string `gorm:"primaryKey;column:key"`
	Value     string `gorm:"column:value"`
	UpdatedAt time.Time
}

func (entry) TableName() string {
	return "entries"
}

// New opens (creating if needed) the state database at the configured path.
func New(ctx context.Context, cfg config.StateConfig, logg *logger.Logger) (*Store, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("state database path is required")
	}
	return open(ctx, cfg.DBPath, logg)
}

// NewInMemory opens a throwaway store, used by tests.
func NewInMemory(ctx context.Context) (*Store, error) {
	return open(ctx, "file::memory:?cache=shared", nil)
}

func open(ctx context.Context, dsn string, logg *logger.Logger) (*Store, error) {
	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}

	if err := conn.WithContext(ctx).AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrating state database: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "state database opened")
	}
	return &Store{conn: conn}, nil
}

// Get returns the value for key; the second return is false when absent.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var row entry
	err := s.conn.WithContext(ctx).First(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", key, err)
	}
	return row.Value, true, nil
}

// Set upserts the value for key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	row := entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

// Delete removes key; deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.conn.WithContext(ctx).Delete(&entry{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	return nil
}

// Close shuts down the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
