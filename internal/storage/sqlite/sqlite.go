// Package sqlitestorage implements the track-log backend on a SQLite file
// via GORM. Rows are buffered and inserted in batches to keep the capture
// loop off the disk.
package sqlitestorage

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/turretlab/arucotrack/internal/database"
	"github.com/turretlab/arucotrack/internal/model"
)

// Config holds SQLite backend settings.
type Config struct {
	Path string
	// BatchSize is how many rows accumulate before an insert. Default 64.
	BatchSize int
	Logger    zerolog.Logger
}

// Backend writes track records to a SQLite database.
type Backend struct {
	cfg     Config
	manager *database.Manager
	db      *gorm.DB

	mu      sync.Mutex
	pending []model.TrackRecord
}

// New creates a new SQLite storage backend.
func New(cfg Config) *Backend {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 64
	}
	return &Backend{cfg: cfg, manager: database.NewManager(cfg.Logger)}
}

// NewWithDB wraps an existing connection; used by tests.
func NewWithDB(cfg Config, db *gorm.DB) *Backend {
	b := New(cfg)
	b.manager.DB = db
	b.db = db
	return b
}

// Init opens the database and migrates the track_records table.
func (b *Backend) Init() error {
	if b.db == nil {
		if err := b.manager.Connect(b.cfg.Path); err != nil {
			return fmt.Errorf("opening track database: %w", err)
		}
		b.db = b.manager.DB
	}
	if err := b.db.AutoMigrate(&model.TrackRecord{}); err != nil {
		return fmt.Errorf("migrating track_records: %w", err)
	}
	return nil
}

// RecordTrack buffers one row, flushing when the batch fills.
func (b *Backend) RecordTrack(r *model.TrackRecord) error {
	b.mu.Lock()
	b.pending = append(b.pending, *r)
	flush := len(b.pending) >= b.cfg.BatchSize
	b.mu.Unlock()

	if flush {
		return b.Flush()
	}
	return nil
}

// Flush inserts all pending rows.
func (b *Backend) Flush() error {
	b.mu.Lock()
	batch := b.pending
	b.pending = nil
	b.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	if err := b.db.Create(&batch).Error; err != nil {
		return fmt.Errorf("inserting %d track records: %w", len(batch), err)
	}
	return nil
}

// Count returns the number of persisted rows.
func (b *Backend) Count() (int64, error) {
	var n int64
	err := b.db.Model(&model.TrackRecord{}).Count(&n).Error
	return n, err
}

// Close flushes pending rows and closes the connection.
func (b *Backend) Close() error {
	flushErr := b.Flush()

	if err := b.manager.Close(); err != nil {
		return err
	}
	return flushErr
}
