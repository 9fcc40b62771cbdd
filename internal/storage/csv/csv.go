// Package csvstorage buffers track records in memory and writes a CSV file
// on Close. The file keeps the historical column layout
// (timestamp,id,marker_x,deltaX) so downstream analysis keeps working.
package csvstorage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/turretlab/arucotrack/internal/model"
)

const fileName = "aruco_log.csv"

// Config holds CSV backend settings.
type Config struct {
	OutputDir string
}

// Backend stores track records in memory and exports to CSV.
type Backend struct {
	cfg     Config
	mu      sync.Mutex
	records []model.TrackRecord
	closed  bool
}

// New creates a new CSV backend.
func New(cfg Config) *Backend {
	return &Backend{cfg: cfg}
}

// Init ensures the output directory exists.
func (b *Backend) Init() error {
	if b.cfg.OutputDir == "" {
		b.cfg.OutputDir = "."
	}
	return os.MkdirAll(b.cfg.OutputDir, 0755)
}

// RecordTrack buffers one row.
func (b *Backend) RecordTrack(r *model.TrackRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("csv backend is closed")
	}
	b.records = append(b.records, *r)
	return nil
}

// Len returns the number of buffered rows.
func (b *Backend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}

// Path returns where the CSV will be written.
func (b *Backend) Path() string {
	return filepath.Join(b.cfg.OutputDir, fileName)
}

// Close writes the CSV. Nothing is written when no rows were recorded.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	if len(b.records) == 0 {
		return nil
	}

	f, err := os.Create(b.Path())
	if err != nil {
		return fmt.Errorf("creating track log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"timestamp", "id", "marker_x", "deltaX"}); err != nil {
		return err
	}
	for _, r := range b.records {
		row := []string{
			strconv.FormatFloat(float64(r.Timestamp.UnixNano())/1e9, 'f', 3, 64),
			strconv.Itoa(r.MarkerID),
			strconv.FormatFloat(r.MarkerX, 'f', -1, 64),
			strconv.FormatFloat(r.DeltaX, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
