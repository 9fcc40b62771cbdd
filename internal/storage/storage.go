// Package storage defines the track-log backend interface and the factory
// that selects an implementation from configuration. One record is written
// per frame where a qualifying best marker was found.
package storage

import "github.com/turretlab/arucotrack/internal/model"

// Backend is the interface all track-log implementations must satisfy.
type Backend interface {
	// Lifecycle. Close flushes any buffered rows.
	Init() error
	Close() error

	// RecordTrack stores one best-marker row.
	RecordTrack(r *model.TrackRecord) error
}
