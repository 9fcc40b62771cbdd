// Package model holds the core data types shared by the capture loop and
// the storage backends.
package model

import "time"

// TrackRecord is one logged best-marker observation: the marker closest to
// the frame center in a frame where detection ran.
type TrackRecord struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	Timestamp time.Time `json:"timestamp"`
	MarkerID  int       `json:"id"`
	MarkerX   float64   `json:"marker_x"`
	DeltaX    float64   `json:"deltaX"`
}
