// Package session holds per-run state shared by the capture loop,
// the overlay and the storage layer.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Geometry is the camera frame size as reported by the first grabbed frame.
type Geometry struct {
	Width  int
	Height int
}

// Context holds the identity and frame geometry of the current run.
type Context struct {
	mu       sync.RWMutex
	runID    uuid.UUID
	started  time.Time
	geometry Geometry
}

// NewContext creates a Context with a fresh run ID.
func NewContext() *Context {
	return &Context{
		runID:   uuid.New(),
		started: time.Now().UTC(),
	}
}

// RunID returns the unique identifier of this run.
func (c *Context) RunID() uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.runID
}

// Started returns the UTC time the run began.
func (c *Context) Started() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.started
}

// Uptime returns how long the run has been going.
func (c *Context) Uptime() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Since(c.started)
}

// Geometry returns the frame geometry. Zero until SetGeometry is called.
func (c *Context) Geometry() Geometry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.geometry
}

// SetGeometry records the frame size once the first frame arrives.
func (c *Context) SetGeometry(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.geometry = Geometry{Width: width, Height: height}
}
