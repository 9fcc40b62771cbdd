// Package mode holds the operator-selected game mode that gates marker
// detection and UDP transmission.
package mode

import "sync"

// Mode is the operator-selected state. The numeric values are what go over
// the wire in the mode datagram, so they must stay stable.
type Mode uint8

const (
	Idle      Mode = 1
	Calibrate Mode = 2
	Selection Mode = 3
	Attack    Mode = 4
	End       Mode = 5
)

// QuitKey exits the program from any mode.
const QuitKey = 'c'

var names = map[Mode]string{
	Idle:      "idle",
	Calibrate: "calibrate",
	Selection: "selection",
	Attack:    "attack",
	End:       "end",
}

func (m Mode) String() string {
	if n, ok := names[m]; ok {
		return n
	}
	return "unknown"
}

// Valid reports whether m is one of the five defined modes.
func (m Mode) Valid() bool {
	_, ok := names[m]
	return ok
}

// FromKey maps number keys '1'..'5' to modes. ok is false for any other key.
func FromKey(r rune) (Mode, bool) {
	if r < '1' || r > '5' {
		return 0, false
	}
	return Mode(r - '0'), true
}

// All lists the modes in key order, for the overlay legend.
func All() []Mode {
	return []Mode{Idle, Calibrate, Selection, Attack, End}
}

// DetectionEnabled reports whether marker detection runs in this mode.
// Calibrate and End act as preview-only, same as Idle.
func (m Mode) DetectionEnabled() bool {
	return m == Selection || m == Attack
}

// SendingEnabled reports whether delta datagrams are transmitted in this mode.
func (m Mode) SendingEnabled() bool {
	return m == Attack
}

// Context holds the current mode, guarded for access from the capture loop
// and the signal handler.
type Context struct {
	mu      sync.RWMutex
	current Mode
}

// NewContext creates a Context starting in Idle.
func NewContext() *Context {
	return &Context{current: Idle}
}

// Get returns the current mode.
func (c *Context) Get() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Set switches to m and reports whether the mode actually changed.
// Invalid modes are rejected.
func (c *Context) Set(m Mode) bool {
	if !m.Valid() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == m {
		return false
	}
	c.current = m
	return true
}
