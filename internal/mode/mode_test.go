package mode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromKey(t *testing.T) {
	tests := []struct {
		key  rune
		want Mode
		ok   bool
	}{
		{'1', Idle, true},
		{'2', Calibrate, true},
		{'3', Selection, true},
		{'4', Attack, true},
		{'5', End, true},
		{'0', 0, false},
		{'6', 0, false},
		{'c', 0, false},
		{'q', 0, false},
	}

	for _, tt := range tests {
		got, ok := FromKey(tt.key)
		assert.Equal(t, tt.ok, ok, "key %q", tt.key)
		if ok {
			assert.Equal(t, tt.want, got, "key %q", tt.key)
		}
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "calibrate", Calibrate.String())
	assert.Equal(t, "selection", Selection.String())
	assert.Equal(t, "attack", Attack.String())
	assert.Equal(t, "end", End.String())
	assert.Equal(t, "unknown", Mode(9).String())
}

func TestGating(t *testing.T) {
	tests := []struct {
		m       Mode
		detect  bool
		sending bool
	}{
		{Idle, false, false},
		{Calibrate, false, false},
		{Selection, true, false},
		{Attack, true, true},
		{End, false, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.detect, tt.m.DetectionEnabled(), "%s detection", tt.m)
		assert.Equal(t, tt.sending, tt.m.SendingEnabled(), "%s sending", tt.m)
	}
}

func TestContext_SetReportsChange(t *testing.T) {
	c := NewContext()
	assert.Equal(t, Idle, c.Get())

	assert.True(t, c.Set(Attack))
	assert.Equal(t, Attack, c.Get())

	// setting the same mode again is not a change
	assert.False(t, c.Set(Attack))

	// invalid modes are rejected
	assert.False(t, c.Set(Mode(7)))
	assert.Equal(t, Attack, c.Get())
}
