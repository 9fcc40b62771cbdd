package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turretlab/arucotrack/internal/dispatcher"
	"github.com/turretlab/arucotrack/internal/mode"
)

func dispatchKey(t *testing.T, a *app, key rune) {
	t.Helper()
	_, err := a.dispatcher.Dispatch(dispatcher.Event{Key: key, Timestamp: time.Now()})
	require.NoError(t, err)
}

func TestSetupKeys_NumberKeysSwitchMode(t *testing.T) {
	a, sender := newTestApp(t)
	require.NoError(t, a.setupKeys())

	dispatchKey(t, a, '4')
	assert.Equal(t, mode.Attack, a.modeCtx.Get())

	dispatchKey(t, a, '2')
	assert.Equal(t, mode.Calibrate, a.modeCtx.Get())

	// every change is announced on the mode port
	assert.Equal(t, []mode.Mode{mode.Attack, mode.Calibrate}, sender.modes)
}

func TestSetupKeys_QuitKey(t *testing.T) {
	a, _ := newTestApp(t)
	require.NoError(t, a.setupKeys())

	assert.False(t, a.quit.Load())
	dispatchKey(t, a, mode.QuitKey)
	assert.True(t, a.quit.Load())
}

func TestConfirmSelection_ParsesIDList(t *testing.T) {
	a, _ := newTestApp(t)
	require.True(t, a.modeCtx.Set(mode.Selection))
	a.seen.Add(1)
	a.seen.Add(2)
	a.seen.Add(3)
	a.stdin = strings.NewReader("1, 2\n")

	a.confirmSelection()

	assert.True(t, a.targets.Contains(1))
	assert.True(t, a.targets.Contains(2))
	assert.False(t, a.targets.Contains(3))
	assert.Equal(t, mode.Attack, a.modeCtx.Get())
}

func TestConfirmSelection_EmptyLineTakesAllSeen(t *testing.T) {
	a, _ := newTestApp(t)
	require.True(t, a.modeCtx.Set(mode.Selection))
	a.seen.Add(4)
	a.seen.Add(5)
	a.stdin = strings.NewReader("\n")

	a.confirmSelection()

	assert.Equal(t, 2, a.targets.Len())
	assert.Equal(t, mode.Attack, a.modeCtx.Get())
}

func TestConfirmSelection_SkipsJunkTokens(t *testing.T) {
	a, _ := newTestApp(t)
	require.True(t, a.modeCtx.Set(mode.Selection))
	a.seen.Add(2)
	a.stdin = strings.NewReader("x, 2, ,\n")

	a.confirmSelection()

	assert.True(t, a.targets.Contains(2))
	assert.Equal(t, 1, a.targets.Len())
	assert.Equal(t, mode.Attack, a.modeCtx.Get())
}

func TestConfirmSelection_NothingValidStaysInSelection(t *testing.T) {
	a, _ := newTestApp(t)
	require.True(t, a.modeCtx.Set(mode.Selection))
	a.stdin = strings.NewReader("garbage\n")

	a.confirmSelection()

	assert.Zero(t, a.targets.Len())
	assert.Equal(t, mode.Selection, a.modeCtx.Get())
}

func TestConfirmSelection_UnseenIDAcceptedWithWarning(t *testing.T) {
	a, _ := newTestApp(t)
	require.True(t, a.modeCtx.Set(mode.Selection))
	a.seen.Add(1)
	a.stdin = strings.NewReader("9\n")

	a.confirmSelection()

	// markers can be out of frame during the scan, the ID still counts
	assert.True(t, a.targets.Contains(9))
	assert.Equal(t, mode.Attack, a.modeCtx.Get())
}

func TestConfirmSelection_HeadlessTakesAllSeen(t *testing.T) {
	a, _ := newTestApp(t)
	a.headless = true
	require.True(t, a.modeCtx.Set(mode.Selection))
	a.seen.Add(6)
	a.seen.Add(7)

	a.confirmSelection()

	assert.Equal(t, 2, a.targets.Len())
	assert.Equal(t, mode.Attack, a.modeCtx.Get())
}
