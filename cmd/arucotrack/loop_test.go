package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turretlab/arucotrack/internal/mode"
	"github.com/turretlab/arucotrack/internal/model"
	"github.com/turretlab/arucotrack/internal/monitor"
	"github.com/turretlab/arucotrack/internal/queue"
	"github.com/turretlab/arucotrack/internal/target"
)

// fakeSender records what would have gone on the wire.
type fakeSender struct {
	ids       []int
	deltas    []float64
	noMarkers int
	modes     []mode.Mode
}

func (f *fakeSender) SendDelta(id int, delta, frameWidth float64) bool {
	f.ids = append(f.ids, id)
	f.deltas = append(f.deltas, delta)
	return true
}

func (f *fakeSender) SendNoMarker() bool {
	f.noMarkers++
	return true
}

func (f *fakeSender) SendMode(m mode.Mode) {
	f.modes = append(f.modes, m)
}

func newTestApp(t *testing.T) (*app, *fakeSender) {
	t.Helper()
	sender := &fakeSender{}
	a := &app{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		modeCtx:       mode.NewContext(),
		sender:        sender,
		queue:         queue.New[*model.TrackRecord](),
		monitor:       monitor.NewService(monitor.Dependencies{}),
		targets:       target.NewSet(),
		seen:          target.NewSet(),
		smoother:      target.NewSmoother(8, 1.0/30.0),
		killThreshold: 10,
	}
	return a, sender
}

func obs(id int, x float64) target.Observation {
	return target.Observation{ID: id, CentroidX: x, CentroidY: 100}
}

func TestTrack_EmptySelectionAdmitsNothing(t *testing.T) {
	a, sender := newTestApp(t)
	require.True(t, a.modeCtx.Set(mode.Attack))

	// marker 42 dead center, but no target was ever selected
	_, _, haveBest := a.track(mode.Attack, []target.Observation{obs(42, 320)}, 640)

	assert.False(t, haveBest)
	assert.Empty(t, sender.ids)
	assert.Zero(t, sender.noMarkers, "a visible marker is not a no-marker frame")
	assert.Zero(t, a.queue.Len())
}

func TestTrack_OnlySelectedTargetsCompete(t *testing.T) {
	a, sender := newTestApp(t)
	require.True(t, a.modeCtx.Set(mode.Attack))
	a.targets.Add(7)

	// 42 is more centered but unselected, 7 must win
	observations := []target.Observation{obs(42, 330), obs(7, 480)}
	_, best, haveBest := a.track(mode.Attack, observations, 640)

	require.True(t, haveBest)
	assert.Equal(t, 7, best.ID)
	assert.Equal(t, []int{7}, sender.ids)
	assert.Equal(t, 1, a.queue.Len())
}

func TestTrack_SentinelOnlyWhenFrameIsEmpty(t *testing.T) {
	a, sender := newTestApp(t)
	require.True(t, a.modeCtx.Set(mode.Attack))
	a.targets.Add(7)

	a.track(mode.Attack, nil, 640)
	assert.Equal(t, 1, sender.noMarkers)

	// unselected marker in frame: neither delta nor sentinel
	a.track(mode.Attack, []target.Observation{obs(42, 320)}, 640)
	assert.Equal(t, 1, sender.noMarkers)
	assert.Empty(t, sender.ids)
}

func TestTrack_SelectionCollectsSeenAndLogs(t *testing.T) {
	a, sender := newTestApp(t)
	require.True(t, a.modeCtx.Set(mode.Selection))

	a.track(mode.Selection, []target.Observation{obs(3, 200), obs(5, 350)}, 640)

	assert.True(t, a.seen.Contains(3))
	assert.True(t, a.seen.Contains(5))
	assert.Equal(t, 1, a.queue.Len(), "the best marker is logged during selection")
	assert.Empty(t, sender.ids, "selection never transmits")
}

func TestTrack_KillRemovesCenteredTarget(t *testing.T) {
	a, sender := newTestApp(t)
	require.True(t, a.modeCtx.Set(mode.Attack))
	a.targets.Add(1)
	a.targets.Add(2)

	// delta 160, well outside the threshold: target survives
	a.track(mode.Attack, []target.Observation{obs(1, 480)}, 640)
	assert.True(t, a.targets.Contains(1))

	// delta 2, inside the threshold: target falls, attack continues
	a.track(mode.Attack, []target.Observation{obs(1, 322)}, 640)
	assert.False(t, a.targets.Contains(1))
	assert.Equal(t, mode.Attack, a.modeCtx.Get())

	// last target falls: engagement over
	a.track(mode.Attack, []target.Observation{obs(2, 318)}, 640)
	assert.False(t, a.targets.Contains(2))
	assert.Equal(t, mode.End, a.modeCtx.Get())
	assert.Contains(t, sender.modes, mode.End)
}
