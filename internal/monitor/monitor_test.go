package monitor

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turretlab/arucotrack/internal/logging"
	"github.com/turretlab/arucotrack/internal/mode"
	"github.com/turretlab/arucotrack/internal/session"
)

type fakePerfWriter struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (w *fakePerfWriter) WritePerformance(s Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.snaps = append(w.snaps, s)
	return nil
}

func (w *fakePerfWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.snaps)
}

func TestSample_Counters(t *testing.T) {
	modeCtx := mode.NewContext()
	modeCtx.Set(mode.Attack)

	s := NewService(Dependencies{
		LogManager:  logging.NewSlogManager(),
		Session:     session.NewContext(),
		ModeContext: modeCtx,
	})

	s.FrameDone()
	s.FrameDone()
	s.DetectionsDone(3)
	s.DetectionsDone(0) // no markers, must not count
	s.SendDone()
	s.NoMarkerSendDone()

	snap := s.Sample()

	assert.Equal(t, uint64(2), snap.Frames)
	assert.Equal(t, uint64(3), snap.Detections)
	assert.Equal(t, uint64(1), snap.Sends)
	assert.Equal(t, uint64(1), snap.NoMarkerSends)
	assert.Equal(t, "attack", snap.Mode)
	assert.NotEmpty(t, snap.RunID)
}

func TestSample_FPSFromFrameDelta(t *testing.T) {
	s := NewService(Dependencies{LogManager: logging.NewSlogManager()})

	// first sample has no previous reference, FPS stays zero
	first := s.Sample()
	assert.Equal(t, 0.0, first.FPS)

	for i := 0; i < 10; i++ {
		s.FrameDone()
	}
	time.Sleep(50 * time.Millisecond)

	second := s.Sample()
	assert.Greater(t, second.FPS, 0.0)
}

func TestService_StartStop(t *testing.T) {
	writer := &fakePerfWriter{}
	s := NewService(Dependencies{
		LogManager: logging.NewSlogManager(),
		Interval:   10 * time.Millisecond,
		StatusDir:  t.TempDir(),
		PerfWriter: writer,
	})

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())

	assert.Eventually(t, func() bool {
		return writer.count() >= 2
	}, 2*time.Second, 10*time.Millisecond)

	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestService_StartIsIdempotent(t *testing.T) {
	s := NewService(Dependencies{
		LogManager: logging.NewSlogManager(),
		Interval:   time.Hour,
	})
	require.NoError(t, s.Start())
	require.NoError(t, s.Start())
	s.Stop()
}
