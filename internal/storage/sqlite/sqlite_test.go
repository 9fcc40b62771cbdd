package sqlitestorage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turretlab/arucotrack/internal/model"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	b := New(Config{
		Path:      filepath.Join(t.TempDir(), "tracks.db"),
		BatchSize: 4,
	})
	require.NoError(t, b.Init())
	return b
}

func TestRecordAndFlush(t *testing.T) {
	b := newTestBackend(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, b.RecordTrack(&model.TrackRecord{
			Timestamp: time.Now(),
			MarkerID:  i,
			MarkerX:   float64(100 + i),
			DeltaX:    float64(i) - 1,
		}))
	}

	// batch of 4 not reached yet
	n, err := b.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	require.NoError(t, b.Flush())
	n, err = b.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestBatchSizeTriggersInsert(t *testing.T) {
	b := newTestBackend(t)

	for i := 0; i < 4; i++ {
		require.NoError(t, b.RecordTrack(&model.TrackRecord{
			Timestamp: time.Now(), MarkerID: i,
		}))
	}

	n, err := b.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestCloseFlushesPending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracks.db")
	b := New(Config{Path: path, BatchSize: 100})
	require.NoError(t, b.Init())

	require.NoError(t, b.RecordTrack(&model.TrackRecord{Timestamp: time.Now(), MarkerID: 9}))
	require.NoError(t, b.Close())

	// reopen and verify the row survived
	b2 := New(Config{Path: path})
	require.NoError(t, b2.Init())
	defer b2.Close()

	n, err := b2.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
