package csvstorage

import (
	"encoding/csv"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turretlab/arucotrack/internal/model"
)

func TestCloseWritesCSV(t *testing.T) {
	dir := t.TempDir()
	b := New(Config{OutputDir: dir})
	require.NoError(t, b.Init())

	ts := time.Unix(1700000000, 500_000_000)
	require.NoError(t, b.RecordTrack(&model.TrackRecord{
		Timestamp: ts, MarkerID: 3, MarkerX: 350.5, DeltaX: 30.5,
	}))
	require.NoError(t, b.RecordTrack(&model.TrackRecord{
		Timestamp: ts.Add(time.Second), MarkerID: 7, MarkerX: 290, DeltaX: -30,
	}))
	assert.Equal(t, 2, b.Len())

	require.NoError(t, b.Close())

	f, err := os.Open(b.Path())
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"timestamp", "id", "marker_x", "deltaX"}, rows[0])
	assert.Equal(t, []string{"1700000000.500", "3", "350.5", "30.5"}, rows[1])
	assert.Equal(t, []string{"1700000001.500", "7", "290", "-30"}, rows[2])
}

func TestCloseWithNoRowsWritesNothing(t *testing.T) {
	dir := t.TempDir()
	b := New(Config{OutputDir: dir})
	require.NoError(t, b.Init())
	require.NoError(t, b.Close())

	_, err := os.Stat(b.Path())
	assert.True(t, os.IsNotExist(err), "no CSV should exist when no rows were recorded")
}

func TestRecordAfterCloseFails(t *testing.T) {
	b := New(Config{OutputDir: t.TempDir()})
	require.NoError(t, b.Init())
	require.NoError(t, b.Close())

	err := b.RecordTrack(&model.TrackRecord{Timestamp: time.Now()})
	assert.Error(t, err)
}

func TestDoubleCloseIsSafe(t *testing.T) {
	b := New(Config{OutputDir: t.TempDir()})
	require.NoError(t, b.Init())
	require.NoError(t, b.RecordTrack(&model.TrackRecord{Timestamp: time.Now(), MarkerID: 1}))
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
}
