package influx

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turretlab/arucotrack/internal/monitor"
)

func TestWritePerformance_BackupFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "influx_backup.gz")
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	require.NoError(t, err)

	m := NewManager(zerolog.Nop(), path)
	m.BackupWriter = gzip.NewWriter(file)

	snap := monitor.Snapshot{
		Time:   time.Now(),
		RunID:  "test-run",
		Mode:   "attack",
		FPS:    29.5,
		Frames: 100,
	}
	require.NoError(t, m.WritePerformance(snap))
	m.Close()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(gz)
	require.NoError(t, err)

	assert.Contains(t, string(data), "capture_loop")
	assert.Contains(t, string(data), "run_id=test-run")
}

func TestWritePoint_NoWriterErrors(t *testing.T) {
	m := NewManager(zerolog.Nop(), "")
	err := m.WritePerformance(monitor.Snapshot{Time: time.Now()})
	assert.Error(t, err)
}
