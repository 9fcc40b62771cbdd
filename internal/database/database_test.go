package database

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_ConnectInMemory(t *testing.T) {
	m := NewManager(zerolog.Nop())

	require.NoError(t, m.Connect(""))
	assert.NotNil(t, m.DB)

	require.NoError(t, m.Close())
}

func TestManager_ConnectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracks.db")
	m := NewManager(zerolog.Nop())

	require.NoError(t, m.Connect(path))
	defer m.Close()

	assert.FileExists(t, path)
}

func TestManager_CloseWithoutConnect(t *testing.T) {
	m := NewManager(zerolog.Nop())
	assert.NoError(t, m.Close())
}
