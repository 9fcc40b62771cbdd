package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"udp": { "address": "10.0.0.1", "deltaPort": 60002 },
		"send": { "format": "float32", "minInterval": "250ms" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "arucotrack.cfg.json"), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "10.0.0.1", viper.GetString("udp.address"))
	assert.Equal(t, 60002, viper.GetInt("udp.deltaPort"))
	assert.Equal(t, "float32", viper.GetString("send.format"))
	assert.Equal(t, 250*time.Millisecond, GetDuration("send.minInterval"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "arucotrack.cfg.json"), []byte(`{}`), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./logs", viper.GetString("logsDir"))
	assert.Equal(t, 0, viper.GetInt("camera.device"))
	assert.Equal(t, "4x4_50", viper.GetString("detector.dictionary"))
	assert.Equal(t, 65.0, viper.GetFloat64("detector.markerSizeMM"))
	assert.Equal(t, "", viper.GetString("detector.calibrationFile"))
	assert.Equal(t, "127.0.0.1", viper.GetString("udp.address"))
	assert.Equal(t, 50002, viper.GetInt("udp.deltaPort"))
	assert.Equal(t, 50001, viper.GetInt("udp.modePort"))
	assert.Equal(t, "uint8", viper.GetString("send.format"))
	assert.Equal(t, time.Duration(0), GetDuration("send.minInterval"))
	assert.Equal(t, 5.0, viper.GetFloat64("target.killThresholdPx"))
	assert.Equal(t, 30, viper.GetInt("target.trailLen"))
	assert.Equal(t, "csv", viper.GetString("storage.type"))
	assert.Equal(t, ".", viper.GetString("storage.outputDir"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, false, viper.GetBool("ui.headless"))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "info", viper.GetString("logLevel"))
}

func TestGetStorage(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("storage.type", "sqlite")
	viper.Set("storage.outputDir", "/tmp/out")
	viper.Set("storage.sqlitePath", "/tmp/tracks.db")

	s := GetStorage()
	assert.Equal(t, "sqlite", s.Type)
	assert.Equal(t, "/tmp/out", s.OutputDir)
	assert.Equal(t, "/tmp/tracks.db", s.SqlitePath)
}
