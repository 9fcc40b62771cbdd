package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// StorageConfig holds track-log storage backend settings
type StorageConfig struct {
	Type       string `json:"type" mapstructure:"type"`
	OutputDir  string `json:"outputDir" mapstructure:"outputDir"`
	SqlitePath string `json:"sqlitePath" mapstructure:"sqlitePath"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. A missing
// config file is not an error; defaults apply.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("camera.device", 0)
	viper.SetDefault("camera.width", 0)
	viper.SetDefault("camera.height", 0)

	viper.SetDefault("detector.dictionary", "4x4_50")
	viper.SetDefault("detector.markerSizeMM", 65.0)
	viper.SetDefault("detector.calibrationFile", "")

	viper.SetDefault("udp.address", "127.0.0.1")
	viper.SetDefault("udp.deltaPort", 50002)
	viper.SetDefault("udp.modePort", 50001)

	viper.SetDefault("send.format", "uint8")
	viper.SetDefault("send.minInterval", "0s")

	viper.SetDefault("target.killThresholdPx", 5.0)
	viper.SetDefault("target.trailLen", 30)

	viper.SetDefault("storage.type", "csv")
	viper.SetDefault("storage.outputDir", ".")
	viper.SetDefault("storage.sqlitePath", "./arucotrack.db")

	viper.SetDefault("monitor.interval", "5s")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "arucotrack-metrics")

	viper.SetDefault("ui.headless", false)

	viper.SetConfigName("arucotrack.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			return nil
		}
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetFloat64 returns a float64 config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a duration config value.
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// GetStorage returns the storage backend settings.
func GetStorage() StorageConfig {
	return StorageConfig{
		Type:       viper.GetString("storage.type"),
		OutputDir:  viper.GetString("storage.outputDir"),
		SqlitePath: viper.GetString("storage.sqlitePath"),
	}
}
