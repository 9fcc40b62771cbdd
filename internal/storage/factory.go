package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	csvstorage "github.com/turretlab/arucotrack/internal/storage/csv"
	sqlitestorage "github.com/turretlab/arucotrack/internal/storage/sqlite"
)

// FactoryConfig selects and configures a backend.
type FactoryConfig struct {
	Type       string
	OutputDir  string
	SqlitePath string
	Logger     zerolog.Logger
}

// NewBackend creates a storage backend based on configuration.
func NewBackend(cfg FactoryConfig) (Backend, error) {
	switch cfg.Type {
	case "csv":
		return csvstorage.New(csvstorage.Config{OutputDir: cfg.OutputDir}), nil
	case "sqlite":
		return sqlitestorage.New(sqlitestorage.Config{
			Path:   cfg.SqlitePath,
			Logger: cfg.Logger,
		}), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
