package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// NewComponentLogger builds a zerolog.Logger for components that take one
// (transmitter, influx sink, database manager). Console output plus the
// session log file when provided.
func NewComponentLogger(component string, file io.Writer, level string) zerolog.Logger {
	var w io.Writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	if file != nil {
		w = zerolog.MultiLevelWriter(w, file)
	}
	return zerolog.New(w).
		Level(parseZerologLevel(level)).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

func parseZerologLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
