// Package logging sets up the zerolog console logger osm writes to stderr.
package logging

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// ParseLevel accepts trace, debug, info, warn and error; anything else is info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New returns a timestamped console logger. Colors are off unless color is set,
// since osm usually runs under a service manager.
func New(w io.Writer, level zerolog.Level, color bool) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    !color,
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
