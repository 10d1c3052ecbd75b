// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// Setup builds a timestamped logger writing JSON to w at the given level and
// installs it as the global logger.
func Setup(level string, w io.Writer) zerolog.Logger {
	logger := zerolog.New(w).With().Timestamp().Logger().Level(ParseLevel(level))
	log.Logger = logger
	return logger
}

// SetupConsole is Setup with human-readable output, used with --verbose.
func SetupConsole(level string, w io.Writer) zerolog.Logger {
	return Setup(level, zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"})
}

// OpenFile opens (appending) the log file under the XDG state directory.
// The terminal belongs to the control surface, so logs go there by default.
func OpenFile() (*os.File, string, error) {
	path, err := xdg.StateFile("encore/encore.log")
	if err != nil {
		return nil, "", err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, "", err
	}
	return f, path, nil
}
