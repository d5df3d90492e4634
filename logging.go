package missioncontrol

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns the process logger: human-readable on a terminal, JSON
// otherwise or when forceJSON is set. Unknown levels fall back to info.
func NewLogger(level string, forceJSON bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339

	var l zerolog.Logger
	if isatty() && !forceJSON {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		l = zerolog.New(os.Stderr)
	}
	return l.Level(lvl).With().Timestamp().Logger()
}

func isatty() bool {
	fi, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
