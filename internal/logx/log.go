// Package logx holds the process-wide structured logger.
package logx

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Log is the shared logger used throughout the project.
var Log = log.Logger

func init() {
	zerolog.SetGlobalLevel(parseLevel(os.Getenv("FLEETD_LOG_LEVEL")))
	// Human-readable output on a terminal; JSON otherwise.
	if isatty() {
		Log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// SetLevel adjusts the global level after flag/config parsing.
func SetLevel(level string) {
	zerolog.SetGlobalLevel(parseLevel(level))
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func isatty() bool {
	fi, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
