package shared

import (
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger configures the process logger. The debug flag wins over
// the configured level.
func SetupLogger(level string, debug bool) *log.Logger {
	parsed := log.InfoLevel
	if lvl, err := log.ParseLevel(level); err == nil {
		parsed = lvl
	}
	if debug {
		parsed = log.DebugLevel
	}

	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           parsed,
		ReportTimestamp: true,
	})
}
