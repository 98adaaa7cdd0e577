package shared

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// SetupLogger configures console logging at the given level. Unknown levels
// fall back to info.
func SetupLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})

	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}
