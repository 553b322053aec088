package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// SetupLogger creates the application logger writing to w. Unknown levels
// fall back to info. It also becomes the default logger.
func SetupLogger(level string, w io.Writer) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           lvl,
	})
	log.SetDefault(logger)

	if err != nil && level != "" {
		logger.Warn("unknown log level, using info", "level", level)
	}
	return logger
}
