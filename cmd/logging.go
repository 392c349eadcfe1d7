package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// setupLogger creates a logger with the specified configuration
func setupLogger(logFile, logLevel string) zerolog.Logger {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}

	// Set up output
	var output io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		} else {
			output = f
		}
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// zerologAdapter adapts a zerolog.Logger to gracenote.Logger
type zerologAdapter struct {
	logger zerolog.Logger
}

func newGracenoteLogger(logger zerolog.Logger) *zerologAdapter {
	return &zerologAdapter{
		logger: logger.With().Str("component", "gracenote").Logger(),
	}
}

func (a *zerologAdapter) Debugf(format string, args ...interface{}) {
	a.logger.Debug().Msgf(format, args...)
}

func (a *zerologAdapter) Warnf(format string, args ...interface{}) {
	a.logger.Warn().Msgf(format, args...)
}
