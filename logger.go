package bos

import (
	"io"
	"log"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultLogger implements Logger using standard log package
type DefaultLogger struct{}

// Info logs an info message
func (l *DefaultLogger) Info(msg string, args ...any) {
	log.Printf("[INFO] "+msg, args...)
}

// Error logs an error message
func (l *DefaultLogger) Error(msg string, args ...any) {
	log.Printf("[ERROR] "+msg, args...)
}

// Debug logs a debug message
func (l *DefaultLogger) Debug(msg string, args ...any) {
	log.Printf("[DEBUG] "+msg, args...)
}

// SilentLogger implements Logger interface but does not output any logs
// This is useful for testing environments where log output is not desired
type SilentLogger struct{}

// NewSilentLogger creates a new silent logger instance
func NewSilentLogger() *SilentLogger {
	return &SilentLogger{}
}

// Info does nothing (silent)
func (l *SilentLogger) Info(msg string, args ...any) {}

// Error does nothing (silent)
func (l *SilentLogger) Error(msg string, args ...any) {}

// Debug does nothing (silent)
func (l *SilentLogger) Debug(msg string, args ...any) {}

// ZerologLogger adapts a zerolog.Logger to the Logger interface
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger creates a leveled logger writing to w.
// Unknown levels fall back to info. With jsonOutput false the output is
// human readable console text.
func NewZerologLogger(w io.Writer, level string, jsonOutput bool) *ZerologLogger {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	if !jsonOutput {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	return &ZerologLogger{
		zl: zerolog.New(w).Level(lvl).With().Timestamp().Logger(),
	}
}

// NewZerologLoggerFromConfig creates a logger from the log section of the config
func NewZerologLoggerFromConfig(w io.Writer, cfg *LogConfig) *ZerologLogger {
	if cfg == nil {
		cfg = DefaultLogConfig()
	}
	return NewZerologLogger(w, cfg.Level, strings.EqualFold(cfg.Format, "json"))
}

// Info logs an info message
func (l *ZerologLogger) Info(msg string, args ...any) { l.zl.Info().Msgf(msg, args...) }

// Error logs an error message
func (l *ZerologLogger) Error(msg string, args ...any) { l.zl.Error().Msgf(msg, args...) }

// Debug logs a debug message
func (l *ZerologLogger) Debug(msg string, args ...any) { l.zl.Debug().Msgf(msg, args...) }

// Zerolog exposes the underlying logger for structured fields
func (l *ZerologLogger) Zerolog() *zerolog.Logger { return &l.zl }

// ParseLogLevel maps debug/info/warn/error to a zerolog level
func ParseLogLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, ErrInvalidLogLevel
	}
}
