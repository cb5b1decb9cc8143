// Package logging provides structured logging functionality.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string
	Console    bool
	File       bool
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	home, _ := os.UserHomeDir()
	return LogConfig{
		Level:      "info",
		Console:    true,
		File:       true,
		FilePath:   filepath.Join(home, ".config", "stockwatch", "logs", "stockwatch.log"),
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
	}
}

// NewLogger creates a new logger with default configuration.
func NewLogger() zerolog.Logger {
	return NewLoggerWithConfig(DefaultLogConfig())
}

// NewLoggerWithConfig creates a new logger with the specified configuration.
func NewLoggerWithConfig(cfg LogConfig) zerolog.Logger {
	var writers []io.Writer

	if cfg.Console {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
		writers = append(writers, consoleWriter)
	}

	if cfg.File {
		logDir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(logDir, 0755); err == nil {
			fileWriter := &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			}
			writers = append(writers, fileWriter)
		}
	}

	var writer io.Writer
	if len(writers) == 0 {
		writer = os.Stderr
	} else if len(writers) == 1 {
		writer = writers[0]
	} else {
		writer = zerolog.MultiLevelWriter(writers...)
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	return zerolog.New(writer).
		With().
		Timestamp().
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetDebugLevel sets the global log level to debug.
func SetDebugLevel() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

// WithSymbol adds a symbol to the logger context.
func WithSymbol(logger zerolog.Logger, symbol string) zerolog.Logger {
	return logger.With().Str("symbol", symbol).Logger()
}

// WithNote adds a note ID to the logger context.
func WithNote(logger zerolog.Logger, noteID string) zerolog.Logger {
	return logger.With().Str("note_id", noteID).Logger()
}

// LogAlert logs a triggered alert.
func LogAlert(logger zerolog.Logger, noteID, symbol string, price float64, reasons []string) {
	logger.Info().
		Str("event", "alert").
		Str("note_id", noteID).
		Str("symbol", symbol).
		Float64("current_price", price).
		Strs("reasons", reasons).
		Msg("Alert triggered")
}

// LogCheck logs the outcome of a batch check run.
func LogCheck(logger zerolog.Logger, checked, alerted int, duration time.Duration) {
	logger.Info().
		Str("event", "check").
		Int("notes_checked", checked).
		Int("alerts", alerted).
		Dur("duration", duration).
		Msg("Check run completed")
}

// LogQuote logs a quote fetch.
func LogQuote(logger zerolog.Logger, symbol string, price float64, err error) {
	event := logger.Debug().
		Str("event", "quote").
		Str("symbol", symbol)
	if err != nil {
		event.Err(err).Msg("Quote fetch failed")
	} else {
		event.Float64("price", price).Msg("Quote fetched")
	}
}
