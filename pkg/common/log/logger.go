// Package log provides the structured logging interface used across the
// storage engine, backed by github.com/rs/zerolog.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Level represents the logging level.
type Level int

const (
	// LevelDebug level for detailed troubleshooting information.
	LevelDebug Level = iota
	// LevelInfo level for general operational information.
	LevelInfo
	// LevelWarn level for potentially harmful situations.
	LevelWarn
	// LevelError level for error events that might still allow the
	// application to continue.
	LevelError
	// LevelFatal level for severe error events that will lead the
	// application to abort.
	LevelFatal
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return fmt.Sprintf("LEVEL(%d)", l)
	}
}

func (l Level) zerologLevel() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	case LevelFatal:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger is the structured logging interface used by every component in
// this module.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
	WithFields(fields map[string]interface{}) Logger
	WithField(key string, value interface{}) Logger
	GetLevel() Level
	SetLevel(level Level)
}

// ZerologLogger implements Logger on top of a zerolog.Logger.
type ZerologLogger struct {
	level Level
	zl    zerolog.Logger
}

// NewLogger creates a new ZerologLogger with the given options.
func NewLogger(options ...LoggerOption) *ZerologLogger {
	l := &ZerologLogger{
		level: LevelInfo,
		zl:    zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02 15:04:05.000"}).With().Timestamp().Logger(),
	}
	for _, opt := range options {
		opt(l)
	}
	l.zl = l.zl.Level(l.level.zerologLevel())
	return l
}

// LoggerOption configures a ZerologLogger.
type LoggerOption func(*ZerologLogger)

// WithLevel sets the logging level.
func WithLevel(level Level) LoggerOption {
	return func(l *ZerologLogger) { l.level = level }
}

// WithOutput sets the destination writer.
func WithOutput(out io.Writer) LoggerOption {
	return func(l *ZerologLogger) {
		l.zl = zerolog.New(out).With().Timestamp().Logger()
	}
}

// WithJSONOutput switches to zerolog's native JSON encoding (ConsoleWriter
// is used by default for human-readable output).
func WithJSONOutput(out io.Writer) LoggerOption {
	return func(l *ZerologLogger) {
		l.zl = zerolog.New(out).With().Timestamp().Logger()
	}
}

// WithInitialFields seeds the logger's context fields.
func WithInitialFields(fields map[string]interface{}) LoggerOption {
	return func(l *ZerologLogger) {
		l.zl = l.zl.With().Fields(fields).Logger()
	}
}

func (l *ZerologLogger) log(level Level, msg string, args ...interface{}) {
	formatted := msg
	if len(args) > 0 {
		formatted = fmt.Sprintf(msg, args...)
	}
	switch level {
	case LevelDebug:
		l.zl.Debug().Msg(formatted)
	case LevelInfo:
		l.zl.Info().Msg(formatted)
	case LevelWarn:
		l.zl.Warn().Msg(formatted)
	case LevelError:
		l.zl.Error().Msg(formatted)
	case LevelFatal:
		l.zl.Fatal().Msg(formatted)
	}
}

// Debug logs a debug-level message.
func (l *ZerologLogger) Debug(msg string, args ...interface{}) { l.log(LevelDebug, msg, args...) }

// Info logs an info-level message.
func (l *ZerologLogger) Info(msg string, args ...interface{}) { l.log(LevelInfo, msg, args...) }

// Warn logs a warning-level message.
func (l *ZerologLogger) Warn(msg string, args ...interface{}) { l.log(LevelWarn, msg, args...) }

// Error logs an error-level message.
func (l *ZerologLogger) Error(msg string, args ...interface{}) { l.log(LevelError, msg, args...) }

// Fatal logs a fatal-level message; zerolog's Fatal level calls os.Exit(1)
// after writing the event.
func (l *ZerologLogger) Fatal(msg string, args ...interface{}) { l.log(LevelFatal, msg, args...) }

// WithFields returns a new logger with the given fields added to its
// context.
func (l *ZerologLogger) WithFields(fields map[string]interface{}) Logger {
	return &ZerologLogger{level: l.level, zl: l.zl.With().Fields(fields).Logger()}
}

// WithField returns a new logger with a single field added to its
// context.
func (l *ZerologLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// GetLevel returns the current logging level.
func (l *ZerologLogger) GetLevel() Level { return l.level }

// SetLevel sets the logging level.
func (l *ZerologLogger) SetLevel(level Level) {
	l.level = level
	l.zl = l.zl.Level(level.zerologLevel())
}

var defaultLogger = NewLogger()

// SetDefaultLogger replaces the package-level default logger.
func SetDefaultLogger(logger *ZerologLogger) { defaultLogger = logger }

// GetDefaultLogger returns the package-level default logger.
func GetDefaultLogger() *ZerologLogger { return defaultLogger }

// Debug logs a debug-level message via the default logger.
func Debug(msg string, args ...interface{}) { defaultLogger.Debug(msg, args...) }

// Info logs an info-level message via the default logger.
func Info(msg string, args ...interface{}) { defaultLogger.Info(msg, args...) }

// Warn logs a warning-level message via the default logger.
func Warn(msg string, args ...interface{}) { defaultLogger.Warn(msg, args...) }

// Error logs an error-level message via the default logger.
func Error(msg string, args ...interface{}) { defaultLogger.Error(msg, args...) }

// Fatal logs a fatal-level message via the default logger and exits.
func Fatal(msg string, args ...interface{}) { defaultLogger.Fatal(msg, args...) }

// WithFields returns a child of the default logger with fields added.
func WithFields(fields map[string]interface{}) Logger { return defaultLogger.WithFields(fields) }

// WithField returns a child of the default logger with one field added.
func WithField(key string, value interface{}) Logger { return defaultLogger.WithField(key, value) }

// SetLevel sets the logging level of the default logger.
func SetLevel(level Level) { defaultLogger.SetLevel(level) }
