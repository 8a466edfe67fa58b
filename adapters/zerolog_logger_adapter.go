package adapters

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ZerologLoggerAdapter implements LoggerAdapter on top of a zerolog.Logger.
type ZerologLoggerAdapter struct {
	logger zerolog.Logger
}

// Ensure ZerologLoggerAdapter implements LoggerAdapter interface
var _ LoggerAdapter = (*ZerologLoggerAdapter)(nil)

// NewZerologLoggerAdapter wraps an already configured zerolog logger.
func NewZerologLoggerAdapter(logger zerolog.Logger) *ZerologLoggerAdapter {
	return &ZerologLoggerAdapter{logger: logger}
}

// NewDefaultLoggerAdapter creates a JSON logger on stderr filtered at level.
func NewDefaultLoggerAdapter(level LogLevel) *ZerologLoggerAdapter {
	return NewWriterLoggerAdapter(os.Stderr, level)
}

// NewWriterLoggerAdapter creates a JSON logger writing to w, filtered at level.
func NewWriterLoggerAdapter(w io.Writer, level LogLevel) *ZerologLoggerAdapter {
	logger := zerolog.New(w).
		Level(level.zerologLevel()).
		With().
		Timestamp().
		Str("component", "beacon").
		Logger()
	return NewZerologLoggerAdapter(logger)
}

func (z *ZerologLoggerAdapter) Debug(message string, args ...interface{}) {
	z.logger.Debug().Msgf(message, args...)
}

func (z *ZerologLoggerAdapter) Info(message string, args ...interface{}) {
	z.logger.Info().Msgf(message, args...)
}

func (z *ZerologLoggerAdapter) Warn(message string, args ...interface{}) {
	z.logger.Warn().Msgf(message, args...)
}

func (z *ZerologLoggerAdapter) Error(message string, args ...interface{}) {
	z.logger.Error().Msgf(message, args...)
}

func (l LogLevel) zerologLevel() zerolog.Level {
	switch l {
	case LogLevelDebug:
		return zerolog.DebugLevel
	case LogLevelInfo:
		return zerolog.InfoLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelError:
		return zerolog.ErrorLevel
	case LogLevelNone:
		return zerolog.Disabled
	default:
		return zerolog.WarnLevel
	}
}
