package utils

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapSink sends diagnostics to a zap logger as structured records
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink wraps an existing logger
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger.WithOptions(zap.AddCallerSkip(1))}
}

// NewJSONSink builds a production JSON logger at the given level
func NewJSONSink(level DiagnosticLevel) (*ZapSink, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(level))
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build json logger: %w", err)
	}
	return NewZapSink(logger), nil
}

func zapLevel(level DiagnosticLevel) zapcore.Level {
	switch {
	case level <= DiagnosticSilent:
		return zapcore.FatalLevel
	case level == DiagnosticError:
		return zapcore.ErrorLevel
	case level == DiagnosticWarn:
		return zapcore.WarnLevel
	case level == DiagnosticInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

func (s *ZapSink) Debug(format string, args ...interface{}) {
	s.logger.Debug(fmt.Sprintf(format, args...))
}

func (s *ZapSink) Info(format string, args ...interface{}) {
	s.logger.Info(fmt.Sprintf(format, args...))
}

func (s *ZapSink) Warn(format string, args ...interface{}) {
	s.logger.Warn(fmt.Sprintf(format, args...))
}

func (s *ZapSink) Error(format string, args ...interface{}) {
	s.logger.Error(fmt.Sprintf(format, args...))
}

// With returns a sink that adds fields to every record
func (s *ZapSink) With(fields ...zap.Field) *ZapSink {
	return &ZapSink{logger: s.logger.With(fields...)}
}

// Sync flushes buffered records
func (s *ZapSink) Sync() error {
	return s.logger.Sync()
}
