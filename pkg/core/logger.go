package core

import "go.uber.org/zap"

// zapLogger implements Logger on top of a sugared zap logger
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger adapts a zap logger to the Logger interface. Printf calls are
// emitted at info level.
func NewZapLogger(logger *zap.Logger) Logger {
	if logger == nil {
		return NopLogger{}
	}
	return &zapLogger{sugar: logger.Sugar()}
}

// Printf implements Logger
func (l *zapLogger) Printf(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// NopLogger discards everything
type NopLogger struct{}

// Printf implements Logger
func (NopLogger) Printf(string, ...interface{}) {}

// LoggerOrNop returns logger, or a NopLogger when logger is nil
func LoggerOrNop(logger Logger) Logger {
	if logger == nil {
		return NopLogger{}
	}
	return logger
}
