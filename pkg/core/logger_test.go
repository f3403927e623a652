package core

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_Printf(t *testing.T) {
	observed, logs := observer.New(zapcore.InfoLevel)
	logger := NewZapLogger(zap.New(observed))

	logger.Printf("built %d nodes for %s", 7, "bvh")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 log entry, got %d", len(entries))
	}
	if entries[0].Message != "built 7 nodes for bvh" {
		t.Errorf("Expected formatted message, got %q", entries[0].Message)
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Errorf("Expected info level, got %v", entries[0].Level)
	}
}

func TestLoggerOrNop(t *testing.T) {
	if _, ok := NewZapLogger(nil).(NopLogger); !ok {
		t.Errorf("Expected NopLogger for a nil zap logger")
	}
	if _, ok := LoggerOrNop(nil).(NopLogger); !ok {
		t.Errorf("Expected NopLogger for a nil logger")
	}
	logger := NewZapLogger(zap.NewNop())
	if LoggerOrNop(logger) != logger {
		t.Errorf("Expected LoggerOrNop to pass a non-nil logger through")
	}
	// Must not panic
	NopLogger{}.Printf("ignored %d", 1)
}
