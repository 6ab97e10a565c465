package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(Config{Format: "json", Level: "loud"}, "web"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewHonorsLevel(t *testing.T) {
	logger, err := New(Config{Format: "console", Level: "warn"}, "web")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("expected info to be disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatal("expected error to be enabled at warn level")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("expected no-op logger")
	}
}
