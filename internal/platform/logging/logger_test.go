package logging

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_KeyValueFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core))

	logger.WarnContext(context.Background(), "save failed", "deal_id", "deal-1", "error", errors.New("boom"), "dangling")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["deal_id"] != "deal-1" {
		t.Fatalf("unexpected deal_id field: %v", fields["deal_id"])
	}
	if fields["error"] != "boom" {
		t.Fatalf("unexpected error field: %v", fields["error"])
	}
	if _, ok := fields["dangling"]; !ok {
		t.Fatalf("expected dangling key to be kept with nil value")
	}
}

func TestLogger_NilReceiverFallsBackToDefault(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetDefault(FromZap(zap.New(core)))
	t.Cleanup(func() { SetDefault(nil) })

	var logger *Logger
	logger.Info("hello")

	if logs.Len() != 1 {
		t.Fatalf("expected default logger to receive entry, got %d", logs.Len())
	}
}

func TestLogger_MasksSensitiveFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core))

	logger.Info("invite sent",
		"parent_email", "jordan.parent@example.com",
		"to", "not-an-address",
		"token", "0a1b2c",
		"athlete_id", "ath-1",
	)

	fields := logs.All()[0].ContextMap()
	tests := map[string]any{
		"parent_email": "j***@example.com",
		"to":           "[redacted]",
		"token":        "[redacted]",
		"athlete_id":   "ath-1",
	}
	for key, want := range tests {
		if fields[key] != want {
			t.Fatalf("%s = %v, want %v", key, fields[key], want)
		}
	}
}
