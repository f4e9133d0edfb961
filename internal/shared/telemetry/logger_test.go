package telemetry

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInfoAndErrorCarryFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := SetLogger(zap.New(core))
	defer restore()

	Info("analysis.completed", map[string]any{"analysis_id": int64(7), "ats_score": 83})
	Error("analysis.failed", map[string]any{"kind": "integration"})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "analysis.completed" || entries[0].Level != zapcore.InfoLevel {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	ctx := entries[0].ContextMap()
	if ctx["analysis_id"] != int64(7) {
		t.Fatalf("expected analysis_id field, got %v", ctx)
	}
	if entries[1].Level != zapcore.ErrorLevel || entries[1].ContextMap()["kind"] != "integration" {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	restore := SetLogger(Logger())
	defer restore()

	if err := Init(Options{Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if err := Init(Options{Level: "DEBUG"}); err != nil {
		t.Fatalf("Init debug: %v", err)
	}
	if !Logger().Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug level enabled")
	}
}

func TestInitWithFile(t *testing.T) {
	restore := SetLogger(Logger())
	defer restore()

	path := t.TempDir() + "/app.log"
	if err := Init(Options{File: path}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Info("file.check", nil)
	Sync()
}
