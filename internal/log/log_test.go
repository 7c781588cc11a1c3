package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_Text(t *testing.T) {
	t.Setenv("TURRETLAB_ENV", "")
	var buf bytes.Buffer
	l := New(&buf, slog.LevelWarn)
	l.Info("hidden")
	l.Warn("wrap started", "angle", 345.0)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message passed a warn-level logger")
	}
	if !strings.Contains(out, "wrap started") || !strings.Contains(out, "angle=345") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestNew_JSONInProduction(t *testing.T) {
	t.Setenv("TURRETLAB_ENV", "production")
	var buf bytes.Buffer
	New(&buf, slog.LevelInfo).Info("turn finished", "outcome", "settled")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("production output is not JSON: %v", err)
	}
	if rec["outcome"] != "settled" {
		t.Errorf("outcome = %v, want settled", rec["outcome"])
	}
}

func TestInit_ChangesLevel(t *testing.T) {
	Init("error")
	if level.Level() != slog.LevelError {
		t.Errorf("level = %v, want error", level.Level())
	}
	Init("debug")
	if level.Level() != slog.LevelDebug {
		t.Errorf("level = %v, want debug", level.Level())
	}
	if L() == nil || With("component", "test") == nil {
		t.Error("global logger not installed")
	}
}
