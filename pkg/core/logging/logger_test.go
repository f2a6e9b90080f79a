package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{Level(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{" Error ", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		ServiceName: "venn-test",
		Level:       "info",
		Format:      "json",
		Output:      &buf,
	})

	logger.Info("Expression evaluated", "exercise", "reference", "elements", 4)
	_ = logger.Sync()

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	entry := entries[0]
	if entry["message"] != "Expression evaluated" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["service"] != "venn-test" {
		t.Errorf("service = %v", entry["service"])
	}
	if entry["exercise"] != "reference" {
		t.Errorf("exercise = %v", entry["exercise"])
	}
	if entry["elements"] != float64(4) {
		t.Errorf("elements = %v", entry["elements"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("timestamp missing")
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v", entry["level"])
	}
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{ServiceName: "test", Level: "warn", Output: &buf})

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")
	_ = logger.Sync()

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries at warn level, got %d", len(entries))
	}
	if entries[0]["message"] != "warn" || entries[1]["message"] != "error" {
		t.Errorf("unexpected entries: %v", entries)
	}
}

func TestLogger_WithLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{ServiceName: "test", Level: "error", Output: &buf})

	logger.Debug("dropped")
	logger.WithLevel(LevelDebug).Debug("kept")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 || entries[0]["message"] != "kept" {
		t.Errorf("unexpected entries: %v", entries)
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{ServiceName: "test", Output: &buf}).With("request_id", "abc")

	logger.Info("handled")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0]["request_id"] != "abc" {
		t.Errorf("request_id = %v", entries[0]["request_id"])
	}
	if logger.Name() != "test" {
		t.Errorf("Name() = %q", logger.Name())
	}
}

func TestNewLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{ServiceName: "test", Format: "text", Output: &buf})

	logger.Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "hello") {
		t.Errorf("unexpected text output: %q", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("text format should not produce JSON: %q", out)
	}
}

func TestNew_UsesConfiguredDefaults(t *testing.T) {
	var buf bytes.Buffer
	Configure("debug", "json", &buf)
	t.Cleanup(func() { Configure("info", "json", os.Stderr) })

	logger := New("component")
	if logger.Name() != "component" {
		t.Errorf("Name() = %q", logger.Name())
	}

	logger.Debug("visible")
	entries := decodeLines(t, &buf)
	if len(entries) != 1 || entries[0]["service"] != "component" {
		t.Errorf("unexpected entries: %v", entries)
	}
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	logger.Info("nothing", "key", 1)
	if logger.Zap() == nil {
		t.Error("Zap() should not be nil")
	}
}
