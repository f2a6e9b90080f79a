package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"milliseconds", "100ms", 100 * time.Millisecond, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	d := Duration{5 * time.Minute}
	result, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(result) != "5m0s" {
		t.Errorf("MarshalText() = %v, want 5m0s", string(result))
	}
}

func TestConfig_applyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.General.Name != "venn" {
		t.Errorf("General.Name = %v, want venn", cfg.General.Name)
	}
	if cfg.General.LogLevel != "info" {
		t.Errorf("General.LogLevel = %v, want info", cfg.General.LogLevel)
	}
	if cfg.General.LogFormat != "json" {
		t.Errorf("General.LogFormat = %v, want json", cfg.General.LogFormat)
	}
	if cfg.Server.GRPCPort != 9310 {
		t.Errorf("Server.GRPCPort = %v, want 9310", cfg.Server.GRPCPort)
	}
	if cfg.Server.HTTPPort != 8310 {
		t.Errorf("Server.HTTPPort = %v, want 8310", cfg.Server.HTTPPort)
	}
	if cfg.Server.ShutdownTimeout.Duration != 10*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout.Duration)
	}
	if cfg.Exercises.DefaultExercise != "reference" {
		t.Errorf("Exercises.DefaultExercise = %v, want reference", cfg.Exercises.DefaultExercise)
	}
	if cfg.History.Path != filepath.Join("./data", "history.db") {
		t.Errorf("History.Path = %v", cfg.History.Path)
	}
	if cfg.History.RetentionDays != 90 {
		t.Errorf("History.RetentionDays = %v, want 90", cfg.History.RetentionDays)
	}
	if cfg.Cache.MaxItems != 1024 {
		t.Errorf("Cache.MaxItems = %v, want 1024", cfg.Cache.MaxItems)
	}
	if cfg.Cache.TTL.Duration != 10*time.Minute {
		t.Errorf("Cache.TTL = %v, want 10m", cfg.Cache.TTL.Duration)
	}
}

func TestConfig_Addresses(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if got := cfg.GRPCAddress(); got != "0.0.0.0:9310" {
		t.Errorf("GRPCAddress() = %v", got)
	}
	if got := cfg.HTTPAddress(); got != "0.0.0.0:8310" {
		t.Errorf("HTTPAddress() = %v", got)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.toml")
	if err == nil {
		t.Error("Load() expected error for non-existent file")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
[general]
name = "venn-test"
data_dir = "/tmp/venn"

[server]
host = "127.0.0.1"
grpc_port = 19310
read_timeout = "5s"

[exercises]
dir = "./testdata"
watch = true

[cache]
ttl = "1m"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.Name != "venn-test" {
		t.Errorf("General.Name = %v, want venn-test", cfg.General.Name)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %v", cfg.Server.Host)
	}
	if cfg.Server.GRPCPort != 19310 {
		t.Errorf("Server.GRPCPort = %v, want 19310", cfg.Server.GRPCPort)
	}
	if cfg.Server.ReadTimeout.Duration != 5*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout.Duration)
	}
	if !cfg.Exercises.Watch {
		t.Error("Exercises.Watch should be true")
	}
	if cfg.Cache.TTL.Duration != time.Minute {
		t.Errorf("Cache.TTL = %v, want 1m", cfg.Cache.TTL.Duration)
	}

	// Defaults for missing values
	if cfg.Server.HTTPPort != 8310 {
		t.Errorf("Server.HTTPPort = %v, want 8310 (default)", cfg.Server.HTTPPort)
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled should default to true")
	}
	if cfg.History.Path != filepath.Join("/tmp/venn", "history.db") {
		t.Errorf("History.Path = %v", cfg.History.Path)
	}
}

func TestLoad_HistoryDisabled(t *testing.T) {
	path := writeConfig(t, "[history]\nenabled = false\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled should be false")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"port out of range", "[server]\ngrpc_port = 70000\n"},
		{"same ports", "[server]\ngrpc_port = 9000\nhttp_port = 9000\n"},
		{"bad duration", "[server]\nread_timeout = \"soon\"\n"},
		{"negative retention", "[history]\nretention_days = -1\n"},
		{"malformed toml", "[server\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load() expected error")
			}
		})
	}
}

func TestConfig_expandEnvVars(t *testing.T) {
	t.Setenv("VENN_TEST_ROOT", "/srv/venn")

	cfg := &Config{
		Exercises: ExercisesConfig{Dir: "$VENN_TEST_ROOT/exercises"},
		History:   HistoryConfig{Path: "${VENN_TEST_ROOT}/history.db"},
	}
	cfg.expandEnvVars()

	if cfg.Exercises.Dir != "/srv/venn/exercises" {
		t.Errorf("Exercises.Dir = %v", cfg.Exercises.Dir)
	}
	if cfg.History.Path != "/srv/venn/history.db" {
		t.Errorf("History.Path = %v", cfg.History.Path)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("VENN_HOST", "10.0.0.1")
	t.Setenv("VENN_GRPC_PORT", "7000")
	t.Setenv("VENN_HTTP_PORT", "not-a-number")
	t.Setenv("VENN_LOG_LEVEL", "debug")

	cfg := Default()

	if cfg.Server.Host != "10.0.0.1" {
		t.Errorf("Server.Host = %v", cfg.Server.Host)
	}
	if cfg.Server.GRPCPort != 7000 {
		t.Errorf("Server.GRPCPort = %v, want 7000", cfg.Server.GRPCPort)
	}
	if cfg.Server.HTTPPort != 8310 {
		t.Errorf("Server.HTTPPort = %v, want default 8310 for invalid override", cfg.Server.HTTPPort)
	}
	if cfg.General.LogLevel != "debug" {
		t.Errorf("General.LogLevel = %v, want debug", cfg.General.LogLevel)
	}
}

func TestLoadFromEnv_ExplicitPath(t *testing.T) {
	path := writeConfig(t, "[general]\nname = \"from-env\"\n")
	t.Setenv("VENN_CONFIG", path)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.General.Name != "from-env" {
		t.Errorf("General.Name = %v, want from-env", cfg.General.Name)
	}
}

func TestLoadFromEnv_NoConfigFound(t *testing.T) {
	t.Setenv("VENN_CONFIG", "")
	t.Setenv("HOME", t.TempDir())

	originalWd, _ := os.Getwd()
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	defer os.Chdir(originalWd)

	_, err := LoadFromEnv()
	if err == nil {
		t.Error("LoadFromEnv() expected error when no config found")
	}
}
