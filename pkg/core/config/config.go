package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the complete application configuration
type Config struct {
	General   GeneralConfig   `toml:"general"`
	Server    ServerConfig    `toml:"server"`
	Exercises ExercisesConfig `toml:"exercises"`
	History   HistoryConfig   `toml:"history"`
	Cache     CacheConfig     `toml:"cache"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name        string `toml:"name"`
	Environment string `toml:"environment"`
	DataDir     string `toml:"data_dir"`
	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"`
}

// ServerConfig holds gRPC and HTTP listener settings
type ServerConfig struct {
	Host            string   `toml:"host"`
	GRPCPort        int      `toml:"grpc_port"`
	HTTPPort        int      `toml:"http_port"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// ExercisesConfig holds exercise definition settings
type ExercisesConfig struct {
	Dir             string `toml:"dir"`
	Watch           bool   `toml:"watch"`
	DefaultExercise string `toml:"default_exercise"`
}

// HistoryConfig holds evaluation history settings
type HistoryConfig struct {
	Enabled       bool   `toml:"enabled"`
	Path          string `toml:"path"`
	RetentionDays int    `toml:"retention_days"`
}

// CacheConfig holds evaluation cache settings
type CacheConfig struct {
	MaxItems int      `toml:"max_items"`
	TTL      Duration `toml:"ttl"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with all defaults applied. It is used
// when no config file exists, e.g. for one-shot CLI evaluation.
func Default() *Config {
	cfg := &Config{History: HistoryConfig{Enabled: true}}
	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	return cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// history.enabled defaults to true, so an absent key must not read as false
	if !meta.IsDefined("history", "enabled") {
		cfg.History.Enabled = true
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration from the VENN_CONFIG environment variable
func LoadFromEnv() (*Config, error) {
	path := FindConfigFile()
	if path == "" {
		return nil, fmt.Errorf("no config file found, set VENN_CONFIG or create configs/config.toml")
	}

	return Load(path)
}

// FindConfigFile returns VENN_CONFIG or the first existing default location
func FindConfigFile() string {
	if path := os.Getenv("VENN_CONFIG"); path != "" {
		return path
	}

	defaultPaths := []string{
		"./configs/config.toml",
		"./config.toml",
		filepath.Join(os.Getenv("HOME"), ".config/venn/config.toml"),
	}
	for _, p := range defaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "venn"
	}
	if c.General.Environment == "" {
		c.General.Environment = "development"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "json"
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = 9310
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8310
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 15 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 30 * time.Second
	}
	if c.Server.ShutdownTimeout.Duration == 0 {
		c.Server.ShutdownTimeout.Duration = 10 * time.Second
	}

	// Exercises
	if c.Exercises.Dir == "" {
		c.Exercises.Dir = "./exercises"
	}
	if c.Exercises.DefaultExercise == "" {
		c.Exercises.DefaultExercise = "reference"
	}

	// History
	if c.History.Path == "" {
		c.History.Path = filepath.Join(c.General.DataDir, "history.db")
	}
	if c.History.RetentionDays == 0 {
		c.History.RetentionDays = 90
	}

	// Cache
	if c.Cache.MaxItems == 0 {
		c.Cache.MaxItems = 1024
	}
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = 10 * time.Minute
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.Exercises.Dir = os.ExpandEnv(c.Exercises.Dir)
	c.History.Path = os.ExpandEnv(c.History.Path)
}

// applyEnvOverrides lets VENN_* variables win over file values
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("VENN_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("VENN_GRPC_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.GRPCPort = port
		}
	}
	if v := os.Getenv("VENN_HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.HTTPPort = port
		}
	}
	if v := os.Getenv("VENN_LOG_LEVEL"); v != "" {
		c.General.LogLevel = v
	}
}

// Validate checks value ranges after defaults have been applied
func (c *Config) Validate() error {
	if c.Server.GRPCPort < 1 || c.Server.GRPCPort > 65535 {
		return fmt.Errorf("invalid server.grpc_port: %d", c.Server.GRPCPort)
	}
	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid server.http_port: %d", c.Server.HTTPPort)
	}
	if c.Server.GRPCPort == c.Server.HTTPPort {
		return fmt.Errorf("server.grpc_port and server.http_port must differ (both %d)", c.Server.GRPCPort)
	}
	if c.Cache.MaxItems < 0 {
		return fmt.Errorf("invalid cache.max_items: %d", c.Cache.MaxItems)
	}
	if c.History.RetentionDays < 0 {
		return fmt.Errorf("invalid history.retention_days: %d", c.History.RetentionDays)
	}
	return nil
}

// GRPCAddress returns the gRPC listen address
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}

// HTTPAddress returns the HTTP listen address
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}
