// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

// Package config loads command line settings from a YAML file and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/woozymasta/zipaura"
	"github.com/woozymasta/zipaura/internal/logging"
)

// EnvConfigPath names the variable pointing at the config file.
const EnvConfigPath = "ZIPAURA_CONFIG"

// DefaultStorePatterns are stored without compression; recompressing them gains nothing.
var DefaultStorePatterns = []string{
	"*.zip", "*.rar", "*.7z", "*.gz", "*.xz", "*.zst", "*.bz2",
	"*.jpg", "*.jpeg", "*.png", "*.webp", "*.gif",
	"*.mp3", "*.ogg", "*.mp4", "*.mkv", "*.webm",
}

// Config holds command line settings.
type Config struct {
	LogLevel         string   `yaml:"log_level,omitempty"`
	LogFormat        string   `yaml:"log_format,omitempty"`
	Compression      string   `yaml:"compression,omitempty"`
	ExtractFileMode  string   `yaml:"extract_file_mode,omitempty"`
	Store            []string `yaml:"store,omitempty"`
	CompressionLevel int      `yaml:"compression_level,omitempty"`
	ExtractWorkers   int      `yaml:"extract_workers,omitempty"`
	BackupKeep       int      `yaml:"backup_keep,omitempty"`
}

// Default returns built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:        "warn",
		LogFormat:       "console",
		Compression:     string(zipaura.MethodDeflate),
		ExtractFileMode: string(zipaura.ExtractFileModeAuto),
		Store:           append([]string(nil), DefaultStorePatterns...),
		BackupKeep:      0,
	}
}

// Load reads defaults, then the YAML file (path, or $ZIPAURA_CONFIG when path
// is empty), then environment overrides. A missing file named only by the
// environment is an error, as is a missing explicit path.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile merges YAML file into cfg; unknown keys are rejected.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	return nil
}

// applyEnv overrides settings from ZIPAURA_* variables.
func (c *Config) applyEnv() {
	c.LogLevel = envOr("ZIPAURA_LOG_LEVEL", c.LogLevel)
	c.LogFormat = envOr("ZIPAURA_LOG_FORMAT", c.LogFormat)
	c.Compression = envOr("ZIPAURA_COMPRESSION", c.Compression)
	c.ExtractWorkers = envInt("ZIPAURA_WORKERS", c.ExtractWorkers)
	c.BackupKeep = envInt("ZIPAURA_BACKUP_KEEP", c.BackupKeep)
}

// Validate checks values that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	var errs []error

	if _, err := zipaura.ParseMethod(c.Compression); err != nil {
		errs = append(errs, fmt.Errorf("compression: %w", err))
	}

	switch zipaura.ExtractFileMode(c.ExtractFileMode) {
	case "", zipaura.ExtractFileModeAuto, zipaura.ExtractFileModeOverwriteSmart,
		zipaura.ExtractFileModeTruncate, zipaura.ExtractFileModeCreateOnly:
	default:
		errs = append(errs, fmt.Errorf("extract_file_mode: unknown mode %q", c.ExtractFileMode))
	}

	if c.ExtractWorkers < 0 {
		errs = append(errs, fmt.Errorf("extract_workers: must not be negative, got %d", c.ExtractWorkers))
	}

	if c.BackupKeep < 0 {
		errs = append(errs, fmt.Errorf("backup_keep: must not be negative, got %d", c.BackupKeep))
	}

	return errors.Join(errs...)
}

// Logging returns logger settings.
func (c *Config) Logging() logging.Config {
	return logging.Config{Level: c.LogLevel, Format: c.LogFormat}
}

// PackOptions returns writer settings for new entries.
func (c *Config) PackOptions() zipaura.PackOptions {
	method, err := zipaura.ParseMethod(c.Compression)
	if err != nil {
		method = zipaura.MethodDeflate
	}

	return zipaura.PackOptions{
		Method: method,
		Level:  c.CompressionLevel,
		Store:  zipaura.ParseRules(c.Store...),
	}
}

// EditOptions returns editor settings.
func (c *Config) EditOptions(logger *zap.Logger) zipaura.EditOptions {
	return zipaura.EditOptions{
		Logger:      logger,
		PackOptions: c.PackOptions(),
		BackupKeep:  c.BackupKeep,
	}
}

// ExtractOptions returns extraction settings.
func (c *Config) ExtractOptions(logger *zap.Logger) zipaura.ExtractOptions {
	return zipaura.ExtractOptions{
		Logger:     logger,
		FileMode:   zipaura.ExtractFileMode(c.ExtractFileMode),
		MaxWorkers: c.ExtractWorkers,
	}
}

// SessionOptions returns interactive session settings.
func (c *Config) SessionOptions(logger *zap.Logger, password string) zipaura.SessionOptions {
	return zipaura.SessionOptions{
		Logger:   logger,
		Password: password,
		Edit:     c.EditOptions(logger),
		Extract:  c.ExtractOptions(logger),
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
