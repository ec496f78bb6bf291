// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

// Package logging builds the command line zap logger.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	OutputPath string // stderr, stdout, or file path
}

// New builds a logger. Unknown levels fall back to warn so normal command
// output is not mixed with diagnostics.
func New(cfg Config) (*zap.Logger, error) {
	level := ParseLevel(cfg.Level)

	var config zap.Config
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "console":
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		config.Development = false
	case "json":
		config = zap.NewProductionConfig()
		config.Sampling = nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	config.Level = zap.NewAtomicLevelAt(level)
	config.DisableStacktrace = true

	output := cfg.OutputPath
	if output == "" {
		output = "stderr"
	}
	config.OutputPaths = []string{output}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger, nil
}

// ParseLevel converts level name to zap level; unknown names yield warn.
func ParseLevel(raw string) zapcore.Level {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return zapcore.WarnLevel
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return zapcore.WarnLevel
	}

	return level
}
