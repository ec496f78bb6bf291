// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/woozymasta/zipaura"
	"github.com/woozymasta/zipaura/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "zipaura.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		config.EnvConfigPath,
		"ZIPAURA_LOG_LEVEL",
		"ZIPAURA_LOG_FORMAT",
		"ZIPAURA_COMPRESSION",
		"ZIPAURA_WORKERS",
		"ZIPAURA_BACKUP_KEEP",
	} {
		t.Setenv(key, "")
	}
}

//nolint:paralleltest // can't use .Parallel() with .Setenv()
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)

	opts := cfg.PackOptions()
	assert.Equal(t, zipaura.MethodDeflate, opts.Method)
	assert.Len(t, opts.Store, len(config.DefaultStorePatterns))
}

//nolint:paralleltest // can't use .Parallel() with .Setenv()
func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
log_level: debug
log_format: json
compression: zstd
compression_level: 9
store: ["*.bin", "!keep.bin"]
extract_workers: 4
extract_file_mode: overwrite_smart
backup_keep: 2
`)

	t.Setenv("ZIPAURA_COMPRESSION", "store")
	t.Setenv("ZIPAURA_WORKERS", "8")
	t.Setenv("ZIPAURA_BACKUP_KEEP", "not-a-number")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "store", cfg.Compression)
	assert.Equal(t, 9, cfg.CompressionLevel)
	assert.Equal(t, 8, cfg.ExtractWorkers)
	assert.Equal(t, 2, cfg.BackupKeep, "invalid numbers in env keep file value")

	logger := zap.NewNop()
	edit := cfg.EditOptions(logger)
	assert.Equal(t, zipaura.MethodStore, edit.PackOptions.Method)
	assert.Equal(t, 9, edit.PackOptions.Level)
	assert.Equal(t, 2, edit.BackupKeep)
	require.Len(t, edit.PackOptions.Store, 2)
	assert.Equal(t, "keep.bin", edit.PackOptions.Store[1].Pattern)

	extract := cfg.ExtractOptions(logger)
	assert.Equal(t, zipaura.ExtractFileModeOverwriteSmart, extract.FileMode)
	assert.Equal(t, 8, extract.MaxWorkers)

	session := cfg.SessionOptions(logger, "secret")
	assert.Equal(t, "secret", session.Password)
	assert.Equal(t, 2, session.Edit.BackupKeep)

	assert.Equal(t, "debug", cfg.Logging().Level)
}

//nolint:paralleltest // can't use .Parallel() with .Setenv()
func TestLoad_PathFromEnv(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "backup_keep: 3\n")
	t.Setenv(config.EnvConfigPath, path)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.BackupKeep)
}

//nolint:paralleltest // can't use .Parallel() with .Setenv()
func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = config.Load(writeConfig(t, "unknown_key: 1\n"))
	assert.ErrorContains(t, err, "parse config")

	_, err = config.Load(writeConfig(t, "compression: lzma\nextract_workers: -1\n"))
	require.ErrorIs(t, err, zipaura.ErrUnknownMethod)
	assert.ErrorContains(t, err, "extract_workers")

	_, err = config.Load(writeConfig(t, "extract_file_mode: append\n"))
	assert.ErrorContains(t, err, "extract_file_mode")
}
