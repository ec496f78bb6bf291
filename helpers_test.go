// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"bytes"
	"context"
	"io"
	"maps"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/woozymasta/pathrules"
)

// testModTime is a fixed timestamp with ZIP (2 second DOS) precision.
var testModTime = time.Date(2024, time.March, 14, 15, 9, 26, 0, time.UTC)

// includeRules builds include rules from raw patterns for concise test setup.
func includeRules(patterns ...string) []pathrules.Rule {
	rules := make([]pathrules.Rule, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		rules = append(rules, pathrules.Rule{
			Action:  pathrules.ActionInclude,
			Pattern: pattern,
		})
	}

	return rules
}

// bytesInput builds in-memory input with fixed timestamp.
func bytesInput(path string, payload []byte) Input {
	local := append([]byte(nil), payload...)
	return Input{
		Path:     path,
		ModTime:  testModTime,
		SizeHint: int64(len(local)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(local)), nil
		},
	}
}

// createTestZip packs files in sorted path order.
func createTestZip(path string, files map[string][]byte, opts PackOptions) error {
	inputs := make([]Input, 0, len(files))
	for _, filePath := range slices.Sorted(maps.Keys(files)) {
		inputs = append(inputs, bytesInput(filePath, files[filePath]))
	}

	_, err := PackFile(context.Background(), path, inputs, opts)
	return err
}

// mustCreateTestZip is createTestZip failing the test on error.
func mustCreateTestZip(t *testing.T, path string, files map[string][]byte) {
	t.Helper()

	if err := createTestZip(path, files, PackOptions{}); err != nil {
		t.Fatalf("createTestZip: %v", err)
	}
}

func findEntry(entries []Entry, path string) *Entry {
	for i := range entries {
		if entries[i].Path == path {
			return &entries[i]
		}
	}

	return nil
}

func entryPaths(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Path)
	}

	return out
}

func readEntryFromFile(path string, entryPath string) ([]byte, error) {
	a, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = a.Close() }()

	return a.ReadEntry(entryPath)
}
