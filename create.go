// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Create writes an empty ZIP archive and returns its final path.
// A ".zip" extension is appended when the name lacks it.
func Create(path string, opts CreateOptions) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("%w: empty archive path", ErrInvalidEntryPath)
	}

	if !strings.HasSuffix(strings.ToLower(path), ".zip") {
		path += ".zip"
	}

	flags := os.O_RDWR | os.O_CREATE | os.O_EXCL
	if opts.Overwrite {
		flags = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrArchiveExists, path)
		}

		return "", fmt.Errorf("create archive file: %w", err)
	}

	zw := zip.NewWriter(f)
	if err := zw.Close(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write empty ZIP directory: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close archive file: %w", err)
	}

	return path, nil
}
