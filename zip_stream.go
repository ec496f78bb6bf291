// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/krolaw/zipstream"
	"go.uber.org/zap"
)

// ListZipStream lists ZIP entries from a non-seekable stream (pipe, stdin, HTTP body)
// by walking local file headers. Every payload is read through to reach the next header,
// so Size is counted from decoded bytes when the local header does not carry it.
func ListZipStream(r io.Reader) ([]Entry, error) {
	if r == nil {
		return nil, ErrNilReader
	}

	zr := zipstream.NewReader(r)

	var entries []Entry
	for {
		fh, err := zr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ZIP stream header: %w", err)
		}

		path := NormalizePath(fh.Name)
		written, err := io.Copy(io.Discard, zr)
		if err != nil {
			return nil, fmt.Errorf("read ZIP stream entry %s: %w", fh.Name, err)
		}

		if path == "" {
			continue
		}

		size := int64(fh.UncompressedSize64)
		if size == 0 {
			size = written
		}

		entries = append(entries, Entry{
			Path:           path,
			Size:           size,
			CompressedSize: int64(fh.CompressedSize64),
			Modified:       fh.Modified,
			Method:         zipMethodName(fh.Method),
			IsDir:          strings.HasSuffix(fh.Name, "/"),
		})
	}

	return dedupeEntries(entries, zap.NewNop()), nil
}
