// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"context"
	"fmt"
	"io"
	"time"
)

// VerifyFailure is one entry that could not be fully decoded.
type VerifyFailure struct {
	// Err is decode or checksum error.
	Err error `json:"-" yaml:"-"`
	// Path is entry path.
	Path string `json:"path" yaml:"path"`
	// Message is Err text for serialized reports.
	Message string `json:"message" yaml:"message"`
}

// VerifyReport summarizes an integrity check.
type VerifyReport struct {
	// Failures lists broken entries in archive order.
	Failures []VerifyFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
	// Checked is number of file entries read.
	Checked int `json:"checked" yaml:"checked"`
	// Bytes is total decompressed bytes read.
	Bytes int64 `json:"bytes" yaml:"bytes"`
	// Duration is time spent.
	Duration time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// OK reports whether every entry decoded cleanly.
func (r *VerifyReport) OK() bool {
	return r != nil && len(r.Failures) == 0
}

// Err returns ErrVerifyFailed wrapping the first failure, or nil.
func (r *VerifyReport) Err() error {
	if r.OK() {
		return nil
	}

	first := r.Failures[0]
	return fmt.Errorf("%w: %d broken entries, first %s: %w", ErrVerifyFailed, len(r.Failures), first.Path, first.Err)
}

// Verify reads every file entry to the end so container checksums are checked.
// Per-entry failures are collected in the report; the returned error is
// reserved for failures that stop the whole run (cancellation, unreadable archive).
func Verify(ctx context.Context, a Archive) (*VerifyReport, error) {
	if a == nil {
		return nil, ErrNilReader
	}

	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	report := &VerifyReport{}
	buf := make([]byte, extractCopyBufferSize)

	record := func(entry Entry, n int64, err error) {
		report.Checked++
		report.Bytes += n
		if err != nil {
			report.Failures = append(report.Failures, VerifyFailure{Path: entry.Path, Err: err, Message: err.Error()})
		}
	}

	if seq, ok := a.(sequentialArchive); ok {
		err := seq.walk(ctx, func(entry Entry, r io.Reader) error {
			if entry.IsDir {
				return nil
			}

			n, err := io.CopyBuffer(io.Discard, r, buf)
			record(entry, n, err)
			return nil
		})
		if err != nil {
			return nil, err
		}

		report.Duration = time.Since(start)
		return report, nil
	}

	for _, entry := range a.Entries() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if entry.IsDir {
			continue
		}

		n, err := verifyEntry(a, entry, buf)
		record(entry, n, err)
	}

	report.Duration = time.Since(start)
	return report, nil
}

// verifyEntry drains one entry stream.
func verifyEntry(a Archive, entry Entry, buf []byte) (int64, error) {
	rc, err := a.OpenEntry(entry.Path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = rc.Close() }()

	n, err := io.CopyBuffer(io.Discard, rc, buf)
	if err != nil {
		return n, err
	}

	if entry.Size > 0 && n != entry.Size {
		return n, fmt.Errorf("size mismatch: read %d, expected %d", n, entry.Size)
	}

	return n, nil
}
