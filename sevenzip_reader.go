// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"fmt"
	"io"

	"github.com/bodgit/sevenzip"
)

// sevenZipArchive reads 7z archives through bodgit/sevenzip.
// 7z packs files into solid folders, so per-entry compressed size is not reported.
type sevenZipArchive struct {
	archiveBase
	rc    *sevenzip.ReadCloser
	files map[string]*sevenzip.File
}

// openSevenZip opens 7z file and snapshots its header.
func openSevenZip(path string, opts OpenOptions) (*sevenZipArchive, error) {
	var (
		rc  *sevenzip.ReadCloser
		err error
	)
	if opts.Password != "" {
		rc, err = sevenzip.OpenReaderWithPassword(path, opts.Password)
	} else {
		rc, err = sevenzip.OpenReader(path)
	}
	if err != nil {
		return nil, fmt.Errorf("open 7z: %w", err)
	}

	entries := make([]Entry, 0, len(rc.File))
	files := make(map[string]*sevenzip.File, len(rc.File))
	for _, f := range rc.File {
		entryPath := NormalizePath(f.Name)
		if entryPath == "" {
			continue
		}

		entries = append(entries, Entry{
			Path:     entryPath,
			Size:     int64(f.UncompressedSize), //nolint:gosec // sizes never exceed int64
			Modified: f.Modified,
			Method:   "7z",
			IsDir:    f.FileInfo().IsDir(),
		})
		files[pathKey(entryPath)] = f
	}

	return &sevenZipArchive{
		archiveBase: newArchiveBase(path, FormatSevenZip, dedupeEntries(entries, opts.Logger), opts.Logger),
		rc:          rc,
		files:       files,
	}, nil
}

// OpenEntry opens named file entry for reading.
func (a *sevenZipArchive) OpenEntry(name string) (io.ReadCloser, error) {
	if a == nil || a.rc == nil {
		return nil, ErrNilReader
	}

	entry, err := a.lookupFile(name)
	if err != nil {
		return nil, err
	}

	rc, err := a.files[pathKey(entry.Path)].Open()
	if err != nil {
		return nil, fmt.Errorf("open entry %s: %w", entry.Path, err)
	}

	return rc, nil
}

// ReadEntry reads full content of the named entry.
func (a *sevenZipArchive) ReadEntry(name string) ([]byte, error) {
	return readAllEntry(a.OpenEntry, name)
}

// Close closes the underlying file.
func (a *sevenZipArchive) Close() error {
	if a == nil || a.rc == nil {
		return nil
	}

	if !a.markClosed() {
		return nil
	}

	return a.rc.Close()
}
