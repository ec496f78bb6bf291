// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/javi11/rarlist"
	"github.com/nwaples/rardecode/v2"
	"go.uber.org/zap"
)

// rarArchive reads RAR archives (including multi-volume sets) through rardecode.
// RAR payloads are decoded strictly front to back, so every OpenEntry rescans the set.
type rarArchive struct {
	archiveBase
	opts []rardecode.Option
	// occurrences counts file headers per path key for names stored more than once.
	occurrences map[string]int
}

// rarVolumeFS exposes host filesystem to rarlist volume indexing.
type rarVolumeFS struct{}

// Stat returns file info for volume path.
func (rarVolumeFS) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

// Open opens volume path for header scanning.
func (rarVolumeFS) Open(path string) (fs.File, error) { return os.Open(path) }

// openRAR lists RAR entries and keeps options for later reads.
func openRAR(path string, opts OpenOptions) (*rarArchive, error) {
	var decodeOpts []rardecode.Option
	if opts.Password != "" {
		decodeOpts = append(decodeOpts, rardecode.Password(opts.Password))
	}

	entries, err := listRAR(path, decodeOpts)
	if err != nil {
		return nil, err
	}

	applyRARPackedSizes(entries, rarPackedSizes(path, opts.Logger))

	return &rarArchive{
		archiveBase: newArchiveBase(path, FormatRAR, dedupeEntries(entries, opts.Logger), opts.Logger),
		opts:        decodeOpts,
		occurrences: rarOccurrences(entries),
	}, nil
}

// rarOccurrences counts file headers per path, keeping only repeated names.
func rarOccurrences(entries []Entry) map[string]int {
	counts := make(map[string]int, len(entries))
	for _, entry := range entries {
		if !entry.IsDir {
			counts[pathKey(entry.Path)]++
		}
	}

	for key, n := range counts {
		if n < 2 {
			delete(counts, key)
		}
	}

	return counts
}

// effective reports whether the seen-th header stored under key is the last one.
func (a *rarArchive) effective(key string, seen int) bool {
	n, ok := a.occurrences[key]
	return !ok || seen >= n
}

// listRAR reads every file header of the volume set.
func listRAR(path string, decodeOpts []rardecode.Option) ([]Entry, error) {
	rc, err := rardecode.OpenReader(path, decodeOpts...)
	if errors.Is(err, rardecode.ErrNoSig) {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnsupportedFormat, path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("open RAR: %w", err)
	}
	defer func() { _ = rc.Close() }()

	var entries []Entry
	for {
		header, err := rc.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read RAR header: %w", err)
		}

		entryPath := NormalizePath(header.Name)
		if entryPath == "" {
			continue
		}

		entries = append(entries, rarHeaderEntry(header, entryPath))
	}

	return entries, nil
}

// rarHeaderEntry builds entry metadata from decoded file header.
func rarHeaderEntry(header *rardecode.FileHeader, path string) Entry {
	return Entry{
		Path:           path,
		Size:           header.UnPackedSize,
		CompressedSize: header.PackedSize,
		Modified:       header.ModificationTime,
		Method:         "rar",
		IsDir:          header.IsDir,
	}
}

// rarPackedSizes aggregates packed sizes of split files across all volumes.
// Indexing is best effort: encrypted headers or unknown layouts yield an empty map.
func rarPackedSizes(path string, logger *zap.Logger) map[string]int64 {
	volumes, err := rarlist.DiscoverVolumes(path)
	if err != nil {
		logger.Debug("discover RAR volumes", zap.String("path", path), zap.Error(err))
		return nil
	}

	index, err := rarlist.IndexVolumes(rarVolumeFS{}, volumes)
	if err != nil {
		logger.Debug("index RAR volumes", zap.String("path", path), zap.Error(err))
		return nil
	}

	files := rarlist.AggregateFiles(index)
	sizes := make(map[string]int64, len(files))
	for _, file := range files {
		sizes[pathKey(file.Name)] = file.TotalPackedSize
	}

	logger.Debug("indexed RAR volumes", zap.Int("volumes", len(volumes)), zap.Int("files", len(files)))
	return sizes
}

// applyRARPackedSizes replaces per-header packed sizes with volume totals when known.
func applyRARPackedSizes(entries []Entry, sizes map[string]int64) {
	if len(sizes) == 0 {
		return
	}

	for i := range entries {
		if entries[i].IsDir {
			continue
		}

		if total, ok := sizes[pathKey(entries[i].Path)]; ok && total > entries[i].CompressedSize {
			entries[i].CompressedSize = total
		}
	}
}

// OpenEntry scans the archive up to the named entry and returns its stream.
// A name stored several times resolves to its last header.
func (a *rarArchive) OpenEntry(name string) (io.ReadCloser, error) {
	if a == nil {
		return nil, ErrNilReader
	}

	entry, err := a.lookupFile(name)
	if err != nil {
		return nil, err
	}

	rc, err := rardecode.OpenReader(a.path, a.opts...)
	if err != nil {
		return nil, fmt.Errorf("open RAR: %w", err)
	}

	key := pathKey(entry.Path)
	seen := 0
	for {
		header, err := rc.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = rc.Close()
			return nil, fmt.Errorf("read RAR header: %w", err)
		}

		if header.IsDir || pathKey(header.Name) != key {
			continue
		}

		seen++
		if a.effective(key, seen) {
			return rc, nil
		}
	}

	_ = rc.Close()
	return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
}

// ReadEntry reads full content of the named entry.
func (a *rarArchive) ReadEntry(name string) ([]byte, error) {
	return readAllEntry(a.OpenEntry, name)
}

// walk decodes the archive once and hands every entry with its stream to fn.
// Earlier headers of repeated names are skipped.
func (a *rarArchive) walk(ctx context.Context, fn func(entry Entry, r io.Reader) error) error {
	if a.isClosed() {
		return ErrClosed
	}

	rc, err := rardecode.OpenReader(a.path, a.opts...)
	if err != nil {
		return fmt.Errorf("open RAR: %w", err)
	}
	defer func() { _ = rc.Close() }()

	seen := make(map[string]int, len(a.occurrences))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		header, err := rc.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read RAR header: %w", err)
		}

		entryPath := NormalizePath(header.Name)
		if entryPath == "" {
			continue
		}

		key := pathKey(entryPath)
		if !header.IsDir {
			seen[key]++
			if !a.effective(key, seen[key]) {
				continue
			}
		}

		entry := rarHeaderEntry(header, entryPath)
		if idx, ok := a.index[key]; ok {
			entry = a.entries[idx]
		}

		if err := fn(entry, rc); err != nil {
			return err
		}
	}
}

// Close marks archive closed; volumes are opened per operation.
func (a *rarArchive) Close() error {
	if a == nil {
		return nil
	}

	a.markClosed()
	return nil
}
