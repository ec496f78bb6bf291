// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Archive is read access to one opened archive, independent of container format.
type Archive interface {
	// Path returns archive file path as passed to Open.
	Path() string
	// Format returns detected container format.
	Format() Format
	// Entries returns a copy of the namelist snapshot taken at open time.
	Entries() []Entry
	// OpenEntry opens named file entry for reading decompressed content.
	OpenEntry(name string) (io.ReadCloser, error)
	// ReadEntry reads full decompressed content of the named file entry.
	ReadEntry(name string) ([]byte, error)
	// Close releases underlying files.
	Close() error
}

// sequentialArchive is implemented by formats that can only be decoded front to back.
// Extraction and verification use one walk instead of per-entry opens.
type sequentialArchive interface {
	Archive
	walk(ctx context.Context, fn func(entry Entry, r io.Reader) error) error
}

// Open detects archive format and opens it for reading.
func Open(path string) (Archive, error) {
	return OpenWithOptions(path, OpenOptions{})
}

// OpenWithOptions opens archive using explicit options.
func OpenWithOptions(path string, opts OpenOptions) (Archive, error) {
	opts.applyDefaults()

	format := opts.Format
	if format == "" {
		detected, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}

		format = detected
	}

	opts.Logger.Debug("open archive", zap.String("path", path), zap.String("format", string(format)))

	switch format {
	case FormatZIP:
		return openZip(path, opts)
	case FormatRAR:
		return openRAR(path, opts)
	case FormatSevenZip:
		return openSevenZip(path, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// archiveBase holds state shared by all format adapters.
type archiveBase struct {
	logger  *zap.Logger
	path    string
	format  Format
	entries []Entry
	// index maps normalized path to position in entries.
	index map[string]int
	// mu guards closed state and close operation.
	mu     sync.Mutex
	closed bool
}

// newArchiveBase builds lookup index over entry snapshot.
func newArchiveBase(path string, format Format, entries []Entry, logger *zap.Logger) archiveBase {
	index := make(map[string]int, len(entries))
	for i := range entries {
		index[pathKey(entries[i].Path)] = i
	}

	return archiveBase{
		logger:  logger,
		path:    path,
		format:  format,
		entries: entries,
		index:   index,
	}
}

// Path returns archive file path.
func (b *archiveBase) Path() string {
	return b.path
}

// Format returns archive container format.
func (b *archiveBase) Format() Format {
	return b.format
}

// Entries returns a copy of the entry snapshot.
func (b *archiveBase) Entries() []Entry {
	entries := make([]Entry, len(b.entries))
	copy(entries, b.entries)
	return entries
}

// isClosed reports closed state under lock.
func (b *archiveBase) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.closed
}

// markClosed flips closed state and reports whether this call closed it.
func (b *archiveBase) markClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false
	}

	b.closed = true
	return true
}

// lookupFile resolves a file entry by name for reading.
func (b *archiveBase) lookupFile(name string) (Entry, error) {
	if b.isClosed() {
		return Entry{}, ErrClosed
	}

	idx, ok := b.index[pathKey(name)]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}

	entry := b.entries[idx]
	if entry.IsDir {
		return Entry{}, fmt.Errorf("%w: %s is a folder", ErrEntryNotFound, name)
	}

	return entry, nil
}

// readAllEntry reads full content through an opener.
func readAllEntry(open func(string) (io.ReadCloser, error), name string) ([]byte, error) {
	rc, err := open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	return io.ReadAll(rc)
}

// dedupeEntries keeps the last record for each path, preserving first-seen order.
// Appending writers may leave several records with one name; readers resolve to the last.
func dedupeEntries(entries []Entry, logger *zap.Logger) []Entry {
	pos := make(map[string]int, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		key := pathKey(entry.Path)
		if i, exists := pos[key]; exists {
			logger.Debug("duplicate entry name, keeping last", zap.String("path", entry.Path))
			out[i] = entry
			continue
		}

		pos[key] = len(out)
		out = append(out, entry)
	}

	return out
}
