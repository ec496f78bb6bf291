// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

// ZIP compression method identifiers beyond store/deflate.
const (
	zipMethodBzip2 uint16 = 12
	zipMethodLZMA  uint16 = 14
	zipMethodXZ    uint16 = 95
	zipMethodAES   uint16 = 99
)

// zipArchive reads ZIP archives through klauspost/compress/zip.
type zipArchive struct {
	archiveBase
	rc    *zip.ReadCloser
	files map[string]*zip.File
}

// openZip opens ZIP file and snapshots its central directory.
func openZip(path string, opts OpenOptions) (*zipArchive, error) {
	rc, err := zip.OpenReader(path)
	if errors.Is(err, zip.ErrFormat) {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnsupportedFormat, path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("open ZIP: %w", err)
	}

	registerZipDecompressors(&rc.Reader)

	entries, files := readZipDirectory(&rc.Reader, opts.Logger)

	return &zipArchive{
		archiveBase: newArchiveBase(path, FormatZIP, entries, opts.Logger),
		rc:          rc,
		files:       files,
	}, nil
}

// registerZipDecompressors adds methods not handled by default reader.
func registerZipDecompressors(r *zip.Reader) {
	r.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())
	r.RegisterDecompressor(zstd.ZipMethodPKWare, zstd.ZipDecompressor())
}

// readZipDirectory converts central directory records to entries and file lookup.
func readZipDirectory(r *zip.Reader, logger *zap.Logger) ([]Entry, map[string]*zip.File) {
	entries := make([]Entry, 0, len(r.File))
	files := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		path := NormalizePath(f.Name)
		if path == "" {
			logger.Debug("skip ZIP record with empty name", zap.String("name", f.Name))
			continue
		}

		entries = append(entries, zipFileEntry(f, path))
		files[pathKey(path)] = f
	}

	return dedupeEntries(entries, logger), files
}

// zipFileEntry builds entry metadata from one central directory record.
func zipFileEntry(f *zip.File, path string) Entry {
	isDir := strings.HasSuffix(strings.ReplaceAll(f.Name, `\`, `/`), "/") || f.FileInfo().IsDir()

	return Entry{
		Path:           path,
		Size:           int64(f.UncompressedSize64),
		CompressedSize: int64(f.CompressedSize64),
		Modified:       f.Modified,
		Method:         zipMethodName(f.Method),
		IsDir:          isDir,
	}
}

// zipMethodName returns readable name of ZIP method identifier.
func zipMethodName(method uint16) string {
	switch method {
	case zip.Store:
		return string(MethodStore)
	case zip.Deflate:
		return string(MethodDeflate)
	case zstd.ZipMethodWinZip, zstd.ZipMethodPKWare:
		return string(MethodZstd)
	case zipMethodBzip2:
		return "bzip2"
	case zipMethodLZMA:
		return "lzma"
	case zipMethodXZ:
		return "xz"
	case zipMethodAES:
		return "aes"
	default:
		return "method-" + strconv.Itoa(int(method))
	}
}

// OpenEntry opens named file entry for reading.
func (a *zipArchive) OpenEntry(name string) (io.ReadCloser, error) {
	if a == nil || a.rc == nil {
		return nil, ErrNilReader
	}

	entry, err := a.lookupFile(name)
	if err != nil {
		return nil, err
	}

	f := a.files[pathKey(entry.Path)]
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry %s: %w", entry.Path, err)
	}

	return rc, nil
}

// ReadEntry reads full content of the named entry.
func (a *zipArchive) ReadEntry(name string) ([]byte, error) {
	return readAllEntry(a.OpenEntry, name)
}

// Close closes the underlying file.
func (a *zipArchive) Close() error {
	if a == nil || a.rc == nil {
		return nil
	}

	if !a.markClosed() {
		return nil
	}

	return a.rc.Close()
}
