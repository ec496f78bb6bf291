// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"fmt"
	"os"
	"time"
)

// ListOptions configures metadata-only listing.
type ListOptions struct {
	// Open configures archive opening.
	Open OpenOptions `json:"open,omitzero" yaml:"open,omitzero"`
	// Prefix limits listing to one virtual folder (or single file path).
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	// FilesOnly drops explicit folder records.
	FilesOnly bool `json:"files_only,omitempty" yaml:"files_only,omitempty"`
	// DisplayNames replaces control characters in names for terminal output.
	DisplayNames bool `json:"display_names,omitempty" yaml:"display_names,omitempty"`
}

// ArchiveInfo summarizes an archive without reading payload.
type ArchiveInfo struct {
	// Modified is archive file modification time.
	Modified time.Time `json:"modified" yaml:"modified"`
	// Path is archive file path.
	Path string `json:"path" yaml:"path"`
	// Format is detected container format.
	Format Format `json:"format" yaml:"format"`
	// FileSize is archive file size on disk.
	FileSize int64 `json:"file_size" yaml:"file_size"`
	// Files is number of file entries.
	Files int `json:"files" yaml:"files"`
	// Folders is number of virtual folders, implicit and explicit.
	Folders int `json:"folders" yaml:"folders"`
	// TotalSize is sum of uncompressed file sizes.
	TotalSize int64 `json:"total_size" yaml:"total_size"`
	// TotalCompressed is sum of stored sizes; zero when the format does not report them.
	TotalCompressed int64 `json:"total_compressed" yaml:"total_compressed"`
	// Writable reports whether the archive can be edited.
	Writable bool `json:"writable" yaml:"writable"`
}

// Ratio returns compressed/uncompressed ratio, or 0 when unknown.
func (i ArchiveInfo) Ratio() float64 {
	if i.TotalSize == 0 || i.TotalCompressed == 0 {
		return 0
	}

	return float64(i.TotalCompressed) / float64(i.TotalSize)
}

// ListEntries opens an archive and returns entry metadata without payload reads.
func ListEntries(path string) ([]Entry, error) {
	return ListEntriesWithOptions(path, ListOptions{})
}

// ListEntriesWithOptions opens an archive and returns filtered entry metadata.
func ListEntriesWithOptions(path string, opts ListOptions) ([]Entry, error) {
	a, err := OpenWithOptions(path, opts.Open)
	if err != nil {
		return nil, err
	}
	defer func() { _ = a.Close() }()

	entries := FilterPrefix(a.Entries(), opts.Prefix)
	if opts.FilesOnly {
		entries = filterFiles(entries)
	}

	if opts.DisplayNames {
		for i := range entries {
			entries[i].Path = DisplayPath(entries[i].Path)
		}
	}

	return entries, nil
}

// Info opens an archive and summarizes its contents.
func Info(path string, opts OpenOptions) (*ArchiveInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}

	a, err := OpenWithOptions(path, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = a.Close() }()

	entries := a.Entries()
	info := &ArchiveInfo{
		Path:     path,
		Format:   a.Format(),
		FileSize: stat.Size(),
		Modified: stat.ModTime(),
		Folders:  len(Folders(entries)),
		Writable: a.Format().Writable(),
	}

	for _, entry := range entries {
		if entry.IsDir {
			continue
		}

		info.Files++
		info.TotalSize += entry.Size
		info.TotalCompressed += entry.CompressedSize
	}

	return info, nil
}
