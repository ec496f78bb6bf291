// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"io"
	"time"

	"github.com/woozymasta/pathrules"
	"go.uber.org/zap"
)

// Default writer tuning values.
const (
	DefaultCopyBuffer      = 256 * 1024
	DefaultMinCompressSize = 64
	DefaultDeflateLevel    = 6
	DefaultZstdLevel       = 3
)

// Format identifies archive container type.
type Format string

// Supported archive formats.
const (
	// FormatZIP is PKWARE ZIP, readable and writable.
	FormatZIP Format = "zip"
	// FormatRAR is RAR 1.5-5.x, read-only.
	FormatRAR Format = "rar"
	// FormatSevenZip is 7-Zip, read-only.
	FormatSevenZip Format = "7z"
)

// Writable reports whether archives of this format can be created and edited.
func (f Format) Writable() bool {
	return f == FormatZIP
}

// Method is a ZIP compression method name used for new entries.
type Method string

// Compression methods for written entries.
const (
	// MethodStore writes entry payload as-is.
	MethodStore Method = "store"
	// MethodDeflate writes DEFLATE-compressed payload (ZIP method 8).
	MethodDeflate Method = "deflate"
	// MethodZstd writes Zstandard-compressed payload (ZIP method 93).
	MethodZstd Method = "zstd"
)

// Entry describes a single stored record inside an archive.
// Entries are immutable snapshots taken when the archive is opened.
type Entry struct {
	// Modified is entry modification time.
	Modified time.Time `json:"modified" yaml:"modified"`
	// Path is normalized slash-delimited archive-relative path without trailing slash.
	Path string `json:"path" yaml:"path"`
	// Method is compression method name as reported by the container.
	Method string `json:"method,omitempty" yaml:"method,omitempty"`
	// Size is uncompressed size in bytes.
	Size int64 `json:"size" yaml:"size"`
	// CompressedSize is stored size in bytes; zero when the container does not report it.
	CompressedSize int64 `json:"compressed_size" yaml:"compressed_size"`
	// IsDir reports an explicit directory record.
	IsDir bool `json:"is_dir,omitempty" yaml:"is_dir,omitempty"`
}

// Input describes one source stream to be written into an archive entry.
type Input struct {
	// ModTime is optional entry timestamp; zero means current time.
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
	// Open returns raw source stream for this entry.
	Open func() (io.ReadCloser, error) `json:"-" yaml:"-"`
	// Path is destination path inside archive.
	Path string `json:"path" yaml:"path"`
	// SizeHint is expected size in bytes (zero when unknown).
	SizeHint int64 `json:"size_hint,omitempty" yaml:"size_hint,omitempty"`
}

// PackEntryProgress contains one completed entry write event.
type PackEntryProgress struct {
	// Path is entry path written to archive.
	Path string `json:"path" yaml:"path"`
	// Method is compression method used for new entries; empty for copied entries.
	Method Method `json:"method,omitempty" yaml:"method,omitempty"`
	// Size is uncompressed bytes written for new entries or source size for copied ones.
	Size int64 `json:"size" yaml:"size"`
	// Copied reports whether the entry was raw-copied from the source archive.
	Copied bool `json:"copied,omitempty" yaml:"copied,omitempty"`
}

// PackOptions configures how new entries are written.
type PackOptions struct {
	// OnEntryDone is called after one entry is written.
	OnEntryDone func(entry PackEntryProgress) `json:"-" yaml:"-"`
	// Method is compression method for new entries. Default is deflate.
	Method Method `json:"method,omitempty" yaml:"method,omitempty"`
	// Store defines ordered path rules for entries written without compression
	// regardless of Method (already compressed media, nested archives).
	Store []pathrules.Rule `json:"store,omitempty" yaml:"store,omitempty"`
	// StoreMatcherOptions control store path rule matching.
	StoreMatcherOptions pathrules.MatcherOptions `json:"store_matcher_options,omitzero" yaml:"store_matcher_options,omitzero"`
	// Level is compressor level; zero selects method default.
	Level int `json:"level,omitempty" yaml:"level,omitempty"`
	// MinCompressSize stores entries with known size below this threshold.
	// Default is 64 bytes.
	MinCompressSize int64 `json:"min_compress_size,omitempty" yaml:"min_compress_size,omitempty"`
	// CopyBufferSize is per-entry copy buffer size in bytes.
	CopyBufferSize int `json:"copy_buffer_size,omitempty" yaml:"copy_buffer_size,omitempty"`
}

// PackResult contains write statistics.
type PackResult struct {
	// WrittenEntries is number of entries in resulting archive.
	WrittenEntries int `json:"written_entries" yaml:"written_entries"`
	// CopiedEntries is number of entries raw-copied from source archive.
	CopiedEntries int `json:"copied_entries,omitempty" yaml:"copied_entries,omitempty"`
	// AddedEntries is number of entries written from inputs.
	AddedEntries int `json:"added_entries,omitempty" yaml:"added_entries,omitempty"`
	// RemovedEntries is number of source entries dropped by edit.
	RemovedEntries int `json:"removed_entries,omitempty" yaml:"removed_entries,omitempty"`
	// InputBytes is total uncompressed bytes read from inputs.
	InputBytes int64 `json:"input_bytes,omitempty" yaml:"input_bytes,omitempty"`
	// ArchiveSize is resulting archive size in bytes.
	ArchiveSize int64 `json:"archive_size" yaml:"archive_size"`
	// Duration is end-to-end write duration.
	Duration time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// OpenOptions configures archive opening.
type OpenOptions struct {
	// Logger receives debug diagnostics; nil means no logging.
	Logger *zap.Logger `json:"-" yaml:"-"`
	// Password unlocks encrypted RAR and 7z archives.
	Password string `json:"-" yaml:"-"`
	// Format forces archive format instead of detection.
	Format Format `json:"format,omitempty" yaml:"format,omitempty"`
}

// CreateOptions configures empty archive creation.
type CreateOptions struct {
	// Overwrite truncates existing file instead of failing.
	Overwrite bool `json:"overwrite,omitempty" yaml:"overwrite,omitempty"`
}

// EditOptions configures file-based archive edit flow.
type EditOptions struct {
	// Logger receives commit diagnostics; nil means no logging.
	Logger *zap.Logger `json:"-" yaml:"-"`
	// PackOptions are applied for added/replaced entries during commit.
	PackOptions PackOptions `json:"pack_options,omitzero" yaml:"pack_options,omitzero"`
	// BackupKeep controls how many backup generations are kept after successful commit.
	// 0 means remove backup, 1 keeps only `<archive>.bak`, N keeps `.bak` + `.bak.1..N-1`.
	BackupKeep int `json:"backup_keep,omitempty" yaml:"backup_keep,omitempty"`
	// AddReplaces makes Add overwrite existing entries instead of failing on collision.
	AddReplaces bool `json:"add_replaces,omitempty" yaml:"add_replaces,omitempty"`
}

// ExtractOptions configures Extract behavior.
type ExtractOptions struct {
	// OnEntryDone is called after one entry is fully written to disk.
	OnEntryDone func(entry Entry, written int64, outputPath string) `json:"-" yaml:"-"`
	// Logger receives extraction diagnostics; nil means no logging.
	Logger *zap.Logger `json:"-" yaml:"-"`
	// FileMode controls output file creation policy.
	FileMode ExtractFileMode `json:"file_mode,omitempty" yaml:"file_mode,omitempty"`
	// Prefix limits extraction to one virtual folder (or single file path).
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	// Entries limits extraction to selected metadata list; nil means all entries.
	Entries []Entry `json:"-" yaml:"-"`
	// Select defines ordered path rules; empty means all entries.
	Select []pathrules.Rule `json:"select,omitempty" yaml:"select,omitempty"`
	// SelectMatcherOptions control select rule matching.
	SelectMatcherOptions pathrules.MatcherOptions `json:"select_matcher_options,omitzero" yaml:"select_matcher_options,omitzero"`
	// MaxWorkers is number of extraction workers (zero means GOMAXPROCS).
	// Sequential formats (RAR) always use one pass.
	MaxWorkers int `json:"max_workers,omitempty" yaml:"max_workers,omitempty"`
	// StripPrefix writes Prefix contents directly into destination root.
	StripPrefix bool `json:"strip_prefix,omitempty" yaml:"strip_prefix,omitempty"`
	// RawNames disables default path sanitization during extract.
	RawNames bool `json:"raw_names,omitempty" yaml:"raw_names,omitempty"`
	// SkipModTime leaves output files with extraction time instead of entry time.
	SkipModTime bool `json:"skip_mod_time,omitempty" yaml:"skip_mod_time,omitempty"`
}

// ExtractFileMode controls output file open behavior during extraction.
type ExtractFileMode string

// Output file creation policies for extraction.
const (
	// ExtractFileModeAuto first tries create-only, then falls back to truncate for existing files.
	ExtractFileModeAuto ExtractFileMode = "auto"
	// ExtractFileModeOverwriteSmart rewrites files in place and truncates only when existing file is larger.
	ExtractFileModeOverwriteSmart ExtractFileMode = "overwrite_smart"
	// ExtractFileModeTruncate opens existing files with truncate and creates missing files.
	ExtractFileModeTruncate ExtractFileMode = "truncate"
	// ExtractFileModeCreateOnly creates files only when absent and fails on existing files.
	ExtractFileModeCreateOnly ExtractFileMode = "create_only"
)

// applyDefaults fills zero-valued pack options with defaults.
func (opts *PackOptions) applyDefaults() {
	if opts.Method == "" {
		opts.Method = MethodDeflate
	}

	if opts.MinCompressSize == 0 {
		opts.MinCompressSize = DefaultMinCompressSize
	}

	if opts.CopyBufferSize < 4096 {
		opts.CopyBufferSize = DefaultCopyBuffer
	}

	if opts.StoreMatcherOptions == (pathrules.MatcherOptions{}) {
		opts.StoreMatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionExclude,
		}
	}

	if opts.StoreMatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.StoreMatcherOptions.DefaultAction = pathrules.ActionExclude
	}
}

// applyDefaults fills zero-valued edit options with defaults.
func (opts *EditOptions) applyDefaults() {
	opts.PackOptions.applyDefaults()

	if opts.BackupKeep < 0 {
		opts.BackupKeep = 0
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
}

// applyDefaults fills zero-valued open options with defaults.
func (opts *OpenOptions) applyDefaults() {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
}

// applyDefaults fills zero-valued extract options with defaults.
func (opts *ExtractOptions) applyDefaults() {
	if opts.FileMode == "" {
		opts.FileMode = ExtractFileModeAuto
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	if opts.SelectMatcherOptions == (pathrules.MatcherOptions{}) {
		opts.SelectMatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionExclude,
		}
	}
}
