// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import "errors"

// Sentinel errors for archive operations. Use errors.Is in callers.
var (
	// ErrNoArchive means an operation needs an opened archive but none is set.
	ErrNoArchive = errors.New("no archive opened")
	// ErrUnsupportedFormat means the file is not a recognized ZIP, RAR or 7z archive.
	ErrUnsupportedFormat = errors.New("unsupported archive format")
	// ErrReadOnlyFormat means the archive format has no writer and cannot be modified.
	ErrReadOnlyFormat = errors.New("archive format is read-only")
	// ErrNilReader means the archive reader is nil.
	ErrNilReader = errors.New("archive reader is nil")
	// ErrNilWriter means the output writer is nil.
	ErrNilWriter = errors.New("writer is nil")
	// ErrEntryNotFound means the entry is not found.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrClosed means the archive or resource is already closed.
	ErrClosed = errors.New("archive already closed")
	// ErrArchiveExists means create target already exists.
	ErrArchiveExists = errors.New("archive already exists")
	// ErrInvalidEntryPath means one of entry paths is empty or invalid after normalization.
	ErrInvalidEntryPath = errors.New("invalid entry path")
	// ErrDuplicateEntryPath means two inputs resolve to the same path.
	ErrDuplicateEntryPath = errors.New("duplicate entry path")
	// ErrInvalidExtractPath means archive entry path is invalid for extraction destination.
	ErrInvalidExtractPath = errors.New("invalid extract path")
	// ErrExtractPathOutsideRoot means resolved extraction path escapes destination root.
	ErrExtractPathOutsideRoot = errors.New("extract path escapes destination root")
	// ErrInvalidRules means one or more path rules are invalid.
	ErrInvalidRules = errors.New("invalid path rules")
	// ErrUnknownMethod means the compression method name is not supported.
	ErrUnknownMethod = errors.New("unknown compression method")
	// ErrNotAFolder means a navigation target does not name a virtual folder.
	ErrNotAFolder = errors.New("not a folder")
	// ErrHistoryEmpty means there is no previous folder to go back to.
	ErrHistoryEmpty = errors.New("navigation history is empty")
	// ErrVerifyFailed means one or more entries failed integrity check.
	ErrVerifyFailed = errors.New("archive integrity check failed")
)
