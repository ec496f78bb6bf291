// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// extractCopyBufferSize defines per-worker buffer size for file copy during extraction.
const extractCopyBufferSize = 64 * 1024

// extractWorkItem stores one selected entry with prepared output relative paths.
type extractWorkItem struct {
	relPath string
	relDir  string
	entry   Entry
}

// extractJob carries resolved settings shared by all workers.
type extractJob struct {
	logger      *zap.Logger
	onEntryDone func(entry Entry, written int64, outputPath string)
	dstRootAbs  string
	fileMode    ExtractFileMode
	skipModTime bool
}

// Extract writes selected entries of the archive to dstDir.
// Random-access formats are extracted by MaxWorkers in parallel; sequential
// formats (RAR) are decoded in one pass. On failure the first error is returned.
func Extract(ctx context.Context, a Archive, dstDir string, opts ExtractOptions) error {
	if a == nil {
		return ErrNilReader
	}

	if ctx == nil {
		ctx = context.Background()
	}

	opts.applyDefaults()

	entries, err := selectExtractEntries(a, opts)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		return nil
	}

	dstRootAbs, err := filepath.Abs(dstDir)
	if err != nil {
		return fmt.Errorf("resolve output dir: %w", err)
	}

	if err := os.MkdirAll(dstRootAbs, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	workItems, err := prepareExtractWorkItems(entries, opts)
	if err != nil {
		return err
	}

	if len(workItems) == 0 {
		return nil
	}

	if err := prepareExtractDirs(dstRootAbs, workItems); err != nil {
		return err
	}

	job := extractJob{
		logger:      opts.Logger,
		onEntryDone: opts.OnEntryDone,
		dstRootAbs:  dstRootAbs,
		fileMode:    opts.FileMode,
		skipModTime: opts.SkipModTime,
	}

	files := make([]extractWorkItem, 0, len(workItems))
	for _, task := range workItems {
		if !task.entry.IsDir {
			files = append(files, task)
		}
	}

	if seq, ok := a.(sequentialArchive); ok {
		err = extractSequential(ctx, seq, job, files)
	} else {
		err = extractParallel(ctx, a, job, files, opts.MaxWorkers)
	}
	if err != nil {
		return err
	}

	// Folder times are restored last, writing files into a folder bumps its mtime.
	if !opts.SkipModTime {
		for _, task := range workItems {
			if task.entry.IsDir {
				restoreModTime(filepath.Join(dstRootAbs, task.relPath), task.entry.Modified)
			}
		}
	}

	opts.Logger.Debug("extract done",
		zap.String("archive", a.Path()),
		zap.String("dst", dstRootAbs),
		zap.Int("files", len(files)),
	)

	return nil
}

// selectExtractEntries applies Entries, Prefix and Select filters.
func selectExtractEntries(a Archive, opts ExtractOptions) ([]Entry, error) {
	entries := a.Entries()
	if opts.Entries != nil {
		entries = opts.Entries
	}

	prefix := NormalizePath(opts.Prefix)
	if prefix != "" {
		entries = FilterPrefix(entries, prefix)
		if len(entries) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, prefix)
		}
	}

	matcher, err := newRuleMatcher(opts.Select, opts.SelectMatcherOptions)
	if err != nil {
		return nil, err
	}

	if matcher != nil {
		entries = filterEntriesByMatcher(entries, matcher)
	}

	return entries, nil
}

// extractRelPath returns output path relative to destination root before sanitizing.
func extractRelPath(entryPath string, prefix string, strip bool) string {
	entryPath = NormalizePath(entryPath)
	if !strip || prefix == "" {
		return entryPath
	}

	if entryPath == prefix {
		return BaseName(entryPath)
	}

	return strings.TrimPrefix(entryPath, prefix+"/")
}

// prepareExtractWorkItems validates selected entries and prepares relative fs paths.
func prepareExtractWorkItems(entries []Entry, opts ExtractOptions) ([]extractWorkItem, error) {
	prefix := NormalizePath(opts.Prefix)

	selected := make([]Entry, 0, len(entries))
	relPaths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry.Path) == "" {
			continue
		}

		if opts.StripPrefix && entry.IsDir && NormalizePath(entry.Path) == prefix {
			continue
		}

		selected = append(selected, entry)
		relPaths = append(relPaths, extractRelPath(entry.Path, prefix, opts.StripPrefix))
	}

	if !opts.RawNames {
		sanitized, err := sanitizeExtractPaths(relPaths)
		if err != nil {
			return nil, err
		}

		relPaths = sanitized
	}

	workItems := make([]extractWorkItem, 0, len(selected))
	for i, entry := range selected {
		normalizedPath, err := normalizeExtractEntryPath(relPaths[i])
		if err != nil {
			return nil, fmt.Errorf("normalize entry path %s: %w", entry.Path, err)
		}

		relPath := filepath.FromSlash(normalizedPath)
		relDir := filepath.Dir(relPath)
		if entry.IsDir {
			relDir = relPath
		}
		if relDir == "." {
			relDir = ""
		}

		workItems = append(workItems, extractWorkItem{
			entry:   entry,
			relPath: relPath,
			relDir:  relDir,
		})
	}

	return workItems, nil
}

// prepareExtractDirs creates all unique parent directories needed by work items.
func prepareExtractDirs(dstRootAbs string, workItems []extractWorkItem) error {
	seen := make(map[string]struct{}, len(workItems))
	for _, task := range workItems {
		if task.relDir == "" {
			continue
		}

		dirPath, err := resolveExtractPath(dstRootAbs, task.relDir)
		if err != nil {
			return err
		}

		if _, exists := seen[dirPath]; exists {
			continue
		}

		seen[dirPath] = struct{}{}
		if err := os.MkdirAll(dirPath, 0o750); err != nil {
			return fmt.Errorf("create output directory %s: %w", dirPath, err)
		}
	}

	return nil
}

// extractParallel fans work items out to a worker pool opening entries independently.
func extractParallel(ctx context.Context, a Archive, job extractJob, workItems []extractWorkItem, maxWorkers int) error {
	if len(workItems) == 0 {
		return nil
	}

	workers := maxWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = max(min(workers, len(workItems)), 1)

	taskCh := make(chan extractWorkItem, len(workItems))
	errCh := make(chan error, len(workItems))
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Go(func() {
			copyBuf := make([]byte, extractCopyBufferSize)
			for task := range taskCh {
				err := extractOpenedEntry(ctx, a, job, task, copyBuf)
				if err != nil {
					cancel()
				}

				select {
				case errCh <- err:
				case <-ctx.Done():
					if err != nil {
						errCh <- err
					}
					return
				}
			}
		})
	}

	for _, task := range workItems {
		select {
		case <-ctx.Done():
			close(taskCh)
			wg.Wait()
			return firstExtractError(errCh, ctx.Err())
		case taskCh <- task:
		}
	}

	close(taskCh)
	wg.Wait()

	return firstExtractError(errCh, nil)
}

// firstExtractError drains worker results and returns the first failure.
// Cancellation caused by another worker failure is reported as that failure.
func firstExtractError(errCh chan error, fallback error) error {
	close(errCh)

	var canceled error
	for err := range errCh {
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			if canceled == nil {
				canceled = err
			}
		default:
			return err
		}
	}

	if fallback != nil {
		return fallback
	}

	return canceled
}

// extractOpenedEntry opens one entry through the archive and writes it.
func extractOpenedEntry(ctx context.Context, a Archive, job extractJob, task extractWorkItem, copyBuf []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	rc, err := a.OpenEntry(task.entry.Path)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	return writeExtractEntry(job, task, rc, copyBuf)
}

// extractSequential decodes the archive once and writes selected entries as they appear.
func extractSequential(ctx context.Context, a sequentialArchive, job extractJob, workItems []extractWorkItem) error {
	if len(workItems) == 0 {
		return nil
	}

	pending := make(map[string]extractWorkItem, len(workItems))
	for _, task := range workItems {
		pending[pathKey(task.entry.Path)] = task
	}

	copyBuf := make([]byte, extractCopyBufferSize)
	err := a.walk(ctx, func(entry Entry, r io.Reader) error {
		if entry.IsDir {
			return nil
		}

		key := pathKey(entry.Path)
		task, ok := pending[key]
		if !ok {
			return nil
		}

		delete(pending, key)
		return writeExtractEntry(job, task, r, copyBuf)
	})
	if err != nil {
		return err
	}

	if len(pending) > 0 {
		missing := slices.Sorted(maps.Keys(pending))
		return fmt.Errorf("%w: %s", ErrEntryNotFound, strings.Join(missing, ", "))
	}

	return nil
}

// writeExtractEntry writes one entry stream to its output file.
func writeExtractEntry(job extractJob, task extractWorkItem, src io.Reader, copyBuf []byte) error {
	outPath, err := resolveExtractPath(job.dstRootAbs, task.relPath)
	if err != nil {
		return fmt.Errorf("%s: %w", task.entry.Path, err)
	}

	file, needsTruncate, err := openExtractFile(outPath, job.fileMode, task.entry.Size)
	if err != nil {
		return fmt.Errorf("open %s: %w", task.entry.Path, err)
	}

	written, copyErr := copyExtractData(file, src, copyBuf)
	if copyErr == nil && needsTruncate {
		if truncErr := file.Truncate(written); truncErr != nil {
			_ = file.Close()
			return fmt.Errorf("truncate %s: %w", task.entry.Path, truncErr)
		}
	}

	closeErr := file.Close()
	if copyErr != nil {
		return fmt.Errorf("write %s: %w", task.entry.Path, copyErr)
	}

	if closeErr != nil {
		return fmt.Errorf("close %s: %w", task.entry.Path, closeErr)
	}

	if !job.skipModTime {
		restoreModTime(outPath, task.entry.Modified)
	}

	job.logger.Debug("extracted", zap.String("entry", task.entry.Path), zap.Int64("bytes", written))

	if job.onEntryDone != nil {
		job.onEntryDone(task.entry, written, outPath)
	}

	return nil
}

// restoreModTime sets file times from archive metadata; failures are ignored.
func restoreModTime(path string, modTime time.Time) {
	if modTime.IsZero() {
		return
	}

	_ = os.Chtimes(path, modTime, modTime)
}

// resolveExtractPath joins relative path to root and rejects results outside of it.
func resolveExtractPath(dstRootAbs string, relPath string) (string, error) {
	outPath := filepath.Join(dstRootAbs, relPath)

	rel, err := filepath.Rel(dstRootAbs, outPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", ErrExtractPathOutsideRoot
	}

	return outPath, nil
}

// openExtractFile opens output path according to selected extract file mode.
func openExtractFile(path string, mode ExtractFileMode, expectedSize int64) (*os.File, bool, error) {
	switch mode {
	case ExtractFileModeAuto:
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			return file, false, nil
		}

		if !os.IsExist(err) {
			return nil, false, err
		}

		file, truncErr := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
		return file, false, truncErr
	case ExtractFileModeOverwriteSmart:
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o600)
		if err != nil {
			return nil, false, err
		}

		info, err := file.Stat()
		if err != nil {
			_ = file.Close()
			return nil, false, err
		}

		return file, info.Size() > expectedSize, nil
	case ExtractFileModeTruncate:
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
		return file, false, err
	case ExtractFileModeCreateOnly:
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		return file, false, err
	default:
		return nil, false, fmt.Errorf("unknown extract file mode %q", mode)
	}
}

// copyExtractData copies one entry stream to output file using fixed worker buffer.
func copyExtractData(dst *os.File, src io.Reader, buf []byte) (int64, error) {
	if len(buf) == 0 {
		return 0, io.ErrShortBuffer
	}

	return io.CopyBuffer(dst, src, buf)
}

// normalizeExtractEntryPath normalizes entry path and rejects absolute/traversal inputs.
func normalizeExtractEntryPath(entryPath string) (string, error) {
	raw := strings.TrimSpace(entryPath)
	if raw == "" || strings.ContainsRune(raw, 0) {
		return "", ErrInvalidExtractPath
	}

	if strings.HasPrefix(raw, `/`) || strings.HasPrefix(raw, `\`) {
		return "", ErrInvalidExtractPath
	}

	raw = strings.ReplaceAll(raw, `\`, `/`)
	if hasWindowsAbsDrivePrefix(raw) {
		return "", ErrInvalidExtractPath
	}

	parts := strings.Split(raw, `/`)
	cleanParts := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", ErrInvalidExtractPath
		default:
			cleanParts = append(cleanParts, part)
		}
	}

	if len(cleanParts) == 0 {
		return "", ErrInvalidExtractPath
	}

	return strings.Join(cleanParts, `/`), nil
}

// hasWindowsAbsDrivePrefix reports whether path starts with drive-root prefix like C:/.
func hasWindowsAbsDrivePrefix(path string) bool {
	if len(path) < 3 {
		return false
	}

	return isASCIIAlpha(path[0]) && path[1] == ':' && path[2] == '/'
}

// isASCIIAlpha reports whether byte is ASCII latin letter.
func isASCIIAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
