// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"
)

// Editor accumulates archive edit operations and applies them on Commit.
// ZIP has no in-place delete, so Commit rebuilds the archive: untouched
// entries are raw-copied without recompression, staged inputs are compressed.
type Editor struct {
	path string
	ops  []editOperation
	opts EditOptions
}

// editOperation stores one staged editor operation.
type editOperation struct {
	inputs []Input
	paths  []string
	kind   editOperationKind
}

// editOperationKind identifies staged edit action type.
type editOperationKind uint8

const (
	// editOperationAdd appends new entries and fails on existing path.
	editOperationAdd editOperationKind = iota + 1
	// editOperationReplace rewrites existing entries.
	editOperationReplace
	// editOperationDelete removes exact paths.
	editOperationDelete
	// editOperationDeleteDir removes entries by folder prefix.
	editOperationDeleteDir
	// editOperationMkdir adds explicit folder records.
	editOperationMkdir
)

// editState is the ordered entry set being edited.
type editState struct {
	items map[string]*rewriteEntry
	order []string
}

// OpenEditor creates staged editor for file-based archive rewrite workflow.
// The archive must exist and be writable (ZIP).
func OpenEditor(path string, opts EditOptions) (*Editor, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return nil, ErrInvalidEntryPath
	}

	format, err := DetectFormat(trimmedPath)
	if err != nil {
		return nil, err
	}

	if !format.Writable() {
		return nil, fmt.Errorf("%w: %s", ErrReadOnlyFormat, format)
	}

	opts.applyDefaults()

	return &Editor{
		path: trimmedPath,
		opts: opts,
		ops:  make([]editOperation, 0, 8),
	}, nil
}

// Add schedules adding new entries; path collision fails on commit unless AddReplaces is set.
func (e *Editor) Add(inputs ...Input) error {
	return e.stageInputs(editOperationAdd, inputs)
}

// Replace schedules replacing existing entries.
func (e *Editor) Replace(inputs ...Input) error {
	return e.stageInputs(editOperationReplace, inputs)
}

// Delete schedules exact-path removal; missing paths are ignored.
func (e *Editor) Delete(paths ...string) error {
	return e.stagePaths(editOperationDelete, paths)
}

// DeleteDir schedules folder removal including every entry under it.
func (e *Editor) DeleteDir(prefixes ...string) error {
	return e.stagePaths(editOperationDeleteDir, prefixes)
}

// Mkdir schedules explicit empty folder records.
func (e *Editor) Mkdir(paths ...string) error {
	return e.stagePaths(editOperationMkdir, paths)
}

// Pending reports number of staged operations.
func (e *Editor) Pending() int {
	if e == nil {
		return 0
	}

	return len(e.ops)
}

// stageInputs validates inputs and appends one operation.
func (e *Editor) stageInputs(kind editOperationKind, inputs []Input) error {
	if e == nil {
		return ErrNilReader
	}

	normalized, err := normalizeEditorInputs(inputs)
	if err != nil {
		return err
	}

	if len(normalized) == 0 {
		return nil
	}

	e.ops = append(e.ops, editOperation{kind: kind, inputs: normalized})
	return nil
}

// stagePaths validates paths and appends one operation.
func (e *Editor) stagePaths(kind editOperationKind, paths []string) error {
	if e == nil {
		return ErrNilReader
	}

	normalized, err := normalizeEditorPaths(paths)
	if err != nil {
		return err
	}

	if len(normalized) == 0 {
		return nil
	}

	e.ops = append(e.ops, editOperation{kind: kind, paths: normalized})
	return nil
}

// Commit applies all staged operations in one rewrite transaction.
// On failure the original archive is restored from backup.
func (e *Editor) Commit(ctx context.Context) (*PackResult, error) {
	if e == nil {
		return nil, ErrNilReader
	}

	if ctx == nil {
		ctx = context.Background()
	}

	backupPath := e.path + ".bak"
	if err := prepareBackupSlot(backupPath, e.opts.BackupKeep); err != nil {
		return nil, err
	}

	if err := os.Rename(e.path, backupPath); err != nil {
		return nil, fmt.Errorf("move archive to backup: %w", err)
	}

	res, err := e.commitFromBackup(ctx, backupPath)
	if err != nil {
		e.opts.Logger.Warn("archive rebuild failed, restoring backup", zap.String("path", e.path), zap.Error(err))

		rollbackErr := rollbackFromBackup(e.path, backupPath)
		if rollbackErr != nil {
			return nil, fmt.Errorf("%w (rollback failed: %v)", err, rollbackErr)
		}

		return nil, err
	}

	if e.opts.BackupKeep == 0 {
		if err := removeIfExists(backupPath); err != nil {
			return nil, fmt.Errorf("remove backup: %w", err)
		}
	}

	e.opts.Logger.Info("archive rebuilt",
		zap.String("path", e.path),
		zap.Int("entries", res.WrittenEntries),
		zap.Int("copied", res.CopiedEntries),
		zap.Int("added", res.AddedEntries),
		zap.Int("removed", res.RemovedEntries),
		zap.Duration("took", res.Duration),
	)

	e.ops = e.ops[:0]
	return res, nil
}

// commitFromBackup writes edited archive from backup source.
func (e *Editor) commitFromBackup(ctx context.Context, backupPath string) (*PackResult, error) {
	src, err := zip.OpenReader(backupPath)
	if err != nil {
		return nil, fmt.Errorf("open backup: %w", err)
	}
	defer func() { _ = src.Close() }()

	sourceEntries, sourceFiles := readZipDirectory(&src.Reader, e.opts.Logger)

	plan, removed, err := buildEditPlan(sourceEntries, sourceFiles, e.ops, e.opts.AddReplaces)
	if err != nil {
		return nil, err
	}

	dstFile, err := os.OpenFile(e.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create destination archive: %w", err)
	}

	res, writeErr := rewriteArchive(ctx, dstFile, plan, e.opts.PackOptions)
	if writeErr != nil {
		_ = dstFile.Close()
		return nil, writeErr
	}

	if err := dstFile.Sync(); err != nil {
		_ = dstFile.Close()
		return nil, fmt.Errorf("sync destination archive: %w", err)
	}

	if err := dstFile.Close(); err != nil {
		return nil, fmt.Errorf("close destination archive: %w", err)
	}

	res.RemovedEntries = removed
	return res, nil
}

// normalizeEditorInputs validates and canonicalizes editor input list.
func normalizeEditorInputs(inputs []Input) ([]Input, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	normalized := make([]Input, 0, len(inputs))
	for i := range inputs {
		canonicalPath, err := normalizeEntryPath(inputs[i].Path)
		if err != nil {
			return nil, fmt.Errorf("%w: input path %q", ErrInvalidEntryPath, inputs[i].Path)
		}

		item := inputs[i]
		item.Path = canonicalPath
		normalized = append(normalized, item)
	}

	return normalized, nil
}

// normalizeEditorPaths validates and canonicalizes editor path list.
func normalizeEditorPaths(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	out := make([]string, 0, len(paths))
	for _, raw := range paths {
		canonical, err := normalizeEntryPath(raw)
		if err != nil {
			return nil, err
		}

		out = append(out, canonical)
	}

	return out, nil
}

// buildEditPlan applies staged operations to source entries and builds final write plan.
// Source order is kept; new entries follow in staging order.
func buildEditPlan(
	sourceEntries []Entry,
	sourceFiles map[string]*zip.File,
	ops []editOperation,
	addReplaces bool,
) ([]rewriteEntry, int, error) {
	state := &editState{
		items: make(map[string]*rewriteEntry, len(sourceEntries)),
		order: make([]string, 0, len(sourceEntries)),
	}

	for _, entry := range sourceEntries {
		key := pathKey(entry.Path)
		state.put(key, &rewriteEntry{path: entry.Path, source: sourceFiles[key]})
	}

	for _, op := range ops {
		switch op.kind {
		case editOperationAdd:
			if err := state.add(op.inputs, addReplaces); err != nil {
				return nil, 0, err
			}
		case editOperationReplace:
			if err := state.replace(op.inputs); err != nil {
				return nil, 0, err
			}
		case editOperationDelete:
			state.delete(op.paths)
		case editOperationDeleteDir:
			state.deleteDir(op.paths)
		case editOperationMkdir:
			state.mkdir(op.paths)
		default:
			return nil, 0, fmt.Errorf("unknown edit operation kind: %d", op.kind)
		}
	}

	plan := make([]rewriteEntry, 0, len(state.items))
	seen := make(map[string]struct{}, len(state.items))
	for _, key := range state.order {
		item, ok := state.items[key]
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}
		plan = append(plan, *item)
	}

	removed := 0
	for _, entry := range sourceEntries {
		if _, ok := state.items[pathKey(entry.Path)]; !ok {
			removed++
		}
	}

	return plan, removed, nil
}

// put inserts or overwrites item keeping first position.
func (s *editState) put(key string, item *rewriteEntry) {
	if _, exists := s.items[key]; !exists {
		s.order = append(s.order, key)
	}

	s.items[key] = item
}

// add inserts new entries and fails on existing paths unless replacing is allowed.
func (s *editState) add(inputs []Input, replace bool) error {
	for _, in := range inputs {
		key := pathKey(in.Path)
		if existing, exists := s.items[key]; exists && (!replace || existing.dir) {
			return fmt.Errorf("%w: %q", ErrDuplicateEntryPath, in.Path)
		}

		item := in
		s.put(key, &rewriteEntry{path: item.Path, input: &item})
	}

	return nil
}

// replace overwrites existing entries and fails on missing paths.
func (s *editState) replace(inputs []Input) error {
	for _, in := range inputs {
		key := pathKey(in.Path)
		if _, exists := s.items[key]; !exists {
			return fmt.Errorf("%w: %q", ErrEntryNotFound, in.Path)
		}

		item := in
		s.put(key, &rewriteEntry{path: item.Path, input: &item})
	}

	return nil
}

// delete removes exact paths.
func (s *editState) delete(paths []string) {
	for _, p := range paths {
		delete(s.items, pathKey(p))
	}
}

// deleteDir removes entries equal to or under folder prefixes.
func (s *editState) deleteDir(prefixes []string) {
	for _, prefix := range prefixes {
		for key, item := range s.items {
			if hasDirPrefix(item.path, prefix) {
				delete(s.items, key)
			}
		}
	}
}

// mkdir adds explicit folder records when path is free.
func (s *editState) mkdir(paths []string) {
	now := time.Now()
	for _, p := range paths {
		key := pathKey(p)
		if _, exists := s.items[key]; exists {
			continue
		}

		s.put(key, &rewriteEntry{path: p, dir: true, modTime: now})
	}
}

// prepareBackupSlot rotates/removes existing backup generations before new commit.
func prepareBackupSlot(backupPath string, keep int) error {
	if keep < 0 {
		keep = 0
	}

	switch keep {
	case 0, 1:
		return removeIfExists(backupPath)
	default:
		oldest := fmt.Sprintf("%s.%d", backupPath, keep-1)
		if err := removeIfExists(oldest); err != nil {
			return err
		}

		for i := keep - 2; i >= 1; i-- {
			from := fmt.Sprintf("%s.%d", backupPath, i)
			to := fmt.Sprintf("%s.%d", backupPath, i+1)
			if err := renameIfExists(from, to); err != nil {
				return err
			}
		}

		return renameIfExists(backupPath, backupPath+".1")
	}
}

// renameIfExists renames source to destination when source exists.
func renameIfExists(from string, to string) error {
	_, err := os.Stat(from)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", from, err)
	}

	if err := removeIfExists(to); err != nil {
		return err
	}

	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("rename %s to %s: %w", from, to, err)
	}

	return nil
}

// removeIfExists removes file when present.
func removeIfExists(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) || err == nil {
		return nil
	}

	return fmt.Errorf("remove %s: %w", path, err)
}

// rollbackFromBackup restores backup on failed commit.
func rollbackFromBackup(path string, backupPath string) error {
	_ = os.Remove(path)

	if err := os.Rename(backupPath, path); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}

	return nil
}
