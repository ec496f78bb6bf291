// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// SessionOptions configures a browsing session.
type SessionOptions struct {
	// Logger receives session diagnostics; nil means no logging.
	Logger *zap.Logger `json:"-" yaml:"-"`
	// Password unlocks encrypted RAR and 7z archives.
	Password string `json:"-" yaml:"-"`
	// Edit configures add/remove rebuilds.
	Edit EditOptions `json:"edit,omitzero" yaml:"edit,omitzero"`
	// Extract configures extraction; Entries and Prefix are set per call.
	Extract ExtractOptions `json:"extract,omitzero" yaml:"extract,omitzero"`
}

// Session is a headless archive browser: one current archive, its namelist
// snapshot and a navigator over the virtual folder tree.
// Archive files are opened per operation, never held between calls.
// Session is not safe for concurrent use.
type Session struct {
	opts    SessionOptions
	nav     *Navigator
	path    string
	format  Format
	entries []Entry
}

// NewSession returns session without an opened archive.
func NewSession(opts SessionOptions) *Session {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	if opts.Edit.Logger == nil {
		opts.Edit.Logger = opts.Logger
	}

	if opts.Extract.Logger == nil {
		opts.Extract.Logger = opts.Logger
	}

	return &Session{opts: opts, nav: NewNavigator()}
}

// OpenArchive makes path the current archive and moves to its root.
func (s *Session) OpenArchive(path string) error {
	entries, format, err := s.snapshot(path)
	if err != nil {
		return err
	}

	s.path = path
	s.format = format
	s.entries = entries
	s.nav.Reset()

	s.opts.Logger.Info("archive opened",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("entries", len(entries)),
	)

	return nil
}

// CreateArchive creates an empty ZIP and opens it. Returns final archive path.
func (s *Session) CreateArchive(path string) (string, error) {
	created, err := Create(path, CreateOptions{})
	if err != nil {
		return "", err
	}

	if err := s.OpenArchive(created); err != nil {
		return "", err
	}

	return created, nil
}

// Path returns current archive path or "" when none is opened.
func (s *Session) Path() string {
	return s.path
}

// Format returns current archive format.
func (s *Session) Format() Format {
	return s.format
}

// Entries returns a copy of the current namelist snapshot.
func (s *Session) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Navigation returns current navigation state.
func (s *Session) Navigation() NavigationState {
	return s.nav.State()
}

// Refresh re-reads the namelist. When the current folder disappeared the
// session moves to its nearest existing ancestor.
func (s *Session) Refresh() error {
	if err := s.requireArchive(); err != nil {
		return err
	}

	entries, format, err := s.snapshot(s.path)
	if err != nil {
		return err
	}

	s.entries = entries
	s.format = format

	before := s.nav.Current()
	s.nav.retarget(func(p string) string {
		return NearestFolder(entries, p)
	})
	if s.nav.Current() != before {
		s.opts.Logger.Debug("current folder gone, moving up",
			zap.String("from", before),
			zap.String("to", s.nav.Current()),
		)
	}

	return nil
}

// List returns projected listing of the current folder.
func (s *Session) List() ([]Node, error) {
	if err := s.requireArchive(); err != nil {
		return nil, err
	}

	return Project(s.entries, s.nav.Current())
}

// Search returns entries whose full path contains query, ignoring case.
func (s *Session) Search(query string) ([]Entry, error) {
	if err := s.requireArchive(); err != nil {
		return nil, err
	}

	return Search(s.entries, query), nil
}

// Cd descends into child folder name of the current folder.
func (s *Session) Cd(name string) error {
	if err := s.requireArchive(); err != nil {
		return err
	}

	target := JoinPath(s.nav.Current(), name)
	if !IsFolder(s.entries, target) {
		return fmt.Errorf("%w: %s", ErrNotAFolder, target)
	}

	s.nav.Jump(target)
	return nil
}

// Jump moves to an absolute folder path (breadcrumb click).
func (s *Session) Jump(path string) error {
	if err := s.requireArchive(); err != nil {
		return err
	}

	if !IsFolder(s.entries, path) {
		return fmt.Errorf("%w: %s", ErrNotAFolder, path)
	}

	s.nav.Jump(path)
	return nil
}

// Back returns to the previously visited folder.
func (s *Session) Back() (string, error) {
	if err := s.requireArchive(); err != nil {
		return "", err
	}

	return s.nav.Back()
}

// Up moves to parent folder; it reports false at root.
func (s *Session) Up() (bool, error) {
	if err := s.requireArchive(); err != nil {
		return false, err
	}

	return s.nav.Up(), nil
}

// Breadcrumbs returns clickable segments of the current folder.
func (s *Session) Breadcrumbs() ([]Breadcrumb, error) {
	if err := s.requireArchive(); err != nil {
		return nil, err
	}

	return Breadcrumbs(s.nav.Current()), nil
}

// AddFiles adds host files and directories into the current folder and refreshes.
func (s *Session) AddFiles(ctx context.Context, paths ...string) (*PackResult, error) {
	editor, err := s.openEditor()
	if err != nil {
		return nil, err
	}

	inputs, err := InputsFromPaths(s.nav.Current(), paths...)
	if err != nil {
		return nil, err
	}

	if err := editor.Add(inputs...); err != nil {
		return nil, err
	}

	return s.commit(ctx, editor)
}

// Remove deletes entries named relative to the current folder; folders are
// removed with everything below them. Unknown names are ignored.
func (s *Session) Remove(ctx context.Context, names ...string) (*PackResult, error) {
	editor, err := s.openEditor()
	if err != nil {
		return nil, err
	}

	for _, name := range names {
		target := JoinPath(s.nav.Current(), name)
		switch {
		case target == "":
			continue
		case IsFolder(s.entries, target):
			err = editor.DeleteDir(target)
		case s.hasEntry(target):
			err = editor.Delete(target)
		default:
			s.opts.Logger.Debug("skip unknown entry", zap.String("path", target))
			continue
		}
		if err != nil {
			return nil, err
		}
	}

	return s.commit(ctx, editor)
}

// ExtractAll extracts every entry into dst.
func (s *Session) ExtractAll(ctx context.Context, dst string) error {
	return s.extract(ctx, dst, nil)
}

// ExtractSelected extracts entries named relative to the current folder.
// Selected folders are extracted with their contents; archive paths are kept.
func (s *Session) ExtractSelected(ctx context.Context, dst string, names ...string) error {
	if err := s.requireArchive(); err != nil {
		return err
	}

	selected := make([]Entry, 0, len(names))
	for _, name := range names {
		target := JoinPath(s.nav.Current(), name)
		matched := FilterPrefix(s.entries, target)
		if len(matched) == 0 {
			return fmt.Errorf("%w: %s", ErrEntryNotFound, target)
		}

		selected = append(selected, matched...)
	}

	return s.extract(ctx, dst, dedupeEntries(selected, s.opts.Logger))
}

// extract opens current archive and extracts entries (nil means all).
func (s *Session) extract(ctx context.Context, dst string, entries []Entry) error {
	if err := s.requireArchive(); err != nil {
		return err
	}

	a, err := s.open(s.path)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	opts := s.opts.Extract
	opts.Entries = entries
	opts.Prefix = ""

	return Extract(ctx, a, dst, opts)
}

// openEditor checks mutability and opens editor on current archive.
func (s *Session) openEditor() (*Editor, error) {
	if err := s.requireArchive(); err != nil {
		return nil, err
	}

	if !s.format.Writable() {
		return nil, fmt.Errorf("%w: %s", ErrReadOnlyFormat, s.format)
	}

	return OpenEditor(s.path, s.opts.Edit)
}

// commit applies staged edits and refreshes the snapshot.
func (s *Session) commit(ctx context.Context, editor *Editor) (*PackResult, error) {
	if editor.Pending() == 0 {
		return &PackResult{}, nil
	}

	res, err := editor.Commit(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.Refresh(); err != nil {
		return res, err
	}

	return res, nil
}

// hasEntry reports whether the snapshot holds an entry with path p.
func (s *Session) hasEntry(p string) bool {
	key := pathKey(p)
	for _, entry := range s.entries {
		if pathKey(entry.Path) == key {
			return true
		}
	}

	return false
}

// requireArchive fails when no archive is opened.
func (s *Session) requireArchive() error {
	if s.path == "" {
		return ErrNoArchive
	}

	return nil
}

// open opens archive with session credentials.
func (s *Session) open(path string) (Archive, error) {
	return OpenWithOptions(path, OpenOptions{Logger: s.opts.Logger, Password: s.opts.Password})
}

// snapshot reads namelist and format of an archive file.
func (s *Session) snapshot(path string) ([]Entry, Format, error) {
	a, err := s.open(path)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = a.Close() }()

	return a.Entries(), a.Format(), nil
}
