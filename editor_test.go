// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestEditorCommit_AddReplaceDeleteDir(t *testing.T) {
	t.Parallel()

	zipPath := filepath.Join(t.TempDir(), "archive.zip")
	err := createTestZip(zipPath, map[string][]byte{
		"dir/a.txt":     []byte("old-a"),
		"dir/sub/b.txt": []byte("old-b"),
		"media/x.png":   bytes.Repeat([]byte("png"), 256),
	}, PackOptions{Method: MethodStore})
	if err != nil {
		t.Fatalf("createTestZip: %v", err)
	}

	editor, err := OpenEditor(zipPath, EditOptions{
		PackOptions: PackOptions{Method: MethodDeflate, MinCompressSize: 1},
		BackupKeep:  0,
	})
	if err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}

	if err := editor.Replace(bytesInput("dir/a.txt", []byte("new-a"))); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	newPayload := bytes.Repeat([]byte("compress-me"), 2048)
	if err := editor.Add(bytesInput("new/new.txt", newPayload)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := editor.DeleteDir("dir/sub"); err != nil {
		t.Fatalf("DeleteDir: %v", err)
	}

	if editor.Pending() != 3 {
		t.Fatalf("Pending=%d, want 3", editor.Pending())
	}

	res, err := editor.Commit(context.Background())
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if res.WrittenEntries != 3 || res.CopiedEntries != 1 || res.AddedEntries != 2 || res.RemovedEntries != 1 {
		t.Fatalf("result=%+v", res)
	}
	if editor.Pending() != 0 {
		t.Fatal("staged operations must be cleared after commit")
	}

	a, err := Open(zipPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = a.Close() }()

	entries := a.Entries()
	want := []string{"dir/a.txt", "media/x.png", "new/new.txt"}
	if got := entryPaths(entries); !slices.Equal(got, want) {
		t.Fatalf("entries=%v, want %v", got, want)
	}

	replacedData, err := a.ReadEntry("dir/a.txt")
	if err != nil {
		t.Fatalf("ReadEntry replaced: %v", err)
	}
	if string(replacedData) != "new-a" {
		t.Fatalf("replaced payload=%q, want %q", replacedData, "new-a")
	}

	if kept := findEntry(entries, "media/x.png"); kept.Method != "store" {
		t.Fatalf("kept entry must be raw-copied with original method, got %q", kept.Method)
	}

	added := findEntry(entries, "new/new.txt")
	if added.Method != "deflate" || added.CompressedSize >= added.Size {
		t.Fatalf("added entry=%+v, want deflate and smaller", added)
	}

	if _, err := os.Stat(zipPath + ".bak"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf(".bak must be removed for BackupKeep=0, stat err=%v", err)
	}
}

func TestEditorCommit_AddCollision(t *testing.T) {
	t.Parallel()

	t.Run("fails by default", func(t *testing.T) {
		t.Parallel()

		zipPath := filepath.Join(t.TempDir(), "archive.zip")
		mustCreateTestZip(t, zipPath, map[string][]byte{"a.txt": []byte("orig")})

		editor, err := OpenEditor(zipPath, EditOptions{})
		if err != nil {
			t.Fatalf("OpenEditor: %v", err)
		}
		if err := editor.Add(bytesInput("a.txt", []byte("next"))); err != nil {
			t.Fatalf("Add: %v", err)
		}

		if _, err := editor.Commit(context.Background()); !errors.Is(err, ErrDuplicateEntryPath) {
			t.Fatalf("Commit err=%v, want ErrDuplicateEntryPath", err)
		}

		got, err := readEntryFromFile(zipPath, "a.txt")
		if err != nil {
			t.Fatalf("read restored archive: %v", err)
		}
		if string(got) != "orig" {
			t.Fatalf("restored payload=%q, want orig", got)
		}
	})

	t.Run("replaces when allowed", func(t *testing.T) {
		t.Parallel()

		zipPath := filepath.Join(t.TempDir(), "archive.zip")
		mustCreateTestZip(t, zipPath, map[string][]byte{"a.txt": []byte("orig"), "b.txt": []byte("b")})

		editor, err := OpenEditor(zipPath, EditOptions{AddReplaces: true})
		if err != nil {
			t.Fatalf("OpenEditor: %v", err)
		}
		if err := editor.Add(bytesInput("a.txt", []byte("next"))); err != nil {
			t.Fatalf("Add: %v", err)
		}
		if _, err := editor.Commit(context.Background()); err != nil {
			t.Fatalf("Commit: %v", err)
		}

		entries, err := ListEntries(zipPath)
		if err != nil {
			t.Fatalf("ListEntries: %v", err)
		}
		if got := entryPaths(entries); !slices.Equal(got, []string{"a.txt", "b.txt"}) {
			t.Fatalf("replaced entry must keep its position, got %v", got)
		}

		got, err := readEntryFromFile(zipPath, "a.txt")
		if err != nil {
			t.Fatalf("ReadEntry: %v", err)
		}
		if string(got) != "next" {
			t.Fatalf("payload=%q, want next", got)
		}
	})
}

func TestEditorCommit_ReplaceMissingPathFailsAndRestoresSource(t *testing.T) {
	t.Parallel()

	zipPath := filepath.Join(t.TempDir(), "archive.zip")
	mustCreateTestZip(t, zipPath, map[string][]byte{"a.txt": []byte("orig")})

	editor, err := OpenEditor(zipPath, EditOptions{BackupKeep: 0})
	if err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}

	if err := editor.Replace(bytesInput("missing.txt", []byte("x"))); err != nil {
		t.Fatalf("Replace stage: %v", err)
	}

	if _, err := editor.Commit(context.Background()); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("Commit err=%v, want ErrEntryNotFound", err)
	}

	got, err := readEntryFromFile(zipPath, "a.txt")
	if err != nil {
		t.Fatalf("read restored archive: %v", err)
	}
	if string(got) != "orig" {
		t.Fatalf("restored payload=%q, want orig", got)
	}

	if _, err := os.Stat(zipPath + ".bak"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("backup must be moved back on rollback, stat err=%v", err)
	}
}

func TestEditorCommit_InputOpenErrorRollsBack(t *testing.T) {
	t.Parallel()

	zipPath := filepath.Join(t.TempDir(), "archive.zip")
	mustCreateTestZip(t, zipPath, map[string][]byte{"a.txt": []byte("orig")})

	before, err := os.ReadFile(zipPath)
	if err != nil {
		t.Fatalf("read source: %v", err)
	}

	editor, err := OpenEditor(zipPath, EditOptions{})
	if err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}

	openErr := errors.New("boom")
	if err := editor.Add(Input{
		Path: "b.txt",
		Open: func() (io.ReadCloser, error) { return nil, openErr },
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, err := editor.Commit(context.Background()); !errors.Is(err, openErr) {
		t.Fatalf("Commit err=%v, want %v", err, openErr)
	}

	after, err := os.ReadFile(zipPath)
	if err != nil {
		t.Fatalf("read restored: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Fatal("archive must be restored byte for byte after failed commit")
	}
}

func TestEditorCommit_DeleteAndMkdir(t *testing.T) {
	t.Parallel()

	zipPath := filepath.Join(t.TempDir(), "archive.zip")
	mustCreateTestZip(t, zipPath, map[string][]byte{
		"a.txt":       []byte("a"),
		"docs/b.txt":  []byte("b"),
		"docsx/c.txt": []byte("c"),
	})

	editor, err := OpenEditor(zipPath, EditOptions{})
	if err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}

	if err := editor.Delete("a.txt", "missing.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := editor.DeleteDir("docs"); err != nil {
		t.Fatalf("DeleteDir: %v", err)
	}
	if err := editor.Mkdir("empty/folder", "docsx/c.txt"); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	if _, err := editor.Commit(context.Background()); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	entries, err := ListEntries(zipPath)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}

	want := []string{"docsx/c.txt", "empty/folder"}
	if got := entryPaths(entries); !slices.Equal(got, want) {
		t.Fatalf("entries=%v, want %v", got, want)
	}

	if dir := findEntry(entries, "empty/folder"); dir == nil || !dir.IsDir {
		t.Fatal("mkdir must write explicit folder record")
	}
	if !IsFolder(entries, "empty/folder") {
		t.Fatal("empty folder must be browsable")
	}
}

func TestEditorCommit_ZstdEntriesSurviveRawCopy(t *testing.T) {
	t.Parallel()

	zipPath := filepath.Join(t.TempDir(), "archive.zip")
	payload := bytes.Repeat([]byte("zstd payload "), 1024)
	err := createTestZip(zipPath, map[string][]byte{"z.txt": payload}, PackOptions{Method: MethodZstd})
	if err != nil {
		t.Fatalf("createTestZip: %v", err)
	}

	editor, err := OpenEditor(zipPath, EditOptions{})
	if err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	if err := editor.Add(bytesInput("other.txt", []byte("other"))); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := editor.Commit(context.Background()); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, err := readEntryFromFile(zipPath, "z.txt")
	if err != nil {
		t.Fatalf("ReadEntry: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("raw-copied zstd payload mismatch")
	}
}

func TestOpenEditor_RejectsReadOnlyFormats(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.rar")
	if err := os.WriteFile(path, []byte("Rar!\x1A\x07\x00junk"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := OpenEditor(path, EditOptions{}); !errors.Is(err, ErrReadOnlyFormat) {
		t.Fatalf("OpenEditor err=%v, want ErrReadOnlyFormat", err)
	}

	if err := (&Editor{}).Delete("/"); !errors.Is(err, ErrInvalidEntryPath) {
		t.Fatalf("Delete(/) err=%v, want ErrInvalidEntryPath", err)
	}
}

func TestEditorCommit_BackupKeepPolicies(t *testing.T) {
	t.Parallel()

	zipPath := filepath.Join(t.TempDir(), "archive.zip")
	mustCreateTestZip(t, zipPath, map[string][]byte{"a.txt": []byte("v0")})

	replaceAndCommit := func(value string) {
		t.Helper()

		editor, openErr := OpenEditor(zipPath, EditOptions{BackupKeep: 2})
		if openErr != nil {
			t.Fatalf("OpenEditor: %v", openErr)
		}

		if replaceErr := editor.Replace(bytesInput("a.txt", []byte(value))); replaceErr != nil {
			t.Fatalf("Replace: %v", replaceErr)
		}

		if _, commitErr := editor.Commit(context.Background()); commitErr != nil {
			t.Fatalf("Commit: %v", commitErr)
		}
	}

	replaceAndCommit("v1")
	replaceAndCommit("v2")
	replaceAndCommit("v3")

	currentBak, err := readEntryFromFile(zipPath+".bak", "a.txt")
	if err != nil {
		t.Fatalf("read current bak: %v", err)
	}
	if string(currentBak) != "v2" {
		t.Fatalf("current bak payload=%q, want %q", currentBak, "v2")
	}

	previousBak, err := readEntryFromFile(zipPath+".bak.1", "a.txt")
	if err != nil {
		t.Fatalf("read previous bak: %v", err)
	}
	if string(previousBak) != "v1" {
		t.Fatalf("previous bak payload=%q, want %q", previousBak, "v1")
	}

	if _, err := os.Stat(zipPath + ".bak.2"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("only two generations must be kept, stat err=%v", err)
	}
}
