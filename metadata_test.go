// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"bytes"
	"context"
	"path/filepath"
	"slices"
	"testing"
)

func TestListEntriesWithOptions(t *testing.T) {
	t.Parallel()

	zipPath := filepath.Join(t.TempDir(), "list.zip")
	mustCreateTestZip(t, zipPath, map[string][]byte{
		"docs/a.txt":     []byte("a"),
		"docs/b\x1b.txt": []byte("b"),
		"root.txt":       []byte("root"),
	})

	editor, err := OpenEditor(zipPath, EditOptions{})
	if err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	if err := editor.Mkdir("docs/empty"); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if _, err := editor.Commit(context.Background()); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	entries, err := ListEntriesWithOptions(zipPath, ListOptions{Prefix: "docs"})
	if err != nil {
		t.Fatalf("ListEntriesWithOptions: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("prefixed entries=%v", entryPaths(entries))
	}

	files, err := ListEntriesWithOptions(zipPath, ListOptions{Prefix: "docs", FilesOnly: true, DisplayNames: true})
	if err != nil {
		t.Fatalf("ListEntriesWithOptions: %v", err)
	}
	if got := entryPaths(files); !slices.Equal(got, []string{"docs/a.txt", "docs/b_.txt"}) {
		t.Fatalf("files=%v", got)
	}
}

func TestInfo(t *testing.T) {
	t.Parallel()

	zipPath := filepath.Join(t.TempDir(), "info.zip")
	err := createTestZip(zipPath, map[string][]byte{
		"a/b/c.txt": bytes.Repeat([]byte("c"), 4096),
		"a/d.txt":   []byte("d"),
		"e.txt":     []byte("e"),
	}, PackOptions{Method: MethodDeflate})
	if err != nil {
		t.Fatalf("createTestZip: %v", err)
	}

	info, err := Info(zipPath, OpenOptions{})
	if err != nil {
		t.Fatalf("Info: %v", err)
	}

	if info.Format != FormatZIP || !info.Writable {
		t.Fatalf("info format=%q writable=%v", info.Format, info.Writable)
	}
	if info.Files != 3 || info.Folders != 2 {
		t.Fatalf("files=%d folders=%d, want 3 and 2", info.Files, info.Folders)
	}
	if info.TotalSize != 4098 {
		t.Fatalf("total size=%d", info.TotalSize)
	}
	if info.FileSize == 0 || info.TotalCompressed == 0 {
		t.Fatalf("info sizes=%+v", info)
	}
	if ratio := info.Ratio(); ratio <= 0 || ratio >= 1 {
		t.Fatalf("ratio=%f, want compressed below 1", ratio)
	}

	if (ArchiveInfo{}).Ratio() != 0 {
		t.Fatal("empty info ratio must be 0")
	}
}
