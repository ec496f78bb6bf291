// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/nwaples/rardecode/v2"
	"go.uber.org/zap"
)

// rarFixtureFile is one stored record of a hand-built RAR 4 archive.
type rarFixtureFile struct {
	name string
	data []byte
	dir  bool
}

// rarDosTime packs t into the MS-DOS timestamp used by RAR 4 file headers.
func rarDosTime(t time.Time) uint32 {
	return uint32(t.Year()-1980)<<25 | uint32(t.Month())<<21 | uint32(t.Day())<<16 |
		uint32(t.Hour())<<11 | uint32(t.Minute())<<5 | uint32(t.Second()/2)
}

// rar4Block encodes one RAR 4 block header; the CRC covers everything after itself.
func rar4Block(kind byte, flags uint16, body []byte) []byte {
	block := make([]byte, 7, 7+len(body))
	block[2] = kind
	binary.LittleEndian.PutUint16(block[3:], flags)
	binary.LittleEndian.PutUint16(block[5:], uint16(7+len(body)))
	block = append(block, body...)
	binary.LittleEndian.PutUint16(block[0:], uint16(crc32.ChecksumIEEE(block[2:])))
	return block
}

// buildStoredRAR writes a single-volume RAR 4 archive with stored (method 0x30) records.
// Keep a long plain name first: volume indexing only reads the first record.
func buildStoredRAR(t *testing.T, path string, files []rarFixtureFile) {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("Rar!\x1A\x07\x00")
	buf.Write(rar4Block(0x73, 0, make([]byte, 6)))

	for _, file := range files {
		flags := uint16(0x8000)
		if file.dir {
			flags |= 0x00e0
		}

		body := make([]byte, 25, 25+len(file.name))
		binary.LittleEndian.PutUint32(body[0:], uint32(len(file.data)))
		binary.LittleEndian.PutUint32(body[4:], uint32(len(file.data)))
		body[8] = 3
		binary.LittleEndian.PutUint32(body[9:], crc32.ChecksumIEEE(file.data))
		binary.LittleEndian.PutUint32(body[13:], rarDosTime(testModTime))
		body[17] = 29
		body[18] = 0x30
		binary.LittleEndian.PutUint16(body[19:], uint16(len(file.name)))
		body = append(body, file.name...)

		buf.Write(rar4Block(0x74, flags, body))
		buf.Write(file.data)
	}

	buf.Write(rar4Block(0x7b, 0, nil))

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write RAR: %v", err)
	}
}

// rarFixture is the default layout used by RAR tests.
func rarFixture() []rarFixtureFile {
	return []rarFixtureFile{
		{name: "readme.txt", data: []byte("read me first")},
		{name: "docs", dir: true},
		{name: "docs\\guide.txt", data: []byte("guide content for the archive")},
		{name: "docs\\sub\\deep.bin", data: bytes.Repeat([]byte{0x5A}, 300)},
	}
}

// openTestRAR builds files into a temp RAR and opens it.
func openTestRAR(t *testing.T, files []rarFixtureFile) (Archive, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.rar")
	buildStoredRAR(t, path, files)

	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open RAR: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	return a, path
}

func TestApplyRARPackedSizes(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Path: "big.bin", CompressedSize: 100},
		{Path: "small.txt", CompressedSize: 50},
		{Path: "dir", IsDir: true},
		{Path: "unknown.dat", CompressedSize: 7},
	}

	applyRARPackedSizes(entries, map[string]int64{
		"big.bin":   300,
		"small.txt": 10,
		"dir":       99,
	})

	want := []int64{300, 50, 0, 7}
	for i, entry := range entries {
		if entry.CompressedSize != want[i] {
			t.Fatalf("%s compressed=%d, want %d", entry.Path, entry.CompressedSize, want[i])
		}
	}

	applyRARPackedSizes(entries, nil)
	if entries[0].CompressedSize != 300 {
		t.Fatal("nil size map must not change entries")
	}
}

func TestRARPackedSizes_NotARAR(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "plain.rar")
	mustWriteFile(t, path, "not a rar archive")

	if sizes := rarPackedSizes(path, zap.NewNop()); len(sizes) != 0 {
		t.Fatalf("sizes=%v, want none", sizes)
	}
}

func TestRAR_OpenAndList(t *testing.T) {
	t.Parallel()

	a, _ := openTestRAR(t, rarFixture())
	if a.Format() != FormatRAR {
		t.Fatalf("format=%q", a.Format())
	}

	entries := a.Entries()
	want := []string{"readme.txt", "docs", "docs/guide.txt", "docs/sub/deep.bin"}
	if got := entryPaths(entries); !slices.Equal(got, want) {
		t.Fatalf("entries=%v, want %v", got, want)
	}

	dir := findEntry(entries, "docs")
	if dir == nil || !dir.IsDir {
		t.Fatalf("docs entry=%+v, want folder", dir)
	}

	deep := findEntry(entries, "docs/sub/deep.bin")
	if deep == nil || deep.IsDir || deep.Size != 300 || deep.CompressedSize != 300 || deep.Method != "rar" {
		t.Fatalf("deep entry=%+v", deep)
	}

	wantTime := time.Date(2024, time.March, 14, 15, 9, 26, 0, time.Local)
	if !deep.Modified.Equal(wantTime) {
		t.Fatalf("modified=%v, want %v", deep.Modified, wantTime)
	}
}

func TestRAR_ReadEntry(t *testing.T) {
	t.Parallel()

	a, _ := openTestRAR(t, rarFixture())

	got, err := a.ReadEntry("docs/guide.txt")
	if err != nil {
		t.Fatalf("ReadEntry: %v", err)
	}
	if string(got) != "guide content for the archive" {
		t.Fatalf("ReadEntry=%q", got)
	}

	got, err = a.ReadEntry(`docs\sub\deep.bin`)
	if err != nil {
		t.Fatalf("ReadEntry backslash name: %v", err)
	}
	if !bytes.Equal(got, bytes.Repeat([]byte{0x5A}, 300)) {
		t.Fatalf("ReadEntry deep len=%d", len(got))
	}

	if _, err := a.ReadEntry("docs/missing.txt"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("ReadEntry missing err=%v, want ErrEntryNotFound", err)
	}
}

func TestRAR_Extract(t *testing.T) {
	t.Parallel()

	a, _ := openTestRAR(t, rarFixture())

	t.Run("all", func(t *testing.T) {
		t.Parallel()

		dst := t.TempDir()
		if err := Extract(context.Background(), a, dst, ExtractOptions{}); err != nil {
			t.Fatalf("Extract: %v", err)
		}

		assertFileContent(t, filepath.Join(dst, "readme.txt"), "read me first")
		assertFileContent(t, filepath.Join(dst, "docs", "guide.txt"), "guide content for the archive")
		assertFileContent(t, filepath.Join(dst, "docs", "sub", "deep.bin"), strings.Repeat("Z", 300))
	})

	t.Run("strip prefix", func(t *testing.T) {
		t.Parallel()

		dst := t.TempDir()
		err := Extract(context.Background(), a, dst, ExtractOptions{Prefix: "docs", StripPrefix: true})
		if err != nil {
			t.Fatalf("Extract: %v", err)
		}

		assertFileContent(t, filepath.Join(dst, "guide.txt"), "guide content for the archive")
		if _, err := os.Stat(filepath.Join(dst, "readme.txt")); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("file outside prefix extracted, stat err=%v", err)
		}
	})
}

func TestRAR_Verify(t *testing.T) {
	t.Parallel()

	a, _ := openTestRAR(t, rarFixture())

	report, err := Verify(context.Background(), a)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !report.OK() || report.Checked != 3 || report.Bytes != int64(13+29+300) {
		t.Fatalf("report=%+v", report)
	}
}

func TestRAR_VerifyCorruptedPayload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.rar")
	buildStoredRAR(t, path, rarFixture())

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	idx := bytes.Index(raw, []byte("guide content"))
	if idx < 0 {
		t.Fatal("stored payload not found")
	}
	raw[idx+3] ^= 0xFF
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = a.Close() }()

	report, err := Verify(context.Background(), a)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(report.Failures) != 1 || report.Failures[0].Path != "docs/guide.txt" {
		t.Fatalf("failures=%+v", report.Failures)
	}
	if !errors.Is(report.Failures[0].Err, rardecode.ErrBadFileChecksum) {
		t.Fatalf("failure err=%v, want bad checksum", report.Failures[0].Err)
	}
	if !errors.Is(report.Err(), ErrVerifyFailed) {
		t.Fatalf("report err=%v", report.Err())
	}
}

func TestRAR_DuplicateNameUsesLastRecord(t *testing.T) {
	t.Parallel()

	a, _ := openTestRAR(t, []rarFixtureFile{
		{name: "readme.txt", data: []byte("read me first")},
		{name: "dup.txt", data: []byte("first")},
		{name: "dup.txt", data: []byte("second!")},
	})

	if got := entryPaths(a.Entries()); !slices.Equal(got, []string{"readme.txt", "dup.txt"}) {
		t.Fatalf("entries=%v", got)
	}

	got, err := a.ReadEntry("dup.txt")
	if err != nil {
		t.Fatalf("ReadEntry: %v", err)
	}
	if string(got) != "second!" {
		t.Fatalf("ReadEntry=%q, want last record", got)
	}

	dst := t.TempDir()
	if err := Extract(context.Background(), a, dst, ExtractOptions{FileMode: ExtractFileModeCreateOnly}); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	assertFileContent(t, filepath.Join(dst, "dup.txt"), "second!")

	report, err := Verify(context.Background(), a)
	if err != nil || !report.OK() || report.Checked != 2 {
		t.Fatalf("Verify report=%+v err=%v", report, err)
	}
}

func TestExtractSequential_ReportsUnreachedEntries(t *testing.T) {
	t.Parallel()

	a, _ := openTestRAR(t, rarFixture())
	seq, ok := a.(sequentialArchive)
	if !ok {
		t.Fatalf("%T must decode sequentially", a)
	}

	dst := t.TempDir()
	job := extractJob{
		logger:      zap.NewNop(),
		dstRootAbs:  dst,
		fileMode:    ExtractFileModeAuto,
		skipModTime: true,
	}
	items := []extractWorkItem{
		{relPath: "readme.txt", entry: Entry{Path: "readme.txt"}},
		{relPath: "ghost.txt", entry: Entry{Path: "ghost.txt"}},
	}

	err := extractSequential(context.Background(), seq, job, items)
	if !errors.Is(err, ErrEntryNotFound) || !strings.Contains(err.Error(), "ghost.txt") {
		t.Fatalf("extractSequential err=%v, want ErrEntryNotFound for ghost.txt", err)
	}
	assertFileContent(t, filepath.Join(dst, "readme.txt"), "read me first")
}

func TestOpen_RARWithoutSignature(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fake.rar")
	mustWriteFile(t, path, "not a rar archive at all")

	if _, err := Open(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Open err=%v, want ErrUnsupportedFormat", err)
	}
}

func TestSession_RARArchive(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.rar")
	buildStoredRAR(t, path, rarFixture())

	s := NewSession(SessionOptions{})
	if err := s.OpenArchive(path); err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}
	if s.Format() != FormatRAR {
		t.Fatalf("format=%q", s.Format())
	}

	if err := s.Cd("docs"); err != nil {
		t.Fatalf("Cd: %v", err)
	}
	nodes, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := nodeNames(nodes); !slices.Equal(got, []string{"sub", "guide.txt"}) {
		t.Fatalf("listing=%v", got)
	}

	if _, err := s.AddFiles(context.Background(), path); !errors.Is(err, ErrReadOnlyFormat) {
		t.Fatalf("AddFiles err=%v, want ErrReadOnlyFormat", err)
	}

	dst := t.TempDir()
	if err := s.ExtractSelected(context.Background(), dst, "guide.txt"); err != nil {
		t.Fatalf("ExtractSelected: %v", err)
	}
	assertFileContent(t, filepath.Join(dst, "docs", "guide.txt"), "guide content for the archive")
}
