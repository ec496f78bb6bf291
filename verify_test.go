// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestVerify_CleanArchive(t *testing.T) {
	t.Parallel()

	a := openTestArchive(t, map[string][]byte{
		"a.txt":     bytes.Repeat([]byte("a"), 4096),
		"dir/b.txt": []byte("b"),
	})

	report, err := Verify(context.Background(), a)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if !report.OK() || report.Err() != nil {
		t.Fatalf("report=%+v, want OK", report)
	}
	if report.Checked != 2 || report.Bytes != 4097 {
		t.Fatalf("report checked=%d bytes=%d", report.Checked, report.Bytes)
	}
}

func TestVerify_CorruptedPayload(t *testing.T) {
	t.Parallel()

	marker := bytes.Repeat([]byte("MARK"), 64)
	zipPath := filepath.Join(t.TempDir(), "broken.zip")
	err := createTestZip(zipPath, map[string][]byte{
		"good.txt":   []byte("fine"),
		"broken.txt": marker,
	}, PackOptions{Method: MethodStore})
	if err != nil {
		t.Fatalf("createTestZip: %v", err)
	}

	raw, err := os.ReadFile(zipPath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	idx := bytes.Index(raw, marker)
	if idx < 0 {
		t.Fatal("stored payload not found")
	}
	raw[idx+10] ^= 0xFF

	if err := os.WriteFile(zipPath, raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	a, err := Open(zipPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = a.Close() }()

	report, err := Verify(context.Background(), a)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if report.OK() {
		t.Fatal("corrupted archive must not verify")
	}
	if len(report.Failures) != 1 || report.Failures[0].Path != "broken.txt" {
		t.Fatalf("failures=%+v", report.Failures)
	}
	if report.Failures[0].Message == "" {
		t.Fatal("failure message must be filled")
	}
	if !errors.Is(report.Err(), ErrVerifyFailed) {
		t.Fatalf("report.Err()=%v, want ErrVerifyFailed", report.Err())
	}
	if report.Checked != 2 {
		t.Fatalf("checked=%d, want 2", report.Checked)
	}
}

func TestVerify_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Verify(context.Background(), nil); !errors.Is(err, ErrNilReader) {
		t.Fatalf("Verify(nil) err=%v, want ErrNilReader", err)
	}

	a := openTestArchive(t, map[string][]byte{"a.txt": []byte("a")})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Verify(ctx, a); !errors.Is(err, context.Canceled) {
		t.Fatalf("Verify canceled err=%v, want context.Canceled", err)
	}
}
