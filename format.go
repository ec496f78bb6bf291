// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// formatSniffSize is how many leading bytes are inspected for signatures.
const formatSniffSize = 8

var (
	sigZIPLocal   = []byte("PK\x03\x04")
	sigZIPEmpty   = []byte("PK\x05\x06")
	sigZIPSpanned = []byte("PK\x07\x08")
	sigRAR        = []byte("Rar!\x1A\x07")
	sigSevenZip   = []byte("7z\xBC\xAF\x27\x1C")

	// rarVolumeExt matches legacy split volume extensions (.r00 .. .r99).
	rarVolumeExt = regexp.MustCompile(`(?i)^\.r\d\d$`)
)

// DetectFormat reports archive format of a file by signature, falling back to extension.
// The extension fallback covers self-extracting and prefixed archives; the
// format reader then rejects files that only look like archives by name.
func DetectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, formatSniffSize)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read signature: %w", err)
	}

	if format, ok := detectFormatBytes(head[:n]); ok {
		return format, nil
	}

	if format, ok := detectFormatExt(path); ok {
		return format, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// detectFormatBytes matches leading signature bytes.
func detectFormatBytes(head []byte) (Format, bool) {
	switch {
	case bytes.HasPrefix(head, sigZIPLocal),
		bytes.HasPrefix(head, sigZIPEmpty),
		bytes.HasPrefix(head, sigZIPSpanned):
		return FormatZIP, true
	case bytes.HasPrefix(head, sigRAR):
		return FormatRAR, true
	case bytes.HasPrefix(head, sigSevenZip):
		return FormatSevenZip, true
	default:
		return "", false
	}
}

// detectFormatExt guesses format by file extension.
func detectFormatExt(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".zip":
		return FormatZIP, true
	case ext == ".rar", rarVolumeExt.MatchString(ext):
		return FormatRAR, true
	case ext == ".7z":
		return FormatSevenZip, true
	default:
		return "", false
	}
}
