// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"fmt"
	"path"
	"strings"
)

// NormalizePath converts an archive-internal path to normalized slash-separated form.
// It trims spaces, accepts both "/" and "\", removes leading "./" and "/", and cleans "." segments.
func NormalizePath(raw string) string {
	raw = normalizePathForMatching(raw)
	raw = strings.TrimPrefix(raw, "/")
	raw = path.Clean("/" + raw)
	raw = strings.TrimPrefix(raw, "/")
	if raw == "." {
		return ""
	}

	return strings.TrimSuffix(raw, "/")
}

// JoinPath joins folder and name into one normalized archive path.
func JoinPath(dir string, name string) string {
	return NormalizePath(dir + "/" + name)
}

// ParentPath returns parent folder of normalized path; root has parent "".
func ParentPath(p string) string {
	p = NormalizePath(p)
	idx := strings.LastIndexByte(p, '/')
	if idx < 0 {
		return ""
	}

	return p[:idx]
}

// BaseName returns last segment of normalized path.
func BaseName(p string) string {
	p = NormalizePath(p)
	return p[strings.LastIndexByte(p, '/')+1:]
}

// normalizePathForMatching normalizes user/input paths for matcher use.
func normalizePathForMatching(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, `\`, `/`)
	p = strings.TrimPrefix(p, "./")
	return p
}

// normalizeEntryPath converts input path to canonical archive form and rejects empty results.
func normalizeEntryPath(raw string) (string, error) {
	normalized := NormalizePath(raw)
	if normalized == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidEntryPath, raw)
	}

	return normalized, nil
}

// hasDirPrefix reports whether p is equal to prefix or inside prefixed folder.
// Empty prefix matches everything.
func hasDirPrefix(p string, prefix string) bool {
	if prefix == "" {
		return true
	}

	return p == prefix || strings.HasPrefix(p, prefix+"/")
}

// pathKey returns map key used for entry identity inside an archive.
// ZIP names are case-sensitive, so the key only normalizes separators.
func pathKey(p string) string {
	return NormalizePath(p)
}
