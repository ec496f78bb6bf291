// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// ParseMethod resolves compression method name ("store", "deflate", "zstd").
func ParseMethod(raw string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(raw))) {
	case "", MethodDeflate:
		return MethodDeflate, nil
	case MethodStore, "none":
		return MethodStore, nil
	case MethodZstd, "zstandard":
		return MethodZstd, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, raw)
	}
}

// zipMethodID returns ZIP header method identifier.
func zipMethodID(method Method) (uint16, error) {
	switch method {
	case MethodStore:
		return zip.Store, nil
	case MethodDeflate:
		return zip.Deflate, nil
	case MethodZstd:
		return zstd.ZipMethodWinZip, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

// registerZipCompressors installs level-aware compressors on writer.
func registerZipCompressors(zw *zip.Writer, opts PackOptions) error {
	switch opts.Method {
	case MethodDeflate:
		level := opts.Level
		if level == 0 {
			level = DefaultDeflateLevel
		}
		if level < flate.HuffmanOnly || level > flate.BestCompression {
			return fmt.Errorf("%w: deflate level %d", ErrUnknownMethod, level)
		}

		zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(w, level)
		})
	case MethodZstd:
		level := opts.Level
		if level == 0 {
			level = DefaultZstdLevel
		}

		zw.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor(
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		))
	case MethodStore:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMethod, opts.Method)
	}

	return nil
}

// selectMethod returns method for one input under store rules and size threshold.
func selectMethod(opts PackOptions, store *ruleMatcher, in Input) Method {
	if store.Match(in.Path, false) {
		return MethodStore
	}

	if in.SizeHint > 0 && in.SizeHint < opts.MinCompressSize {
		return MethodStore
	}

	return opts.Method
}
