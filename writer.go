// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

// rewriteEntry is one planned record of the output archive.
type rewriteEntry struct {
	// source is set for entries raw-copied from the source archive.
	source *zip.File
	// input is set for entries written from caller streams.
	input *Input
	path  string
	// dir marks an explicit directory record written without payload.
	dir     bool
	modTime time.Time
}

// countingWriter counts bytes passed to the wrapped writer.
type countingWriter struct {
	w io.Writer
	n int64
}

// Write forwards bytes and updates counter.
func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Pack writes a new ZIP archive to out from the given inputs.
// Inputs keep caller order; duplicate paths are rejected.
func Pack(ctx context.Context, out io.Writer, inputs []Input, opts PackOptions) (*PackResult, error) {
	if out == nil {
		return nil, ErrNilWriter
	}

	opts.applyDefaults()

	plan, err := preparePackPlan(inputs)
	if err != nil {
		return nil, err
	}

	return rewriteArchive(ctx, out, plan, opts)
}

// PackFile writes a new ZIP archive to outPath, replacing any existing file.
func PackFile(ctx context.Context, outPath string, inputs []Input, opts PackOptions) (*PackResult, error) {
	f, err := os.OpenFile(outPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create archive file: %w", err)
	}
	defer func() {
		if f != nil {
			_ = f.Close()
		}
	}()

	res, err := Pack(ctx, f, inputs, opts)
	if err != nil {
		return nil, err
	}

	if err := f.Sync(); err != nil {
		return nil, fmt.Errorf("sync archive file: %w", err)
	}

	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close archive file: %w", err)
	}
	f = nil

	return res, nil
}

// InputFromFile builds input reading a host file into archive path name.
func InputFromFile(path string, name string) (Input, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Input{}, fmt.Errorf("stat input: %w", err)
	}

	if info.IsDir() {
		return Input{}, fmt.Errorf("%w: %s is a directory", ErrInvalidEntryPath, path)
	}

	return Input{
		Path:     name,
		ModTime:  info.ModTime(),
		SizeHint: info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// InputsFromPaths builds inputs for host files and directories.
// Files are stored by base name under dir; directories are walked recursively
// and stored under their own base name.
func InputsFromPaths(dir string, paths ...string) ([]Input, error) {
	var inputs []Input
	for _, hostPath := range paths {
		info, err := os.Stat(hostPath)
		if err != nil {
			return nil, fmt.Errorf("stat input: %w", err)
		}

		if !info.IsDir() {
			in, err := InputFromFile(hostPath, JoinPath(dir, filepath.Base(hostPath)))
			if err != nil {
				return nil, err
			}

			inputs = append(inputs, in)
			continue
		}

		root := filepath.Clean(hostPath)
		base := filepath.Base(root)
		err = filepath.WalkDir(root, func(walkPath string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}

			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}

			rel, err := filepath.Rel(root, walkPath)
			if err != nil {
				return err
			}

			in, err := InputFromFile(walkPath, JoinPath(dir, base+"/"+filepath.ToSlash(rel)))
			if err != nil {
				return err
			}

			inputs = append(inputs, in)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", hostPath, err)
		}
	}

	return inputs, nil
}

// preparePackPlan normalizes pack inputs and rejects duplicates.
func preparePackPlan(inputs []Input) ([]rewriteEntry, error) {
	plan := make([]rewriteEntry, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for i := range inputs {
		normalizedPath, err := normalizeEntryPath(inputs[i].Path)
		if err != nil {
			return nil, err
		}

		key := pathKey(normalizedPath)
		if _, exists := seen[key]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateEntryPath, normalizedPath)
		}
		seen[key] = struct{}{}

		item := inputs[i]
		item.Path = normalizedPath
		plan = append(plan, rewriteEntry{path: normalizedPath, input: &item})
	}

	return plan, nil
}

// rewriteArchive writes planned records as a ZIP stream to out.
func rewriteArchive(ctx context.Context, out io.Writer, plan []rewriteEntry, opts PackOptions) (*PackResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()

	store, err := newRuleMatcher(opts.Store, opts.StoreMatcherOptions)
	if err != nil {
		return nil, err
	}

	counter := &countingWriter{w: out}
	bw := bufio.NewWriterSize(counter, opts.CopyBufferSize)
	zw := zip.NewWriter(bw)
	if err := registerZipCompressors(zw, opts); err != nil {
		return nil, err
	}

	res := &PackResult{}
	copyBuf := make([]byte, opts.CopyBufferSize)
	for i := range plan {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item := &plan[i]
		switch {
		case item.source != nil:
			if err := zw.Copy(item.source); err != nil {
				return nil, fmt.Errorf("copy entry %s: %w", item.path, err)
			}

			res.CopiedEntries++
			notifyEntryDone(opts, PackEntryProgress{
				Path:   item.path,
				Size:   int64(item.source.UncompressedSize64),
				Copied: true,
			})
		case item.dir:
			if err := writeDirRecord(zw, item.path, item.modTime); err != nil {
				return nil, err
			}

			res.AddedEntries++
		default:
			method := selectMethod(opts, store, *item.input)
			written, err := writeInputEntry(zw, *item.input, method, copyBuf)
			if err != nil {
				return nil, err
			}

			res.AddedEntries++
			res.InputBytes += written
			notifyEntryDone(opts, PackEntryProgress{
				Path:   item.path,
				Method: method,
				Size:   written,
			})
		}

		res.WrittenEntries++
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finish ZIP directory: %w", err)
	}

	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("flush archive: %w", err)
	}

	res.ArchiveSize = counter.n
	res.Duration = time.Since(start)
	return res, nil
}

// writeInputEntry compresses one input stream into a new ZIP record.
func writeInputEntry(zw *zip.Writer, in Input, method Method, copyBuf []byte) (int64, error) {
	methodID, err := zipMethodID(method)
	if err != nil {
		return 0, err
	}

	modTime := in.ModTime
	if modTime.IsZero() {
		modTime = time.Now()
	}

	header := &zip.FileHeader{
		Name:     in.Path,
		Method:   methodID,
		Modified: modTime,
	}

	rc, err := openInputReader(in)
	if err != nil {
		return 0, err
	}
	defer func() { _ = rc.Close() }()

	w, err := zw.CreateHeader(header)
	if err != nil {
		return 0, fmt.Errorf("create entry %s: %w", in.Path, err)
	}

	written, err := io.CopyBuffer(w, rc, copyBuf)
	if err != nil {
		return written, fmt.Errorf("write entry %s: %w", in.Path, err)
	}

	return written, nil
}

// writeDirRecord writes explicit folder record with trailing slash.
func writeDirRecord(zw *zip.Writer, path string, modTime time.Time) error {
	if modTime.IsZero() {
		modTime = time.Now()
	}

	header := &zip.FileHeader{
		Name:     strings.TrimSuffix(path, "/") + "/",
		Method:   zip.Store,
		Modified: modTime,
	}
	header.SetMode(fs.ModeDir | 0o755)

	if _, err := zw.CreateHeader(header); err != nil {
		return fmt.Errorf("create folder %s: %w", path, err)
	}

	return nil
}

// openInputReader opens source stream for one input.
func openInputReader(in Input) (io.ReadCloser, error) {
	if in.Open == nil {
		return nil, fmt.Errorf("input %s: Open is nil", in.Path)
	}

	rc, err := in.Open()
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", in.Path, err)
	}

	return rc, nil
}

// notifyEntryDone invokes progress callback when configured.
func notifyEntryDone(opts PackOptions, progress PackEntryProgress) {
	if opts.OnEntryDone != nil {
		opts.OnEntryDone(progress)
	}
}
