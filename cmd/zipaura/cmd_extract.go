// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/woozymasta/zipaura"
	"github.com/woozymasta/zipaura/internal/cliutil"
)

func newExtractCommand(a *app) *cobra.Command {
	var (
		prefix    string
		strip     bool
		selects   []string
		rawNames  bool
		fileMode  string
		workers   int
		skipMtime bool
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "extract ARCHIVE [DEST]",
		Short: "Extract archive contents",
		Long: "Extract archive contents into DEST (current directory by default). " +
			"Names unsafe on the host are sanitized unless --raw-names is set.",
		Args: cliutil.WrapPositionalArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			dst := "."
			if len(args) == 2 {
				dst = args[1]
			}

			opts := a.cfg.ExtractOptions(a.logger)
			opts.Prefix = prefix
			opts.StripPrefix = strip
			opts.Select = zipaura.ParseRules(selects...)
			opts.RawNames = rawNames
			opts.SkipModTime = skipMtime
			if fileMode != "" {
				opts.FileMode = zipaura.ExtractFileMode(fileMode)
			}
			if workers > 0 {
				opts.MaxWorkers = workers
			}

			if verbose {
				var mu sync.Mutex
				out := cmd.OutOrStdout()
				opts.OnEntryDone = func(_ zipaura.Entry, _ int64, outputPath string) {
					mu.Lock()
					defer mu.Unlock()
					_, _ = fmt.Fprintln(out, outputPath)
				}
			}

			archive, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = archive.Close() }()

			return zipaura.Extract(cmd.Context(), archive, dst, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&prefix, "prefix", "", "Extract only archive `FOLDER` or one file")
	flags.BoolVar(&strip, "strip", false, "Write --prefix contents directly into DEST")
	flags.StringSliceVarP(&selects, "select", "s", nil, "Extract only paths matching `PATTERN` (repeatable, ! excludes)")
	flags.BoolVar(&rawNames, "raw-names", false, "Keep entry names as stored; reject unsafe ones instead of renaming")
	flags.StringVar(&fileMode, "file-mode", "", "Existing file policy: auto, overwrite_smart, truncate, create_only")
	flags.IntVarP(&workers, "workers", "j", 0, "Number of parallel extract workers")
	flags.BoolVar(&skipMtime, "skip-mtime", false, "Do not restore entry modification times")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print every extracted file")

	return cmd
}
