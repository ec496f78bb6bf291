// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/woozymasta/zipaura"
	"github.com/woozymasta/zipaura/internal/cliutil"
)

func newAddCommand(a *app) *cobra.Command {
	var (
		into    string
		replace bool
	)

	cmd := &cobra.Command{
		Use:   "add ARCHIVE FILE...",
		Short: "Add files and directories to a ZIP archive",
		Long: "Add host files and directories to a ZIP archive. " +
			"Directories are added recursively. Existing entries are an error unless --replace is set.",
		Args: cliutil.WrapPositionalArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.addFiles(cmd, args[0], into, replace, args[1:])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "added %d, copied %d, archive %s\n",
				res.AddedEntries, res.CopiedEntries, cliutil.FormatSize(res.ArchiveSize, false))
			return err
		},
	}

	cmd.Flags().StringVar(&into, "into", "", "Place files under archive `FOLDER`")
	cmd.Flags().BoolVar(&replace, "replace", false, "Replace entries that already exist")

	return cmd
}

// addFiles packs host paths into archive folder into.
func (a *app) addFiles(cmd *cobra.Command, archive, into string, replace bool, paths []string) (*zipaura.PackResult, error) {
	opts := a.cfg.EditOptions(a.logger)
	opts.AddReplaces = replace

	editor, err := zipaura.OpenEditor(archive, opts)
	if err != nil {
		return nil, err
	}

	inputs, err := zipaura.InputsFromPaths(zipaura.NormalizePath(into), paths...)
	if err != nil {
		return nil, err
	}

	if err := editor.Add(inputs...); err != nil {
		return nil, err
	}

	res, err := editor.Commit(cmd.Context())
	if err != nil {
		return nil, err
	}

	a.logger.Info("files added",
		zap.String("archive", archive),
		zap.Int("added", res.AddedEntries),
		zap.Int("written", res.WrittenEntries),
	)

	return res, nil
}
