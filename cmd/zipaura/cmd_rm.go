// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/woozymasta/zipaura"
	"github.com/woozymasta/zipaura/internal/cliutil"
)

func newRmCommand(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm ARCHIVE PATH...",
		Short: "Remove entries from a ZIP archive",
		Long:  "Remove files from a ZIP archive. A folder PATH removes everything below it.",
		Args:  cliutil.WrapPositionalArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := zipaura.ListEntriesWithOptions(args[0], zipaura.ListOptions{Open: a.openOptions()})
			if err != nil {
				return err
			}

			editor, err := zipaura.OpenEditor(args[0], a.cfg.EditOptions(a.logger))
			if err != nil {
				return err
			}

			for _, raw := range args[1:] {
				target := zipaura.NormalizePath(raw)
				switch {
				case target != "" && zipaura.IsFolder(entries, target):
					err = editor.DeleteDir(target)
				case target != "" && hasEntry(entries, target):
					err = editor.Delete(target)
				case force:
					continue
				default:
					return fmt.Errorf("%w: %s", zipaura.ErrEntryNotFound, raw)
				}
				if err != nil {
					return err
				}
			}

			if editor.Pending() == 0 {
				return nil
			}

			res, err := editor.Commit(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %d, kept %d\n", res.RemovedEntries, res.WrittenEntries)
			return err
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Ignore paths that do not exist")

	return cmd
}

func hasEntry(entries []zipaura.Entry, target string) bool {
	for _, entry := range entries {
		if zipaura.NormalizePath(entry.Path) == target {
			return true
		}
	}

	return false
}
