// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package main

import (
	"github.com/spf13/cobra"

	"github.com/woozymasta/zipaura"
	"github.com/woozymasta/zipaura/internal/cliutil"
)

func newLsCommand(a *app) *cobra.Command {
	var (
		bytes    bool
		flat     bool
		noHeader bool
	)

	cmd := &cobra.Command{
		Use:   "ls ARCHIVE [FOLDER]",
		Short: "List one folder of an archive",
		Long: "List immediate children of FOLDER (archive root by default). " +
			"Folders show the total size of everything below them. " +
			"ARCHIVE may be - to read a ZIP stream from stdin.",
		Args: cliutil.WrapPositionalArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.entries(cmd, args[0])
			if err != nil {
				return err
			}

			folder := ""
			if len(args) == 2 {
				folder = args[1]
			}

			var rows []cliutil.Row
			if flat {
				rows = entryRows(zipaura.FilterPrefix(entries, folder))
			} else {
				nodes, err := zipaura.Project(entries, folder)
				if err != nil {
					return err
				}
				rows = nodeRows(nodes)
			}

			return newTable(bytes, noHeader).Render(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().BoolVar(&bytes, "bytes", false, "Print sizes in bytes")
	cmd.Flags().BoolVar(&flat, "flat", false, "List every entry with full path instead of one folder")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "Do not print the column header")

	return cmd
}
