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

func newFindCommand(a *app) *cobra.Command {
	var (
		glob  bool
		long  bool
		bytes bool
	)

	cmd := &cobra.Command{
		Use:   "find ARCHIVE QUERY...",
		Short: "Find entries by name",
		Long: "Find entries whose path contains QUERY, ignoring case. " +
			"With --glob every QUERY is a gitignore-style pattern; prefix a pattern with ! to exclude.",
		Args: cliutil.WrapPositionalArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.entries(cmd, args[0])
			if err != nil {
				return err
			}

			var found []zipaura.Entry
			if glob {
				found, err = zipaura.Match(entries, zipaura.ParseRules(args[1:]...))
				if err != nil {
					return err
				}
			} else {
				found = entries
				for _, query := range args[1:] {
					found = zipaura.Search(found, query)
				}
			}

			if long {
				return newTable(bytes, false).Render(cmd.OutOrStdout(), entryRows(found))
			}

			for _, entry := range found {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), zipaura.DisplayPath(entry.Path)); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&glob, "glob", "g", false, "Treat queries as glob patterns")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "Print a table with sizes and dates")
	cmd.Flags().BoolVar(&bytes, "bytes", false, "Print sizes in bytes")

	return cmd
}
