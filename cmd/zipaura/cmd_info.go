// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/woozymasta/zipaura"
	"github.com/woozymasta/zipaura/internal/cliutil"
)

func newInfoCommand(a *app) *cobra.Command {
	var (
		asYAML bool
		bytes  bool
	)

	cmd := &cobra.Command{
		Use:   "info ARCHIVE",
		Short: "Summarize archive contents",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := zipaura.Info(args[0], a.openOptions())
			if err != nil {
				return err
			}

			if asYAML {
				out, err := yaml.Marshal(info)
				if err != nil {
					return fmt.Errorf("marshal info: %w", err)
				}

				_, err = cmd.OutOrStdout().Write(out)
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Path:\t%s\n", info.Path)
			fmt.Fprintf(tw, "Format:\t%s\n", info.Format)
			fmt.Fprintf(tw, "Writable:\t%t\n", info.Writable)
			fmt.Fprintf(tw, "Files:\t%d\n", info.Files)
			fmt.Fprintf(tw, "Folders:\t%d\n", info.Folders)
			fmt.Fprintf(tw, "Size:\t%s\n", cliutil.FormatSize(info.TotalSize, bytes))
			fmt.Fprintf(tw, "Compressed:\t%s\n", cliutil.FormatSize(info.TotalCompressed, bytes))
			fmt.Fprintf(tw, "Ratio:\t%.1f%%\n", info.Ratio()*100)
			fmt.Fprintf(tw, "Archive size:\t%s\n", cliutil.FormatSize(info.FileSize, bytes))
			fmt.Fprintf(tw, "Modified:\t%s\n", cliutil.FormatTime(info.Modified))
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the summary as YAML")
	cmd.Flags().BoolVar(&bytes, "bytes", false, "Print sizes in bytes")

	return cmd
}
