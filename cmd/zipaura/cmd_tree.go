// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/woozymasta/zipaura"
	"github.com/woozymasta/zipaura/internal/cliutil"
)

func newTreeCommand(a *app) *cobra.Command {
	var (
		sizes    bool
		bytes    bool
		maxDepth int
	)

	cmd := &cobra.Command{
		Use:   "tree ARCHIVE [FOLDER]",
		Short: "Print the folder tree of an archive",
		Args:  cliutil.WrapPositionalArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.entries(cmd, args[0])
			if err != nil {
				return err
			}

			folder := ""
			if len(args) == 2 {
				folder = args[1]
			}

			p := treePrinter{
				out:      cmd.OutOrStdout(),
				entries:  entries,
				sizes:    sizes,
				bytes:    bytes,
				maxDepth: maxDepth,
			}
			return p.print(folder, 0)
		},
	}

	cmd.Flags().BoolVar(&sizes, "sizes", false, "Print sizes next to names")
	cmd.Flags().BoolVar(&bytes, "bytes", false, "Print sizes in bytes")
	cmd.Flags().IntVar(&maxDepth, "depth", 0, "Descend at most `N` levels (0 means unlimited)")

	return cmd
}

type treePrinter struct {
	out      io.Writer
	entries  []zipaura.Entry
	sizes    bool
	bytes    bool
	maxDepth int
}

func (p treePrinter) print(folder string, depth int) error {
	nodes, err := zipaura.Project(p.entries, folder)
	if err != nil {
		return err
	}

	for _, node := range nodes {
		name := zipaura.DisplayPath(node.Name)
		if node.IsDir {
			name += "/"
		}
		if p.sizes {
			name += " (" + cliutil.FormatSize(node.Size, p.bytes) + ")"
		}

		if _, err := fmt.Fprintln(p.out, cliutil.Indent(depth)+name); err != nil {
			return err
		}

		if node.IsDir && (p.maxDepth == 0 || depth+1 < p.maxDepth) {
			if err := p.print(node.Path, depth+1); err != nil {
				return err
			}
		}
	}

	return nil
}
