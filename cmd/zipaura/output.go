// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package main

import (
	"github.com/spf13/cobra"

	"github.com/woozymasta/zipaura"
	"github.com/woozymasta/zipaura/internal/cliutil"
)

// stdinArchive is the ARCHIVE argument that reads a ZIP stream from stdin.
const stdinArchive = "-"

// entries lists archive metadata; "-" reads a ZIP stream from stdin.
func (a *app) entries(cmd *cobra.Command, path string) ([]zipaura.Entry, error) {
	if path == stdinArchive {
		return zipaura.ListZipStream(cmd.InOrStdin())
	}

	return zipaura.ListEntriesWithOptions(path, zipaura.ListOptions{Open: a.openOptions()})
}

func newTable(bytes, noHeader bool) cliutil.Table {
	return cliutil.Table{
		Width:    cliutil.GetTerminalWidth(),
		Bytes:    bytes,
		NoHeader: noHeader,
	}
}

func nodeRows(nodes []zipaura.Node) []cliutil.Row {
	rows := make([]cliutil.Row, 0, len(nodes))
	for _, node := range nodes {
		rows = append(rows, cliutil.Row{
			Name:           zipaura.DisplayPath(node.Name),
			Size:           node.Size,
			CompressedSize: node.CompressedSize,
			Modified:       node.Modified,
			IsDir:          node.IsDir,
		})
	}

	return rows
}

func entryRows(entries []zipaura.Entry) []cliutil.Row {
	rows := make([]cliutil.Row, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, cliutil.Row{
			Name:           zipaura.DisplayPath(entry.Path),
			Size:           entry.Size,
			CompressedSize: entry.CompressedSize,
			Modified:       entry.Modified,
			IsDir:          entry.IsDir,
		})
	}

	return rows
}
