// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/woozymasta/zipaura/internal/cliutil"
)

func newCatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cat ARCHIVE ENTRY...",
		Short: "Write entry contents to stdout",
		Args:  cliutil.WrapPositionalArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = archive.Close() }()

			for _, name := range args[1:] {
				rc, err := archive.OpenEntry(name)
				if err != nil {
					return err
				}

				_, err = io.Copy(cmd.OutOrStdout(), rc)
				_ = rc.Close()
				if err != nil {
					return fmt.Errorf("read %s: %w", name, err)
				}
			}

			return nil
		},
	}
}
