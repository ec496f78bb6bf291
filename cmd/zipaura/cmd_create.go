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

func newCreateCommand(a *app) *cobra.Command {
	var (
		force bool
		into  string
	)

	cmd := &cobra.Command{
		Use:   "create ARCHIVE [FILE...]",
		Short: "Create a new ZIP archive",
		Long: "Create a new ZIP archive, appending .zip when ARCHIVE lacks it. " +
			"Listed files and directories are packed into it right away.",
		Args: cliutil.WrapPositionalArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := zipaura.Create(args[0], zipaura.CreateOptions{Overwrite: force})
			if err != nil {
				return err
			}

			if len(args) > 1 {
				if _, err := a.addFiles(cmd, created, into, false, args[1:]); err != nil {
					return err
				}
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), created)
			return err
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing archive")
	cmd.Flags().StringVar(&into, "into", "", "Place files under archive `FOLDER`")

	return cmd
}
