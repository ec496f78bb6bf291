// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/woozymasta/zipaura"
	"github.com/woozymasta/zipaura/internal/cliutil"
)

func newTestCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "test ARCHIVE...",
		Short: "Check archive integrity",
		Long:  "Decode every file entry to the end so stored checksums are verified.",
		Args:  cliutil.WrapPositionalArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			var errs []error
			for _, path := range args {
				report, err := verifyArchive(cmd, a, path)
				if err != nil {
					return err
				}

				if report.OK() {
					fmt.Fprintf(out, "OK %s: %d files, %s\n", path, report.Checked, cliutil.FormatSize(report.Bytes, false))
					continue
				}

				for _, failure := range report.Failures {
					fmt.Fprintf(out, "FAIL %s: %s: %s\n", path, zipaura.DisplayPath(failure.Path), failure.Message)
				}
				errs = append(errs, fmt.Errorf("%s: %w", path, report.Err()))
			}

			return errors.Join(errs...)
		},
	}
}

func verifyArchive(cmd *cobra.Command, a *app, path string) (*zipaura.VerifyReport, error) {
	archive, err := a.open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = archive.Close() }()

	return zipaura.Verify(cmd.Context(), archive)
}
