// Copyright (C) 2020  Ambassador Labs (for Telepresence)
// Copyright (C) 2021-2022  Ambassador Labs (for ocibuild)
//
// SPDX-License-Identifier: Apache-2.0
//
// Contains code from
// https://github.com/telepresenceio/telepresence/blob/3b63073ceafae6b548c664a83f7ac90497eab2ae/pkg/client/cli/command.go
//
// Based on github.com/datawire/ocibuild pkg/cliutil/cobra.go
//
// Modifications Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

// Package cliutil holds cobra helpers and terminal table output for the CLI.
package cliutil

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// ExitUsage is the process exit code for bad command line usage.
const ExitUsage = 2

// UsageError marks an error caused by invalid arguments or flags.
// main reports it with a "See --help" hint and exits with ExitUsage.
type UsageError struct {
	Err         error
	CommandPath string
}

// Error implements error.
func (e *UsageError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *UsageError) Unwrap() error {
	return e.Err
}

// OnlySubcommands is a cobra.PositionalArgs that is similar to cobra.NoArgs, but prints a better
// error message.
func OnlySubcommands(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		err := fmt.Errorf("invalid subcommand %q", args[0])

		if cmd.SuggestionsMinimumDistance <= 0 {
			cmd.SuggestionsMinimumDistance = 2
		}
		if suggestions := cmd.SuggestionsFor(args[0]); len(suggestions) > 0 {
			err = fmt.Errorf("%w\nDid you mean one of these?\n\t%s", err, strings.Join(suggestions, "\n\t"))
		}

		return FlagErrorFunc(cmd, err)
	}
	return nil
}

// WrapPositionalArgs wraps a cobra.PositionalArgs to have it pass any errors through FlagErrorFunc,
// in order to have more consistent bad-usage reporting.
func WrapPositionalArgs(inner cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return FlagErrorFunc(cmd, inner(cmd, args))
	}
}

// FlagErrorFunc is passed to (*cobra.Command).SetFlagErrorFunc; it turns flag
// and argument errors into *UsageError so every usage problem is reported the same way.
func FlagErrorFunc(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return err
	}

	return &UsageError{Err: err, CommandPath: cmd.CommandPath()}
}

// ReportError writes err in GNU style and returns the process exit code.
func ReportError(w io.Writer, rootPath string, err error) int {
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		// If the error is multiple lines, include an extra blank line before the "See --help" line.
		errStr := strings.TrimRight(usageErr.Error(), "\n")
		if strings.Contains(errStr, "\n") {
			errStr += "\n"
		}

		fmt.Fprintf(w, "%s: %s\nSee '%s --help' for more information.\n",
			usageErr.CommandPath, errStr, usageErr.CommandPath)
		return ExitUsage
	}

	fmt.Fprintf(w, "%s: error: %v\n", rootPath, err)
	return 1
}
