// Copyright (C) 2020  Ambassador Labs (for Telepresence)
// Copyright (C) 2021  Ambassador Labs (for ocibuild)
//
// SPDX-License-Identifier: Apache-2.0
//
// Based on
// https://github.com/telepresenceio/telepresence/blob/b6dfa04ff014915b47386191cc3d8b1352522fea/pkg/client/cli/command_group.go#L35-L63
//
// Based on github.com/datawire/ocibuild pkg/cliutil/term.go
//
// Modifications Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package cliutil

import (
	"os"
	"strconv"

	"golang.org/x/term"
)

// GetTerminalWidth returns the width of the terminal that output should fit into.
// Zero means stdout is not a terminal and lines are not truncated.
func GetTerminalWidth() int {
	// Obey COLUMNS if the shell or user sets it.
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil {
		return cols
	}

	if cols, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return cols
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		return 80
	}

	return 0
}

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
