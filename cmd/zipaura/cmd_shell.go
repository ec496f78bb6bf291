// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/woozymasta/zipaura"
	"github.com/woozymasta/zipaura/internal/cliutil"
)

const shellHelp = `Commands:
  open ARCHIVE          open an archive
  create ARCHIVE        create an empty ZIP and open it
  ls                    list the current folder
  cd NAME|..|/          enter a folder
  up                    go to the parent folder
  back                  return to the previous folder
  pwd                   print the current folder
  find QUERY            search entry paths, ignoring case
  add PATH...           add host files into the current folder
  rm NAME...            remove entries of the current folder
  extract DEST NAME...  extract selected entries
  extractall DEST       extract the whole archive
  refresh               re-read the archive
  exit                  leave the shell
`

// errShellExit stops the shell loop.
var errShellExit = errors.New("exit")

func newShellCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell [ARCHIVE]",
		Short: "Browse and edit archives interactively",
		Long:  "Start an interactive archive browser reading commands from stdin. Type help for the command list.",
		Args:  cliutil.WrapPositionalArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := zipaura.NewSession(a.cfg.SessionOptions(a.logger, a.password))
			if len(args) == 1 {
				if err := s.OpenArchive(args[0]); err != nil {
					return err
				}
			}

			return runShell(cmd.Context(), s, cmd.InOrStdin(), cmd.OutOrStdout(), cliutil.IsInteractive())
		},
	}
}

// shell executes line commands against one session.
type shell struct {
	session *zipaura.Session
	out     io.Writer
	table   cliutil.Table
}

// runShell reads commands from in until EOF or exit. Command errors are
// printed and do not stop the loop.
func runShell(ctx context.Context, s *zipaura.Session, in io.Reader, out io.Writer, prompt bool) error {
	sh := &shell{
		session: s,
		out:     out,
		table:   cliutil.Table{Width: cliutil.GetTerminalWidth()},
	}

	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprint(out, sh.prompt())
		}

		if !scanner.Scan() {
			break
		}

		args, err := splitShellArgs(scanner.Text())
		if err == nil && len(args) > 0 {
			err = sh.exec(ctx, args[0], args[1:])
		}

		switch {
		case errors.Is(err, errShellExit):
			return nil
		case err != nil:
			fmt.Fprintf(out, "error: %v\n", err)
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}

	return scanner.Err()
}

func (sh *shell) prompt() string {
	if sh.session.Path() == "" {
		return "zipaura> "
	}

	return "zipaura:/" + sh.session.Navigation().CurrentPath + "> "
}

func (sh *shell) exec(ctx context.Context, name string, args []string) error {
	switch name {
	case "exit", "quit":
		return errShellExit
	case "help", "?":
		_, err := io.WriteString(sh.out, shellHelp)
		return err
	case "open":
		if err := needArgs(name, args, 1); err != nil {
			return err
		}
		return sh.session.OpenArchive(args[0])
	case "create":
		if err := needArgs(name, args, 1); err != nil {
			return err
		}
		created, err := sh.session.CreateArchive(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "created %s\n", created)
		return nil
	case "ls":
		nodes, err := sh.session.List()
		if err != nil {
			return err
		}
		return sh.table.Render(sh.out, nodeRows(nodes))
	case "cd":
		return sh.cd(args)
	case "up":
		moved, err := sh.session.Up()
		if err == nil && !moved {
			fmt.Fprintln(sh.out, "already at root")
		}
		return err
	case "back":
		_, err := sh.session.Back()
		return err
	case "pwd":
		return sh.pwd()
	case "find":
		if err := needArgs(name, args, 1); err != nil {
			return err
		}
		found, err := sh.session.Search(strings.Join(args, " "))
		if err != nil {
			return err
		}
		for _, entry := range found {
			fmt.Fprintln(sh.out, zipaura.DisplayPath(entry.Path))
		}
		return nil
	case "add":
		if err := needArgs(name, args, 1); err != nil {
			return err
		}
		res, err := sh.session.AddFiles(ctx, args...)
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "added %d\n", res.AddedEntries)
		return nil
	case "rm":
		if err := needArgs(name, args, 1); err != nil {
			return err
		}
		res, err := sh.session.Remove(ctx, args...)
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "removed %d\n", res.RemovedEntries)
		return nil
	case "extract":
		if err := needArgs(name, args, 2); err != nil {
			return err
		}
		return sh.session.ExtractSelected(ctx, args[0], args[1:]...)
	case "extractall":
		if err := needArgs(name, args, 1); err != nil {
			return err
		}
		return sh.session.ExtractAll(ctx, args[0])
	case "refresh":
		return sh.session.Refresh()
	default:
		return fmt.Errorf("unknown command %q, type help", name)
	}
}

func (sh *shell) cd(args []string) error {
	if len(args) == 0 || args[0] == "/" {
		return sh.session.Jump("")
	}

	if args[0] == ".." {
		_, err := sh.session.Up()
		return err
	}

	if strings.HasPrefix(args[0], "/") {
		return sh.session.Jump(zipaura.NormalizePath(args[0]))
	}

	return sh.session.Cd(args[0])
}

func (sh *shell) pwd() error {
	crumbs, err := sh.session.Breadcrumbs()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(crumbs))
	for i, crumb := range crumbs {
		if i == 0 {
			names = append(names, crumb.Name)
			continue
		}
		names = append(names, zipaura.DisplayPath(crumb.Name))
	}

	_, err = fmt.Fprintln(sh.out, strings.Join(names, " > "))
	return err
}

func needArgs(name string, args []string, n int) error {
	if len(args) < n {
		return fmt.Errorf("%s: expected at least %d argument(s), got %d", name, n, len(args))
	}

	return nil
}

// splitShellArgs splits a command line on spaces; double quotes group words.
func splitShellArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		inArg   bool
	)

	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			inArg = true
		case (r == ' ' || r == '\t') && !quoted:
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(r)
			inArg = true
		}
	}

	if quoted {
		return nil, errors.New("unterminated quote")
	}

	if inArg {
		args = append(args, current.String())
	}

	return args, nil
}
