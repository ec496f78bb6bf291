// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

// Command zipaura browses, edits and extracts ZIP, RAR and 7z archives.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/woozymasta/zipaura"
	"github.com/woozymasta/zipaura/internal/cliutil"
	"github.com/woozymasta/zipaura/internal/config"
	"github.com/woozymasta/zipaura/internal/logging"
)

// app carries settings resolved before any subcommand runs.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	configPath string
	logLevel   string
	password   string
}

func newRootCommand() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "zipaura {[flags]|SUBCOMMAND...}",
		Short: "Browse, edit and extract ZIP, RAR and 7z archives",

		Args: cliutil.OnlySubcommands,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},

		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},

		SilenceErrors: true, // main() will handle this after .ExecuteContext() returns
		SilenceUsage:  true, // our FlagErrorFunc will handle it
	}
	root.SetFlagErrorFunc(cliutil.FlagErrorFunc)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Read settings from `FILE` (default $"+config.EnvConfigPath+")")
	flags.StringVar(&a.logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	flags.StringVar(&a.password, "password", "", "Password for encrypted RAR and 7z archives")

	root.AddCommand(
		newLsCommand(a),
		newTreeCommand(a),
		newFindCommand(a),
		newCatCommand(a),
		newInfoCommand(a),
		newCreateCommand(a),
		newAddCommand(a),
		newRmCommand(a),
		newExtractCommand(a),
		newTestCommand(a),
		newShellCommand(a),
	)

	return root
}

// init loads config and builds logger.
func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}

	logger, err := logging.New(cfg.Logging())
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// open opens an archive with CLI credentials.
func (a *app) open(path string) (zipaura.Archive, error) {
	return zipaura.OpenWithOptions(path, a.openOptions())
}

func (a *app) openOptions() zipaura.OpenOptions {
	return zipaura.OpenOptions{Logger: a.logger, Password: a.password}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root := newRootCommand()
	err := root.ExecuteContext(ctx)
	stop()

	if err != nil {
		os.Exit(cliutil.ReportError(root.ErrOrStderr(), root.CommandPath(), err))
	}
}
