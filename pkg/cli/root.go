/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cooklang/pkg/logging"
)

const (
	name           = "cook"
	versionDefault = "dev"

	// envFileVar names an alternative to the .env file in the working directory.
	envFileVar = "COOK_ENV_FILE"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the cook command tree. This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := loadEnv(os.Getenv(envFileVar)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadEnv loads COOK_* variables from a dotenv file. A missing default .env
// is not an error, a missing explicit file is. Variables already set in the
// environment win.
func loadEnv(path string) error {
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %q: %w", path, err)
	}
	return nil
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Usage:                 "Cooklang recipe tooling",
		Description: `Parse, check, scale and convert recipes written in Cooklang.

  recipe - read, check or dump the syntax tree of recipe files
  units  - list the units known to the converter
  convert - convert a value between units

Configuration flags can also be set with COOK_* environment variables, which
are loaded from a .env file in the working directory when present.`,
		Flags: []cli.Flag{
			logLevelFlag(),
			unitsFlag(),
			noBundledUnitsFlag(),
			extensionsFlag(),
			colorFlag(),
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date)
			return ctx, nil
		},
		Commands: []*cli.Command{
			recipeCmd(),
			unitsCmd(),
			convertCmd(),
		},
		ShellComplete: commandLister,
	}
}

// commandLister prints the visible subcommands for shell completion.
func commandLister(_ context.Context, cmd *cli.Command) {
	if cmd == nil {
		return
	}
	w := stdout(cmd)
	for _, c := range cmd.Commands {
		if c.Hidden {
			continue
		}
		fmt.Fprintln(w, c.Name)
	}
}
