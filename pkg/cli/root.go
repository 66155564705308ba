// Copyright (c) 2026, winsock-http authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/winsock-http/wsbuild/pkg/errors"
	"github.com/winsock-http/wsbuild/pkg/logging"
)

const (
	name           = "wsbuild"
	versionDefault = "dev"
)

// Process exit codes other than a native build's own status.
const (
	exitFailure     = 1
	exitInterrupted = 2
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the wsbuild command line and exits the process.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd().Run(ctx, os.Args)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error:"), err)
		os.Exit(ExitCode(err))
	}
}

// ExitCode maps an error onto the process exit status: the native exit
// status of a failed build, 2 for an interrupted run, and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if stderrors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	if errors.IsBuild(err) {
		if status, ok := errors.ExitStatus(err); ok && status > 0 {
			return status
		}
	}
	return exitFailure
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               version,
		EnableShellCompletion: true,
		Usage:                 "Recipe-driven native build driver for winsock-http",
		Description: fmt.Sprintf(`wsbuild resolves build settings and options for a native recipe, generates
dependency and toolchain descriptors, and then configures and builds the CMake
project with a multi-configuration Ninja generator.

Version: %s
Commit:  %s
Built:   %s

The two phases can run together (create) or separately (generate, then build).`, version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars(logging.EnvLogLevel),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format (text, json)",
				Value:   string(logging.FormatText),
				Sources: cli.EnvVars("WSBUILD_LOG_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "history-db",
				Usage:   "Path to the invocation history database (default: XDG data dir)",
				Sources: cli.EnvVars("WSBUILD_HISTORY_DB"),
			},
			&cli.BoolFlag{
				Name:    "no-history",
				Usage:   "Do not record invocations in the history database",
				Sources: cli.EnvVars("WSBUILD_NO_HISTORY"),
			},
			&cli.StringFlag{
				Name:    "metrics-file",
				Usage:   "Write Prometheus metrics in text format to this file on exit",
				Sources: cli.EnvVars("WSBUILD_METRICS_FILE"),
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "Disable colored output",
				Sources: cli.EnvVars("NO_COLOR"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			initLogger(cmd.Root().ErrWriter, cmd.String("log-format"), cmd.String("log-level"))
			if cmd.Bool("no-color") {
				color.NoColor = true
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			generateCmd(),
			buildCmd(),
			createCmd(),
			inspectCmd(),
			packageCmd(),
			historyCmd(),
			profileCmd(),
			versionCmd(),
		},
	}
}

// initLogger configures slog after flags are parsed so overrides like
// --log-level take effect before any command executes.
func initLogger(w io.Writer, format, level string) {
	if w == nil {
		w = os.Stderr
	}
	logging.SetDefaultLogger(w, logging.Format(format), name, version, level)
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", level)
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(_ context.Context, cmd *cli.Command) error {
			_, err := fmt.Fprintf(cmd.Root().Writer, "%s %s (commit %s, built %s)\n", name, version, commit, date)
			return err
		},
	}
}
