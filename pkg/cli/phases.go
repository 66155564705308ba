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
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/winsock-http/wsbuild/pkg/builder"
	"github.com/winsock-http/wsbuild/pkg/watcher"
)

func generateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "generate",
		EnableShellCompletion: true,
		Usage:                 "Resolve settings and options and write build descriptors",
		Description: `Resolves the recipe's settings and options against the settings model and
writes the dependency and toolchain descriptors the build phase consumes:

  - build-info.json: recipe identity, settings, options, dependencies
  - <dep>-config.cmake, <dep>-config-version.cmake, <dep>-<type>-<arch>-data.cmake
  - wsbuild_toolchain.cmake: toolchain file naming the generator
  - CMakePresets.json: configure and build presets
  - checksums.txt: sha256 of every descriptor

Nothing is written when a setting or option is invalid.

# Examples

Generate for the detected host:
  wsbuild generate

Generate a shared Debug build with a profile:
  wsbuild generate -p profiles/linux-gcc13.yaml -s build_type=Debug -o shared=True`,
		Flags: concat(resolutionFlags(), layoutFlags(), generatorFlags(), nativeFlags()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			req, err := requestFromCmd(ctx, cmd)
			if err != nil {
				return err
			}

			b, cleanup, err := newBuilder(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			g, err := b.Generate(ctx, req)
			if err != nil {
				return err
			}
			printGenerated(cmd.Root().ErrWriter, g)
			return nil
		},
	}
}

func buildCmd() *cli.Command {
	return &cli.Command{
		Name:                  "build",
		EnableShellCompletion: true,
		Usage:                 "Configure and build from previously generated descriptors",
		Description: `Reads the descriptors written by generate and runs

  cmake -G <generator> -DCMAKE_TOOLCHAIN_FILE=<toolchain> -D... -S <source> -B <build>
  cmake --build <build> --config <build type> [--parallel N]

Missing or malformed descriptors fail before CMake is started. A failed
compilation exits with CMake's exit status.`,
		Flags: concat(layoutFlags(), nativeFlags(), []cli.Flag{outputFlag(), formatFlag("yaml")}),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			vars, err := parseDefines(cmd)
			if err != nil {
				return err
			}
			conf, err := nativeConf(cmd)
			if err != nil {
				return err
			}

			g, err := builder.Load(builder.LoadOptions{
				SourceDir:     cmd.String("source-dir"),
				BuildDir:      cmd.String("build-dir"),
				GeneratorsDir: cmd.String("generators-dir"),
				Conf:          conf,
				Variables:     vars,
			})
			if err != nil {
				return err
			}

			b, cleanup, err := newBuilder(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := b.Build(ctx, g)
			if err != nil {
				return err
			}
			return reportBuilt(ctx, cmd, res)
		},
	}
}

func createCmd() *cli.Command {
	return &cli.Command{
		Name:                  "create",
		EnableShellCompletion: true,
		Usage:                 "Generate descriptors, then configure and build",
		Description: `Runs generate and build in order. The build is never attempted when
generate fails.

With --watch, the source tree is watched after a successful create and the
build phase reruns whenever sources change. The build directory is ignored.

# Examples

  wsbuild create -s build_type=Release
  wsbuild create -o shared=True --watch`,
		Flags: concat(resolutionFlags(), layoutFlags(), generatorFlags(), nativeFlags(), []cli.Flag{
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Rebuild when sources change",
			},
			outputFlag(),
			formatFlag("yaml"),
		}),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			req, err := requestFromCmd(ctx, cmd)
			if err != nil {
				return err
			}

			b, cleanup, err := newBuilder(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := b.Create(ctx, req)
			if err != nil {
				return err
			}
			printGenerated(cmd.Root().ErrWriter, res.Generated)
			if err := reportBuilt(ctx, cmd, res); err != nil {
				return err
			}

			if !cmd.Bool("watch") {
				return nil
			}
			return watch(ctx, cmd, b, res.Generated)
		},
	}
}

// watch reruns the build phase on source changes until ctx is cancelled.
// The descriptors do not depend on sources, so generate is not repeated.
func watch(ctx context.Context, cmd *cli.Command, b *builder.Builder, g *builder.Generated) error {
	w, err := watcher.New(g.SourceDir, func(ctx context.Context, changed []string) error {
		slog.Info("rebuilding", "changed", len(changed))
		res, err := b.Build(ctx, g)
		if err != nil {
			return err
		}
		printBuilt(cmd.Root().ErrWriter, res)
		return nil
	}, watcher.WithSkip(g.BuildDir))
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.Root().ErrWriter, "\nWatching for changes... (press Ctrl+C to stop)")
	return w.Run(ctx)
}

// reportBuilt prints the summary and, with --output, writes the report.
func reportBuilt(ctx context.Context, cmd *cli.Command, res *builder.Result) error {
	printBuilt(cmd.Root().ErrWriter, res)

	path := cmd.String("output")
	if path == "" {
		return nil
	}
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}
	report, err := res.Report(version)
	if err != nil {
		return err
	}

	ser := serializerFor(format, path)
	defer closeWriter(ser)
	return ser.Serialize(ctx, report)
}
