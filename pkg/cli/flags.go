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
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/winsock-http/wsbuild/pkg/builder"
	"github.com/winsock-http/wsbuild/pkg/cmake"
	"github.com/winsock-http/wsbuild/pkg/defaults"
	"github.com/winsock-http/wsbuild/pkg/generator/config"
	"github.com/winsock-http/wsbuild/pkg/history"
	"github.com/winsock-http/wsbuild/pkg/recipe"
	"github.com/winsock-http/wsbuild/pkg/serializer"
)

// newRunner returns the native command runner. Tests replace it.
var newRunner = func() cmake.Runner { return cmake.NewExecRunner() }

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "output",
		Usage: "Output file path (default: stdout)",
	}
}

func formatFlag(def serializer.Format) cli.Flag {
	return &cli.StringFlag{
		Name:  "format",
		Value: string(def),
		Usage: fmt.Sprintf("Output format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
	}
}

// parseOutputFormat returns the --format value, rejecting unknown formats.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", f)
	}
	return f, nil
}

func layoutFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "source-dir",
			Aliases: []string{"S"},
			Value:   defaults.SourceDir,
			Usage:   "Directory holding the top-level CMakeLists.txt",
			Sources: cli.EnvVars("WSBUILD_SOURCE_DIR"),
		},
		&cli.StringFlag{
			Name:    "build-dir",
			Aliases: []string{"B"},
			Value:   defaults.BuildDir,
			Usage:   "CMake binary directory",
			Sources: cli.EnvVars("WSBUILD_BUILD_DIR"),
		},
		&cli.StringFlag{
			Name:    "generators-dir",
			Usage:   "Directory receiving descriptors (default: <build-dir>/generators)",
			Sources: cli.EnvVars("WSBUILD_GENERATORS_DIR"),
		},
		&cli.StringSliceFlag{
			Name:    "define",
			Aliases: []string{"D"},
			Usage:   "Extra CMake cache variable as NAME=VALUE (repeatable)",
		},
	}
}

func resolutionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "recipe",
			Aliases: []string{"r"},
			Usage:   "Path to a recipe YAML file (default: built-in winsock-http recipe)",
			Sources: cli.EnvVars("WSBUILD_RECIPE"),
		},
		&cli.StringFlag{
			Name:    "profile",
			Aliases: []string{"p"},
			Usage:   "Path to a profile YAML file (default: detected host profile)",
			Sources: cli.EnvVars("WSBUILD_PROFILE"),
		},
		&cli.StringSliceFlag{
			Name:    "setting",
			Aliases: []string{"s"},
			Usage:   "Setting override as key=value, e.g. -s build_type=Debug (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:    "option",
			Aliases: []string{"o"},
			Usage:   "Option value as name=value, e.g. -o shared=True (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:    "conf",
			Aliases: []string{"c"},
			Usage:   "Tool configuration as key=value, e.g. -c tools.cmake:jobs=8 (repeatable)",
		},
	}
}

func generatorFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "no-checksums",
			Usage: "Do not write checksums.txt next to the descriptors",
		},
		&cli.BoolFlag{
			Name:  "no-presets",
			Usage: "Do not write CMakePresets.json",
		},
		&cli.StringFlag{
			Name:  "preset-prefix",
			Usage: "Prefix for generated preset names",
			Value: "wsbuild",
		},
	}
}

func nativeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "jobs",
			Aliases: []string{"j"},
			Usage:   "Parallel build jobs (overrides tools.cmake:jobs)",
			Sources: cli.EnvVars("WSBUILD_JOBS"),
		},
		&cli.StringFlag{
			Name:    "cmake",
			Usage:   "CMake executable (overrides tools.cmake:cmake_program)",
			Sources: cli.EnvVars("WSBUILD_CMAKE"),
		},
	}
}

func concat(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// loadProfile reads --profile, or detects the host when none is given, and
// applies -s/-o/-c overrides.
func loadProfile(ctx context.Context, cmd *cli.Command) (*recipe.Profile, error) {
	var (
		prof *recipe.Profile
		err  error
	)
	if path := cmd.String("profile"); path != "" {
		if prof, err = recipe.LoadProfile(path); err != nil {
			return nil, err
		}
	} else {
		prof = recipe.DetectHost(ctx)
		slog.Debug("using detected host profile", "settings", prof.ToSettings().String())
	}

	if err := prof.ApplyOverrides(cmd.StringSlice("setting"), cmd.StringSlice("option"), cmd.StringSlice("conf")); err != nil {
		return nil, err
	}
	return prof, nil
}

// resolveConf returns the profile conf with --jobs and --cmake applied.
func resolveConf(cmd *cli.Command, prof *recipe.Profile) (recipe.Conf, error) {
	conf, err := prof.ResolveConf()
	if err != nil {
		return recipe.Conf{}, err
	}
	if j := cmd.Int("jobs"); j > 0 {
		conf.Jobs = int(j)
	}
	if p := cmd.String("cmake"); p != "" {
		conf.CMakeProgram = p
	}
	return conf, nil
}

// requestFromCmd builds the generate request from flags.
func requestFromCmd(ctx context.Context, cmd *cli.Command) (builder.Request, error) {
	rec, err := recipe.LoadOrDefault(cmd.String("recipe"))
	if err != nil {
		return builder.Request{}, err
	}
	prof, err := loadProfile(ctx, cmd)
	if err != nil {
		return builder.Request{}, err
	}
	conf, err := resolveConf(cmd, prof)
	if err != nil {
		return builder.Request{}, err
	}
	vars, err := parseDefines(cmd)
	if err != nil {
		return builder.Request{}, err
	}

	return builder.Request{
		Recipe:        rec,
		Settings:      prof.ToSettings(),
		Options:       recipe.Options(prof.Options),
		Conf:          conf,
		SourceDir:     cmd.String("source-dir"),
		BuildDir:      cmd.String("build-dir"),
		GeneratorsDir: cmd.String("generators-dir"),
		Variables:     vars,
	}, nil
}

// newBuilder assembles a Builder from global flags. The returned cleanup
// closes the history store and writes metrics.
func newBuilder(ctx context.Context, cmd *cli.Command) (*builder.Builder, func(), error) {
	opts := []builder.Option{
		builder.WithVersion(version),
		builder.WithRunner(newRunner()),
		builder.WithOutput(cmd.Root().Writer, cmd.Root().ErrWriter),
		builder.WithGeneratorOptions(
			config.WithIncludeChecksums(!cmd.Bool("no-checksums")),
			config.WithIncludePresets(!cmd.Bool("no-presets")),
			config.WithPresetPrefix(cmd.String("preset-prefix")),
			config.WithVerbose(cmd.String("log-level") == "debug"),
		),
	}

	var store *history.Store
	if !cmd.Bool("no-history") {
		s, err := history.Open(ctx, cmd.String("history-db"))
		if err != nil {
			slog.Warn("history disabled", "error", err)
		} else {
			store = s
			opts = append(opts, builder.WithRecorder(store))
		}
	}

	b := builder.New(opts...)

	cleanup := func() {
		if path := cmd.String("metrics-file"); path != "" {
			if err := b.WriteMetrics(path); err != nil {
				slog.Warn("failed to write metrics", "path", path, "error", err)
			}
		}
		if store != nil {
			if err := store.Close(); err != nil {
				slog.Warn("failed to close history", "error", err)
			}
		}
	}
	return b, cleanup, nil
}

func parseDefines(cmd *cli.Command) (map[string]string, error) {
	vars, err := recipe.ParseAssignments(cmd.StringSlice("define"))
	if err != nil {
		return nil, fmt.Errorf("invalid --define: %w", err)
	}
	return vars, nil
}

// nativeConf is the tool configuration of a build without a profile.
func nativeConf(cmd *cli.Command) (recipe.Conf, error) {
	return resolveConf(cmd, recipe.NewProfile())
}

func serializerFor(format serializer.Format, path string) *serializer.Writer {
	return serializer.NewFileWriterOrStdout(format, path)
}

func closeWriter(w *serializer.Writer) {
	if err := w.Close(); err != nil {
		slog.Warn("failed to close serializer", "error", err)
	}
}
