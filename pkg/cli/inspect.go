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
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/winsock-http/wsbuild/pkg/builder"
	"github.com/winsock-http/wsbuild/pkg/cmake"
	"github.com/winsock-http/wsbuild/pkg/defaults"
	"github.com/winsock-http/wsbuild/pkg/generator/deps"
	"github.com/winsock-http/wsbuild/pkg/serializer"
)

// inspection is what inspect reports about a build directory.
type inspection struct {
	BuildDir        string                 `json:"buildDir" yaml:"buildDir"`
	GeneratorsDir   string                 `json:"generatorsDir" yaml:"generatorsDir"`
	ToolchainFile   string                 `json:"toolchainFile" yaml:"toolchainFile"`
	Generator       string                 `json:"generator" yaml:"generator"`
	BuildInfo       *deps.BuildInfo        `json:"buildInfo" yaml:"buildInfo"`
	CompileCommands *cmake.CompileCommands `json:"compileCommands,omitempty" yaml:"compileCommands,omitempty"`
	Artifacts       []cmake.Artifact       `json:"artifacts" yaml:"artifacts"`
}

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:                  "inspect",
		EnableShellCompletion: true,
		Usage:                 "Verify and describe the descriptors and output of a build directory",
		Description: `Checks the generated descriptors (checksums, toolchain marker, presets and
build-info schema, generator consistency) and reports them together with the
compile-command database and the libraries found in the build directory.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "build-dir",
				Aliases: []string{"B"},
				Value:   defaults.BuildDir,
				Usage:   "CMake binary directory",
				Sources: cli.EnvVars("WSBUILD_BUILD_DIR"),
			},
			&cli.StringFlag{
				Name:  "generators-dir",
				Usage: "Directory holding descriptors (default: <build-dir>/generators)",
			},
			outputFlag(),
			formatFlag(serializer.FormatYAML),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			buildDir := cmd.String("build-dir")
			genDir := cmd.String("generators-dir")
			if genDir == "" {
				genDir = builder.DefaultGeneratorsDir(buildDir)
			}

			report, err := inspect(ctx, buildDir, genDir)
			if err != nil {
				return err
			}

			ser := serializerFor(format, cmd.String("output"))
			defer closeWriter(ser)
			return ser.Serialize(ctx, report)
		},
	}
}

func inspect(ctx context.Context, buildDir, genDir string) (*inspection, error) {
	tc, info, err := cmake.LoadDescriptors(ctx, genDir)
	if err != nil {
		return nil, err
	}

	report := &inspection{
		BuildDir:      buildDir,
		GeneratorsDir: genDir,
		ToolchainFile: filepath.ToSlash(tc.ToolchainFile),
		Generator:     tc.Generator,
		BuildInfo:     info,
		Artifacts:     make([]cmake.Artifact, 0),
	}

	db, err := cmake.InspectCompileCommands(buildDir)
	switch {
	case err == nil:
		report.CompileCommands = db
	case !stderrors.Is(err, os.ErrNotExist):
		return nil, err
	}

	artifacts, err := cmake.CollectArtifacts(ctx, buildDir, cmake.CollectOptions{
		BuildType: info.Settings.BuildType,
		Shared:    info.Options.Shared(),
	})
	if err != nil {
		return nil, err
	}
	if artifacts != nil {
		report.Artifacts = artifacts
	}
	return report, nil
}
