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
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/winsock-http/wsbuild/pkg/defaults"
	"github.com/winsock-http/wsbuild/pkg/oci"
)

// localRegistry names packages written only to a local layout.
const localRegistry = "localhost"

func packageCmd() *cli.Command {
	return &cli.Command{
		Name:                  "package",
		EnableShellCompletion: true,
		Usage:                 "Package build output as an OCI artifact",
		Description: `Packages the libraries, compile_commands.json, and generated descriptors of a
build directory as a single-layer OCI artifact.

The target is either a directory, which receives an OCI image layout, or an
oci:// reference, in which case the layout is written under the build directory
and pushed to the registry using Docker credentials.

# Examples

  wsbuild package --target ./dist
  wsbuild package --target oci://ghcr.io/org/winsock-http:0.0.0-linux`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "build-dir",
				Aliases: []string{"B"},
				Value:   defaults.BuildDir,
				Usage:   "CMake binary directory",
				Sources: cli.EnvVars("WSBUILD_BUILD_DIR"),
			},
			&cli.StringFlag{
				Name:     "target",
				Aliases:  []string{"t"},
				Required: true,
				Usage:    "Local directory or oci://registry/repository[:tag]",
				Sources:  cli.EnvVars("WSBUILD_PACKAGE_TARGET"),
			},
			&cli.StringFlag{
				Name:  "tag",
				Usage: "Tag when the target names none (default: recipe version)",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for the registry connection",
			},
			&cli.BoolFlag{
				Name:  "insecure-tls",
				Usage: "Skip TLS certificate verification",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			buildDir := cmd.String("build-dir")
			ref, err := oci.ParseOutputTarget(cmd.String("target"))
			if err != nil {
				return err
			}

			out, err := oci.CollectBuildOutput(ctx, buildDir)
			if err != nil {
				return err
			}

			tag := ref.Tag
			if tag == "" {
				tag = cmd.String("tag")
			}
			if tag == "" {
				tag = out.BuildInfo.Version
			}
			annotations := out.Annotations(version)

			w := cmd.Root().ErrWriter
			if !ref.IsOCI {
				res, err := oci.Package(ctx, oci.PackageOptions{
					SourceDir:   buildDir,
					Files:       out.Files,
					OutputDir:   ref.LocalPath,
					Registry:    localRegistry,
					Repository:  out.BuildInfo.Name,
					Tag:         tag,
					Annotations: annotations,
				})
				if err != nil {
					return err
				}
				success.Fprintf(w, "Packaged %d files into %s\n", len(res.Files), res.StorePath)
				fmt.Fprintf(w, "  %s %s\n", label.Sprint("digest:"), res.Digest)
				return nil
			}

			res, err := oci.PackageAndPush(ctx, oci.OutputConfig{
				SourceDir:   buildDir,
				Files:       out.Files,
				OutputDir:   filepath.Join(buildDir, "oci-layout"),
				Reference:   ref.WithTag(tag),
				Annotations: annotations,
				PlainHTTP:   cmd.Bool("plain-http"),
				InsecureTLS: cmd.Bool("insecure-tls"),
			})
			if err != nil {
				return err
			}
			success.Fprintf(w, "Pushed %s\n", res.Reference)
			fmt.Fprintf(w, "  %s %s\n", label.Sprint("digest:"), res.Digest)
			return nil
		},
	}
}
