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
	"maps"

	"github.com/urfave/cli/v3"

	"github.com/winsock-http/wsbuild/pkg/header"
	"github.com/winsock-http/wsbuild/pkg/recipe"
	"github.com/winsock-http/wsbuild/pkg/serializer"
)

func profileCmd() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Detect or show build profiles",
		Commands: []*cli.Command{
			profileDetectCmd(),
			profileShowCmd(),
		},
	}
}

func profileDetectCmd() *cli.Command {
	return &cli.Command{
		Name:  "detect",
		Usage: "Write a profile describing the host",
		Description: `Detects the host operating system, architecture, and default compiler and
writes them as a profile document. The result can be edited and passed back
with --profile.

# Examples

  wsbuild profile detect --output profiles/host.yaml`,
		Flags: []cli.Flag{
			outputFlag(),
			formatFlag(serializer.FormatYAML),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			prof := recipe.DetectHost(ctx)
			prof.Metadata = stampedMetadata(prof.Metadata)

			ser := serializerFor(format, cmd.String("output"))
			defer closeWriter(ser)
			return ser.Serialize(ctx, prof)
		},
	}
}

func profileShowCmd() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Resolve a profile against the recipe and print the effective values",
		Description: `Applies -s/-o/-c overrides to the profile (or the detected host), validates
the result against the recipe's settings model and options, and prints the
canonical settings and options generate would use.

# Examples

  wsbuild profile show -p profiles/win-msvc.yaml -s build_type=Debug`,
		Flags: concat(resolutionFlags(), []cli.Flag{
			outputFlag(),
			formatFlag(serializer.FormatYAML),
		}),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			rec, err := recipe.LoadOrDefault(cmd.String("recipe"))
			if err != nil {
				return err
			}
			prof, err := loadProfile(ctx, cmd)
			if err != nil {
				return err
			}

			resolved, err := resolveProfile(rec, prof)
			if err != nil {
				return err
			}

			ser := serializerFor(format, cmd.String("output"))
			defer closeWriter(ser)
			return ser.Serialize(ctx, resolved)
		},
	}
}

// resolveProfile returns a copy of prof holding the canonical settings and
// the full option set of rec. Conf is kept as given after validation.
func resolveProfile(rec recipe.Recipe, prof *recipe.Profile) (*recipe.Profile, error) {
	settings, err := rec.ResolveSettings(prof.ToSettings())
	if err != nil {
		return nil, err
	}
	opts, err := rec.ResolveOptions(prof.Options)
	if err != nil {
		return nil, err
	}
	if _, err := prof.ResolveConf(); err != nil {
		return nil, err
	}

	out := recipe.NewProfile()
	out.Metadata = stampedMetadata(prof.Metadata)
	out.SetSettings(settings)
	out.Options = maps.Clone(map[string]string(opts))
	out.Conf = maps.Clone(prof.Conf)
	return out, nil
}

func stampedMetadata(m map[string]string) map[string]string {
	out := maps.Clone(m)
	if out == nil {
		out = make(map[string]string)
	}
	out[header.MetadataToolVersion] = version
	return out
}
