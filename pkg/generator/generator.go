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

package generator

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/winsock-http/wsbuild/pkg/defaults"
	"github.com/winsock-http/wsbuild/pkg/errors"
	"github.com/winsock-http/wsbuild/pkg/generator/checksum"
	"github.com/winsock-http/wsbuild/pkg/generator/config"
	"github.com/winsock-http/wsbuild/pkg/generator/deps"
	"github.com/winsock-http/wsbuild/pkg/generator/result"
	"github.com/winsock-http/wsbuild/pkg/generator/toolchain"
	"github.com/winsock-http/wsbuild/pkg/header"
	"github.com/winsock-http/wsbuild/pkg/recipe"
)

// Input contains everything the generator needs for one invocation.
type Input struct {
	// Recipe is the recipe being built.
	Recipe recipe.Recipe

	// Settings are the platform settings. They are re-checked against the
	// settings model before anything is written.
	Settings recipe.Settings

	// Options are the option values. Unset options take their defaults.
	Options recipe.Options

	// Conf is tool configuration from the profile.
	Conf recipe.Conf
}

// Generator writes dependency and toolchain descriptors.
type Generator struct {
	cfg *config.Config
}

// New creates a Generator. A nil config uses config.NewConfig defaults.
func New(cfg *config.Config) *Generator {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Generator{cfg: cfg}
}

// Config returns the generator configuration.
func (g *Generator) Config() *config.Config {
	return g.cfg
}

// Generate validates the input and writes all descriptors into dir.
// Invalid or incomplete settings, options, or requirement paths fail with a
// CONFIGURATION error before any file is written.
func (g *Generator) Generate(ctx context.Context, input *Input, dir string) (*result.Output, error) {
	start := time.Now()

	if input == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "generator input is required")
	}
	if dir == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "generators directory is required")
	}
	if err := g.cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid generator config", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, "generation cancelled", err)
	}

	r := input.Recipe
	if err := r.Validate(); err != nil {
		return nil, err
	}
	settings, err := r.ResolveSettings(input.Settings)
	if err != nil {
		return nil, err
	}
	options, err := r.ResolveOptions(input.Options)
	if err != nil {
		return nil, err
	}
	dependencies, err := deps.ResolveDependencies(r.Requires)
	if err != nil {
		return nil, err
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid generators directory", err)
	}
	if err := os.MkdirAll(absDir, defaults.DirMode); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to create generators directory", err)
	}

	buildDir := g.cfg.BuildDir()
	if buildDir == "" {
		buildDir = filepath.Dir(absDir)
	}
	if buildDir, err = filepath.Abs(buildDir); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid build directory", err)
	}

	output := result.NewOutput(absDir)

	// Dependency descriptors
	depResult := result.New(result.KindDependency)
	for _, dep := range dependencies {
		files, size, err := deps.WriteDependency(ctx, absDir, dep, settings)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, "failed to write dependency descriptors", err)
		}
		for _, f := range files {
			depResult.AddFile(f, 0)
		}
		depResult.Size += size
	}
	depResult.MarkSuccess()
	output.Add(depResult)

	// build-info.json
	infoResult := result.New(result.KindBuildInfo)
	info := &deps.BuildInfo{
		Header:       *g.header(),
		Name:         r.Name,
		Version:      r.Version,
		Settings:     settings,
		Options:      options,
		Generator:    r.Generator,
		Variables:    r.Variables,
		SystemLibs:   r.SystemLibsFor(settings.OS),
		Dependencies: dependencies,
	}
	infoPath, infoSize, err := deps.WriteBuildInfo(absDir, info, g.cfg.ValidateSchema())
	if err != nil {
		return nil, err
	}
	infoResult.AddFile(infoPath, infoSize)
	infoResult.MarkSuccess()
	output.Add(infoResult)

	// Toolchain
	tcInput := &toolchain.Input{
		Recipe:         r,
		Settings:       settings,
		Options:        options,
		Conf:           input.Conf,
		GeneratorsDir:  absDir,
		BuildDir:       buildDir,
		PresetPrefix:   g.cfg.PresetPrefix(),
		CacheVariables: g.cfg.CacheVariables(),
	}
	tcResult := result.New(result.KindToolchain)
	tcPath, tcSize, err := toolchain.WriteToolchain(ctx, tcInput)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to generate toolchain", err)
	}
	tcResult.AddFile(tcPath, tcSize)
	tcResult.MarkSuccess()
	output.Add(tcResult)

	if g.cfg.IncludePresets() {
		presetsResult := result.New(result.KindPresets)
		presetsPath, presetsSize, err := toolchain.WritePresets(ctx, tcInput, tcPath, g.cfg.ValidateSchema())
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, "failed to generate presets", err)
		}
		presetsResult.AddFile(presetsPath, presetsSize)
		presetsResult.MarkSuccess()
		output.Add(presetsResult)
	}

	if g.cfg.IncludeChecksums() {
		sumResult := result.New(result.KindChecksums)
		if err := checksum.GenerateChecksums(ctx, absDir, output.Files()); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, "failed to generate checksums", err)
		}
		sumPath := checksum.GetChecksumFilePath(absDir)
		if fi, statErr := os.Stat(sumPath); statErr == nil {
			sumResult.AddFile(sumPath, fi.Size())
		}
		sumResult.MarkSuccess()
		output.Add(sumResult)
	}

	output.TotalDuration = time.Since(start)

	slog.Debug("descriptors generated",
		"recipe", r.Reference(),
		"settings", settings.String(),
		"dir", absDir,
		"files", output.TotalFiles,
		"total_size", output.TotalSize,
		"duration", output.TotalDuration,
	)

	return output, nil
}

func (g *Generator) header() *header.Header {
	opts := []header.Option{
		header.WithKind(header.KindBuildInfo),
		header.WithAPIVersion(header.APIVersionV1),
		header.WithMetadata(header.MetadataToolVersion, g.cfg.Version()),
	}
	if id := g.cfg.InvocationID(); id != "" {
		opts = append(opts, header.WithMetadata(header.MetadataInvocation, id))
	}
	return header.New(opts...)
}
