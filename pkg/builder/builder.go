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

package builder

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/winsock-http/wsbuild/pkg/cmake"
	"github.com/winsock-http/wsbuild/pkg/defaults"
	"github.com/winsock-http/wsbuild/pkg/errors"
	"github.com/winsock-http/wsbuild/pkg/generator"
	"github.com/winsock-http/wsbuild/pkg/generator/config"
	"github.com/winsock-http/wsbuild/pkg/generator/deps"
	"github.com/winsock-http/wsbuild/pkg/generator/result"
	"github.com/winsock-http/wsbuild/pkg/history"
	"github.com/winsock-http/wsbuild/pkg/recipe"
)

// Recorder persists phase outcomes.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (int64, error)
}

// Request is the input of the generate phase.
type Request struct {
	Recipe   recipe.Recipe
	Settings recipe.Settings
	// Options are option values by name. Unset options take their defaults.
	Options recipe.Options
	Conf    recipe.Conf

	// SourceDir holds the top-level CMakeLists.txt. Defaults to ".".
	SourceDir string
	// BuildDir is the CMake binary dir. Defaults to "build".
	BuildDir string
	// GeneratorsDir receives the descriptors. Defaults to BuildDir/generators.
	GeneratorsDir string
	// Variables are extra CMake cache variables.
	Variables map[string]string
}

// Generated is the configuration handed from the generate phase to the
// build phase. It is only produced by a successful Generate.
type Generated struct {
	InvocationID  string
	Recipe        string
	Version       string
	Settings      recipe.Settings
	Options       recipe.Options
	Conf          recipe.Conf
	SourceDir     string
	BuildDir      string
	GeneratorsDir string
	Variables     map[string]string
	Output        *result.Output
}

// Result describes a completed build phase.
type Result struct {
	InvocationID string
	Generated    *Generated
	Configured   *cmake.Configured
	Built        *cmake.Built
	Duration     time.Duration
}

// Builder runs the two-phase generate and build protocol.
type Builder struct {
	runner       cmake.Runner
	stdout       io.Writer
	stderr       io.Writer
	genOptions   []config.Option
	recorder     Recorder
	version      string
	metrics      *metrics
	newID        func() string
	timeoutsSet  bool
	configureTTL time.Duration
	buildTTL     time.Duration
}

// Option configures a Builder.
type Option func(*Builder)

// WithRunner sets the native command runner.
func WithRunner(r cmake.Runner) Option {
	return func(b *Builder) { b.runner = r }
}

// WithOutput sets where native output is streamed.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(b *Builder) {
		b.stdout = stdout
		b.stderr = stderr
	}
}

// WithGeneratorOptions adds generator configuration options.
func WithGeneratorOptions(opts ...config.Option) Option {
	return func(b *Builder) { b.genOptions = append(b.genOptions, opts...) }
}

// WithRecorder records every phase outcome. Recording failures are logged
// and never fail the phase.
func WithRecorder(r Recorder) Option {
	return func(b *Builder) { b.recorder = r }
}

// WithVersion sets the tool version written into descriptors.
func WithVersion(v string) Option {
	return func(b *Builder) { b.version = v }
}

// WithTimeouts bounds the native configure and build steps.
func WithTimeouts(configure, build time.Duration) Option {
	return func(b *Builder) {
		b.timeoutsSet = true
		b.configureTTL = configure
		b.buildTTL = build
	}
}

// New returns a Builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		version: "dev",
		metrics: newMetrics(),
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Registry exposes the builder's metrics.
func (b *Builder) Registry() *prometheus.Registry {
	return b.metrics.registry
}

// WriteMetrics writes the builder's metrics in the text exposition format.
func (b *Builder) WriteMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, b.metrics.registry); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to write metrics", err)
	}
	return nil
}

// Generate resolves the request and writes all descriptors. Nothing is
// written when settings, options, or requirements are invalid.
func (b *Builder) Generate(ctx context.Context, req Request) (*Generated, error) {
	id := b.newID()
	start := time.Now()

	g, err := b.generate(ctx, id, req)

	b.metrics.observe(PhaseGenerate, time.Since(start).Seconds(), err)
	b.record(ctx, id, req.Recipe.Name, req.Recipe.Version, PhaseGenerate, g, start, err)
	return g, err
}

func (b *Builder) generate(ctx context.Context, id string, req Request) (*Generated, error) {
	sourceDir, buildDir, genDir, err := layout(req)
	if err != nil {
		return nil, err
	}

	opts := append([]config.Option{
		config.WithBuildDir(buildDir),
		config.WithVersion(b.version),
		config.WithInvocationID(id),
	}, b.genOptions...)
	cfg := config.NewConfig(opts...)

	slog.Debug("generating descriptors",
		"invocation_id", id,
		"recipe", req.Recipe.Reference(),
		"settings", req.Settings.String(),
		"dir", genDir)

	out, err := generator.New(cfg).Generate(ctx, &generator.Input{
		Recipe:   req.Recipe,
		Settings: req.Settings,
		Options:  req.Options,
		Conf:     req.Conf,
	}, genDir)
	if err != nil {
		return nil, err
	}

	// the build phase reads what was written, not what was requested
	info, err := deps.LoadBuildInfo(genDir)
	if err != nil {
		return nil, err
	}

	return &Generated{
		InvocationID:  id,
		Recipe:        info.Name,
		Version:       info.Version,
		Settings:      info.Settings,
		Options:       info.Options,
		Conf:          req.Conf,
		SourceDir:     sourceDir,
		BuildDir:      buildDir,
		GeneratorsDir: genDir,
		Variables:     req.Variables,
		Output:        out,
	}, nil
}

// Build configures and builds from a Generated. A nil Generated is refused
// with a configuration error and nothing is run.
func (b *Builder) Build(ctx context.Context, g *Generated) (*Result, error) {
	if g == nil || g.GeneratorsDir == "" {
		return nil, errors.Configuration("build requires a successful generate")
	}

	inv := b.invoker(g.Conf)
	res := &Result{InvocationID: g.InvocationID, Generated: g}
	start := time.Now()

	phaseStart := time.Now()
	configured, err := inv.Configure(ctx, cmake.ConfigureOptions{
		SourceDir:     g.SourceDir,
		BuildDir:      g.BuildDir,
		GeneratorsDir: g.GeneratorsDir,
		Variables:     g.Variables,
	})
	b.metrics.observe(PhaseConfigure, time.Since(phaseStart).Seconds(), err)
	b.record(ctx, g.InvocationID, g.Recipe, g.Version, PhaseConfigure, g, phaseStart, err)
	if err != nil {
		return nil, err
	}
	res.Configured = configured

	phaseStart = time.Now()
	built, err := inv.Build(ctx, cmake.BuildOptions{
		BuildDir:  configured.BuildDir,
		BuildType: configured.BuildInfo.Settings.BuildType,
		Jobs:      g.Conf.Jobs,
		Shared:    configured.BuildInfo.Options.Shared(),
	})
	b.metrics.observe(PhaseBuild, time.Since(phaseStart).Seconds(), err)
	b.record(ctx, g.InvocationID, g.Recipe, g.Version, PhaseBuild, g, phaseStart, err)
	if err != nil {
		return nil, err
	}
	res.Built = built
	res.Duration = time.Since(start)

	for _, kind := range []cmake.ArtifactKind{cmake.ArtifactStatic, cmake.ArtifactShared, cmake.ArtifactImport} {
		b.metrics.artifacts.WithLabelValues(string(kind)).Set(float64(len(cmake.ByKind(built.Artifacts, kind))))
	}

	slog.Debug("build phase complete",
		"invocation_id", g.InvocationID,
		"artifacts", len(built.Artifacts),
		"duration", res.Duration)

	return res, nil
}

// Create runs Generate and then Build. Build is never attempted when
// Generate fails.
func (b *Builder) Create(ctx context.Context, req Request) (*Result, error) {
	g, err := b.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return b.Build(ctx, g)
}

func (b *Builder) invoker(conf recipe.Conf) *cmake.Invoker {
	opts := []cmake.Option{cmake.WithProgram(conf.CMakeProgram)}
	if b.stdout != nil || b.stderr != nil {
		opts = append(opts, cmake.WithOutput(b.stdout, b.stderr))
	}
	if b.timeoutsSet {
		opts = append(opts, cmake.WithTimeouts(b.configureTTL, b.buildTTL))
	}
	return cmake.New(b.runner, opts...)
}

func layout(req Request) (sourceDir, buildDir, genDir string, err error) {
	sourceDir = req.SourceDir
	if sourceDir == "" {
		sourceDir = defaults.SourceDir
	}
	buildDir = req.BuildDir
	if buildDir == "" {
		buildDir = defaults.BuildDir
	}
	genDir = req.GeneratorsDir
	if genDir == "" {
		genDir = filepath.Join(buildDir, defaults.GeneratorsDirName)
	}

	if sourceDir, err = filepath.Abs(sourceDir); err != nil {
		return "", "", "", errors.Wrap(errors.ErrCodeInvalidRequest, "invalid source directory", err)
	}
	if buildDir, err = filepath.Abs(buildDir); err != nil {
		return "", "", "", errors.Wrap(errors.ErrCodeInvalidRequest, "invalid build directory", err)
	}
	if genDir, err = filepath.Abs(genDir); err != nil {
		return "", "", "", errors.Wrap(errors.ErrCodeInvalidRequest, "invalid generators directory", err)
	}
	return sourceDir, buildDir, genDir, nil
}

func (b *Builder) record(ctx context.Context, id, name, version, phase string, g *Generated, start time.Time, err error) {
	if b.recorder == nil {
		return
	}

	e := history.Entry{
		InvocationID: id,
		Recipe:       name,
		Version:      version,
		Phase:        phase,
		Status:       history.StatusSucceeded,
		StartedAt:    start.UTC(),
		Duration:     time.Since(start),
	}
	if g != nil {
		e.Settings = marshalString(g.Settings)
		e.Options = marshalString(g.Options)
	}
	if err != nil {
		e.Status = history.StatusFailed
		e.Error = err.Error()
		e.ExitCode = 1
		if code, ok := errors.ExitStatus(err); ok {
			e.ExitCode = code
		}
	}

	if _, rerr := b.recorder.Record(context.WithoutCancel(ctx), e); rerr != nil {
		slog.Warn("failed to record history", "phase", phase, "error", rerr)
	}
}

func marshalString(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
