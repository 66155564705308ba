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

package cmake

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/winsock-http/wsbuild/pkg/defaults"
	"github.com/winsock-http/wsbuild/pkg/errors"
	"github.com/winsock-http/wsbuild/pkg/generator/checksum"
	"github.com/winsock-http/wsbuild/pkg/generator/deps"
	"github.com/winsock-http/wsbuild/pkg/generator/toolchain"
)

// Invoker drives the two native CMake steps.
type Invoker struct {
	runner           Runner
	program          string
	stdout           io.Writer
	stderr           io.Writer
	configureTimeout time.Duration
	buildTimeout     time.Duration
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithProgram sets the cmake executable. Empty keeps the default.
func WithProgram(program string) Option {
	return func(i *Invoker) {
		if program != "" {
			i.program = program
		}
	}
}

// WithOutput sets where native stdout and stderr are streamed.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(i *Invoker) {
		i.stdout = stdout
		i.stderr = stderr
	}
}

// WithTimeouts bounds the configure and build steps. Zero disables a bound.
func WithTimeouts(configure, build time.Duration) Option {
	return func(i *Invoker) {
		i.configureTimeout = configure
		i.buildTimeout = build
	}
}

// New returns an Invoker running commands through runner. A nil runner
// selects the os/exec runner.
func New(runner Runner, opts ...Option) *Invoker {
	if runner == nil {
		runner = NewExecRunner()
	}
	i := &Invoker{
		runner:           runner,
		program:          defaults.CMakeExecutable,
		stdout:           os.Stdout,
		stderr:           os.Stderr,
		configureTimeout: defaults.ConfigureTimeout,
		buildTimeout:     defaults.BuildTimeout,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Program returns the cmake executable in use.
func (i *Invoker) Program() string {
	return i.program
}

// ConfigureOptions are the inputs of the configure step.
type ConfigureOptions struct {
	// SourceDir holds the top-level CMakeLists.txt.
	SourceDir string
	// BuildDir is the CMake binary dir. Empty uses the presets binary dir.
	BuildDir string
	// GeneratorsDir holds the descriptors written by the generate phase.
	GeneratorsDir string
	// Variables are passed as -D definitions after the presets cache variables.
	Variables map[string]string
}

// Configured describes a successful configure step.
type Configured struct {
	BuildDir      string
	Generator     string
	ToolchainFile string
	BuildInfo     *deps.BuildInfo
	Command       Command
	Duration      time.Duration
}

// LoadDescriptors checks and reads everything the configure step needs from
// generatorsDir. All failures are configuration errors.
func LoadDescriptors(ctx context.Context, generatorsDir string) (*toolchain.Descriptor, *deps.BuildInfo, error) {
	if generatorsDir == "" {
		return nil, nil, errors.Configuration("generators directory is required")
	}

	if err := checksum.VerifyChecksums(ctx, generatorsDir); err != nil && !stderrors.Is(err, os.ErrNotExist) {
		return nil, nil, errors.WrapWithContext(errors.ErrCodeConfiguration,
			"generated descriptors failed checksum verification", err,
			map[string]any{"dir": generatorsDir})
	}

	tc, err := toolchain.Load(generatorsDir)
	if err != nil {
		return nil, nil, err
	}

	info, err := deps.LoadBuildInfo(generatorsDir)
	if err != nil {
		return nil, nil, err
	}

	if info.Generator != tc.Generator {
		return nil, nil, errors.Configuration("generator mismatch: build info uses %q, toolchain was generated for %q",
			info.Generator, tc.Generator)
	}

	return tc, info, nil
}

// Configure loads the generated descriptors and runs
// cmake -G <generator> -DCMAKE_TOOLCHAIN_FILE=<tc> -D... -S <src> -B <build>.
// Missing or malformed descriptors fail before any process is started.
func (i *Invoker) Configure(ctx context.Context, opts ConfigureOptions) (*Configured, error) {
	tc, info, err := LoadDescriptors(ctx, opts.GeneratorsDir)
	if err != nil {
		return nil, err
	}

	buildDir := opts.BuildDir
	vars := make(map[string]string, len(info.Variables)+len(opts.Variables))
	for k, v := range info.Variables {
		vars[k] = v
	}
	if tc.Presets != nil {
		cp, err := tc.Presets.Configure()
		if err != nil {
			return nil, err
		}
		for k, v := range cp.CacheVariables {
			vars[k] = v
		}
		if buildDir == "" {
			buildDir = filepath.FromSlash(cp.BinaryDir)
		}
	}
	for k, v := range opts.Variables {
		vars[k] = v
	}
	if buildDir == "" {
		buildDir = filepath.Dir(opts.GeneratorsDir)
	}

	sourceDir := opts.SourceDir
	if sourceDir == "" {
		sourceDir = defaults.SourceDir
	}

	args := []string{
		"-G", tc.Generator,
		"-DCMAKE_TOOLCHAIN_FILE=" + filepath.ToSlash(tc.ToolchainFile),
	}
	for _, k := range sortedKeys(vars) {
		args = append(args, "-D"+k+"="+vars[k])
	}
	args = append(args, "-S", sourceDir, "-B", buildDir)

	cmd := Command{Path: i.program, Args: args, Stdout: i.stdout, Stderr: i.stderr}

	start := time.Now()
	code, err := i.run(ctx, i.configureTimeout, cmd)
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return nil, errors.NewWithContext(errors.ErrCodeConfiguration,
			"cmake configure failed with exit status "+strconv.Itoa(code),
			map[string]any{errors.ContextKeyExitStatus: code, "build_dir": buildDir})
	}

	slog.Debug("configure complete",
		"generator", tc.Generator,
		"build_dir", buildDir,
		"duration", time.Since(start))

	return &Configured{
		BuildDir:      buildDir,
		Generator:     tc.Generator,
		ToolchainFile: tc.ToolchainFile,
		BuildInfo:     info,
		Command:       cmd,
		Duration:      time.Since(start),
	}, nil
}

// BuildOptions are the inputs of the build step.
type BuildOptions struct {
	BuildDir  string
	BuildType string
	// Jobs is passed as --parallel when positive.
	Jobs int
	// Target restricts the build to a single target when set.
	Target string
	// Shared is the configured linkage; it decides which libraries in the
	// build directory belong to this build.
	Shared bool
}

// Built describes a successful build step.
type Built struct {
	BuildDir        string
	BuildType       string
	Command         Command
	Duration        time.Duration
	CompileCommands *CompileCommands
	Artifacts       []Artifact
}

// Build runs cmake --build <dir> --config <type> [--parallel N] and then
// inspects the compile-command database and collects artifacts. A non-zero
// exit is a build error carrying the exit status.
func (i *Invoker) Build(ctx context.Context, opts BuildOptions) (*Built, error) {
	if opts.BuildDir == "" {
		return nil, errors.Configuration("build directory is required")
	}
	if opts.BuildType == "" {
		return nil, errors.Configuration("build type is required")
	}

	args := []string{"--build", opts.BuildDir, "--config", opts.BuildType}
	if opts.Jobs > 0 {
		args = append(args, "--parallel", strconv.Itoa(opts.Jobs))
	}
	if opts.Target != "" {
		args = append(args, "--target", opts.Target)
	}
	cmd := Command{Path: i.program, Args: args, Stdout: i.stdout, Stderr: i.stderr}

	start := time.Now()
	code, err := i.run(ctx, i.buildTimeout, cmd)
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return nil, errors.BuildFailed("cmake build failed with exit status "+strconv.Itoa(code), code, nil)
	}
	duration := time.Since(start)

	built := &Built{
		BuildDir:  opts.BuildDir,
		BuildType: opts.BuildType,
		Command:   cmd,
		Duration:  duration,
	}

	db, err := InspectCompileCommands(opts.BuildDir)
	switch {
	case err == nil:
		built.CompileCommands = db
	case stderrors.Is(err, os.ErrNotExist):
		slog.Warn("compile-command database not exported", "build_dir", opts.BuildDir)
	default:
		return nil, err
	}

	artifacts, err := CollectArtifacts(ctx, opts.BuildDir, CollectOptions{
		BuildType: opts.BuildType,
		Shared:    opts.Shared,
	})
	if err != nil {
		return nil, err
	}
	built.Artifacts = artifacts

	slog.Debug("build complete",
		"build_type", opts.BuildType,
		"artifacts", len(artifacts),
		"duration", duration)

	return built, nil
}

// run applies timeout and maps runner failures onto structured errors.
func (i *Invoker) run(ctx context.Context, timeout time.Duration, cmd Command) (int, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	code, err := i.runner.Run(ctx, cmd)
	if err == nil {
		return code, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, errors.WrapWithContext(errors.ErrCodeTimeout, "native tool interrupted", err,
			map[string]any{"command": cmd.String()})
	}
	return -1, errors.WrapWithContext(errors.ErrCodeUnavailable, "failed to run native tool", err,
		map[string]any{"command": cmd.String()})
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
