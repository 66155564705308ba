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
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/winsock-http/wsbuild/pkg/cmake"
	"github.com/winsock-http/wsbuild/pkg/errors"
	"github.com/winsock-http/wsbuild/pkg/recipe"
	"github.com/winsock-http/wsbuild/pkg/serializer"
)

const linuxProfile = `settings:
  os: Linux
  arch: x86_64
  compiler: gcc
  compiler.version: "13"
  compiler.libcxx: libstdc++11
  build_type: Release
`

// stubCMake writes a static library on --build, or fails with buildExit.
type stubCMake struct {
	mu        sync.Mutex
	calls     int
	buildExit int
}

func (s *stubCMake) Run(_ context.Context, cmd cmake.Command) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if cmd.Args[0] != "--build" {
		return 0, nil
	}
	if s.buildExit != 0 {
		return s.buildExit, nil
	}
	dir := filepath.Join(cmd.Args[1], cmd.Args[3])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return -1, err
	}
	return 0, os.WriteFile(filepath.Join(dir, "libwinsock-http.a"), []byte("lib"), 0o644)
}

type workspace struct {
	src     string
	build   string
	profile string
	history string
}

func newWorkspace(t *testing.T, runner cmake.Runner) workspace {
	t.Helper()
	prev := newRunner
	newRunner = func() cmake.Runner { return runner }
	t.Cleanup(func() { newRunner = prev })

	root := t.TempDir()
	ws := workspace{
		src:     filepath.Join(root, "src"),
		build:   filepath.Join(root, "build"),
		profile: filepath.Join(root, "linux.yaml"),
		history: filepath.Join(root, "history.db"),
	}
	require.NoError(t, os.MkdirAll(ws.src, 0o755))
	require.NoError(t, os.WriteFile(ws.profile, []byte(linuxProfile), 0o644))
	return ws
}

func (ws workspace) run(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.Writer = &out
	cmd.ErrWriter = &out
	full := append([]string{name, "--no-color", "--history-db", ws.history}, args...)
	err := cmd.Run(context.Background(), full)
	return out.String(), err
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"canceled", fmt.Errorf("configure: %w", context.Canceled), exitInterrupted},
		{"build status", errors.BuildFailed("compile failed", 3, nil), 3},
		{"build without status", errors.New(errors.ErrCodeBuild, "compile failed"), exitFailure},
		{"configuration", errors.Configuration("unsupported compiler %q", "tcc"), exitFailure},
		{"plain", stderrors.New("boom"), exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		format  string
		want    serializer.Format
		wantErr bool
	}{
		{"yaml", serializer.FormatYAML, false},
		{"json", serializer.FormatJSON, false},
		{"table", serializer.FormatTable, false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{&cli.StringFlag{Name: "format", Value: tt.format}},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := parseOutputFormat(c)
					if tt.wantErr {
						assert.Error(t, err)
						return nil
					}
					assert.NoError(t, err)
					assert.Equal(t, tt.want, got)
					return nil
				},
			}
			require.NoError(t, cmd.Run(context.Background(), []string{"test"}))
		})
	}
}

func TestGenerateThenBuild(t *testing.T) {
	runner := &stubCMake{}
	ws := newWorkspace(t, runner)

	_, err := ws.run("generate", "-p", ws.profile, "-S", ws.src, "-B", ws.build)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(ws.build, "generators", "build-info.json"))
	assert.FileExists(t, filepath.Join(ws.build, "generators", "wsbuild_toolchain.cmake"))
	assert.Zero(t, runner.calls, "generate must not run cmake")

	report := filepath.Join(ws.build, "report.yaml")
	out, err := ws.run("build", "-S", ws.src, "-B", ws.build, "--output", report)
	require.NoError(t, err)
	assert.Equal(t, 2, runner.calls)
	assert.Contains(t, out, "Release/libwinsock-http.a")

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kind: BuildResult")
	assert.Contains(t, string(data), "Linux-x86_64-gcc13-Release")
}

func TestGenerate_InvalidSettings(t *testing.T) {
	runner := &stubCMake{}
	ws := newWorkspace(t, runner)

	_, err := ws.run("create", "-p", ws.profile, "-s", "compiler=tcc", "-S", ws.src, "-B", ws.build)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err), "got %v", err)
	assert.Equal(t, exitFailure, ExitCode(err))
	assert.Zero(t, runner.calls)
	assert.NoDirExists(t, filepath.Join(ws.build, "generators"))
}

func TestCreate_NativeExitStatus(t *testing.T) {
	ws := newWorkspace(t, &stubCMake{buildExit: 2})

	_, err := ws.run("create", "-p", ws.profile, "-S", ws.src, "-B", ws.build)
	require.Error(t, err)
	assert.True(t, errors.IsBuild(err))
	assert.Equal(t, 2, ExitCode(err))
}

func TestInspectAndPackage(t *testing.T) {
	ws := newWorkspace(t, &stubCMake{})
	_, err := ws.run("create", "-p", ws.profile, "-o", "shared=False", "-S", ws.src, "-B", ws.build)
	require.NoError(t, err)

	inspected := filepath.Join(ws.build, "inspect.json")
	_, err = ws.run("inspect", "-B", ws.build, "--format", "json", "--output", inspected)
	require.NoError(t, err)
	data, err := os.ReadFile(inspected)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"generator": "Ninja Multi-Config"`)
	assert.Contains(t, string(data), "libwinsock-http.a")

	layout := filepath.Join(t.TempDir(), "dist")
	_, err = ws.run("package", "-B", ws.build, "--target", layout)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(layout, "index.json"))
	assert.FileExists(t, filepath.Join(layout, "oci-layout"))
}

func TestHistory_RecordsPhases(t *testing.T) {
	ws := newWorkspace(t, &stubCMake{})
	_, err := ws.run("create", "-p", ws.profile, "-S", ws.src, "-B", ws.build)
	require.NoError(t, err)

	out, err := ws.run("history")
	require.NoError(t, err)
	assert.Contains(t, out, "PHASE")
	assert.Contains(t, out, "configure")

	listing := filepath.Join(t.TempDir(), "history.json")
	_, err = ws.run("history", "--format", "json", "--output", listing)
	require.NoError(t, err)
	data, err := os.ReadFile(listing)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind": "History"`)
	assert.Contains(t, string(data), `"phase": "generate"`)
	assert.Contains(t, string(data), `"phase": "build"`)
}

func TestNoHistory(t *testing.T) {
	ws := newWorkspace(t, &stubCMake{})
	_, err := ws.run("--no-history", "generate", "-p", ws.profile, "-S", ws.src, "-B", ws.build)
	require.NoError(t, err)
	assert.NoFileExists(t, ws.history)
}

func TestResolveProfile(t *testing.T) {
	prof := recipe.NewProfile()
	require.NoError(t, prof.ApplyOverrides(
		[]string{"os=linux", "arch=x86_64", "compiler=GCC", "compiler.version=13", "compiler.libcxx=libstdc++11", "build_type=debug"},
		nil,
		[]string{"tools.cmake:jobs=4"},
	))

	got, err := resolveProfile(recipe.WinSockHTTP(), prof)
	require.NoError(t, err)
	assert.Equal(t, "Linux", got.Settings["os"])
	assert.Equal(t, "gcc", got.Settings["compiler"])
	assert.Equal(t, "Debug", got.Settings["build_type"])
	assert.Equal(t, "False", got.Options["shared"])
	assert.Equal(t, "4", got.Conf["tools.cmake:jobs"])
	assert.Equal(t, version, got.Metadata["wsbuild-version"])

	prof.Options["shared"] = "maybe"
	_, err = resolveProfile(recipe.WinSockHTTP(), prof)
	assert.True(t, errors.IsConfiguration(err))
}
