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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winsock-http/wsbuild/pkg/errors"
	"github.com/winsock-http/wsbuild/pkg/generator/checksum"
	"github.com/winsock-http/wsbuild/pkg/generator/config"
	"github.com/winsock-http/wsbuild/pkg/generator/deps"
	"github.com/winsock-http/wsbuild/pkg/generator/result"
	"github.com/winsock-http/wsbuild/pkg/generator/toolchain"
	"github.com/winsock-http/wsbuild/pkg/recipe"
)

func linuxSettings() recipe.Settings {
	return recipe.Settings{
		OS:        "Linux",
		Arch:      "x86_64",
		Compiler:  recipe.Compiler{Name: "gcc", Version: "13", LibCXX: "libstdc++11", CppStd: "17"},
		BuildType: "Release",
	}
}

func TestGenerate_SharedValues(t *testing.T) {
	for _, shared := range []string{"True", "False", "true", "false"} {
		t.Run(shared, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "generators")
			out, err := New(nil).Generate(context.Background(), &Input{
				Recipe:   recipe.WinSockHTTP(),
				Settings: linuxSettings(),
				Options:  recipe.Options{"shared": shared},
			}, dir)
			require.NoError(t, err)
			assert.False(t, out.HasErrors())

			info, err := deps.LoadBuildInfo(dir)
			require.NoError(t, err)
			assert.Equal(t, strings.EqualFold(shared, "true"), info.Options.Shared())
		})
	}
}

func TestGenerate_DefaultOptions(t *testing.T) {
	dir := t.TempDir()
	_, err := New(nil).Generate(context.Background(), &Input{
		Recipe:   recipe.WinSockHTTP(),
		Settings: linuxSettings(),
	}, dir)
	require.NoError(t, err)

	info, err := deps.LoadBuildInfo(dir)
	require.NoError(t, err)
	assert.Equal(t, "False", info.Options.Get("shared"))

	tc, err := os.ReadFile(toolchain.Path(dir))
	require.NoError(t, err)
	assert.Contains(t, string(tc), "set(BUILD_SHARED_LIBS OFF")
}

func TestGenerate_IdentityRoundTrip(t *testing.T) {
	dir := t.TempDir()
	_, err := New(nil).Generate(context.Background(), &Input{
		Recipe:   recipe.WinSockHTTP(),
		Settings: linuxSettings(),
	}, dir)
	require.NoError(t, err)

	info, err := deps.LoadBuildInfo(dir)
	require.NoError(t, err)
	assert.Equal(t, "winsock-http", info.Name)
	assert.Equal(t, "0.0.0", info.Version)
	assert.Equal(t, "Ninja Multi-Config", info.Generator)
	assert.Equal(t, "ON", info.Variables["CMAKE_EXPORT_COMPILE_COMMANDS"])
	assert.Equal(t, linuxSettings(), info.Settings)
}

func TestGenerate_InvalidSettingsWriteNothing(t *testing.T) {
	tests := []struct {
		name     string
		settings func() recipe.Settings
		options  recipe.Options
	}{
		{"missing compiler", func() recipe.Settings {
			s := linuxSettings()
			s.Compiler = recipe.Compiler{}
			return s
		}, nil},
		{"unsupported compiler", func() recipe.Settings {
			s := linuxSettings()
			s.Compiler.Name = "icc"
			return s
		}, nil},
		{"msvc on linux", func() recipe.Settings {
			s := linuxSettings()
			s.Compiler = recipe.Compiler{Name: "msvc", Version: "194"}
			return s
		}, nil},
		{"illegal option", linuxSettings, recipe.Options{"shared": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "generators")
			_, err := New(nil).Generate(context.Background(), &Input{
				Recipe:   recipe.WinSockHTTP(),
				Settings: tt.settings(),
				Options:  tt.options,
			}, dir)
			require.Error(t, err)
			assert.True(t, errors.IsConfiguration(err), "got %v", err)

			_, statErr := os.Stat(dir)
			assert.True(t, os.IsNotExist(statErr), "no descriptor may be written")
		})
	}
}

func TestGenerate_Requirements(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join(root, "zlib")
	require.NoError(t, os.MkdirAll(filepath.Join(pkg, "include"), 0o755))

	r := recipe.WinSockHTTP()
	r.Requires = []recipe.Requirement{{Name: "zlib", Version: "1.3.1", Path: pkg, Libs: []string{"z"}}}

	dir := filepath.Join(root, "build", "generators")
	out, err := New(nil).Generate(context.Background(), &Input{Recipe: r, Settings: linuxSettings()}, dir)
	require.NoError(t, err)

	depFiles := out.ByKind()[result.KindDependency].Files
	require.Len(t, depFiles, 3)
	for _, name := range []string{"zlib-config.cmake", "zlib-config-version.cmake", "zlib-release-x86_64-data.cmake"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	data, err := os.ReadFile(filepath.Join(dir, "zlib-release-x86_64-data.cmake"))
	require.NoError(t, err)
	assert.Contains(t, string(data), filepath.ToSlash(filepath.Join(pkg, "include")))
	assert.Contains(t, string(data), "set(zlib_LIBS_RELEASE z)")

	info, err := deps.LoadBuildInfo(dir)
	require.NoError(t, err)
	require.Len(t, info.Dependencies, 1)
	assert.Equal(t, filepath.ToSlash(pkg), info.Dependencies[0].RootPath)
}

func TestGenerate_MissingRequirementPath(t *testing.T) {
	r := recipe.WinSockHTTP()
	r.Requires = []recipe.Requirement{{Name: "zlib", Version: "1.3.1", Path: filepath.Join(t.TempDir(), "absent")}}

	_, err := New(nil).Generate(context.Background(), &Input{Recipe: r, Settings: linuxSettings()}, t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

func TestGenerate_RequirementNameStaysInGeneratorsDir(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join(root, "zlib")
	require.NoError(t, os.MkdirAll(pkg, 0o755))

	r := recipe.WinSockHTTP()
	r.Requires = []recipe.Requirement{{Name: "../../escaped", Version: "1.0", Path: pkg}}

	dir := filepath.Join(root, "build", "generators")
	_, err := New(nil).Generate(context.Background(), &Input{Recipe: r, Settings: linuxSettings()}, dir)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))

	matches, err := filepath.Glob(filepath.Join(root, "escaped*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.NoDirExists(t, dir)
}

func TestGenerate_ChecksumsVerify(t *testing.T) {
	dir := t.TempDir()
	out, err := New(nil).Generate(context.Background(), &Input{
		Recipe:   recipe.WinSockHTTP(),
		Settings: linuxSettings(),
	}, dir)
	require.NoError(t, err)

	assert.Contains(t, out.ByKind(), result.KindChecksums)
	require.NoError(t, checksum.VerifyChecksums(context.Background(), dir))

	require.NoError(t, os.WriteFile(toolchain.Path(dir), []byte("# edited\n"), 0o644))
	assert.Error(t, checksum.VerifyChecksums(context.Background(), dir))
}

func TestGenerate_ConfigToggles(t *testing.T) {
	dir := t.TempDir()
	g := New(config.NewConfig(
		config.WithIncludeChecksums(false),
		config.WithIncludePresets(false),
		config.WithInvocationID("inv-1"),
		config.WithVersion("v0.1.0"),
	))
	out, err := g.Generate(context.Background(), &Input{Recipe: recipe.WinSockHTTP(), Settings: linuxSettings()}, dir)
	require.NoError(t, err)

	kinds := out.ByKind()
	assert.NotContains(t, kinds, result.KindChecksums)
	assert.NotContains(t, kinds, result.KindPresets)
	assert.NoFileExists(t, toolchain.PresetsPath(dir))

	info, err := deps.LoadBuildInfo(dir)
	require.NoError(t, err)
	assert.Equal(t, "inv-1", info.Metadata["invocation-id"])
	assert.Equal(t, "v0.1.0", info.Metadata["wsbuild-version"])
}

func TestGenerate_Reproducible(t *testing.T) {
	dir := t.TempDir()
	in := &Input{Recipe: recipe.WinSockHTTP(), Settings: linuxSettings()}

	_, err := New(nil).Generate(context.Background(), in, dir)
	require.NoError(t, err)
	first, err := os.ReadFile(checksum.GetChecksumFilePath(dir))
	require.NoError(t, err)

	_, err = New(nil).Generate(context.Background(), in, dir)
	require.NoError(t, err)
	second, err := os.ReadFile(checksum.GetChecksumFilePath(dir))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestGenerate_InvalidRequests(t *testing.T) {
	_, err := New(nil).Generate(context.Background(), nil, t.TempDir())
	assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))

	_, err = New(nil).Generate(context.Background(), &Input{Recipe: recipe.WinSockHTTP()}, "")
	assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))

	_, err = New(config.NewConfig(config.WithPresetPrefix(""))).Generate(
		context.Background(), &Input{Recipe: recipe.WinSockHTTP(), Settings: linuxSettings()}, t.TempDir())
	assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(nil).Generate(ctx, &Input{Recipe: recipe.WinSockHTTP(), Settings: linuxSettings()}, t.TempDir())
	assert.Equal(t, errors.ErrCodeTimeout, errors.CodeOf(err))
}
