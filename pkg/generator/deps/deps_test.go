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

package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winsock-http/wsbuild/pkg/errors"
	"github.com/winsock-http/wsbuild/pkg/header"
	"github.com/winsock-http/wsbuild/pkg/recipe"
)

func TestResolveDependencies(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "openssl"), 0o755))

	got, err := ResolveDependencies([]recipe.Requirement{{
		Name:        "openssl",
		Version:     "3.2.0",
		Path:        filepath.Join(root, "openssl"),
		IncludeDirs: []string{"inc"},
		Libs:        []string{"ssl", "crypto"},
	}})
	require.NoError(t, err)
	require.Len(t, got, 1)

	base := filepath.ToSlash(filepath.Join(root, "openssl"))
	assert.Equal(t, base, got[0].RootPath)
	assert.Equal(t, []string{base + "/inc"}, got[0].IncludeDirs)
	assert.Equal(t, []string{base + "/lib"}, got[0].LibDirs)
	assert.Equal(t, []string{"ssl", "crypto"}, got[0].Libs)
}

func TestResolveDependencies_Errors(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	for _, path := range []string{filepath.Join(root, "missing"), file} {
		_, err := ResolveDependencies([]recipe.Requirement{{Name: "x", Path: path}})
		require.Error(t, err)
		assert.True(t, errors.IsConfiguration(err))
	}
}

func TestBuildInfo_WriteLoad(t *testing.T) {
	dir := t.TempDir()
	info := &BuildInfo{
		Header:    *header.New(header.WithKind(header.KindBuildInfo), header.WithAPIVersion(header.APIVersionV1)),
		Name:      "winsock-http",
		Version:   "0.0.0",
		Settings:  recipe.Settings{OS: "Windows", Compiler: recipe.Compiler{Name: "msvc", Version: "194", Runtime: "dynamic"}},
		Options:   recipe.Options{"shared": "False"},
		Generator: "Ninja Multi-Config",
	}

	path, size, err := WriteBuildInfo(dir, info, true)
	require.NoError(t, err)
	assert.Equal(t, BuildInfoPath(dir), path)
	assert.Positive(t, size)

	got, err := LoadBuildInfo(dir)
	require.NoError(t, err)
	assert.Equal(t, "winsock-http", got.Name)
	assert.Equal(t, "0.0.0", got.Version)
	assert.Empty(t, got.Dependencies)
	assert.Equal(t, header.KindBuildInfo, got.Kind)
}

func TestLoadBuildInfo_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadBuildInfo(dir)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))

	require.NoError(t, os.WriteFile(BuildInfoPath(dir), []byte(`{"kind":"BuildInfo"}`), 0o644))
	_, err = LoadBuildInfo(dir)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
	assert.Contains(t, err.Error(), "malformed")
}

func TestWriteDependency(t *testing.T) {
	dir := t.TempDir()
	dep := Dependency{
		Name:        "winsock-http",
		Version:     "0.0.0",
		RootPath:    "/opt/wsh",
		IncludeDirs: []string{"/opt/wsh/include"},
		LibDirs:     []string{"/opt/wsh/lib"},
		Libs:        []string{"winsock-http"},
		Defines:     []string{"WSH_STATIC"},
	}
	s := recipe.Settings{Arch: "x86_64", BuildType: "Debug"}

	files, size, err := WriteDependency(context.Background(), dir, dep, s)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Positive(t, size)

	config, err := os.ReadFile(filepath.Join(dir, "winsock-http-config.cmake"))
	require.NoError(t, err)
	assert.Contains(t, string(config), "add_library(winsock-http::winsock-http INTERFACE IMPORTED)")
	assert.Contains(t, string(config), "winsock_http_CONFIGURATIONS")

	version, err := os.ReadFile(filepath.Join(dir, "winsock-http-config-version.cmake"))
	require.NoError(t, err)
	assert.Contains(t, string(version), `set(PACKAGE_VERSION "0.0.0")`)

	data, err := os.ReadFile(filepath.Join(dir, "winsock-http-debug-x86_64-data.cmake"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `set(winsock_http_INCLUDE_DIRS_DEBUG "/opt/wsh/include")`)
	assert.Contains(t, string(data), "set(winsock_http_DEFINES_DEBUG WSH_STATIC)")
	assert.Contains(t, string(data), "list(APPEND winsock_http_CONFIGURATIONS Debug)")
}

func TestWriteDependency_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := WriteDependency(ctx, t.TempDir(), Dependency{Name: "x"}, recipe.Settings{})
	assert.Error(t, err)
}

func TestFileNames(t *testing.T) {
	s := recipe.Settings{Arch: "armv8", BuildType: "RelWithDebInfo"}
	assert.Equal(t, "fmt-config.cmake", ConfigFileName("fmt"))
	assert.Equal(t, "fmt-config-version.cmake", ConfigVersionFileName("fmt"))
	assert.Equal(t, "fmt-relwithdebinfo-armv8-data.cmake", DataFileName("fmt", s))
	assert.Equal(t, "fmt-data.cmake", DataFileName("fmt", recipe.Settings{}))
	assert.Equal(t, "a_b_c", cmakeIdentifier("a-b.c"))
}
