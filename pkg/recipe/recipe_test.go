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

package recipe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winsock-http/wsbuild/pkg/errors"
)

func TestWinSockHTTP(t *testing.T) {
	r := WinSockHTTP()

	assert.Equal(t, "winsock-http", r.Name)
	assert.Equal(t, "0.0.0", r.Version)
	assert.Equal(t, "winsock-http/0.0.0", r.Reference())
	assert.Equal(t, []string{"os", "arch", "compiler", "build_type"}, r.Settings)
	assert.Equal(t, "Ninja Multi-Config", r.Generator)
	assert.Equal(t, "ON", r.Variables["CMAKE_EXPORT_COMPILE_COMMANDS"])
	assert.Equal(t, []string{"Ws2_32"}, r.SystemLibsFor("windows"))
	assert.Nil(t, r.SystemLibsFor(OSLinux))
	require.NoError(t, r.Validate())
}

func TestWinSockHTTP_ReturnsIndependentCopies(t *testing.T) {
	a := WinSockHTTP()
	a.Variables["EXTRA"] = "1"
	a.Options[OptionShared] = OptionDef{Values: []string{"x"}, Default: "x"}

	b := WinSockHTTP()
	assert.NotContains(t, b.Variables, "EXTRA")
	assert.Equal(t, ValueFalse, b.Options[OptionShared].Default)
}

func TestRecipe_Clone(t *testing.T) {
	r := WinSockHTTP()
	r.Requires = []Requirement{{Name: "zlib", Version: "1.3", Path: "/opt/zlib", Libs: []string{"z"}}}

	c := r.Clone()
	c.Requires[0].Libs[0] = "changed"
	c.SystemLibs[OSWindows][0] = "changed"
	c.Settings[0] = "changed"

	assert.Equal(t, "z", r.Requires[0].Libs[0])
	assert.Equal(t, "Ws2_32", r.SystemLibs[OSWindows][0])
	assert.Equal(t, AxisOS, r.Settings[0])
}

func TestRecipe_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Recipe)
	}{
		{"empty name", func(r *Recipe) { r.Name = " " }},
		{"empty version", func(r *Recipe) { r.Version = "" }},
		{"unknown axis", func(r *Recipe) { r.Settings = append(r.Settings, "libc") }},
		{"illegal default", func(r *Recipe) {
			r.Options["fPIC"] = OptionDef{Values: []string{ValueTrue, ValueFalse}, Default: "maybe"}
		}},
		{"no values", func(r *Recipe) { r.Options["fPIC"] = OptionDef{} }},
		{"requirement without path", func(r *Recipe) { r.Requires = []Requirement{{Name: "zlib"}} }},
		{"duplicate requirement", func(r *Recipe) {
			r.Requires = []Requirement{{Name: "zlib", Path: "a"}, {Name: "zlib", Path: "b"}}
		}},
		{"recipe name with separator", func(r *Recipe) { r.Name = "../winsock-http" }},
		{"requirement name escapes", func(r *Recipe) {
			r.Requires = []Requirement{{Name: "../../../tmp/pwn", Path: "/opt/x"}}
		}},
		{"requirement name with slash", func(r *Recipe) {
			r.Requires = []Requirement{{Name: "org/zlib", Path: "/opt/zlib"}}
		}},
		{"requirement name with backslash", func(r *Recipe) {
			r.Requires = []Requirement{{Name: `..\zlib`, Path: "/opt/zlib"}}
		}},
		{"requirement name dot dot", func(r *Recipe) {
			r.Requires = []Requirement{{Name: "..", Path: "/opt/zlib"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := WinSockHTTP()
			tt.mutate(&r)
			err := r.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsConfiguration(err))
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recipe.yaml")
	content := `name: echo-server
version: 1.2.0
settings: [os, arch, compiler, build_type]
options:
  shared:
    values: ["True", "False"]
    default: "False"
requires:
  - name: winsock-http
    version: 0.0.0
    path: deps/winsock-http
    libs: [winsock-http]
variables:
  CMAKE_EXPORT_COMPILE_COMMANDS: "ON"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "echo-server/1.2.0", r.Reference())
	assert.Equal(t, "Ninja Multi-Config", r.Generator)
	require.Len(t, r.Requires, 1)
	assert.Equal(t, filepath.Join(dir, "deps", "winsock-http"), r.Requires[0].Path)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("name: x\nversion: 1\nsettings: [platform]\n"), 0o600))
	_, err = Load(bad)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("name: x\nversion: 1\nlicense: MIT\n"), 0o600))
	_, err = Load(unknown)
	require.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	r, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, "winsock-http", r.Name)
}
