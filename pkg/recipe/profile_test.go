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
	"github.com/winsock-http/wsbuild/pkg/header"
)

const testProfile = `kind: Profile
apiVersion: wsbuild.dev/v1
settings:
  os: Windows
  arch: x86_64
  compiler: msvc
  compiler.version: "194"
  compiler.runtime: static
  build_type: Release
options:
  shared: "False"
conf:
  tools.cmake:jobs: "8"
  tools.build:compiler_executables.cpp: cl.exe
`

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadProfile(t *testing.T) {
	p, err := LoadProfile(writeProfile(t, testProfile))
	require.NoError(t, err)

	assert.Equal(t, header.KindProfile, p.Kind)
	s := p.ToSettings()
	assert.Equal(t, OSWindows, s.OS)
	assert.Equal(t, Compiler{Name: "msvc", Version: "194", Runtime: "static"}, s.Compiler)

	conf, err := p.ResolveConf()
	require.NoError(t, err)
	assert.Equal(t, 8, conf.Jobs)
	assert.Equal(t, "cl.exe", conf.CXXCompiler)

	resolved, err := WinSockHTTP().ResolveSettings(s)
	require.NoError(t, err)
	assert.Equal(t, BuildTypeRelease, resolved.BuildType)
}

func TestLoadProfile_Errors(t *testing.T) {
	_, err := LoadProfile(writeProfile(t, "settings:\n  platform: x\n"))
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))

	_, err = LoadProfile(writeProfile(t, "conf:\n  tools.foo:bar: x\n"))
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))

	_, err = LoadProfile(writeProfile(t, "kind: BuildInfo\nsettings:\n  os: Linux\n"))
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))

	_, err = LoadProfile(writeProfile(t, "bogus: true\n"))
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

func TestLoadProfileOrEmpty(t *testing.T) {
	p, err := LoadProfileOrEmpty("")
	require.NoError(t, err)
	assert.Empty(t, p.Settings)
	assert.NotNil(t, p.Options)
}

func TestProfile_ApplyOverrides(t *testing.T) {
	p, err := LoadProfile(writeProfile(t, testProfile))
	require.NoError(t, err)

	err = p.ApplyOverrides(
		[]string{"build_type=Debug", "compiler.runtime = dynamic"},
		[]string{"shared=True"},
		[]string{"tools.cmake:jobs=2"},
	)
	require.NoError(t, err)

	assert.Equal(t, "Debug", p.Settings[SettingBuildType])
	assert.Equal(t, "dynamic", p.Settings[SettingCompilerRuntime])
	assert.Equal(t, "True", p.Options["shared"])
	assert.Equal(t, "2", p.Conf[ConfJobs])
}

func TestProfile_ApplyOverridesErrors(t *testing.T) {
	tests := []struct {
		name     string
		settings []string
		options  []string
		conf     []string
	}{
		{"missing equals", []string{"os"}, nil, nil},
		{"empty key", nil, []string{"=True"}, nil},
		{"unknown setting", []string{"libc=musl"}, nil, nil},
		{"unknown conf", nil, nil, []string{"tools.x:y=1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewProfile().ApplyOverrides(tt.settings, tt.options, tt.conf)
			require.Error(t, err)
			assert.True(t, errors.IsConfiguration(err))
		})
	}
}

func TestProfile_ResolveConfInvalidJobs(t *testing.T) {
	for _, v := range []string{"0", "-1", "many"} {
		p := NewProfile()
		p.Conf[ConfJobs] = v
		_, err := p.ResolveConf()
		require.Error(t, err, v)
	}
}

func TestProfile_SetSettingsRoundTrip(t *testing.T) {
	p := NewProfile()
	p.SetSettings(linuxGCC())
	assert.Equal(t, linuxGCC(), p.ToSettings())
	assert.NotContains(t, p.Settings, SettingCompilerRuntime)
}
