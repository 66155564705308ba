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
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/winsock-http/wsbuild/pkg/errors"
	"github.com/winsock-http/wsbuild/pkg/header"
	"github.com/winsock-http/wsbuild/pkg/serializer"
)

// Profile setting keys.
const (
	SettingOS              = "os"
	SettingArch            = "arch"
	SettingCompiler        = "compiler"
	SettingCompilerVersion = "compiler.version"
	SettingCompilerRuntime = "compiler.runtime"
	SettingCompilerLibCXX  = "compiler.libcxx"
	SettingCompilerCppStd  = "compiler.cppstd"
	SettingBuildType       = "build_type"
)

// Profile conf keys.
const (
	ConfJobs         = "tools.cmake:jobs"
	ConfCCompiler    = "tools.build:compiler_executables.c"
	ConfCXXCompiler  = "tools.build:compiler_executables.cpp"
	ConfCMakeProgram = "tools.cmake:cmake_program"
)

var knownSettingKeys = []string{
	SettingOS, SettingArch, SettingCompiler, SettingCompilerVersion,
	SettingCompilerRuntime, SettingCompilerLibCXX, SettingCompilerCppStd, SettingBuildType,
}

var knownConfKeys = []string{ConfJobs, ConfCCompiler, ConfCXXCompiler, ConfCMakeProgram}

// Profile is a named set of settings, options, and tool configuration.
//
//	settings:
//	  os: Windows
//	  arch: x86_64
//	  compiler: msvc
//	  compiler.version: "194"
//	  build_type: Release
//	options:
//	  shared: "True"
//	conf:
//	  tools.cmake:jobs: "8"
type Profile struct {
	header.Header `json:",inline" yaml:",inline"`

	Settings map[string]string `json:"settings,omitempty" yaml:"settings,omitempty"`
	Options  map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
	Conf     map[string]string `json:"conf,omitempty" yaml:"conf,omitempty"`
}

// NewProfile returns an empty profile document.
func NewProfile() *Profile {
	return &Profile{
		Header: header.Header{
			Kind:       header.KindProfile,
			APIVersion: header.APIVersionV1,
		},
		Settings: make(map[string]string),
		Options:  make(map[string]string),
		Conf:     make(map[string]string),
	}
}

// LoadProfile reads a profile from disk.
func LoadProfile(path string) (*Profile, error) {
	p, err := serializer.FromFile[Profile](path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration,
			fmt.Sprintf("failed to load profile %s", path), err)
	}
	if err := p.Check(header.KindProfile); err != nil {
		return nil, err
	}
	if p.Settings == nil {
		p.Settings = make(map[string]string)
	}
	if p.Options == nil {
		p.Options = make(map[string]string)
	}
	if p.Conf == nil {
		p.Conf = make(map[string]string)
	}
	if err := p.validateKeys(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadProfileOrEmpty loads the profile at path, or returns an empty profile
// when path is empty.
func LoadProfileOrEmpty(path string) (*Profile, error) {
	if path == "" {
		return NewProfile(), nil
	}
	return LoadProfile(path)
}

func (p *Profile) validateKeys() error {
	for k := range p.Settings {
		if !slices.Contains(knownSettingKeys, k) {
			return errors.Configuration("unknown setting %q, known settings are %v", k, knownSettingKeys)
		}
	}
	for k := range p.Conf {
		if !slices.Contains(knownConfKeys, k) {
			return errors.Configuration("unknown conf %q, known conf keys are %v", k, knownConfKeys)
		}
	}
	return nil
}

// ParseAssignments parses "key=value" pairs as given on the command line.
func ParseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, errors.Configuration("invalid assignment %q, expected key=value", pair)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

// ApplyOverrides layers command-line settings, options, and conf on top of
// the profile. Later values win.
func (p *Profile) ApplyOverrides(settings, options, conf []string) error {
	s, err := ParseAssignments(settings)
	if err != nil {
		return err
	}
	o, err := ParseAssignments(options)
	if err != nil {
		return err
	}
	c, err := ParseAssignments(conf)
	if err != nil {
		return err
	}

	if p.Settings == nil {
		p.Settings = make(map[string]string)
	}
	if p.Options == nil {
		p.Options = make(map[string]string)
	}
	if p.Conf == nil {
		p.Conf = make(map[string]string)
	}
	maps.Copy(p.Settings, s)
	maps.Copy(p.Options, o)
	maps.Copy(p.Conf, c)

	return p.validateKeys()
}

// ToSettings converts the flat settings map into Settings. Values are not
// validated here; see Recipe.ResolveSettings.
func (p *Profile) ToSettings() Settings {
	return Settings{
		OS:   p.Settings[SettingOS],
		Arch: p.Settings[SettingArch],
		Compiler: Compiler{
			Name:    p.Settings[SettingCompiler],
			Version: p.Settings[SettingCompilerVersion],
			Runtime: p.Settings[SettingCompilerRuntime],
			LibCXX:  p.Settings[SettingCompilerLibCXX],
			CppStd:  p.Settings[SettingCompilerCppStd],
		},
		BuildType: p.Settings[SettingBuildType],
	}
}

// SetSettings replaces the profile settings with the non-empty fields of s.
func (p *Profile) SetSettings(s Settings) {
	p.Settings = make(map[string]string)
	set := func(k, v string) {
		if v != "" {
			p.Settings[k] = v
		}
	}
	set(SettingOS, s.OS)
	set(SettingArch, s.Arch)
	set(SettingCompiler, s.Compiler.Name)
	set(SettingCompilerVersion, s.Compiler.Version)
	set(SettingCompilerRuntime, s.Compiler.Runtime)
	set(SettingCompilerLibCXX, s.Compiler.LibCXX)
	set(SettingCompilerCppStd, s.Compiler.CppStd)
	set(SettingBuildType, s.BuildType)
}

// Conf holds validated tool configuration from a profile.
type Conf struct {
	Jobs         int    `json:"jobs,omitempty" yaml:"jobs,omitempty"`
	CCompiler    string `json:"cCompiler,omitempty" yaml:"cCompiler,omitempty"`
	CXXCompiler  string `json:"cxxCompiler,omitempty" yaml:"cxxCompiler,omitempty"`
	CMakeProgram string `json:"cmakeProgram,omitempty" yaml:"cmakeProgram,omitempty"`
}

// ResolveConf parses the profile's conf section.
func (p *Profile) ResolveConf() (Conf, error) {
	c := Conf{
		CCompiler:    p.Conf[ConfCCompiler],
		CXXCompiler:  p.Conf[ConfCXXCompiler],
		CMakeProgram: p.Conf[ConfCMakeProgram],
	}
	if raw := p.Conf[ConfJobs]; raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Conf{}, errors.Configuration("invalid %s=%q, expected a positive integer", ConfJobs, raw)
		}
		c.Jobs = n
	}
	return c, nil
}
