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

package toolchain

import (
	"context"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/winsock-http/wsbuild/pkg/defaults"
	"github.com/winsock-http/wsbuild/pkg/errors"
	"github.com/winsock-http/wsbuild/pkg/generator/schema"
	"github.com/winsock-http/wsbuild/pkg/serializer"
)

// PresetsVersion is the CMakePresets schema version written by wsbuild.
const PresetsVersion = 3

// VendorKey namespaces wsbuild metadata inside the presets vendor map.
const VendorKey = "wsbuild.dev/wsbuild"

// Presets is the subset of CMakePresets.json wsbuild writes and reads.
type Presets struct {
	Version              int               `json:"version"`
	Vendor               map[string]any    `json:"vendor,omitempty"`
	CMakeMinimumRequired *CMakeVersion     `json:"cmakeMinimumRequired,omitempty"`
	ConfigurePresets     []ConfigurePreset `json:"configurePresets"`
	BuildPresets         []BuildPreset     `json:"buildPresets,omitempty"`
}

// CMakeVersion is a CMake release number.
type CMakeVersion struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// ConfigurePreset describes a cmake configure invocation.
type ConfigurePreset struct {
	Name           string            `json:"name"`
	DisplayName    string            `json:"displayName,omitempty"`
	Generator      string            `json:"generator"`
	ToolchainFile  string            `json:"toolchainFile"`
	BinaryDir      string            `json:"binaryDir"`
	CacheVariables map[string]string `json:"cacheVariables,omitempty"`
}

// BuildPreset describes a cmake --build invocation.
type BuildPreset struct {
	Name            string `json:"name"`
	ConfigurePreset string `json:"configurePreset"`
	Configuration   string `json:"configuration"`
	Jobs            int    `json:"jobs,omitempty"`
}

// PresetsPath returns the presets file path in dir.
func PresetsPath(dir string) string {
	return filepath.Join(dir, defaults.PresetsFileName)
}

// CacheVariables merges recipe variables, the configuration types for a
// multi-config generator, and extra variables. Later sources win.
func CacheVariables(in *Input) map[string]string {
	vars := make(map[string]string, len(in.Recipe.Variables)+len(in.CacheVariables)+1)
	maps.Copy(vars, in.Recipe.Variables)
	if in.Settings.BuildType != "" && strings.Contains(in.Recipe.Generator, "Multi-Config") {
		vars["CMAKE_CONFIGURATION_TYPES"] = in.Settings.BuildType
	}
	maps.Copy(vars, in.CacheVariables)
	return vars
}

// NewPresets builds the presets document for in, pointing at toolchainFile.
func NewPresets(in *Input, toolchainFile string) *Presets {
	prefix := in.PresetPrefix
	if prefix == "" {
		prefix = "wsbuild"
	}
	configureName := prefix + "-default"

	p := &Presets{
		Version: PresetsVersion,
		Vendor: map[string]any{
			VendorKey: map[string]any{
				"recipe":   in.Recipe.Reference(),
				"settings": in.Settings.String(),
			},
		},
		CMakeMinimumRequired: &CMakeVersion{Major: 3, Minor: 21},
		ConfigurePresets: []ConfigurePreset{{
			Name:           configureName,
			DisplayName:    in.Recipe.Reference() + " " + in.Settings.String(),
			Generator:      in.Recipe.Generator,
			ToolchainFile:  filepath.ToSlash(toolchainFile),
			BinaryDir:      filepath.ToSlash(in.BuildDir),
			CacheVariables: CacheVariables(in),
		}},
	}

	if in.Settings.BuildType != "" {
		p.BuildPresets = []BuildPreset{{
			Name:            prefix + "-" + strings.ToLower(in.Settings.BuildType),
			ConfigurePreset: configureName,
			Configuration:   in.Settings.BuildType,
			Jobs:            in.Conf.Jobs,
		}}
	}
	return p
}

// WritePresets writes CMakePresets.json into in.GeneratorsDir. With validate
// set the written document is checked against the embedded schema.
func WritePresets(ctx context.Context, in *Input, toolchainFile string, validate bool) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	path := PresetsPath(in.GeneratorsDir)
	size, err := serializer.WriteFile(path, serializer.FormatJSON, NewPresets(in, toolchainFile))
	if err != nil {
		return "", 0, err
	}

	if validate {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", 0, err
		}
		if err := schema.Presets.Validate(data); err != nil {
			return "", 0, errors.Wrap(errors.ErrCodeInternal, "generated presets are invalid", err)
		}
	}
	return path, size, nil
}

// LoadPresets reads and validates dir/CMakePresets.json.
func LoadPresets(dir string) (*Presets, error) {
	path := PresetsPath(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeConfiguration,
			"presets not found", err, map[string]any{"path": path})
	}

	if err := schema.Presets.Validate(data); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeConfiguration,
			"presets are malformed", err, map[string]any{"path": path})
	}

	var p Presets
	if err := serializer.Unmarshal(serializer.FormatJSON, data, &p); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeConfiguration,
			"presets are malformed", err, map[string]any{"path": path})
	}
	return &p, nil
}

// Configure returns the first configure preset.
func (p *Presets) Configure() (ConfigurePreset, error) {
	if p == nil || len(p.ConfigurePresets) == 0 {
		return ConfigurePreset{}, errors.Configuration("presets define no configure preset")
	}
	return p.ConfigurePresets[0], nil
}

// Build returns the build preset for configuration, if any.
func (p *Presets) Build(configuration string) (BuildPreset, bool) {
	if p == nil {
		return BuildPreset{}, false
	}
	for _, b := range p.BuildPresets {
		if strings.EqualFold(b.Configuration, configuration) {
			return b, true
		}
	}
	return BuildPreset{}, false
}
