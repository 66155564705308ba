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

// Package deps writes dependency descriptors: the build-info.json root record
// and, for each required package, CMake config files exposing an imported
// name::name interface target.
package deps

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/winsock-http/wsbuild/pkg/defaults"
	"github.com/winsock-http/wsbuild/pkg/errors"
	"github.com/winsock-http/wsbuild/pkg/generator/schema"
	"github.com/winsock-http/wsbuild/pkg/header"
	"github.com/winsock-http/wsbuild/pkg/recipe"
	"github.com/winsock-http/wsbuild/pkg/serializer"
)

//go:embed templates/config.cmake.tmpl
var configTemplate string

//go:embed templates/config-version.cmake.tmpl
var configVersionTemplate string

//go:embed templates/data.cmake.tmpl
var dataTemplate string

var templates = template.Must(template.New("deps").Delims("[[", "]]").Parse(""))

func init() {
	template.Must(templates.New("config").Parse(configTemplate))
	template.Must(templates.New("config-version").Parse(configVersionTemplate))
	template.Must(templates.New("data").Parse(dataTemplate))
}

// Dependency is a required package resolved to absolute locations.
type Dependency struct {
	Name        string   `json:"name" yaml:"name"`
	Version     string   `json:"version" yaml:"version"`
	RootPath    string   `json:"rootPath" yaml:"rootPath"`
	IncludeDirs []string `json:"includeDirs,omitempty" yaml:"includeDirs,omitempty"`
	LibDirs     []string `json:"libDirs,omitempty" yaml:"libDirs,omitempty"`
	Libs        []string `json:"libs,omitempty" yaml:"libs,omitempty"`
	Defines     []string `json:"defines,omitempty" yaml:"defines,omitempty"`
}

// BuildInfo is the root dependency descriptor. It records the identity of the
// recipe being built and everything the build phase needs to know about the
// invocation.
type BuildInfo struct {
	header.Header `json:",inline" yaml:",inline"`

	Name         string            `json:"name" yaml:"name"`
	Version      string            `json:"version" yaml:"version"`
	Settings     recipe.Settings   `json:"settings" yaml:"settings"`
	Options      recipe.Options    `json:"options" yaml:"options"`
	Generator    string            `json:"generator" yaml:"generator"`
	Variables    map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
	SystemLibs   []string          `json:"systemLibs,omitempty" yaml:"systemLibs,omitempty"`
	Dependencies []Dependency      `json:"dependencies" yaml:"dependencies"`
}

// ResolveDependencies turns recipe requirements into dependencies with
// absolute, existing root paths. Include and lib dirs default to "include"
// and "lib" under the root.
func ResolveDependencies(reqs []recipe.Requirement) ([]Dependency, error) {
	out := make([]Dependency, 0, len(reqs))
	for _, req := range reqs {
		root, err := filepath.Abs(req.Path)
		if err != nil {
			return nil, errors.Configuration("requirement %s: invalid path %q: %v", req.Name, req.Path, err)
		}
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.Configuration("requirement %s: package not found at %s", req.Name, root)
		}
		if !info.IsDir() {
			return nil, errors.Configuration("requirement %s: %s is not a directory", req.Name, root)
		}

		includeDirs := req.IncludeDirs
		if len(includeDirs) == 0 {
			includeDirs = []string{"include"}
		}
		libDirs := req.LibDirs
		if len(libDirs) == 0 {
			libDirs = []string{"lib"}
		}

		out = append(out, Dependency{
			Name:        req.Name,
			Version:     req.Version,
			RootPath:    filepath.ToSlash(root),
			IncludeDirs: underRoot(root, includeDirs),
			LibDirs:     underRoot(root, libDirs),
			Libs:        append([]string(nil), req.Libs...),
			Defines:     append([]string(nil), req.Defines...),
		})
	}
	return out, nil
}

func underRoot(root string, dirs []string) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if !filepath.IsAbs(d) {
			d = filepath.Join(root, d)
		}
		out = append(out, filepath.ToSlash(d))
	}
	return out
}

// BuildInfoPath returns the build-info.json path in dir.
func BuildInfoPath(dir string) string {
	return filepath.Join(dir, defaults.BuildInfoFileName)
}

// WriteBuildInfo writes info to dir/build-info.json. With validate set the
// written document is checked against the embedded schema.
func WriteBuildInfo(dir string, info *BuildInfo, validate bool) (string, int64, error) {
	if info.Dependencies == nil {
		info.Dependencies = make([]Dependency, 0)
	}

	path := BuildInfoPath(dir)
	size, err := serializer.WriteFile(path, serializer.FormatJSON, info)
	if err != nil {
		return "", 0, errors.Wrap(errors.ErrCodeInternal, "failed to write build info", err)
	}

	if validate {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", 0, errors.Wrap(errors.ErrCodeInternal, "failed to read back build info", err)
		}
		if err := schema.BuildInfo.Validate(data); err != nil {
			return "", 0, errors.Wrap(errors.ErrCodeInternal, "generated build info is invalid", err)
		}
	}

	return path, size, nil
}

// LoadBuildInfo reads and validates dir/build-info.json. A missing or
// malformed document is a configuration error.
func LoadBuildInfo(dir string) (*BuildInfo, error) {
	path := BuildInfoPath(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeConfiguration,
			"dependency descriptor not found, run generate first", err,
			map[string]any{"path": path})
	}

	if err := schema.BuildInfo.Validate(data); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeConfiguration,
			"dependency descriptor is malformed", err,
			map[string]any{"path": path})
	}

	var info BuildInfo
	if err := serializer.Unmarshal(serializer.FormatJSON, data, &info); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeConfiguration,
			"dependency descriptor is malformed", err,
			map[string]any{"path": path})
	}
	if err := info.Check(header.KindBuildInfo); err != nil {
		return nil, err
	}

	return &info, nil
}

// WriteDependency writes the config, config-version, and data files for dep
// into dir and returns their paths and total size.
func WriteDependency(ctx context.Context, dir string, dep Dependency, settings recipe.Settings) ([]string, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	data := struct {
		Dependency
		Var       string
		BuildType string
		ConfigVar string
		Arch      string
	}{
		Dependency: dep,
		Var:        cmakeIdentifier(dep.Name),
		BuildType:  settings.BuildType,
		ConfigVar:  strings.ToUpper(settings.BuildType),
		Arch:       settings.Arch,
	}

	files := []struct {
		name string
		tmpl string
	}{
		{ConfigFileName(dep.Name), "config"},
		{ConfigVersionFileName(dep.Name), "config-version"},
		{DataFileName(dep.Name, settings), "data"},
	}

	paths := make([]string, 0, len(files))
	var total int64
	for _, f := range files {
		var buf bytes.Buffer
		if err := templates.ExecuteTemplate(&buf, f.tmpl, data); err != nil {
			return nil, 0, fmt.Errorf("failed to render %s: %w", f.name, err)
		}
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, buf.Bytes(), defaults.FileMode); err != nil {
			return nil, 0, fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		paths = append(paths, path)
		total += int64(buf.Len())
	}

	slog.Debug("dependency descriptors written", "dependency", dep.Name, "files", len(paths))
	return paths, total, nil
}

// ConfigFileName returns "<name>-config.cmake".
func ConfigFileName(name string) string {
	return name + "-config.cmake"
}

// ConfigVersionFileName returns "<name>-config-version.cmake".
func ConfigVersionFileName(name string) string {
	return name + "-config-version.cmake"
}

// DataFileName returns "<name>-<build_type>-<arch>-data.cmake" with the
// build type lower-cased.
func DataFileName(name string, s recipe.Settings) string {
	parts := []string{name}
	if s.BuildType != "" {
		parts = append(parts, strings.ToLower(s.BuildType))
	}
	if s.Arch != "" {
		parts = append(parts, s.Arch)
	}
	return strings.Join(parts, "-") + "-data.cmake"
}

// cmakeIdentifier maps a package name onto a CMake variable prefix.
func cmakeIdentifier(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
