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
	"maps"
	"slices"
	"strings"

	"github.com/winsock-http/wsbuild/pkg/defaults"
	"github.com/winsock-http/wsbuild/pkg/errors"
)

// Settings axes a recipe may declare.
const (
	AxisOS        = "os"
	AxisArch      = "arch"
	AxisCompiler  = "compiler"
	AxisBuildType = "build_type"
)

// OptionShared is the option controlling static vs. dynamic linkage.
const OptionShared = "shared"

// Canonical spellings of boolean-like option values.
const (
	ValueTrue  = "True"
	ValueFalse = "False"
)

// VariableExportCompileCommands asks CMake to emit compile_commands.json.
const VariableExportCompileCommands = "CMAKE_EXPORT_COMPILE_COMMANDS"

// Recipe describes how a native project is configured and built.
// A Recipe is defined once and treated as immutable; callers that need to
// adjust one should work on a Clone.
type Recipe struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`

	// Settings lists the declared settings axes (os, arch, compiler, build_type).
	Settings []string `json:"settings" yaml:"settings"`

	// Options maps option names to their legal values and default.
	Options map[string]OptionDef `json:"options,omitempty" yaml:"options,omitempty"`

	// Requires lists already-built packages the project consumes.
	Requires []Requirement `json:"requires,omitempty" yaml:"requires,omitempty"`

	// SystemLibs maps an OS name to libraries linked from the platform SDK.
	SystemLibs map[string][]string `json:"systemLibs,omitempty" yaml:"systemLibs,omitempty"`

	// Generator is the CMake generator written into the toolchain presets.
	Generator string `json:"generator,omitempty" yaml:"generator,omitempty"`

	// Variables are passed to the CMake configure step as -D cache entries.
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// Requirement is a dependency package that was built elsewhere and is
// available on disk.
type Requirement struct {
	Name        string   `json:"name" yaml:"name"`
	Version     string   `json:"version" yaml:"version"`
	Path        string   `json:"path" yaml:"path"`
	Libs        []string `json:"libs,omitempty" yaml:"libs,omitempty"`
	Defines     []string `json:"defines,omitempty" yaml:"defines,omitempty"`
	IncludeDirs []string `json:"includeDirs,omitempty" yaml:"includeDirs,omitempty"`
	LibDirs     []string `json:"libDirs,omitempty" yaml:"libDirs,omitempty"`
}

// WinSockHTTP returns the built-in winsock-http recipe.
func WinSockHTTP() Recipe {
	return Recipe{
		Name:     "winsock-http",
		Version:  "0.0.0",
		Settings: []string{AxisOS, AxisArch, AxisCompiler, AxisBuildType},
		Options: map[string]OptionDef{
			OptionShared: {Values: []string{ValueTrue, ValueFalse}, Default: ValueFalse},
		},
		SystemLibs: map[string][]string{
			OSWindows: {"Ws2_32"},
		},
		Generator: defaults.DefaultGenerator,
		Variables: map[string]string{
			VariableExportCompileCommands: "ON",
		},
	}
}

// Clone returns a deep copy of r.
func (r Recipe) Clone() Recipe {
	out := r
	out.Settings = slices.Clone(r.Settings)
	out.Options = make(map[string]OptionDef, len(r.Options))
	for k, v := range r.Options {
		out.Options[k] = OptionDef{Values: slices.Clone(v.Values), Default: v.Default}
	}
	out.Requires = make([]Requirement, len(r.Requires))
	for i, req := range r.Requires {
		out.Requires[i] = req.clone()
	}
	out.SystemLibs = make(map[string][]string, len(r.SystemLibs))
	for k, v := range r.SystemLibs {
		out.SystemLibs[k] = slices.Clone(v)
	}
	out.Variables = maps.Clone(r.Variables)
	return out
}

func (req Requirement) clone() Requirement {
	out := req
	out.Libs = slices.Clone(req.Libs)
	out.Defines = slices.Clone(req.Defines)
	out.IncludeDirs = slices.Clone(req.IncludeDirs)
	out.LibDirs = slices.Clone(req.LibDirs)
	return out
}

// Reference returns "name/version".
func (r Recipe) Reference() string {
	return r.Name + "/" + r.Version
}

// Declares reports whether the recipe declares the given settings axis.
func (r Recipe) Declares(axis string) bool {
	return slices.Contains(r.Settings, axis)
}

// SystemLibsFor returns the platform libraries for the given OS.
func (r Recipe) SystemLibsFor(os string) []string {
	for k, v := range r.SystemLibs {
		if strings.EqualFold(k, os) {
			return slices.Clone(v)
		}
	}
	return nil
}

// SortedVariables returns the variable names in lexical order.
func (r Recipe) SortedVariables() []string {
	return slices.Sorted(maps.Keys(r.Variables))
}

// Validate checks the recipe definition itself, independent of any invocation.
func (r Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.Configuration("recipe name is required")
	}
	if !isFileStem(r.Name) {
		return errors.Configuration("recipe name %q must not contain path separators or \"..\"", r.Name)
	}
	if strings.TrimSpace(r.Version) == "" {
		return errors.Configuration("recipe %s: version is required", r.Name)
	}

	for _, axis := range r.Settings {
		switch axis {
		case AxisOS, AxisArch, AxisCompiler, AxisBuildType:
		default:
			return errors.Configuration("recipe %s: unknown settings axis %q", r.Name, axis)
		}
	}

	for name, def := range r.Options {
		if len(def.Values) == 0 {
			return errors.Configuration("recipe %s: option %q has no legal values", r.Name, name)
		}
		if _, ok := canonical(def.Default, def.Values); !ok {
			return errors.Configuration("recipe %s: option %q default %q is not one of %v",
				r.Name, name, def.Default, def.Values)
		}
	}

	seen := make(map[string]bool, len(r.Requires))
	for _, req := range r.Requires {
		if req.Name == "" {
			return errors.Configuration("recipe %s: requirement without a name", r.Name)
		}
		if !isFileStem(req.Name) {
			return errors.Configuration("recipe %s: requirement name %q must not contain path separators or \"..\"",
				r.Name, req.Name)
		}
		if seen[req.Name] {
			return errors.Configuration("recipe %s: duplicate requirement %q", r.Name, req.Name)
		}
		seen[req.Name] = true
		if req.Path == "" {
			return errors.Configuration("recipe %s: requirement %q has no path", r.Name, req.Name)
		}
	}

	return nil
}

// isFileStem reports whether name can prefix a generated file name without
// escaping the generators directory.
func isFileStem(name string) bool {
	return !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..")
}
