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
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/winsock-http/wsbuild/pkg/errors"
	"github.com/winsock-http/wsbuild/pkg/version"
)

// Operating systems.
const (
	OSWindows = "Windows"
	OSLinux   = "Linux"
	OSMacos   = "Macos"
	OSFreeBSD = "FreeBSD"
)

// Architectures.
const (
	ArchX86    = "x86"
	ArchX86_64 = "x86_64"
	ArchARMv7  = "armv7"
	ArchARMv8  = "armv8"
)

// Compilers.
const (
	CompilerMSVC       = "msvc"
	CompilerGCC        = "gcc"
	CompilerClang      = "clang"
	CompilerAppleClang = "apple-clang"
)

// Build types.
const (
	BuildTypeDebug          = "Debug"
	BuildTypeRelease        = "Release"
	BuildTypeRelWithDebInfo = "RelWithDebInfo"
	BuildTypeMinSizeRel     = "MinSizeRel"
)

// MSVC runtime linkage.
const (
	RuntimeStatic  = "static"
	RuntimeDynamic = "dynamic"
)

var (
	supportedOS         = []string{OSWindows, OSLinux, OSMacos, OSFreeBSD}
	supportedArch       = []string{ArchX86, ArchX86_64, ArchARMv7, ArchARMv8}
	supportedBuildTypes = []string{BuildTypeDebug, BuildTypeRelease, BuildTypeRelWithDebInfo, BuildTypeMinSizeRel}
	supportedCppStd     = []string{"11", "14", "17", "20", "23", "gnu11", "gnu14", "gnu17", "gnu20", "gnu23"}
)

type compilerModel struct {
	versions version.Range
	runtimes []string
	libcxx   []string
	// onlyOS restricts the compiler to a single operating system when set.
	onlyOS string
}

var compilerModels = map[string]compilerModel{
	CompilerMSVC: {
		versions: version.NewRange("190", "194"),
		runtimes: []string{RuntimeStatic, RuntimeDynamic},
		onlyOS:   OSWindows,
	},
	CompilerGCC: {
		versions: version.NewRange("5", "14"),
		libcxx:   []string{"libstdc++", "libstdc++11"},
	},
	CompilerClang: {
		versions: version.NewRange("6", "19"),
		libcxx:   []string{"libstdc++", "libstdc++11", "libc++"},
	},
	CompilerAppleClang: {
		versions: version.NewRange("10", "16"),
		libcxx:   []string{"libc++"},
		onlyOS:   OSMacos,
	},
}

// Compiler identifies the compiler and its sub-settings.
type Compiler struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Runtime string `json:"runtime,omitempty" yaml:"runtime,omitempty"`
	LibCXX  string `json:"libcxx,omitempty" yaml:"libcxx,omitempty"`
	CppStd  string `json:"cppstd,omitempty" yaml:"cppstd,omitempty"`
}

// Settings is the platform configuration of a single invocation.
type Settings struct {
	OS        string   `json:"os,omitempty" yaml:"os,omitempty"`
	Arch      string   `json:"arch,omitempty" yaml:"arch,omitempty"`
	Compiler  Compiler `json:"compiler" yaml:"compiler"`
	BuildType string   `json:"build_type,omitempty" yaml:"build_type,omitempty"`
}

// String renders settings as a short identifier, e.g. "Linux-x86_64-gcc13-Release".
func (s Settings) String() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{s.OS, s.Arch, s.Compiler.Name + s.Compiler.Version, s.BuildType} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "-")
}

// SupportedCompilers returns the compiler names known to the settings model.
func SupportedCompilers() []string {
	return []string{CompilerAppleClang, CompilerClang, CompilerGCC, CompilerMSVC}
}

// SupportedOS returns the operating systems known to the settings model.
func SupportedOS() []string { return slices.Clone(supportedOS) }

// SupportedArch returns the architectures known to the settings model.
func SupportedArch() []string { return slices.Clone(supportedArch) }

// SupportedBuildTypes returns the build types known to the settings model.
func SupportedBuildTypes() []string { return slices.Clone(supportedBuildTypes) }

// ResolveSettings validates s against the settings model for the axes the
// recipe declares and returns the canonicalized settings. Axes the recipe
// does not declare are cleared. Any missing, unknown, or contradictory value
// is a configuration error.
func (r Recipe) ResolveSettings(s Settings) (Settings, error) {
	var out Settings
	var err error

	if r.Declares(AxisOS) {
		if out.OS, err = resolveAxis(AxisOS, s.OS, supportedOS); err != nil {
			return Settings{}, err
		}
	}
	if r.Declares(AxisArch) {
		if out.Arch, err = resolveAxis(AxisArch, s.Arch, supportedArch); err != nil {
			return Settings{}, err
		}
	}
	if r.Declares(AxisBuildType) {
		if out.BuildType, err = resolveAxis(AxisBuildType, s.BuildType, supportedBuildTypes); err != nil {
			return Settings{}, err
		}
	}
	if r.Declares(AxisCompiler) {
		if out.Compiler, err = resolveCompiler(s.Compiler, out.OS); err != nil {
			return Settings{}, err
		}
	}

	return out, nil
}

func resolveAxis(axis, value string, legal []string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", errors.Configuration("setting %q is required", axis)
	}
	v, ok := canonical(value, legal)
	if !ok {
		return "", errors.Configuration("invalid setting %s=%q, possible values are %v", axis, value, legal)
	}
	return v, nil
}

func resolveCompiler(c Compiler, os string) (Compiler, error) {
	name, err := resolveAxis(AxisCompiler, c.Name, SupportedCompilers())
	if err != nil {
		return Compiler{}, err
	}
	model := compilerModels[name]
	out := Compiler{Name: name}

	if model.onlyOS != "" && os != "" && os != model.onlyOS {
		return Compiler{}, errors.Configuration("compiler %s is not supported on os %s", name, os)
	}

	if strings.TrimSpace(c.Version) == "" {
		return Compiler{}, errors.Configuration("setting %q is required", "compiler.version")
	}
	v, err := version.ParseVersion(strings.TrimSpace(c.Version))
	if err != nil {
		return Compiler{}, errors.Configuration("invalid compiler.version %q: %v", c.Version, err)
	}
	if !model.versions.Contains(v) {
		return Compiler{}, errors.Configuration("unsupported %s version %s, supported range is %s",
			name, c.Version, model.versions)
	}
	out.Version = strings.TrimSpace(c.Version)

	if out.Runtime, err = resolveSubsetting(name, "runtime", c.Runtime, model.runtimes); err != nil {
		return Compiler{}, err
	}
	if name == CompilerMSVC && out.Runtime == "" {
		out.Runtime = RuntimeDynamic
	}
	if out.LibCXX, err = resolveSubsetting(name, "libcxx", c.LibCXX, model.libcxx); err != nil {
		return Compiler{}, err
	}
	if c.CppStd != "" {
		std, ok := canonical(c.CppStd, supportedCppStd)
		if !ok {
			return Compiler{}, errors.Configuration("invalid setting compiler.cppstd=%q, possible values are %v",
				c.CppStd, supportedCppStd)
		}
		out.CppStd = std
	}

	return out, nil
}

func resolveSubsetting(compiler, key, value string, legal []string) (string, error) {
	if value == "" {
		return "", nil
	}
	if len(legal) == 0 {
		return "", errors.Configuration("setting compiler.%s does not exist for %s", key, compiler)
	}
	v, ok := canonical(value, legal)
	if !ok {
		return "", errors.Configuration("invalid setting compiler.%s=%q for %s, possible values are %v",
			key, value, compiler, legal)
	}
	return v, nil
}

// canonical returns the declared spelling of value from legal, compared
// with Unicode case folding.
func canonical(value string, legal []string) (string, bool) {
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(value))
	for _, l := range legal {
		if fold.String(l) == want {
			return l, true
		}
	}
	return "", false
}

// CppStdNumber strips a "gnu" prefix from the C++ standard, returning "" when unset.
func (c Compiler) CppStdNumber() string {
	return strings.TrimPrefix(c.CppStd, "gnu")
}

// UsesGNUExtensions reports whether cppstd selects the GNU dialect.
func (c Compiler) UsesGNUExtensions() bool {
	return strings.HasPrefix(c.CppStd, "gnu")
}

// String renders the compiler as "gcc 13".
func (c Compiler) String() string {
	return fmt.Sprintf("%s %s", c.Name, c.Version)
}
