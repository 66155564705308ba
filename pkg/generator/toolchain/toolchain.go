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

// Package toolchain writes the CMake toolchain file and CMakePresets.json
// that pin a build to the resolved settings, and loads them back for the
// configure step.
package toolchain

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/winsock-http/wsbuild/pkg/defaults"
	"github.com/winsock-http/wsbuild/pkg/errors"
	"github.com/winsock-http/wsbuild/pkg/recipe"
)

// Marker is the first line of every toolchain file wsbuild writes.
const Marker = "# wsbuild toolchain v1"

//go:embed templates/toolchain.cmake.tmpl
var toolchainTemplate string

var tmpl = template.Must(template.New("toolchain").Delims("[[", "]]").Parse(toolchainTemplate))

var generatorLine = regexp.MustCompile(`^set\(WSBUILD_GENERATOR "([^"]*)"\)$`)

// Input carries everything needed to render the toolchain and presets.
type Input struct {
	Recipe         recipe.Recipe
	Settings       recipe.Settings
	Options        recipe.Options
	Conf           recipe.Conf
	GeneratorsDir  string
	BuildDir       string
	PresetPrefix   string
	CacheVariables map[string]string
}

// Path returns the toolchain file path in dir.
func Path(dir string) string {
	return filepath.Join(dir, defaults.ToolchainFileName)
}

type toolchainData struct {
	Marker           string
	Reference        string
	SettingsID       string
	Generator        string
	BuildType        string
	CCompiler        string
	CXXCompiler      string
	OSXArchitectures string
	ArchFlag         string
	MSVCRuntime      string
	StdLibFlag       string
	GlibcxxABI       string
	CppStd           string
	CppExtensions    string
	Shared           string
	GeneratorsDir    string
	SystemLibs       []string
}

func newToolchainData(in *Input) toolchainData {
	s := in.Settings
	c := s.Compiler

	d := toolchainData{
		Marker:        Marker,
		Reference:     in.Recipe.Reference(),
		SettingsID:    s.String(),
		Generator:     in.Recipe.Generator,
		BuildType:     s.BuildType,
		CCompiler:     filepath.ToSlash(in.Conf.CCompiler),
		CXXCompiler:   filepath.ToSlash(in.Conf.CXXCompiler),
		CppStd:        c.CppStdNumber(),
		CppExtensions: "OFF",
		Shared:        "OFF",
		GeneratorsDir: filepath.ToSlash(in.GeneratorsDir),
		SystemLibs:    in.Recipe.SystemLibsFor(s.OS),
	}
	if c.UsesGNUExtensions() {
		d.CppExtensions = "ON"
	}
	if in.Options.Shared() {
		d.Shared = "ON"
	}

	switch {
	case s.OS == recipe.OSMacos:
		d.OSXArchitectures = osxArch(s.Arch)
	case c.Name == recipe.CompilerGCC || c.Name == recipe.CompilerClang:
		d.ArchFlag = archFlag(s.Arch)
	}

	if c.Name == recipe.CompilerMSVC {
		d.MSVCRuntime = msvcRuntime(c.Runtime)
	}

	switch c.LibCXX {
	case "libstdc++":
		d.GlibcxxABI = "0"
	case "libstdc++11":
		d.GlibcxxABI = "1"
	case "libc++":
		if c.Name == recipe.CompilerClang {
			d.StdLibFlag = "-stdlib=libc++"
		}
	}

	return d
}

func osxArch(arch string) string {
	switch arch {
	case recipe.ArchARMv8:
		return "arm64"
	case recipe.ArchX86_64:
		return "x86_64"
	default:
		return ""
	}
}

func archFlag(arch string) string {
	switch arch {
	case recipe.ArchX86:
		return "-m32"
	case recipe.ArchX86_64:
		return "-m64"
	default:
		return ""
	}
}

// msvcRuntime maps the runtime setting onto CMAKE_MSVC_RUNTIME_LIBRARY.
func msvcRuntime(runtime string) string {
	const base = "MultiThreaded$<$<CONFIG:Debug>:Debug>"
	if runtime == recipe.RuntimeStatic {
		return base
	}
	return base + "DLL"
}

// WriteToolchain renders the toolchain file into in.GeneratorsDir.
func WriteToolchain(ctx context.Context, in *Input) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newToolchainData(in)); err != nil {
		return "", 0, fmt.Errorf("failed to render toolchain: %w", err)
	}

	path := Path(in.GeneratorsDir)
	if err := os.WriteFile(path, buf.Bytes(), defaults.FileMode); err != nil {
		return "", 0, fmt.Errorf("failed to write toolchain: %w", err)
	}
	return path, int64(buf.Len()), nil
}

// Descriptor is a toolchain loaded back from a generators directory.
type Descriptor struct {
	Dir           string
	ToolchainFile string
	Generator     string
	// Presets is nil when the generators directory has no CMakePresets.json.
	Presets *Presets
}

// Load reads and checks the toolchain (and presets, when present) in dir.
// Every problem is reported as a configuration error.
func Load(dir string) (*Descriptor, error) {
	path := Path(dir)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeConfiguration,
			"toolchain descriptor not found, run generate first", err,
			map[string]any{"path": path})
	}
	defer f.Close()

	d := &Descriptor{Dir: dir, ToolchainFile: path}

	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if first {
			if line != Marker {
				return nil, errors.NewWithContext(errors.ErrCodeConfiguration,
					"toolchain descriptor is malformed: missing wsbuild marker",
					map[string]any{"path": path})
			}
			first = false
			continue
		}
		if m := generatorLine.FindStringSubmatch(line); m != nil {
			d.Generator = m[1]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, "failed to read toolchain descriptor", err)
	}
	if first {
		return nil, errors.NewWithContext(errors.ErrCodeConfiguration,
			"toolchain descriptor is empty", map[string]any{"path": path})
	}
	if d.Generator == "" {
		return nil, errors.NewWithContext(errors.ErrCodeConfiguration,
			"toolchain descriptor is malformed: no generator recorded",
			map[string]any{"path": path})
	}

	if _, err := os.Stat(PresetsPath(dir)); os.IsNotExist(err) {
		return d, nil
	}

	presets, err := LoadPresets(dir)
	if err != nil {
		return nil, err
	}
	cp, err := presets.Configure()
	if err != nil {
		return nil, err
	}
	if cp.Generator != d.Generator {
		return nil, errors.Configuration("generator mismatch: presets use %q, toolchain was generated for %q",
			cp.Generator, d.Generator)
	}
	d.Presets = presets

	return d, nil
}
