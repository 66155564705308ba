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
	"context"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/winsock-http/wsbuild/pkg/defaults"
	"github.com/winsock-http/wsbuild/pkg/version"
)

// Prober looks up and queries tools on the host.
type Prober interface {
	LookPath(name string) (string, error)
	Output(ctx context.Context, name string, args ...string) (string, error)
	Getenv(key string) string
}

type hostProber struct{}

// HostProber returns a Prober backed by the local PATH and environment.
func HostProber() Prober { return hostProber{} }

func (hostProber) LookPath(name string) (string, error) { return exec.LookPath(name) }

func (hostProber) Output(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.ToolProbeTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, name, args...).Output()
	return strings.TrimSpace(string(out)), err
}

func (hostProber) Getenv(key string) string { return os.Getenv(key) }

// DetectHost builds a profile describing the machine wsbuild runs on.
func DetectHost(ctx context.Context) *Profile {
	return Detect(ctx, runtime.GOOS, runtime.GOARCH, HostProber())
}

// Detect builds a profile for the given Go platform pair, probing for a
// compiler with p. Settings that cannot be determined are left unset.
func Detect(ctx context.Context, goos, goarch string, p Prober) *Profile {
	prof := NewProfile()

	osName := detectOS(goos)
	if osName != "" {
		prof.Settings[SettingOS] = osName
	}
	if arch := detectArch(goarch); arch != "" {
		prof.Settings[SettingArch] = arch
	}
	prof.Settings[SettingBuildType] = BuildTypeRelease

	c, ok := detectCompiler(ctx, osName, p)
	if !ok {
		slog.Warn("no supported compiler found on PATH", "os", osName)
		return prof
	}
	prof.Settings[SettingCompiler] = c.Name
	prof.Settings[SettingCompilerVersion] = c.Version
	if c.Runtime != "" {
		prof.Settings[SettingCompilerRuntime] = c.Runtime
	}
	if c.LibCXX != "" {
		prof.Settings[SettingCompilerLibCXX] = c.LibCXX
	}

	slog.Debug("detected host profile", "settings", prof.ToSettings().String())
	return prof
}

func detectOS(goos string) string {
	if goos == "darwin" {
		return OSMacos
	}
	// Title-case first so "freebsd" folds onto the declared "FreeBSD".
	v, ok := canonical(cases.Title(language.Und).String(goos), supportedOS)
	if !ok {
		return ""
	}
	return v
}

func detectArch(goarch string) string {
	switch goarch {
	case "amd64":
		return ArchX86_64
	case "386":
		return ArchX86
	case "arm":
		return ArchARMv7
	case "arm64":
		return ArchARMv8
	default:
		return ""
	}
}

func detectCompiler(ctx context.Context, osName string, p Prober) (Compiler, bool) {
	switch osName {
	case OSWindows:
		if c, ok := detectMSVC(p); ok {
			return c, true
		}
		return detectGNU(ctx, p, CompilerGCC, CompilerClang)
	case OSMacos:
		c, ok := detectGNU(ctx, p, CompilerClang)
		if ok {
			c.Name = CompilerAppleClang
			c.LibCXX = "libc++"
		}
		return c, ok
	default:
		return detectGNU(ctx, p, CompilerGCC, CompilerClang)
	}
}

// detectMSVC maps the VC tools version (14.38.x) onto the compiler
// version used by the settings model (193).
func detectMSVC(p Prober) (Compiler, bool) {
	if _, err := p.LookPath("cl"); err != nil {
		return Compiler{}, false
	}
	tools := p.Getenv("VCToolsVersion")
	v, err := version.ParseVersion(tools)
	if err != nil || v.Precision < 2 || v.Minor < 10 {
		slog.Debug("cl found without a usable VCToolsVersion", "value", tools)
		return Compiler{}, false
	}
	minor := v.Minor
	for minor >= 10 {
		minor /= 10
	}
	return Compiler{
		Name:    CompilerMSVC,
		Version: "19" + string(rune('0'+minor)),
		Runtime: RuntimeDynamic,
	}, true
}

func detectGNU(ctx context.Context, p Prober, names ...string) (Compiler, bool) {
	for _, name := range names {
		if _, err := p.LookPath(name); err != nil {
			continue
		}
		out, err := p.Output(ctx, name, "-dumpversion")
		if err != nil {
			slog.Debug("compiler probe failed", "compiler", name, "error", err)
			continue
		}
		v, err := version.ParseVersion(strings.TrimSpace(out))
		if err != nil {
			continue
		}
		c := Compiler{Name: name, Version: version.Version{Major: v.Major, Precision: 1}.String()}
		if name == CompilerGCC || name == CompilerClang {
			c.LibCXX = "libstdc++11"
		}
		return c, true
	}
	return Compiler{}, false
}
