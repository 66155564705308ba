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

package cmake

import (
	"context"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/winsock-http/wsbuild/pkg/defaults"
	"github.com/winsock-http/wsbuild/pkg/errors"
	"github.com/winsock-http/wsbuild/pkg/generator/checksum"
)

// ArtifactKind classifies a library produced by the build.
type ArtifactKind string

const (
	ArtifactStatic ArtifactKind = "static"
	ArtifactShared ArtifactKind = "shared"
	// ArtifactImport is the link-time stub of a Windows DLL (.lib next to a
	// .dll, or MinGW's .dll.a).
	ArtifactImport ArtifactKind = "import"
)

// Artifact is a library found under the build directory.
type Artifact struct {
	// Path is relative to the build directory, with forward slashes.
	Path   string        `json:"path" yaml:"path"`
	Kind   ArtifactKind  `json:"kind" yaml:"kind"`
	Size   int64         `json:"size" yaml:"size"`
	Digest digest.Digest `json:"digest" yaml:"digest"`
}

var artifactKinds = map[string]ArtifactKind{
	".a":     ArtifactStatic,
	".lib":   ArtifactStatic,
	".so":    ArtifactShared,
	".dylib": ArtifactShared,
	".dll":   ArtifactShared,
}

// skipDirs are never searched for artifacts.
var skipDirs = map[string]bool{
	defaults.GeneratorsDirName: true,
	"CMakeFiles":               true,
	".cmake":                   true,
}

// ClassifyArtifact returns the kind of the library at name from its file
// name alone. Versioned shared objects such as libfoo.so.1.2 are shared and
// MinGW import archives (.dll.a) are import libraries. A .lib is reported
// as static; only CollectArtifacts can tell an MSVC import library apart.
func ClassifyArtifact(name string) (ArtifactKind, bool) {
	base := strings.ToLower(filepath.Base(name))
	if strings.HasSuffix(base, ".dll.a") {
		return ArtifactImport, true
	}
	if kind, ok := artifactKinds[filepath.Ext(base)]; ok {
		return kind, true
	}
	if strings.Contains(base, ".so.") {
		return ArtifactShared, true
	}
	return "", false
}

// CollectOptions selects which libraries belong to a build.
type CollectOptions struct {
	// BuildType keeps only files below a directory named after the
	// configuration (Ninja Multi-Config writes <dir>/<BuildType>/...).
	// Empty keeps every configuration.
	BuildType string
	// Shared is the linkage the build was configured with. A library of the
	// other linkage next to one of this linkage with the same name is left
	// over from an earlier build and is dropped. In a shared build a .lib
	// next to a same-named .dll is its import library.
	Shared bool
}

// CollectArtifacts walks buildDir and returns the libraries of the build
// described by opts, sorted by path.
func CollectArtifacts(ctx context.Context, buildDir string, opts CollectOptions) ([]Artifact, error) {
	var found []Artifact
	err := filepath.WalkDir(buildDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if p != buildDir && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		kind, ok := ClassifyArtifact(d.Name())
		if !ok {
			return nil
		}
		rel, err := filepath.Rel(buildDir, p)
		if err != nil {
			rel = p
		}
		rel = filepath.ToSlash(rel)
		if !inConfiguration(rel, opts.BuildType) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		dg, err := checksum.FileDigest(p)
		if err != nil {
			return err
		}
		found = append(found, Artifact{
			Path:   rel,
			Kind:   kind,
			Size:   info.Size(),
			Digest: dg,
		})
		return nil
	})
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInternal, "failed to collect artifacts", err,
			map[string]any{"build_dir": buildDir})
	}

	out := resolveLinkage(found, opts.Shared)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// inConfiguration reports whether the directory part of rel names buildType.
func inConfiguration(rel, buildType string) bool {
	if buildType == "" {
		return true
	}
	dirs := strings.Split(path.Dir(rel), "/")
	for _, d := range dirs {
		if strings.EqualFold(d, buildType) {
			return true
		}
	}
	return false
}

// resolveLinkage drops libraries of the other linkage that share a
// directory and name with a library of the configured one, and marks
// import libraries of a shared build.
func resolveLinkage(found []Artifact, shared bool) []Artifact {
	groups := make(map[string][]int)
	for i, a := range found {
		key := path.Join(path.Dir(a.Path), libraryStem(path.Base(a.Path)))
		groups[key] = append(groups[key], i)
	}

	drop := make(map[int]bool)
	for _, idx := range groups {
		var hasStatic, hasShared bool
		for _, i := range idx {
			switch found[i].Kind {
			case ArtifactStatic:
				hasStatic = true
			case ArtifactShared:
				hasShared = true
			}
		}
		for _, i := range idx {
			a := &found[i]
			switch {
			case shared && hasShared && a.Kind == ArtifactStatic:
				if strings.EqualFold(path.Ext(a.Path), ".lib") {
					a.Kind = ArtifactImport
				} else {
					drop[i] = true
				}
			case !shared && hasStatic && a.Kind != ArtifactStatic:
				drop[i] = true
			}
		}
	}

	out := make([]Artifact, 0, len(found))
	for i, a := range found {
		if !drop[i] {
			out = append(out, a)
		}
	}
	return out
}

// libraryStem returns the library name without "lib" prefix, version
// suffix, and extension: libfoo.so.1.2, libfoo.a, foo.lib, foo.dll and
// libfoo.dll.a all yield "foo".
func libraryStem(name string) string {
	n := strings.ToLower(name)
	if i := strings.Index(n, ".so."); i >= 0 {
		n = n[:i]
	}
	n = strings.TrimSuffix(n, ".dll.a")
	n = strings.TrimSuffix(n, path.Ext(n))
	return strings.TrimPrefix(n, "lib")
}

// ByKind returns the artifacts of the given kind.
func ByKind(artifacts []Artifact, kind ArtifactKind) []Artifact {
	var out []Artifact
	for _, a := range artifacts {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}
