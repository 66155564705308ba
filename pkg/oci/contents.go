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

package oci

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/winsock-http/wsbuild/pkg/cmake"
	"github.com/winsock-http/wsbuild/pkg/defaults"
	"github.com/winsock-http/wsbuild/pkg/errors"
	"github.com/winsock-http/wsbuild/pkg/generator/deps"
)

// BuildOutput is what gets packaged from a build directory.
type BuildOutput struct {
	BuildDir  string
	Files     []string
	Artifacts []cmake.Artifact
	BuildInfo *deps.BuildInfo
}

// CollectBuildOutput selects the libraries, the compile-command database,
// and the generated descriptors under buildDir. A build directory without
// a dependency descriptor was never generated and is a configuration error.
func CollectBuildOutput(ctx context.Context, buildDir string) (*BuildOutput, error) {
	genDir := filepath.Join(buildDir, defaults.GeneratorsDirName)
	info, err := deps.LoadBuildInfo(genDir)
	if err != nil {
		return nil, err
	}

	artifacts, err := cmake.CollectArtifacts(ctx, buildDir, cmake.CollectOptions{
		BuildType: info.Settings.BuildType,
		Shared:    info.Options.Shared(),
	})
	if err != nil {
		return nil, err
	}
	if len(artifacts) == 0 {
		return nil, errors.NewWithContext(errors.ErrCodeNotFound, "no libraries found, run build first",
			map[string]any{"build_dir": buildDir})
	}

	files := make([]string, 0, len(artifacts)+4)
	for _, a := range artifacts {
		files = append(files, a.Path)
	}

	optional := []string{
		defaults.CompileCommandsFileName,
		filepath.Join(defaults.GeneratorsDirName, defaults.BuildInfoFileName),
		filepath.Join(defaults.GeneratorsDirName, defaults.ToolchainFileName),
		filepath.Join(defaults.GeneratorsDirName, defaults.PresetsFileName),
	}
	for _, rel := range optional {
		if _, err := os.Stat(filepath.Join(buildDir, rel)); err == nil {
			files = append(files, filepath.ToSlash(rel))
		}
	}
	sort.Strings(files)

	return &BuildOutput{
		BuildDir:  buildDir,
		Files:     files,
		Artifacts: artifacts,
		BuildInfo: info,
	}, nil
}

// Annotations describes the packaged output on its manifest.
func (o *BuildOutput) Annotations(toolVersion string) map[string]string {
	a := map[string]string{
		ociv1.AnnotationTitle:   o.BuildInfo.Name,
		ociv1.AnnotationVersion: o.BuildInfo.Version,
		AnnotationRecipe:        o.BuildInfo.Name + "/" + o.BuildInfo.Version,
		AnnotationSettings:      o.BuildInfo.Settings.String(),
	}
	if data, err := json.Marshal(o.BuildInfo.Options); err == nil {
		a[AnnotationOptions] = string(data)
	}
	if toolVersion != "" {
		a["dev.wsbuild.version"] = toolVersion
	}
	return a
}
