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

package builder

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/winsock-http/wsbuild/pkg/cmake"
	"github.com/winsock-http/wsbuild/pkg/defaults"
	"github.com/winsock-http/wsbuild/pkg/errors"
	"github.com/winsock-http/wsbuild/pkg/generator/deps"
	"github.com/winsock-http/wsbuild/pkg/header"
	"github.com/winsock-http/wsbuild/pkg/recipe"
)

// LoadOptions locate the descriptors of an earlier generate.
type LoadOptions struct {
	SourceDir     string
	BuildDir      string
	GeneratorsDir string
	Conf          recipe.Conf
	Variables     map[string]string
}

// Load reconstructs a Generated from descriptors on disk, so that the build
// phase can run in a later process. Missing or malformed descriptors are
// configuration errors.
func Load(opts LoadOptions) (*Generated, error) {
	sourceDir, buildDir, genDir, err := layout(Request{
		SourceDir:     opts.SourceDir,
		BuildDir:      opts.BuildDir,
		GeneratorsDir: opts.GeneratorsDir,
	})
	if err != nil {
		return nil, err
	}

	info, err := deps.LoadBuildInfo(genDir)
	if err != nil {
		return nil, err
	}

	id := info.Metadata[header.MetadataInvocation]
	if id == "" {
		id = uuid.New().String()
	}

	return &Generated{
		InvocationID:  id,
		Recipe:        info.Name,
		Version:       info.Version,
		Settings:      info.Settings,
		Options:       info.Options,
		Conf:          opts.Conf,
		SourceDir:     sourceDir,
		BuildDir:      buildDir,
		GeneratorsDir: genDir,
		Variables:     opts.Variables,
	}, nil
}

// Report is the serializable summary of a build.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	InvocationID    string                 `json:"invocationId" yaml:"invocationId"`
	Recipe          string                 `json:"recipe" yaml:"recipe"`
	Version         string                 `json:"version" yaml:"version"`
	Settings        string                 `json:"settings" yaml:"settings"`
	Options         recipe.Options         `json:"options" yaml:"options"`
	Generator       string                 `json:"generator" yaml:"generator"`
	BuildDir        string                 `json:"buildDir" yaml:"buildDir"`
	BuildType       string                 `json:"buildType" yaml:"buildType"`
	Duration        string                 `json:"duration" yaml:"duration"`
	CompileCommands *cmake.CompileCommands `json:"compileCommands,omitempty" yaml:"compileCommands,omitempty"`
	Artifacts       []cmake.Artifact       `json:"artifacts" yaml:"artifacts"`
}

// Report summarizes r. toolVersion is recorded in the header metadata.
func (r *Result) Report(toolVersion string) (*Report, error) {
	if r == nil || r.Generated == nil || r.Configured == nil || r.Built == nil {
		return nil, errors.New(errors.ErrCodeInternal, "incomplete build result")
	}

	h := header.New(
		header.WithKind(header.KindBuildResult),
		header.WithAPIVersion(header.APIVersionV1),
		header.WithMetadata(header.MetadataToolVersion, toolVersion),
		header.WithMetadata(header.MetadataInvocation, r.InvocationID),
	)
	h.Stamp()

	artifacts := r.Built.Artifacts
	if artifacts == nil {
		artifacts = make([]cmake.Artifact, 0)
	}

	return &Report{
		Header:          *h,
		InvocationID:    r.InvocationID,
		Recipe:          r.Generated.Recipe,
		Version:         r.Generated.Version,
		Settings:        r.Generated.Settings.String(),
		Options:         r.Generated.Options,
		Generator:       r.Configured.Generator,
		BuildDir:        r.Built.BuildDir,
		BuildType:       r.Built.BuildType,
		Duration:        r.Duration.Round(time.Millisecond).String(),
		CompileCommands: r.Built.CompileCommands,
		Artifacts:       artifacts,
	}, nil
}

// DefaultGeneratorsDir returns buildDir/generators.
func DefaultGeneratorsDir(buildDir string) string {
	if buildDir == "" {
		buildDir = defaults.BuildDir
	}
	return filepath.Join(buildDir, defaults.GeneratorsDirName)
}
