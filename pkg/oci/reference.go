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
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/distribution/reference"

	"github.com/winsock-http/wsbuild/pkg/errors"
)

// URIScheme marks a registry target, as in "oci://ghcr.io/org/winsock-http:1.0".
const URIScheme = "oci://"

// Reference is a parsed package target: a registry reference or a local
// directory receiving an OCI image layout.
type Reference struct {
	IsOCI      bool
	Registry   string
	Repository string
	// Tag is empty when the target names none; callers apply a default.
	Tag       string
	LocalPath string
}

// ParseOutputTarget parses an oci:// URI or treats target as a local path.
func ParseOutputTarget(target string) (*Reference, error) {
	if !strings.HasPrefix(target, URIScheme) {
		return &Reference{LocalPath: target}, nil
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}

	registry := reference.Domain(ref)
	repository := reference.Path(ref)

	var tag string
	if tagged, ok := ref.(reference.Tagged); ok {
		tag = tagged.Tag()
	}

	if err := ValidateRegistryReference(registry, repository); err != nil {
		return nil, err
	}

	return &Reference{
		IsOCI:      true,
		Registry:   registry,
		Repository: repository,
		Tag:        tag,
	}, nil
}

// ValidateRegistryReference checks that registry and repository form a valid
// image name. A leading http:// or https:// on registry is ignored.
func ValidateRegistryReference(registry, repository string) error {
	name := stripProtocol(registry) + "/" + repository
	named, err := reference.ParseNamed(name)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeInvalidRequest, "invalid registry reference", err,
			map[string]any{"registry": registry, "repository": repository})
	}
	if _, digested := named.(reference.Digested); digested {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "repository must not carry a digest",
			map[string]any{"repository": repository})
	}
	if _, tagged := named.(reference.Tagged); tagged {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "repository must not carry a tag",
			map[string]any{"repository": repository})
	}
	return nil
}

// String returns the target as given: oci://registry/repository[:tag] or the path.
func (r *Reference) String() string {
	if !r.IsOCI {
		return r.LocalPath
	}
	return URIScheme + r.ImageReference()
}

// ImageReference returns registry/repository[:tag], or "" for local targets.
func (r *Reference) ImageReference() string {
	if !r.IsOCI {
		return ""
	}
	if r.Tag == "" {
		return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}

// WithTag returns a copy carrying tag. Local references are returned unchanged.
func (r *Reference) WithTag(tag string) *Reference {
	if !r.IsOCI {
		return r
	}
	c := *r
	c.Tag = tag
	return &c
}

// OutputConfig configures PackageAndPush.
type OutputConfig struct {
	// SourceDir is the build directory to package.
	SourceDir string
	// Files limits the package to these paths relative to SourceDir.
	Files []string
	// OutputDir receives the local OCI image layout.
	OutputDir   string
	Reference   *Reference
	Annotations map[string]string
	PlainHTTP   bool
	InsecureTLS bool
}

// PackageAndPushResult is the outcome of PackageAndPush.
type PackageAndPushResult struct {
	Digest    string
	Reference string
	StorePath string
}

// PackageAndPush packages SourceDir into a local layout and copies it to
// the registry named by cfg.Reference.
func PackageAndPush(ctx context.Context, cfg OutputConfig) (*PackageAndPushResult, error) {
	if cfg.Reference == nil || !cfg.Reference.IsOCI {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "OCI reference is required for PackageAndPush")
	}
	if cfg.Reference.Tag == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "tag is required for OCI packaging")
	}

	absOutputDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to resolve output directory", err)
	}

	pkg, err := Package(ctx, PackageOptions{
		SourceDir:   cfg.SourceDir,
		Files:       cfg.Files,
		OutputDir:   absOutputDir,
		Registry:    cfg.Reference.Registry,
		Repository:  cfg.Reference.Repository,
		Tag:         cfg.Reference.Tag,
		Annotations: cfg.Annotations,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to package OCI artifact", err)
	}

	slog.Info("pushing build output",
		"reference", pkg.Reference,
		"digest", pkg.Digest)

	pushed, err := PushFromStore(ctx, pkg.StorePath, PushOptions{
		Registry:    cfg.Reference.Registry,
		Repository:  cfg.Reference.Repository,
		Tag:         cfg.Reference.Tag,
		PlainHTTP:   cfg.PlainHTTP,
		InsecureTLS: cfg.InsecureTLS,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to push OCI artifact to registry", err)
	}

	return &PackageAndPushResult{
		Digest:    pushed.Digest,
		Reference: pushed.Reference,
		StorePath: pkg.StorePath,
	}, nil
}
