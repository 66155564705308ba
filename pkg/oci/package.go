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
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/content/oci"
)

// ArtifactType is the media type of packaged wsbuild output.
const ArtifactType = "application/vnd.winsock-http.wsbuild.output.v1"

// Annotation keys written on packaged manifests besides the OCI ones.
const (
	AnnotationRecipe   = "dev.wsbuild.recipe"
	AnnotationSettings = "dev.wsbuild.settings"
	AnnotationOptions  = "dev.wsbuild.options"
)

// PackageOptions configures Package.
type PackageOptions struct {
	// SourceDir is the build directory holding the output.
	SourceDir string
	// Files limits the layer to these paths relative to SourceDir. Empty
	// packages the whole directory.
	Files []string
	// OutputDir receives the OCI image layout.
	OutputDir  string
	Registry   string
	Repository string
	Tag        string
	// Annotations are written on the manifest.
	Annotations map[string]string
	// ReproducibleTimestamp pins org.opencontainers.image.created.
	ReproducibleTimestamp string
}

// PackageResult is the outcome of Package.
type PackageResult struct {
	Digest    string
	Reference string
	StorePath string
	Files     []string
}

// Package writes the build output as a single gzip tar layer into an OCI
// image layout at OutputDir and tags it with opts.Tag.
func Package(ctx context.Context, opts PackageOptions) (*PackageResult, error) {
	if opts.Tag == "" {
		return nil, fmt.Errorf("tag is required for OCI packaging")
	}
	if opts.Registry == "" {
		return nil, fmt.Errorf("registry is required for OCI packaging")
	}
	if opts.Repository == "" {
		return nil, fmt.Errorf("repository is required for OCI packaging")
	}
	if err := ValidateRegistryReference(opts.Registry, opts.Repository); err != nil {
		return nil, err
	}

	absSource, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source directory: %w", err)
	}

	stageDir, files, cleanup, err := stage(absSource, opts.Files)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	fs, err := file.New(stageDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create file store: %w", err)
	}
	defer func() { _ = fs.Close() }()
	fs.TarReproducible = true

	layerDesc, err := fs.Add(ctx, ".", ociv1.MediaTypeImageLayerGzip, stageDir)
	if err != nil {
		return nil, fmt.Errorf("failed to add build output to store: %w", err)
	}

	annotations := make(map[string]string, len(opts.Annotations)+1)
	for k, v := range opts.Annotations {
		annotations[k] = v
	}
	if opts.ReproducibleTimestamp != "" {
		annotations[ociv1.AnnotationCreated] = opts.ReproducibleTimestamp
	}

	manifestDesc, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers:              []ociv1.Descriptor{layerDesc},
		ManifestAnnotations: annotations,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to pack manifest: %w", err)
	}
	if err := fs.Tag(ctx, manifestDesc, opts.Tag); err != nil {
		return nil, fmt.Errorf("failed to tag manifest in file store: %w", err)
	}

	storePath, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	store, err := oci.New(storePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCI layout: %w", err)
	}

	desc, err := oras.Copy(ctx, fs, opts.Tag, store, opts.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to write OCI layout: %w", err)
	}

	ref := fmt.Sprintf("%s/%s:%s", stripProtocol(opts.Registry), opts.Repository, opts.Tag)
	slog.Debug("build output packaged",
		"reference", ref,
		"digest", desc.Digest.String(),
		"files", len(files),
		"store", storePath)

	return &PackageResult{
		Digest:    desc.Digest.String(),
		Reference: ref,
		StorePath: storePath,
		Files:     files,
	}, nil
}

// stage returns a directory holding exactly files (relative to sourceDir).
// With no files the source directory itself is used. Selected files are
// hard linked into a temporary directory, falling back to a copy across
// devices.
func stage(sourceDir string, files []string) (string, []string, func(), error) {
	if len(files) == 0 {
		return sourceDir, nil, nil, nil
	}

	tempDir, err := os.MkdirTemp("", "wsbuild-package-*")
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	cleanup := func() { os.RemoveAll(tempDir) }

	rels := make([]string, 0, len(files))
	for _, f := range files {
		rel := filepath.Clean(filepath.FromSlash(f))
		if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			cleanup()
			return "", nil, nil, fmt.Errorf("package file %q is outside the source directory", f)
		}
		src := filepath.Join(sourceDir, rel)
		dst := filepath.Join(tempDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			cleanup()
			return "", nil, nil, fmt.Errorf("failed to create staging directory: %w", err)
		}
		if err := linkOrCopy(src, dst); err != nil {
			cleanup()
			return "", nil, nil, err
		}
		rels = append(rels, filepath.ToSlash(rel))
	}
	sort.Strings(rels)
	return tempDir, rels, cleanup, nil
}

func linkOrCopy(src, dst string) error {
	if err := os.Link(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", src, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to stage %s: %w", src, err)
	}
	return out.Close()
}
