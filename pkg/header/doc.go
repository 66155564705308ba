// Package header provides the common header carried by every document wsbuild
// writes or reads: build-info descriptors, profiles, build results, and
// history listings.
//
// The header follows Kubernetes-style conventions:
//
//	kind: BuildInfo
//	apiVersion: wsbuild.dev/v1
//	metadata:
//	  generated: "2026-01-15T10:30:00Z"
//	  wsbuild-version: v0.1.0
//
// Usage:
//
//	h := header.New(
//	    header.WithKind(header.KindBuildInfo),
//	    header.WithAPIVersion(header.APIVersionV1),
//	    header.WithMetadata(header.MetadataToolVersion, version),
//	)
//	h.Stamp()
package header
