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

package header

import (
	"time"

	"github.com/winsock-http/wsbuild/pkg/errors"
)

// APIVersionV1 is the current schema version of wsbuild documents.
const APIVersionV1 = "wsbuild.dev/v1"

// Well-known metadata keys.
const (
	MetadataGenerated   = "generated"
	MetadataToolVersion = "wsbuild-version"
	MetadataInvocation  = "invocation-id"
)

// Kind represents the type of a wsbuild document.
type Kind string

// Valid Kind constants for all wsbuild document types.
const (
	KindBuildInfo   Kind = "BuildInfo"
	KindProfile     Kind = "Profile"
	KindBuildResult Kind = "BuildResult"
	KindHistory     Kind = "History"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindBuildInfo, KindProfile, KindBuildResult, KindHistory:
		return true
	default:
		return false
	}
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata returns an Option that adds a metadata key-value pair to the Header.
// If the Metadata map is nil, it will be initialized.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithKind returns an Option that sets the Kind field of the Header.
func WithKind(kind Kind) Option {
	return func(h *Header) {
		h.Kind = kind
	}
}

// WithAPIVersion returns an Option that sets the APIVersion field of the Header.
func WithAPIVersion(version string) Option {
	return func(h *Header) {
		h.APIVersion = version
	}
}

// New creates a new Header instance with the provided functional options.
// The Metadata map is initialized automatically.
func New(opts ...Option) *Header {
	s := &Header{
		Metadata: make(map[string]string),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Header contains metadata and versioning information for wsbuild documents.
type Header struct {
	// Kind is the type of the document.
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the schema version of the document.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata contains key-value pairs describing how the document was produced.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Stamp records the generation time in RFC 3339 form, UTC.
func (h *Header) Stamp() {
	if h.Metadata == nil {
		h.Metadata = make(map[string]string)
	}
	h.Metadata[MetadataGenerated] = time.Now().UTC().Format(time.RFC3339)
}

// Check returns a configuration error when the document declares a kind
// other than want. Documents without a kind are accepted.
func (h *Header) Check(want Kind) error {
	if h.Kind == "" || h.Kind == want {
		return nil
	}
	if !h.Kind.IsValid() {
		return errors.Configuration("unknown document kind %q, expected %s", h.Kind, want)
	}
	return errors.Configuration("document is a %s, expected %s", h.Kind, want)
}
