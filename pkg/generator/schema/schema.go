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

// Package schema validates wsbuild's JSON descriptors against embedded JSON schemas.
package schema

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed build-info.schema.json
var buildInfoSchema string

//go:embed presets.schema.json
var presetsSchema string

// Schema is a compiled JSON schema.
type Schema struct {
	name   string
	source string

	once     sync.Once
	compiled *gojsonschema.Schema
	err      error
}

var (
	// BuildInfo validates build-info.json.
	BuildInfo = &Schema{name: "build-info", source: buildInfoSchema}

	// Presets validates the subset of CMakePresets.json wsbuild relies on.
	Presets = &Schema{name: "presets", source: presetsSchema}
)

// Name returns the schema name.
func (s *Schema) Name() string {
	return s.name
}

func (s *Schema) compile() (*gojsonschema.Schema, error) {
	s.once.Do(func() {
		s.compiled, s.err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(s.source))
	})
	return s.compiled, s.err
}

// Validate checks doc against the schema. The returned error lists every
// violation found.
func (s *Schema) Validate(doc []byte) error {
	compiled, err := s.compile()
	if err != nil {
		return fmt.Errorf("failed to compile %s schema: %w", s.name, err)
	}

	result, err := compiled.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("%s schema validation error: %w", s.name, err)
	}

	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return fmt.Errorf("%s schema validation failed: %s", s.name, strings.Join(violations, "; "))
}
