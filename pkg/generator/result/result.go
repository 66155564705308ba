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

package result

import (
	"time"
)

// Kind identifies a family of generated descriptors.
type Kind string

// Descriptor families written by the generator.
const (
	KindBuildInfo  Kind = "build-info"
	KindDependency Kind = "dependency"
	KindToolchain  Kind = "toolchain"
	KindPresets    Kind = "presets"
	KindChecksums  Kind = "checksums"
)

// Result is the outcome of writing one descriptor family.
type Result struct {
	Kind     Kind          `json:"kind" yaml:"kind"`
	Success  bool          `json:"success" yaml:"success"`
	Files    []string      `json:"files" yaml:"files"`
	Size     int64         `json:"size_bytes" yaml:"size_bytes"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Errors   []string      `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// New creates an empty Result for kind.
func New(kind Kind) *Result {
	return &Result{
		Kind:   kind,
		Files:  make([]string, 0),
		Errors: make([]string, 0),
	}
}

// AddFile records a written file and its size.
func (r *Result) AddFile(path string, size int64) {
	r.Files = append(r.Files, path)
	r.Size += size
}

// AddError records a failure. A Result with errors is never successful.
func (r *Result) AddError(err error) {
	if err == nil {
		return
	}
	r.Errors = append(r.Errors, err.Error())
	r.Success = false
}

// MarkSuccess marks the result successful unless errors were recorded.
func (r *Result) MarkSuccess() {
	r.Success = len(r.Errors) == 0
}
