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
	"fmt"
	"time"
)

// Output contains the aggregated results of a generation run.
type Output struct {
	// Results contains individual descriptor results.
	Results []*Result `json:"results" yaml:"results"`

	// TotalSize is the total size in bytes of all generated files.
	TotalSize int64 `json:"total_size_bytes" yaml:"total_size_bytes"`

	// TotalFiles is the total count of generated files.
	TotalFiles int `json:"total_files" yaml:"total_files"`

	// TotalDuration is the total time taken for generation.
	TotalDuration time.Duration `json:"total_duration" yaml:"total_duration"`

	// OutputDir is the generators directory.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// NewOutput creates an empty Output for dir.
func NewOutput(dir string) *Output {
	return &Output{
		Results:   make([]*Result, 0),
		OutputDir: dir,
	}
}

// Add appends r and updates the totals.
func (o *Output) Add(r *Result) {
	o.Results = append(o.Results, r)
	o.TotalFiles += len(r.Files)
	o.TotalSize += r.Size
}

// Files returns every generated file path in generation order.
func (o *Output) Files() []string {
	files := make([]string, 0, o.TotalFiles)
	for _, r := range o.Results {
		files = append(files, r.Files...)
	}
	return files
}

// HasErrors returns true if any descriptor family failed.
func (o *Output) HasErrors() bool {
	return o.FailureCount() > 0
}

// SuccessCount returns the number of successful results.
func (o *Output) SuccessCount() int {
	count := 0
	for _, r := range o.Results {
		if r.Success {
			count++
		}
	}
	return count
}

// FailureCount returns the number of failed results.
func (o *Output) FailureCount() int {
	return len(o.Results) - o.SuccessCount()
}

// ByKind returns results grouped by descriptor kind.
func (o *Output) ByKind() map[Kind]*Result {
	results := make(map[Kind]*Result, len(o.Results))
	for _, r := range o.Results {
		results[r.Kind] = r
	}
	return results
}

// Summary returns a human-readable summary of the generation.
func (o *Output) Summary() string {
	return fmt.Sprintf(
		"Generated %d files (%s) in %v. Success: %d/%d descriptor groups.",
		o.TotalFiles,
		FormatBytes(o.TotalSize),
		o.TotalDuration.Round(time.Millisecond),
		o.SuccessCount(),
		len(o.Results),
	)
}

// FormatBytes formats bytes into human-readable format.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
