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

// Package result provides types for tracking descriptor generation results.
//
// Each descriptor family (dependency descriptors, toolchain, presets,
// build info, checksums) produces one Result; the generator aggregates them
// into an Output.
//
// # Core Types
//
//	type Result struct {
//	    Kind     Kind           // Descriptor family
//	    Success  bool           // Whether generation succeeded
//	    Files    []string       // Written file paths
//	    Size     int64          // Total bytes written
//	    Duration time.Duration  // Generation time
//	    Errors   []string       // Error messages if failed
//	}
//
// # Usage
//
//	r := result.New(result.KindToolchain)
//	r.AddFile(path, size)
//	r.MarkSuccess()
//
//	out := result.NewOutput(dir)
//	out.Add(r)
//	fmt.Println(out.Summary())
//	// Generated 6 files (4.2 KB) in 3ms. Success: 4/4 descriptor groups.
//
// The Output is informational; the build phase re-reads descriptors from disk.
package result
