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

// Package config provides configuration options for the descriptor generator.
//
// This package defines the configuration structure and functional options pattern
// for customizing what the generator writes. The generator receives a Config
// instance that controls its output.
//
// # Configuration Options
//
//   - IncludeChecksums: Generate SHA256 checksums.txt file
//   - IncludePresets: Generate CMakePresets.json next to the toolchain
//   - ValidateSchema: Validate JSON descriptors after writing them
//   - BuildDir: CMake binary directory recorded in the presets
//   - PresetPrefix: Prefix for preset names (wsbuild-default, wsbuild-release)
//   - CacheVariables: Extra -D cache entries from the command line
//   - Version: wsbuild version string stamped into descriptors
//   - InvocationID: Identifier of the current invocation
//
// # Usage
//
//	cfg := config.NewConfig(
//	    config.WithIncludeChecksums(true),
//	    config.WithVersion(version),
//	)
//
// # Defaults
//
//   - IncludeChecksums: true
//   - IncludePresets: true
//   - ValidateSchema: true
//   - PresetPrefix: "wsbuild"
//   - Version: "dev"
//
// Config is immutable after creation, safe for concurrent use.
package config
