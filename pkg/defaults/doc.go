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

// Package defaults provides centralized configuration constants for wsbuild.
//
// This package defines timeout values, directory layout, and descriptor file
// names used across the codebase. Centralizing these values ensures the
// generate phase and the build phase agree on where descriptors live.
//
// # Usage
//
//	import "github.com/winsock-http/wsbuild/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.ConfigureTimeout)
//	defer cancel()
//
// # Timeout Guidelines
//
//   - Configure: 5m, CMake probes the compiler once per language
//   - Build: 1h, compilation is delegated to Ninja
//   - Watch debounce: 500ms between the last write and a rebuild
package defaults
