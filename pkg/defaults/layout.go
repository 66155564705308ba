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

package defaults

// Directory layout relative to the project root.
const (
	// SourceDir is the default CMake source directory.
	SourceDir = "."

	// BuildDir is the default CMake binary directory.
	BuildDir = "build"

	// GeneratorsDirName is the directory under BuildDir receiving descriptors.
	GeneratorsDirName = "generators"
)

// Descriptor file names written by the generate phase.
const (
	// BuildInfoFileName is the dependency graph descriptor.
	BuildInfoFileName = "build-info.json"

	// ToolchainFileName is the CMake toolchain descriptor.
	ToolchainFileName = "wsbuild_toolchain.cmake"

	// PresetsFileName is the CMake presets descriptor naming the generator.
	PresetsFileName = "CMakePresets.json"

	// CompileCommandsFileName is the compile-command database CMake exports.
	CompileCommandsFileName = "compile_commands.json"
)

// Native tools.
const (
	// CMakeExecutable is the CMake binary looked up on PATH.
	CMakeExecutable = "cmake"

	// DefaultGenerator is the CMake generator used when a recipe names none.
	DefaultGenerator = "Ninja Multi-Config"
)

// File modes for generated content.
const (
	DirMode  = 0o755
	FileMode = 0o644
)
