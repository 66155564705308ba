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

package config

import (
	"fmt"
	"maps"
	"regexp"
)

var (
	presetPrefixPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
	cacheVarPattern     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Config holds generator settings. Use NewConfig with Option values.
type Config struct {
	// includeChecksums includes checksum file for verification.
	includeChecksums bool

	// includePresets writes CMakePresets.json.
	includePresets bool

	// validateSchema validates JSON descriptors against their embedded schema.
	validateSchema bool

	// buildDir is the CMake binary directory; empty means the parent of the
	// generators directory.
	buildDir string

	// presetPrefix prefixes configure and build preset names.
	presetPrefix string

	// cacheVariables are extra cache entries merged over recipe variables.
	cacheVariables map[string]string

	// verbose enables detailed output during generation.
	verbose bool

	// version specifies the wsbuild version.
	version string

	// invocationID identifies the invocation that produced the descriptors.
	invocationID string
}

// IncludeChecksums returns the include checksums setting.
func (c *Config) IncludeChecksums() bool {
	return c.includeChecksums
}

// IncludePresets returns the include presets setting.
func (c *Config) IncludePresets() bool {
	return c.includePresets
}

// ValidateSchema returns the schema validation setting.
func (c *Config) ValidateSchema() bool {
	return c.validateSchema
}

// BuildDir returns the configured CMake binary directory.
func (c *Config) BuildDir() string {
	return c.buildDir
}

// PresetPrefix returns the preset name prefix.
func (c *Config) PresetPrefix() string {
	return c.presetPrefix
}

// CacheVariables returns a copy of the extra cache variables to prevent modification.
func (c *Config) CacheVariables() map[string]string {
	return maps.Clone(c.cacheVariables)
}

// Verbose returns the verbose setting.
func (c *Config) Verbose() bool {
	return c.verbose
}

// Version returns the wsbuild version.
func (c *Config) Version() string {
	return c.version
}

// InvocationID returns the invocation identifier.
func (c *Config) InvocationID() string {
	return c.invocationID
}

// Validate checks if the Config has valid settings.
func (c *Config) Validate() error {
	if !presetPrefixPattern.MatchString(c.presetPrefix) {
		return fmt.Errorf("invalid preset prefix %q", c.presetPrefix)
	}

	for name := range c.cacheVariables {
		if !cacheVarPattern.MatchString(name) {
			return fmt.Errorf("invalid cache variable name %q", name)
		}
	}

	return nil
}

type Option func(*Config)

// WithIncludeChecksums sets whether a checksums file should be written.
func WithIncludeChecksums(enabled bool) Option {
	return func(c *Config) {
		c.includeChecksums = enabled
	}
}

// WithIncludePresets sets whether CMakePresets.json should be written.
func WithIncludePresets(enabled bool) Option {
	return func(c *Config) {
		c.includePresets = enabled
	}
}

// WithValidateSchema sets whether written JSON descriptors are validated.
func WithValidateSchema(enabled bool) Option {
	return func(c *Config) {
		c.validateSchema = enabled
	}
}

// WithBuildDir sets the CMake binary directory recorded in the presets.
func WithBuildDir(dir string) Option {
	return func(c *Config) {
		c.buildDir = dir
	}
}

// WithPresetPrefix sets the preset name prefix.
func WithPresetPrefix(prefix string) Option {
	return func(c *Config) {
		c.presetPrefix = prefix
	}
}

// WithCacheVariables adds extra cache variables.
func WithCacheVariables(vars map[string]string) Option {
	return func(c *Config) {
		maps.Copy(c.cacheVariables, vars)
	}
}

// WithVerbose sets whether verbose logging is enabled.
func WithVerbose(enabled bool) Option {
	return func(c *Config) {
		c.verbose = enabled
	}
}

// WithVersion sets the wsbuild version.
func WithVersion(version string) Option {
	return func(c *Config) {
		c.version = version
	}
}

// WithInvocationID sets the invocation identifier.
func WithInvocationID(id string) Option {
	return func(c *Config) {
		c.invocationID = id
	}
}

// NewConfig returns a Config with default values.
func NewConfig(options ...Option) *Config {
	c := &Config{
		cacheVariables:   make(map[string]string),
		includeChecksums: true,
		includePresets:   true,
		presetPrefix:     "wsbuild",
		validateSchema:   true,
		verbose:          false,
		version:          "dev",
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}
