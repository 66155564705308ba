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
	"testing"
)

func TestConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	if !cfg.IncludeChecksums() {
		t.Error("IncludeChecksums() = false, want true")
	}
	if !cfg.IncludePresets() {
		t.Error("IncludePresets() = false, want true")
	}
	if !cfg.ValidateSchema() {
		t.Error("ValidateSchema() = false, want true")
	}
	if cfg.Verbose() {
		t.Error("Verbose() = true, want false")
	}
	if cfg.Version() != "dev" {
		t.Errorf("Version() = %q, want dev", cfg.Version())
	}
	if cfg.PresetPrefix() != "wsbuild" {
		t.Errorf("PresetPrefix() = %q, want wsbuild", cfg.PresetPrefix())
	}
	if cfg.BuildDir() != "" || cfg.InvocationID() != "" {
		t.Error("expected empty build dir and invocation id")
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithIncludeChecksums(false),
		WithIncludePresets(false),
		WithValidateSchema(false),
		WithBuildDir("/tmp/build"),
		WithPresetPrefix("ci"),
		WithCacheVariables(map[string]string{"WSH_TESTS": "OFF"}),
		WithVerbose(true),
		WithVersion("v1.2.3"),
		WithInvocationID("abc"),
	)

	if cfg.IncludeChecksums() || cfg.IncludePresets() || cfg.ValidateSchema() {
		t.Error("boolean options not applied")
	}
	if cfg.BuildDir() != "/tmp/build" {
		t.Errorf("BuildDir() = %q", cfg.BuildDir())
	}
	if cfg.PresetPrefix() != "ci" {
		t.Errorf("PresetPrefix() = %q", cfg.PresetPrefix())
	}
	if !cfg.Verbose() || cfg.Version() != "v1.2.3" || cfg.InvocationID() != "abc" {
		t.Error("string options not applied")
	}
	if cfg.CacheVariables()["WSH_TESTS"] != "OFF" {
		t.Errorf("CacheVariables() = %v", cfg.CacheVariables())
	}
}

func TestConfigImmutability(t *testing.T) {
	cfg := NewConfig(WithCacheVariables(map[string]string{"A": "1"}))

	vars := cfg.CacheVariables()
	vars["A"] = "changed"
	vars["B"] = "2"

	if cfg.CacheVariables()["A"] != "1" {
		t.Error("CacheVariables() returned shared map")
	}
	if _, ok := cfg.CacheVariables()["B"]; ok {
		t.Error("CacheVariables() returned shared map")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "valid default config",
			config:  NewConfig(),
			wantErr: false,
		},
		{
			name:    "empty preset prefix",
			config:  NewConfig(WithPresetPrefix("")),
			wantErr: true,
		},
		{
			name:    "preset prefix with spaces",
			config:  NewConfig(WithPresetPrefix("my build")),
			wantErr: true,
		},
		{
			name:    "invalid cache variable",
			config:  NewConfig(WithCacheVariables(map[string]string{"BAD-NAME": "1"})),
			wantErr: true,
		},
		{
			name:    "valid cache variable",
			config:  NewConfig(WithCacheVariables(map[string]string{"CMAKE_VERBOSE_MAKEFILE": "ON"})),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
