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

package recipe

import (
	"maps"
	"slices"
	"strings"

	"github.com/winsock-http/wsbuild/pkg/errors"
)

// OptionDef declares the legal values of an option and its default.
type OptionDef struct {
	Values  []string `json:"values" yaml:"values"`
	Default string   `json:"default" yaml:"default"`
}

// Options holds resolved option values, keyed by option name.
type Options map[string]string

// ResolveOptions applies given values over the declared defaults.
// Every resolved value is spelled the way the definition declares it, so
// "true" resolves to "True". Unknown names and illegal values are
// configuration errors.
func ResolveOptions(defs map[string]OptionDef, given map[string]string) (Options, error) {
	for name := range given {
		if _, ok := defs[name]; !ok {
			return nil, errors.Configuration("option %q does not exist, declared options are %v",
				name, slices.Sorted(maps.Keys(defs)))
		}
	}

	out := make(Options, len(defs))
	for name, def := range defs {
		raw, ok := given[name]
		if !ok || strings.TrimSpace(raw) == "" {
			raw = def.Default
		}
		v, legal := canonical(raw, def.Values)
		if !legal {
			return nil, errors.Configuration("invalid value %q for option %q, possible values are %v",
				raw, name, def.Values)
		}
		out[name] = v
	}
	return out, nil
}

// ResolveOptions resolves options against the recipe's declarations.
func (r Recipe) ResolveOptions(given map[string]string) (Options, error) {
	return ResolveOptions(r.Options, given)
}

// Get returns the value of the named option, or "" if it is not set.
func (o Options) Get(name string) string {
	return o[name]
}

// Bool interprets a boolean-like option. Unset options are false.
func (o Options) Bool(name string) bool {
	switch strings.ToLower(o[name]) {
	case "true", "on", "yes", "1":
		return true
	default:
		return false
	}
}

// Names returns the option names in lexical order.
func (o Options) Names() []string {
	return slices.Sorted(maps.Keys(o))
}

// Shared reports whether the shared option selects dynamic linkage.
func (o Options) Shared() bool {
	return o.Bool(OptionShared)
}
