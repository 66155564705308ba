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
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/winsock-http/wsbuild/pkg/defaults"
	"github.com/winsock-http/wsbuild/pkg/errors"
	"github.com/winsock-http/wsbuild/pkg/serializer"
)

// Load reads a recipe from a YAML or JSON file. Relative requirement paths
// are resolved against the directory containing the file.
func Load(path string) (Recipe, error) {
	r, err := serializer.FromFile[Recipe](path)
	if err != nil {
		return Recipe{}, errors.Wrap(errors.ErrCodeConfiguration,
			fmt.Sprintf("failed to load recipe %s", path), err)
	}

	if r.Generator == "" {
		r.Generator = defaults.DefaultGenerator
	}

	base := filepath.Dir(path)
	for i := range r.Requires {
		if r.Requires[i].Path != "" && !filepath.IsAbs(r.Requires[i].Path) {
			r.Requires[i].Path = filepath.Join(base, r.Requires[i].Path)
		}
	}

	if err := r.Validate(); err != nil {
		return Recipe{}, err
	}

	slog.Debug("recipe loaded", "path", path, "recipe", r.Reference(), "requires", len(r.Requires))
	return *r, nil
}

// LoadOrDefault loads the recipe at path, or returns the built-in
// winsock-http recipe when path is empty.
func LoadOrDefault(path string) (Recipe, error) {
	if path == "" {
		return WinSockHTTP(), nil
	}
	return Load(path)
}
