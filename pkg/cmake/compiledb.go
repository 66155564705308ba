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

package cmake

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/winsock-http/wsbuild/pkg/defaults"
	"github.com/winsock-http/wsbuild/pkg/errors"
)

// CompileCommands summarizes a compile-command database.
type CompileCommands struct {
	Path    string   `json:"path" yaml:"path"`
	Entries int      `json:"entries" yaml:"entries"`
	Files   []string `json:"files" yaml:"files"`
}

// CompileCommandsPath returns the database path CMake exports into buildDir.
func CompileCommandsPath(buildDir string) string {
	return filepath.Join(buildDir, defaults.CompileCommandsFileName)
}

// InspectCompileCommands reads buildDir/compile_commands.json. A missing
// database is returned as a wrapped os.ErrNotExist.
func InspectCompileCommands(buildDir string) (*CompileCommands, error) {
	path := CompileCommandsPath(buildDir)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compile commands: %w", err)
	}
	return ParseCompileCommands(path, data)
}

// ParseCompileCommands summarizes a database document. Relative file
// entries are resolved against their "directory" field.
func ParseCompileCommands(path string, data []byte) (*CompileCommands, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.NewWithContext(errors.ErrCodeBuild,
			"compile-command database is not valid JSON", map[string]any{"path": path})
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, errors.NewWithContext(errors.ErrCodeBuild,
			"compile-command database is not an array", map[string]any{"path": path})
	}

	db := &CompileCommands{Path: path}
	seen := make(map[string]struct{})
	doc.ForEach(func(_, entry gjson.Result) bool {
		db.Entries++
		file := entry.Get("file").String()
		if file == "" {
			return true
		}
		if !filepath.IsAbs(file) {
			if dir := entry.Get("directory").String(); dir != "" {
				file = filepath.Join(dir, file)
			}
		}
		file = filepath.ToSlash(filepath.Clean(file))
		if _, ok := seen[file]; !ok {
			seen[file] = struct{}{}
			db.Files = append(db.Files, file)
		}
		return true
	})
	sort.Strings(db.Files)
	return db, nil
}
