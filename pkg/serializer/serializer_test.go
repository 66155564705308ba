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

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type testConfig struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatJSON, &buf)

	data := []testConfig{{Name: "test1", Value: 123}, {Name: "test2", Value: 456}}
	require.NoError(t, w.Serialize(context.Background(), data))

	var got []testConfig
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, data, got)
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatYAML, &buf)

	data := testConfig{Name: "shared", Value: 1}
	require.NoError(t, w.Serialize(context.Background(), data))

	var got testConfig
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, data, got)
}

func TestWriter_SerializeTable(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)

	data := map[string]any{
		"settings": map[string]string{"os": "Linux", "build_type": "Release"},
		"name":     "winsock-http",
	}
	require.NoError(t, w.Serialize(context.Background(), data))

	out := buf.String()
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "settings.os")
	assert.Contains(t, out, "Linux")
	assert.Contains(t, out, "name")

	// keys are sorted
	assert.Less(t, strings.Index(out, "name"), strings.Index(out, "settings.build_type"))
}

func TestWriter_SerializeTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), map[string]string{}))
	assert.Equal(t, "<empty>\n", buf.String())
}

func TestNewWriter_UnknownFormatDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(Format("xml"), &buf)
	assert.Equal(t, FormatJSON, w.format)
}

func TestFormat_IsUnknown(t *testing.T) {
	tests := []struct {
		format Format
		want   bool
	}{
		{FormatJSON, false},
		{FormatYAML, false},
		{FormatTable, false},
		{Format("xml"), true},
		{Format(""), true},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.format.IsUnknown())
		})
	}
	assert.Len(t, SupportedFormats(), 3)
}

func TestNewFileWriterOrStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	w := NewFileWriterOrStdout(FormatJSON, path)
	require.NoError(t, w.Serialize(context.Background(), testConfig{Name: "a", Value: 1}))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	got, err := FromFile[testConfig](path)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)

	stdout := NewFileWriterOrStdout(FormatJSON, "  ")
	assert.Nil(t, stdout.closer)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "info.json")
	n, err := WriteFile(path, FormatJSON, testConfig{Name: "x", Value: 2})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, n, info.Size())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file should be renamed away")
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.json", FormatJSON},
		{"A.JSON", FormatJSON},
		{"profile.yaml", FormatYAML},
		{"profile.yml", FormatYAML},
		{"default", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFromPath(tt.path))
		})
	}
}

func TestNewReader_Errors(t *testing.T) {
	_, err := NewReader(FormatTable, strings.NewReader(""))
	require.Error(t, err)

	_, err = NewReader(Format("toml"), strings.NewReader(""))
	require.Error(t, err)

	_, err = NewFileReader(FormatJSON, filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestReader_DeserializeRejectsUnknownFields(t *testing.T) {
	r, err := NewReader(FormatJSON, strings.NewReader(`{"name":"a","bogus":1}`))
	require.NoError(t, err)
	var got testConfig
	require.Error(t, r.Deserialize(&got))

	r, err = NewReader(FormatYAML, strings.NewReader("name: a\nbogus: 1\n"))
	require.NoError(t, err)
	require.Error(t, r.Deserialize(&got))
}

func TestReader_DeserializeYAML(t *testing.T) {
	r, err := NewReader(FormatYAML, strings.NewReader("name: b\nvalue: 7\n"))
	require.NoError(t, err)
	defer r.Close()

	var got testConfig
	require.NoError(t, r.Deserialize(&got))
	assert.Equal(t, testConfig{Name: "b", Value: 7}, got)
}

func TestReader_NilSafety(t *testing.T) {
	var r *Reader
	require.Error(t, r.Deserialize(&testConfig{}))
	require.NoError(t, r.Close())
}

func TestUnmarshal(t *testing.T) {
	var got testConfig
	require.NoError(t, Unmarshal(FormatJSON, []byte(`{"name":"c","value":3}`), &got))
	assert.Equal(t, testConfig{Name: "c", Value: 3}, got)

	require.Error(t, Unmarshal(FormatJSON, []byte(`{"name":"c","extra":true}`), &got))
	require.Error(t, Unmarshal(FormatTable, []byte(`name: c`), &got))
}
