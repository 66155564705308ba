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

package result

import (
	"errors"
	"testing"
	"time"
)

func TestResult_New(t *testing.T) {
	r := New(KindToolchain)

	if r.Kind != KindToolchain {
		t.Errorf("Kind = %s, want %s", r.Kind, KindToolchain)
	}
	if r.Files == nil || len(r.Files) != 0 {
		t.Error("new result should have an empty, non-nil Files slice")
	}
	if r.Success {
		t.Error("new result should not be marked as success")
	}
}

func TestResult_AddFileAndSuccess(t *testing.T) {
	r := New(KindDependency)
	r.AddFile("/gen/zlib-config.cmake", 100)
	r.AddFile("/gen/zlib-config-version.cmake", 50)
	r.MarkSuccess()

	if len(r.Files) != 2 || r.Size != 150 {
		t.Errorf("files=%d size=%d, want 2 and 150", len(r.Files), r.Size)
	}
	if !r.Success {
		t.Error("expected success")
	}
}

func TestResult_AddError(t *testing.T) {
	r := New(KindPresets)
	r.AddError(nil)
	if len(r.Errors) != 0 {
		t.Fatal("nil error should be ignored")
	}

	r.AddError(errors.New("disk full"))
	r.MarkSuccess()
	if r.Success {
		t.Error("result with errors must not be successful")
	}
	if r.Errors[0] != "disk full" {
		t.Errorf("Errors = %v", r.Errors)
	}
}

func TestOutput_Aggregates(t *testing.T) {
	out := NewOutput("/gen")

	ok := New(KindToolchain)
	ok.AddFile("/gen/wsbuild_toolchain.cmake", 2048)
	ok.MarkSuccess()

	bad := New(KindPresets)
	bad.AddError(errors.New("boom"))

	out.Add(ok)
	out.Add(bad)
	out.TotalDuration = 1500 * time.Microsecond

	if out.TotalFiles != 1 || out.TotalSize != 2048 {
		t.Errorf("totals = %d files, %d bytes", out.TotalFiles, out.TotalSize)
	}
	if !out.HasErrors() || out.SuccessCount() != 1 || out.FailureCount() != 1 {
		t.Error("unexpected success/failure counts")
	}
	if got := out.ByKind()[KindToolchain]; got != ok {
		t.Error("ByKind did not return the toolchain result")
	}
	if files := out.Files(); len(files) != 1 || files[0] != "/gen/wsbuild_toolchain.cmake" {
		t.Errorf("Files() = %v", files)
	}

	want := "Generated 1 files (2.0 KB) in 2ms. Success: 1/2 descriptor groups."
	if got := out.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
