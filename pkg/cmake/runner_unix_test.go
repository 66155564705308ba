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

//go:build !windows

package cmake

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, stderrors.New("disk full") }

func requireShell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

// runWithin fails the test when Run does not return within limit.
func runWithin(ctx context.Context, t *testing.T, limit time.Duration, cmd Command) (int, error) {
	t.Helper()
	type outcome struct {
		code int
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		code, err := NewExecRunner().Run(ctx, cmd)
		done <- outcome{code, err}
	}()

	select {
	case o := <-done:
		return o.code, o.err
	case <-time.After(limit):
		t.Fatalf("Run did not return within %s", limit)
		return 0, nil
	}
}

func TestExecRunner_ExitCode(t *testing.T) {
	sh := requireShell(t)
	var out bytes.Buffer
	code, err := runWithin(context.Background(), t, 10*time.Second,
		Command{Path: sh, Args: []string{"-c", "echo '[1/1] Linking'; exit 3"}, Stdout: &out})
	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Equal(t, "[1/1] Linking\n", out.String())
}

func TestExecRunner_CancelStopsProcessTree(t *testing.T) {
	sh := requireShell(t)
	tests := []struct {
		name   string
		script string
	}{
		{"direct child", "sleep 8; true"},
		{"grandchild holding pipes", "(sleep 8; echo late) & sleep 8; wait"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()

			start := time.Now()
			var out bytes.Buffer
			code, err := runWithin(ctx, t, 6*time.Second,
				Command{Path: sh, Args: []string{"-c", tt.script}, Stdout: &out})
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, context.DeadlineExceeded), "got %v", err)
			assert.Equal(t, -1, code)
			assert.Less(t, time.Since(start), 5*time.Second)
			assert.NotContains(t, out.String(), "late")
		})
	}
}

func TestExecRunner_WriterFailureDrainsOutput(t *testing.T) {
	sh := requireShell(t)
	script := "i=0; while [ $i -lt 4000 ]; do echo 'xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx'; i=$((i+1)); done"

	code, err := runWithin(context.Background(), t, 10*time.Second,
		Command{Path: sh, Args: []string{"-c", script}, Stdout: failingWriter{}})
	require.Error(t, err)
	assert.Zero(t, code)
	assert.True(t, strings.Contains(err.Error(), "disk full"), "got %v", err)
}
