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
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/winsock-http/wsbuild/pkg/defaults"
)

// Command is a native tool invocation.
type Command struct {
	Path   string
	Args   []string
	Dir    string
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for logs.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Path)
	for _, a := range c.Args {
		if strings.ContainsAny(a, " \t\"") {
			a = fmt.Sprintf("%q", a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// Runner runs a Command to completion. A process that starts and exits
// non-zero returns its exit code with a nil error; err is reserved for
// failures to start, wait, or stream output, and for cancellation.
type Runner interface {
	Run(ctx context.Context, cmd Command) (exitCode int, err error)
}

// ExecRunner runs commands with os/exec, streaming output unchanged.
type ExecRunner struct{}

// NewExecRunner returns the default Runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run starts cmd and copies its stdout and stderr to the command's writers
// while the process runs. Ninja progress lines are also logged at debug
// level, at most once per defaults.ProgressLogInterval.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (int, error) {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	// Cancellation kills the whole process tree, not just the direct child.
	setProcessGroup(c)
	c.WaitDelay = defaults.ProcessKillGrace

	stdout, err := c.StdoutPipe()
	if err != nil {
		return -1, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderr, err := c.StderrPipe()
	if err != nil {
		return -1, fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	slog.Debug("running native tool", "command", cmd.String(), "dir", cmd.Dir)
	if err := c.Start(); err != nil {
		return -1, fmt.Errorf("failed to start %s: %w", cmd.Path, err)
	}

	drained := make(chan struct{})
	go closeOnCancel(ctx, drained, stdout, stderr)

	progress := newProgressLogger()
	var g errgroup.Group
	g.Go(func() error { return stream(stdout, writerOrDiscard(cmd.Stdout), progress) })
	g.Go(func() error { return stream(stderr, writerOrDiscard(cmd.Stderr), nil) })
	streamErr := g.Wait()
	close(drained)

	waitErr := c.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, fmt.Errorf("%s interrupted: %w", cmd.Path, ctxErr)
	}

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
	case stderrors.As(waitErr, &exitErr):
		if streamErr != nil {
			slog.Warn("native tool output was not fully written", "command", cmd.Path, "error", streamErr)
		}
		return exitErr.ExitCode(), nil
	default:
		return -1, fmt.Errorf("failed to wait for %s: %w", cmd.Path, waitErr)
	}

	if streamErr != nil {
		return 0, fmt.Errorf("failed to stream output of %s: %w", cmd.Path, streamErr)
	}
	return 0, nil
}

// closeOnCancel closes the output pipes once ctx is done and the process
// group had defaults.ProcessKillGrace to exit. A descendant that left the
// group would otherwise hold the pipes open and keep Run blocked.
func closeOnCancel(ctx context.Context, drained <-chan struct{}, pipes ...io.Closer) {
	select {
	case <-drained:
		return
	case <-ctx.Done():
	}

	t := time.NewTimer(defaults.ProcessKillGrace)
	defer t.Stop()
	select {
	case <-drained:
	case <-t.C:
		for _, p := range pipes {
			_ = p.Close()
		}
	}
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// stream copies r to w line by line, byte for byte. After a write error
// the rest of r is still drained so the process never blocks on a full
// pipe; the first write error is returned at EOF.
func stream(r io.Reader, w io.Writer, progress *progressLogger) error {
	br := bufio.NewReader(r)
	var writeErr error
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 && writeErr == nil {
			if _, werr := w.Write(line); werr != nil {
				writeErr = werr
			} else if progress != nil {
				progress.observe(line)
			}
		}
		if err == io.EOF {
			return writeErr
		}
		if err != nil {
			if writeErr != nil {
				return writeErr
			}
			return err
		}
	}
}

var progressPattern = regexp.MustCompile(`^\[(\d+)/(\d+)\]\s*(.*)$`)

type progressLogger struct {
	limiter *rate.Limiter
}

func newProgressLogger() *progressLogger {
	return &progressLogger{limiter: rate.NewLimiter(rate.Every(defaults.ProgressLogInterval), 1)}
}

func (p *progressLogger) observe(line []byte) {
	m := progressPattern.FindSubmatch(bytesTrimSpace(line))
	if m == nil {
		return
	}
	// always report the final step
	if string(m[1]) != string(m[2]) && !p.limiter.Allow() {
		return
	}
	slog.Debug("build progress", "step", string(m[1]), "total", string(m[2]), "action", string(m[3]))
}

func bytesTrimSpace(b []byte) []byte {
	return []byte(strings.TrimSpace(string(b)))
}
