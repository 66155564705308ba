package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFound, "resource not found")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "resource not found" {
		t.Errorf("expected message 'resource not found', got %s", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, "operation failed", cause)

	if err.Code != ErrCodeInternal {
		t.Errorf("expected code %s, got %s", ErrCodeInternal, err.Code)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
}

func TestWrapWithContext(t *testing.T) {
	cause := errors.New("timeout")
	ctx := map[string]any{
		"command": "cmake",
		"phase":   "configure",
	}

	err := WrapWithContext(ErrCodeTimeout, "configure timed out", cause, ctx)

	if err.Code != ErrCodeTimeout {
		t.Errorf("expected code %s, got %s", ErrCodeTimeout, err.Code)
	}
	if err.Context == nil {
		t.Fatal("expected context to be set")
	}
	if err.Context["command"] != "cmake" {
		t.Errorf("expected command to be cmake")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodeNotFound, "not found"),
			expected: "[NOT_FOUND] not found",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeInternal, "failed", errors.New("root cause")),
			expected: "[INTERNAL] failed: root cause",
		},
		{
			name:     "configuration shorthand",
			err:      Configuration("unknown option %q", "static"),
			expected: `[CONFIGURATION] unknown option "static"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(ErrCodeInternal, "wrapped", cause)

	unwrapped := err.Unwrap()
	if !errors.Is(unwrapped, cause) {
		t.Errorf("expected unwrapped error to be original cause")
	}

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should work with Unwrap")
	}
}

func TestIsConfigurationAndBuild(t *testing.T) {
	cfg := Configuration("compiler is required")
	wrappedCfg := Wrap(ErrCodeInternal, "generate failed", cfg)
	build := BuildFailed("compilation failed", 2, errors.New("exit status 2"))
	plain := fmt.Errorf("outer: %w", build)

	tests := []struct {
		name      string
		err       error
		wantCfg   bool
		wantBuild bool
	}{
		{"configuration", cfg, true, false},
		{"configuration under internal", wrappedCfg, true, false},
		{"build", build, false, true},
		{"build under fmt wrap", plain, false, true},
		{"plain error", errors.New("x"), false, false},
		{"nil", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConfiguration(tt.err); got != tt.wantCfg {
				t.Errorf("IsConfiguration() = %v, want %v", got, tt.wantCfg)
			}
			if got := IsBuild(tt.err); got != tt.wantBuild {
				t.Errorf("IsBuild() = %v, want %v", got, tt.wantBuild)
			}
		})
	}
}

func TestExitStatus(t *testing.T) {
	err := Wrap(ErrCodeInternal, "pipeline failed", BuildFailed("compile", 3, nil))

	status, ok := ExitStatus(err)
	if !ok {
		t.Fatal("expected exit status to be found")
	}
	if status != 3 {
		t.Errorf("expected exit status 3, got %d", status)
	}

	if _, ok := ExitStatus(Configuration("bad")); ok {
		t.Error("configuration error should not carry an exit status")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(Configuration("x")); got != ErrCodeConfiguration {
		t.Errorf("CodeOf() = %s, want %s", got, ErrCodeConfiguration)
	}
	if got := CodeOf(errors.New("x")); got != "" {
		t.Errorf("CodeOf() = %s, want empty", got)
	}
}

func TestErrorCodes(t *testing.T) {
	codes := []ErrorCode{
		ErrCodeConfiguration,
		ErrCodeBuild,
		ErrCodeNotFound,
		ErrCodeTimeout,
		ErrCodeInternal,
		ErrCodeInvalidRequest,
		ErrCodeUnavailable,
	}

	for _, code := range codes {
		if string(code) == "" {
			t.Errorf("error code should not be empty: %v", code)
		}
	}
}
