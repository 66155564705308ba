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

package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a structured error classification.
type ErrorCode string

const (
	// ErrCodeConfiguration indicates invalid or incomplete settings, options,
	// or a missing/malformed toolchain descriptor.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION"
	// ErrCodeBuild indicates the native build tool reported a compilation failure.
	ErrCodeBuild ErrorCode = "BUILD"
	// ErrCodeNotFound indicates a requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeTimeout indicates an operation exceeded its time limit.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal indicates an internal system error.
	ErrCodeInternal ErrorCode = "INTERNAL"
	// ErrCodeInvalidRequest indicates malformed or invalid input.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeUnavailable indicates a service or resource is temporarily unavailable.
	ErrCodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// ContextKeyExitStatus is the context key carrying a native tool's exit status.
const ContextKeyExitStatus = "exit_status"

// StructuredError provides structured error information for better observability.
// It includes an error code for programmatic handling, a human-readable message,
// the underlying cause, and optional context for debugging.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a new StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
	}
}

// NewWithContext creates a new StructuredError with context information.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Context: context,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithContext wraps an error with additional context information.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// Configuration is shorthand for a CONFIGURATION error.
func Configuration(format string, args ...any) *StructuredError {
	return New(ErrCodeConfiguration, fmt.Sprintf(format, args...))
}

// BuildFailed creates a BUILD error carrying the native tool's exit status.
func BuildFailed(message string, exitStatus int, cause error) *StructuredError {
	return WrapWithContext(ErrCodeBuild, message, cause, map[string]any{
		ContextKeyExitStatus: exitStatus,
	})
}

// CodeOf returns the code of the outermost StructuredError in err's chain,
// or an empty code if there is none.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsConfiguration reports whether err carries ErrCodeConfiguration anywhere in its chain.
func IsConfiguration(err error) bool {
	return hasCode(err, ErrCodeConfiguration)
}

// IsBuild reports whether err carries ErrCodeBuild anywhere in its chain.
func IsBuild(err error) bool {
	return hasCode(err, ErrCodeBuild)
}

// ExitStatus returns the native exit status recorded in err's chain.
func ExitStatus(err error) (int, bool) {
	for err != nil {
		var se *StructuredError
		if !stderrors.As(err, &se) {
			return 0, false
		}
		if v, ok := se.Context[ContextKeyExitStatus].(int); ok {
			return v, true
		}
		err = se.Cause
	}
	return 0, false
}

func hasCode(err error, code ErrorCode) bool {
	for err != nil {
		var se *StructuredError
		if !stderrors.As(err, &se) {
			return false
		}
		if se.Code == code {
			return true
		}
		err = se.Cause
	}
	return false
}
