// Package errors provides structured error types for better observability
// and programmatic error handling across wsbuild.
//
// The two codes the build pipeline surfaces to its caller are
// ErrCodeConfiguration (invalid settings, options, or toolchain descriptors)
// and ErrCodeBuild (the native build tool exited non-zero). Build errors carry
// the native exit status in their context:
//
//	err := errors.BuildFailed("cmake --build failed", 2, cause)
//	if status, ok := errors.ExitStatus(err); ok {
//	    os.Exit(status)
//	}
package errors
