// Package logging provides structured logging utilities for wsbuild.
//
// # Overview
//
// This package wraps the standard library slog package with wsbuild-specific defaults
// and conventions for consistent logging across all components. It supports
// environment-based log level configuration, module/version context injection,
// and automatic source location tracking for debug logs.
//
// # Features
//
//   - Structured JSON (or text) logging to stderr
//   - Environment-based log level configuration (LOG_LEVEL)
//   - Automatic module and version context
//   - Source location tracking for debug logs
//   - Flexible log level parsing
//   - Integration with standard library log package
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("wsbuild", "v1.0.0")
//	    defer slog.Info("application started")
//
//	    // Use slog as normal
//	    slog.Info("processing request", "id", "req-123")
//	    slog.Debug("detailed state", "data", complexObject)
//	    slog.Error("operation failed", "error", err)
//	}
//
// Creating a custom logger:
//
//	logger := logging.NewStructuredLogger("wsbuild", "v2.0.0", "debug")
//	logger.Info("configure started", "generator", "Ninja Multi-Config")
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("wsbuild", "v1.0.0", "warn")
//
// Human-readable records for terminals:
//
//	logging.SetDefaultLogger(os.Stderr, logging.FormatText, "wsbuild", "v1.0.0", "info")
//
// Converting standard library logger:
//
//	stdLogger := logging.NewLogLogger(slog.LevelInfo, false)
//	stdLogger.Println("legacy log message")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug wsbuild create
//	LOG_LEVEL=error wsbuild build
//
// If LOG_LEVEL is not set, defaults to INFO level.
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "build finished",
//	    "module": "wsbuild",
//	    "version": "v1.0.0",
//	    "duration_sec": 12.4
//	}
//
// Debug logs include source location:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "DEBUG",
//	    "source": {
//	        "function": "cmake.(*Invoker).Configure",
//	        "file": "invoker.go",
//	        "line": 45
//	    },
//	    "msg": "running native tool",
//	    "module": "wsbuild",
//	    "version": "v1.0.0"
//	}
//
// # Integration
//
// This package is used by:
//   - pkg/cli - command logging and logger setup
//   - pkg/builder - phase start/finish records
//   - pkg/cmake - native tool invocations and throttled progress
//   - pkg/generator - descriptor generation
package logging
