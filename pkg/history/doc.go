// Package history records wsbuild invocations in a local SQLite database.
package history
