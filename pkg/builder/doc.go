// Package builder runs the two-phase generate and build protocol.
//
// Generate resolves a Request and writes descriptors, returning a Generated
// value. Build takes that value, configures the native project, and builds
// it. Create runs both in order and never builds after a failed generate.
//
// Every invocation is identified by a UUID. Phase durations and outcomes are
// exported as Prometheus metrics on a private registry and, optionally,
// recorded in the invocation history.
package builder
