// Package cli implements the wsbuild command line.
//
// # Commands
//
// generate - Resolve settings and options, write descriptors:
//
//	wsbuild generate [-p PROFILE] [-s key=value] [-o name=value] [-B BUILD_DIR]
//
// build - Configure and build from existing descriptors:
//
//	wsbuild build [-S SOURCE_DIR] [-B BUILD_DIR] [-j JOBS] [--output REPORT]
//
// create - generate followed by build, optionally watching sources:
//
//	wsbuild create [-p PROFILE] [--watch]
//
// inspect - Verify descriptors and list build output:
//
//	wsbuild inspect [-B BUILD_DIR] [--format yaml|json|table]
//
// package - Package build output as an OCI artifact:
//
//	wsbuild package --target DIR|oci://registry/repo[:tag]
//
// history - List recorded phases:
//
//	wsbuild history [--limit N] [--format table|json|yaml]
//
// profile - Detect the host or show a resolved profile:
//
//	wsbuild profile detect
//	wsbuild profile show -p PROFILE
//
// # Exit Codes
//
//	0  Success
//	1  Configuration error or any other failure
//	2  Interrupted
//	N  The native build tool's own non-zero status on a failed build
//
// # Environment Variables
//
//	LOG_LEVEL             Logging verbosity (debug, info, warn, error)
//	WSBUILD_LOG_FORMAT    text or json
//	WSBUILD_HISTORY_DB    History database path
//	WSBUILD_NO_HISTORY    Disable history recording
//	WSBUILD_METRICS_FILE  Prometheus textfile written on exit
//	WSBUILD_SOURCE_DIR, WSBUILD_BUILD_DIR, WSBUILD_GENERATORS_DIR
//	WSBUILD_RECIPE, WSBUILD_PROFILE, WSBUILD_JOBS, WSBUILD_CMAKE
//	NO_COLOR              Disable colored output
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/winsock-http/wsbuild/pkg/cli.version=1.0.0'"
package cli
