/*
Copyright © 2026 winsock-http authors
SPDX-License-Identifier: Apache-2.0
*/

// Package checksum writes and verifies SHA256 checksums for generated descriptors.
//
// The generator records every descriptor it writes; the configure step verifies
// them before handing the toolchain to CMake, so a hand-edited or truncated
// descriptor is caught as a configuration error.
//
// Usage:
//
//	err := checksum.GenerateChecksums(ctx, "build/generators", files)
//	err = checksum.VerifyChecksums(ctx, "build/generators")
//
// The checksums.txt file format is compatible with sha256sum:
//
//	sha256sum -c checksums.txt
package checksum
