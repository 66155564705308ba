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

package checksum

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/opencontainers/go-digest"
)

// ChecksumFileName is the standard name for checksum files.
const ChecksumFileName = "checksums.txt"

// FileDigest returns the sha256 digest of the file at path.
func FileDigest(path string) (digest.Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	d, err := digest.SHA256.FromReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return d, nil
}

// GenerateChecksums creates a checksums.txt file containing SHA256 checksums
// for all provided files. Paths are written relative to dir and sorted, so
// the file is stable across runs with identical content.
func GenerateChecksums(ctx context.Context, dir string, files []string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	checksums := make([]string, 0, len(files))

	for _, file := range files {
		d, err := FileDigest(file)
		if err != nil {
			return fmt.Errorf("failed to read %s for checksum: %w", file, err)
		}

		relPath, err := filepath.Rel(dir, file)
		if err != nil {
			// If relative path fails, use absolute path
			relPath = file
		}

		checksums = append(checksums, fmt.Sprintf("%s  %s", d.Encoded(), filepath.ToSlash(relPath)))
	}
	sort.Slice(checksums, func(i, j int) bool {
		return checksums[i][66:] < checksums[j][66:]
	})

	checksumPath := filepath.Join(dir, ChecksumFileName)
	content := strings.Join(checksums, "\n") + "\n"

	if err := os.WriteFile(checksumPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write checksums: %w", err)
	}

	slog.Debug("checksums generated",
		"file_count", len(checksums),
		"path", checksumPath,
	)

	return nil
}

// VerifyChecksums recomputes every entry of dir/checksums.txt. It returns
// os.ErrNotExist (wrapped) when there is no checksum file, and an error
// naming the first mismatching or missing file otherwise.
func VerifyChecksums(ctx context.Context, dir string) error {
	checksumPath := GetChecksumFilePath(dir)
	f, err := os.Open(checksumPath)
	if err != nil {
		return fmt.Errorf("failed to open checksums: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled: %w", err)
		}
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		sum, rel, ok := strings.Cut(text, "  ")
		if !ok {
			return fmt.Errorf("%s:%d: malformed checksum entry", ChecksumFileName, line)
		}
		want := digest.NewDigestFromEncoded(digest.SHA256, sum)
		if err := want.Validate(); err != nil {
			return fmt.Errorf("%s:%d: %w", ChecksumFileName, line, err)
		}

		path := rel
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, filepath.FromSlash(rel))
		}
		got, err := FileDigest(path)
		if err != nil {
			return fmt.Errorf("failed to verify %s: %w", rel, err)
		}
		if got != want {
			return fmt.Errorf("checksum mismatch for %s: expected %s, got %s", rel, want.Encoded(), got.Encoded())
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read checksums: %w", err)
	}

	slog.Debug("checksums verified", "entries", line, "path", checksumPath)
	return nil
}

// GetChecksumFilePath returns the full path to the checksums.txt file
// in the given directory.
func GetChecksumFilePath(dir string) string {
	return filepath.Join(dir, ChecksumFileName)
}
