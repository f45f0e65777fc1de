// Copyright 2025 walteh LLC
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

package state

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"gitlab.com/tozd/go/errors"
)

// quickChunk is how much of each end of a file the quick checksum reads
const quickChunk = 64 * 1024

// FormatChecksum renders a checksum the way it is stored
func FormatChecksum(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

// 🔢 Checksum hashes the whole file at path with xxhash and returns the digest and byte size
func Checksum(path string) (uint64, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := xxhash.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return 0, 0, errors.Errorf("hashing %s: %w", path, err)
	}
	return h.Sum64(), n, nil
}

// ⚡ QuickChecksum hashes the size plus the first and last chunk of the file.
// Files no larger than two chunks are hashed in full.
func QuickChecksum(path string) (uint64, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return 0, 0, errors.Errorf("stat %s: %w", path, err)
	}
	size := fi.Size()
	if size <= 2*quickChunk {
		f.Close()
		return Checksum(path)
	}

	h := xxhash.New()
	_, _ = fmt.Fprintf(h, "%d:", size)

	if _, err := io.CopyN(h, f, quickChunk); err != nil {
		return 0, 0, errors.Errorf("hashing head of %s: %w", path, err)
	}
	if _, err := f.Seek(-quickChunk, io.SeekEnd); err != nil {
		return 0, 0, errors.Errorf("seeking tail of %s: %w", path, err)
	}
	if _, err := io.CopyN(h, f, quickChunk); err != nil {
		return 0, 0, errors.Errorf("hashing tail of %s: %w", path, err)
	}

	return h.Sum64(), size, nil
}
