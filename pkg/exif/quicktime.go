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

package exif

import (
	"encoding/binary"
	"io"
	"os"
	"time"

	"gitlab.com/tozd/go/errors"
)

// ErrNoMovieHeader is returned when a file has no moov/mvhd box
var ErrNoMovieHeader = errors.Base("no movie header")

// seconds between 1904-01-01 and 1970-01-01
const macEpochOffset = 2082844800

// 🎬 MovieCreationTime reads the creation time from the mvhd box of an ISO-BMFF / QuickTime file.
func MovieCreationTime(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return time.Time{}, errors.Errorf("stat %s: %w", path, err)
	}

	moov, moovSize, err := findBox(f, 0, fi.Size(), "moov")
	if err != nil {
		return time.Time{}, err
	}
	mvhd, _, err := findBox(f, moov, moov+moovSize, "mvhd")
	if err != nil {
		return time.Time{}, err
	}

	var head [12]byte
	if _, err := f.ReadAt(head[:], mvhd); err != nil {
		return time.Time{}, errors.Errorf("reading mvhd: %w", err)
	}

	var secs uint64
	switch version := head[0]; version {
	case 0:
		secs = uint64(binary.BigEndian.Uint32(head[4:8]))
	case 1:
		secs = binary.BigEndian.Uint64(head[4:12])
	default:
		return time.Time{}, errors.Errorf("unsupported mvhd version %d", version)
	}

	if secs <= macEpochOffset {
		return time.Time{}, errors.WithStack(ErrNoMovieHeader)
	}
	return time.Unix(int64(secs-macEpochOffset), 0).UTC(), nil
}

// findBox scans the boxes in [start, end) for typ and returns the offset and size of its payload
func findBox(r io.ReaderAt, start, end int64, typ string) (int64, int64, error) {
	var hdr [16]byte
	for off := start; off+8 <= end; {
		if _, err := r.ReadAt(hdr[:8], off); err != nil {
			return 0, 0, errors.Errorf("reading box header at %d: %w", off, err)
		}

		size := int64(binary.BigEndian.Uint32(hdr[:4]))
		name := string(hdr[4:8])
		headerLen := int64(8)

		switch size {
		case 0:
			size = end - off
		case 1:
			if _, err := r.ReadAt(hdr[8:16], off+8); err != nil {
				return 0, 0, errors.Errorf("reading large box size at %d: %w", off, err)
			}
			size = int64(binary.BigEndian.Uint64(hdr[8:16]))
			headerLen = 16
		}
		if size < headerLen || off+size > end {
			return 0, 0, errors.Errorf("malformed %q box at %d", name, off)
		}

		if name == typ {
			return off + headerLen, size - headerLen, nil
		}
		off += size
	}
	return 0, 0, errors.Errorf("%s: %w", typ, ErrNoMovieHeader)
}
