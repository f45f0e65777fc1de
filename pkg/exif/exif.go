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
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	goexif "github.com/rwcarlsen/goexif/exif"
	"github.com/walteh/archiverc/pkg/metadata"
	"gitlab.com/tozd/go/errors"
)

// exifLayout is how EXIF encodes date-time strings
const exifLayout = "2006:01:02 15:04:05"

// 🏷️ Tags is what could be learned about a media file. Empty fields were not found.
type Tags struct {
	MIME      string
	Kind      metadata.MediaKind
	Maker     string
	Model     string
	Lens      string
	Copyright string
	Artist    string
	Taken     time.Time
}

// 🔍 Extractor reads descriptive tags out of a media file
type Extractor interface {
	Extract(ctx context.Context, path string) (*Tags, error)
}

// Reader is the Extractor backed by goexif for stills and the QuickTime movie header for video
type Reader struct{}

var _ Extractor = (*Reader)(nil)

func NewReader() *Reader {
	return &Reader{}
}

// 📸 Extract classifies path and reads whatever tags it carries.
// Missing or malformed metadata is not an error, only an unreadable file is.
func (r *Reader) Extract(ctx context.Context, path string) (*Tags, error) {
	logger := zerolog.Ctx(ctx)

	m, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, errors.Errorf("detecting mime type of %s: %w", path, err)
	}

	tags := &Tags{MIME: m.String()}
	tags.Kind = Classify(tags.MIME, path)

	switch tags.Kind {
	case metadata.MediaImage, metadata.MediaRaw:
		if err := readStill(path, tags); err != nil {
			logger.Debug().Err(err).Str("path", path).Msg("no usable exif block")
		}
	case metadata.MediaVideo:
		t, err := MovieCreationTime(path)
		if err != nil {
			logger.Debug().Err(err).Str("path", path).Msg("no usable movie header")
		} else {
			tags.Taken = t
		}
	}

	return tags, nil
}

// Classify picks a media kind from a detected MIME type, falling back to the
// extension tables when no useful MIME type was reported.
func Classify(mime, path string) metadata.MediaKind {
	mime = strings.ToLower(mime)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}

	switch {
	case strings.HasPrefix(mime, "video/"):
		return metadata.MediaVideo
	case strings.HasPrefix(mime, "image/"):
		// most raw formats are tiff containers
		if metadata.IsRawExt(filepath.Ext(path)) {
			return metadata.MediaRaw
		}
		return metadata.MediaImage
	case mime == "" || mime == "application/octet-stream":
		return metadata.KindFromPath(path)
	default:
		if k := metadata.KindFromPath(path); k == metadata.MediaRaw {
			return k
		}
		return metadata.MediaUnknown
	}
}

func readStill(path string, tags *Tags) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	x, err := goexif.Decode(f)
	if err != nil {
		return errors.Errorf("decoding exif: %w", err)
	}

	tags.Maker = stringTag(x, goexif.Make)
	tags.Model = stringTag(x, goexif.Model)
	tags.Lens = stringTag(x, goexif.LensModel)
	tags.Copyright = stringTag(x, goexif.Copyright)
	tags.Artist = stringTag(x, goexif.Artist)

	for _, field := range []goexif.FieldName{goexif.DateTimeOriginal, goexif.DateTimeDigitized, goexif.DateTime} {
		if t, ok := parseTime(stringTag(x, field)); ok {
			tags.Taken = t
			break
		}
	}

	return nil
}

func stringTag(x *goexif.Exif, field goexif.FieldName) string {
	tag, err := x.Get(field)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}

// parseTime reads an EXIF date-time in local time, rejecting the all-zero placeholder cameras write
func parseTime(s string) (time.Time, bool) {
	if len(s) < len(exifLayout) || strings.HasPrefix(s, "0000") {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(exifLayout, s[:len(exifLayout)], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
