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

package metadata

import (
	"path/filepath"
	"strings"
)

// 🎞️ MediaKind is the coarse classification that selects a per-media config
type MediaKind string

const (
	MediaUnknown MediaKind = "unknown"
	MediaImage   MediaKind = "image"
	MediaRaw     MediaKind = "raw"
	MediaVideo   MediaKind = "video"
)

var (
	imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".tif": true, ".tiff": true, ".bmp": true, ".heic": true, ".heif": true, ".webp": true}
	rawExts   = map[string]bool{".arw": true, ".cr2": true, ".cr3": true, ".crw": true, ".dng": true, ".nef": true, ".nrw": true, ".orf": true, ".pef": true, ".raf": true, ".rw2": true, ".srw": true, ".x3f": true}
	videoExts = map[string]bool{".mp4": true, ".mov": true, ".m4v": true, ".avi": true, ".mkv": true, ".mts": true, ".m2ts": true, ".3gp": true, ".wmv": true, ".mpg": true, ".mpeg": true}
)

// IsRawExt reports whether ext (with leading dot) names a known camera raw format
func IsRawExt(ext string) bool {
	return rawExts[strings.ToLower(ext)]
}

// KindFromPath classifies a file by extension only
func KindFromPath(path string) MediaKind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case rawExts[ext]:
		return MediaRaw
	case imageExts[ext]:
		return MediaImage
	case videoExts[ext]:
		return MediaVideo
	default:
		return MediaUnknown
	}
}
