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

package loader

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/archiverc/pkg/entry"
	"github.com/walteh/archiverc/pkg/exif"
	"github.com/walteh/archiverc/pkg/metadata"
)

// Unknown fills tag tokens that could not be read
const Unknown = "Unknown"

// 📸 Exif copies camera tags and the capture time into the bag. It never vetoes.
type Exif struct {
	extractor exif.Extractor
}

var _ entry.Loader = (*Exif)(nil)

func NewExif(extractor exif.Extractor) *Exif {
	return &Exif{extractor: extractor}
}

func (x *Exif) Name() string { return NameExif }

func (x *Exif) Extract(ctx context.Context, e *entry.Entry) bool {
	return x.ExtractPath(ctx, e.Source, e.Bag)
}

func (x *Exif) ExtractPath(ctx context.Context, path string, bag *metadata.Bag) bool {
	tags, err := x.extractor.Extract(ctx, path)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("tag extraction failed")
		tags = &exif.Tags{}
	}

	bag.SetString(metadata.KeyCameraMaker, orUnknown(tags.Maker))
	bag.SetString(metadata.KeyCameraModel, orUnknown(tags.Model))
	bag.SetString(metadata.KeyLens, orUnknown(tags.Lens))
	bag.SetString(metadata.KeyCopyright, orUnknown(tags.Copyright))
	bag.SetString(metadata.KeyArtist, orUnknown(tags.Artist))

	if tags.MIME != "" {
		bag.SetString(metadata.KeyMimeType, tags.MIME)
	}
	if tags.Kind != "" && tags.Kind != metadata.MediaUnknown {
		bag.SetString(metadata.KeyMediaKind, string(tags.Kind))
	}
	if !tags.Taken.IsZero() {
		bag.SetTime(metadata.KeyDateTaken, tags.Taken)
	}

	metadata.SetDateTokens(bag)
	return true
}

func (x *Exif) Prepare(ctx context.Context, e *entry.Entry) bool {
	return true
}

func (x *Exif) Close(ctx context.Context, e *entry.Entry) error {
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
