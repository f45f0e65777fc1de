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
	"github.com/walteh/archiverc/pkg/instagram"
	"github.com/walteh/archiverc/pkg/metadata"
)

// 📷 Instagram decodes the export file name convention and rejects names that do not follow it
type Instagram struct{}

var _ entry.Loader = (*Instagram)(nil)

func NewInstagram() *Instagram {
	return &Instagram{}
}

func (i *Instagram) Name() string { return NameInstagram }

func (i *Instagram) Extract(ctx context.Context, e *entry.Entry) bool {
	return i.ExtractPath(ctx, e.Source, e.Bag)
}

func (i *Instagram) ExtractPath(ctx context.Context, path string, bag *metadata.Bag) bool {
	id := instagram.Parse(path)
	if !id.Valid {
		zerolog.Ctx(ctx).Debug().Str("path", path).Str("identity", id.String()).Msg("file name does not follow the export convention")
		return false
	}

	bag.SetString(metadata.KeyFileName, id.FileName)
	bag.SetString(metadata.KeyUsername, id.Username)
	bag.SetInt(metadata.KeyUserID, id.UserID)
	bag.SetInt(metadata.KeyContentID, id.ContentID)
	if id.Timestamp > 0 {
		bag.SetTime(metadata.KeyPostTime, id.PostTime())
	}

	metadata.SetDateTokens(bag)
	return true
}

// Prepare keeps delete-source only when the archived copy is at least as large as the source
func (i *Instagram) Prepare(ctx context.Context, e *entry.Entry) bool {
	dstSize := e.ExistingSize()
	e.DeleteSourceIfExists = e.Effective.DeleteSourceOnExist() &&
		e.DestinationExists &&
		dstSize >= e.Size
	return true
}

func (i *Instagram) Close(ctx context.Context, e *entry.Entry) error {
	return nil
}
