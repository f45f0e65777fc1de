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

	"github.com/walteh/archiverc/pkg/entry"
	"github.com/walteh/archiverc/pkg/fsx"
	"github.com/walteh/archiverc/pkg/metadata"
)

// 📁 Default reads filesystem times and classifies the file by extension
type Default struct{}

var _ entry.Loader = (*Default)(nil)

func NewDefault() *Default {
	return &Default{}
}

func (d *Default) Name() string { return NameDefault }

func (d *Default) Extract(ctx context.Context, e *entry.Entry) bool {
	return d.ExtractPath(ctx, e.Source, e.Bag)
}

func (d *Default) ExtractPath(ctx context.Context, path string, bag *metadata.Bag) bool {
	if t := fsx.CreationTime(path); !t.IsZero() {
		bag.SetTime(metadata.KeyFileCreated, t)
	}
	if t := fsx.ModTime(path); !t.IsZero() {
		bag.SetTime(metadata.KeyFileModified, t)
	}
	if !bag.Has(metadata.KeyMediaKind) {
		bag.SetString(metadata.KeyMediaKind, string(metadata.KindFromPath(path)))
	}
	metadata.SetDateTokens(bag)
	return true
}

// Prepare only keeps the overwrite flag when it would change something:
// the destination exists, overwrite was asked for, the source is not empty and the sizes differ.
func (d *Default) Prepare(ctx context.Context, e *entry.Entry) bool {
	dstSize := e.ExistingSize()
	e.MayOverwrite = e.DestinationExists &&
		e.Effective.Overwrite() &&
		e.Size > 0 &&
		dstSize != e.Size
	return true
}

func (d *Default) Close(ctx context.Context, e *entry.Entry) error {
	return nil
}
