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
	"github.com/walteh/archiverc/pkg/metadata"
	"github.com/walteh/archiverc/pkg/state"
	"gitlab.com/tozd/go/errors"
)

// 🔢 Checksum hashes each file and rejects content already archived under the destination root.
// The store is opened on first use and committed when the run closes.
type Checksum struct {
	root   string
	dryRun bool
	quick  bool

	store   *state.Store
	openErr error
}

var _ entry.Loader = (*Checksum)(nil)

// NewChecksum returns the checksum loader. quick hashes only the ends of large files.
func NewChecksum(root string, dryRun, quick bool) *Checksum {
	return &Checksum{root: root, dryRun: dryRun, quick: quick}
}

func (c *Checksum) Name() string {
	if c.quick {
		return NameQuickChecksum
	}
	return NameChecksum
}

func (c *Checksum) Extract(ctx context.Context, e *entry.Entry) bool {
	return c.ExtractPath(ctx, e.Source, e.Bag)
}

func (c *Checksum) ExtractPath(ctx context.Context, path string, bag *metadata.Bag) bool {
	hash := state.Checksum
	if c.quick {
		hash = state.QuickChecksum
	}

	sum, size, err := hash(path)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("hashing failed")
		return false
	}

	bag.Set(metadata.KeyChecksum, metadata.Hash(sum))
	bag.SetInt(metadata.KeySize, size)
	return true
}

// 🔍 Prepare looks the content up in the store.
// A hit is stored as DUPLICATE_OF and vetoes the file unless duplicates are allowed.
func (c *Checksum) Prepare(ctx context.Context, e *entry.Entry) bool {
	logger := zerolog.Ctx(ctx)

	store, err := c.open(ctx)
	if err != nil {
		logger.Error().Err(err).Str("src", e.Source).Msg("checksum store unavailable")
		return false
	}

	checksum, size, ok := checksumOf(e)
	if !ok {
		return false
	}

	rec, err := store.Lookup(ctx, checksum, size)
	if err != nil {
		logger.Error().Err(err).Str("src", e.Source).Msg("checksum lookup failed")
		return false
	}
	if rec != nil {
		e.Bag.SetString(metadata.KeyDuplicateOf, rec.Name)
		logger.Debug().Str("src", e.Source).Str("duplicate_of", rec.Name).Msg("content already archived")
		if !e.Effective.DuplicatesAllowed() {
			return false
		}
	}

	if _, ok := e.Bag.FirstTime(metadata.DateKeys...); !ok {
		logger.Debug().Str("src", e.Source).Msg("no content timestamp, cannot index")
		return false
	}
	return true
}

// Close records an archived file under its destination name, so later files of
// the same run already see it. Files that were not put in place leave no record.
// The final close with a nil entry commits the store.
func (c *Checksum) Close(ctx context.Context, e *entry.Entry) error {
	if e == nil {
		return c.commit(ctx)
	}
	if !e.Archived || c.store == nil {
		return nil
	}

	checksum, size, ok := checksumOf(e)
	if !ok {
		return nil
	}
	taken, ok := e.Bag.FirstTime(metadata.DateKeys...)
	if !ok {
		return nil
	}

	err := c.store.Insert(ctx, &state.Record{
		Name:        e.RelativeDestination(),
		Checksum:    checksum,
		Size:        size,
		ContentTime: taken,
	})
	if err != nil {
		return errors.Errorf("recording checksum of %s: %w", e.Source, err)
	}
	return nil
}

func (c *Checksum) commit(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	store := c.store
	c.store = nil
	c.openErr = nil
	return store.Close(ctx)
}

func checksumOf(e *entry.Entry) (string, int64, bool) {
	v, ok := e.Bag.Get(metadata.KeyChecksum)
	if !ok {
		return "", 0, false
	}
	sum, ok := v.AsHash()
	if !ok {
		return "", 0, false
	}
	size, _ := e.Bag.GetInt(metadata.KeySize)
	return state.FormatChecksum(sum), size, true
}

func (c *Checksum) open(ctx context.Context) (*state.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	if c.openErr != nil {
		return nil, c.openErr
	}
	store, err := state.Open(ctx, c.root, c.dryRun)
	if err != nil {
		c.openErr = errors.Errorf("opening checksum store under %s: %w", c.root, err)
		return nil, c.openErr
	}
	c.store = store
	return store, nil
}
