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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/archiverc/pkg/config"
	"github.com/walteh/archiverc/pkg/entry"
	"github.com/walteh/archiverc/pkg/exif"
	"github.com/walteh/archiverc/pkg/metadata"
	"gitlab.com/tozd/go/errors"
)

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, path string) (*exif.Tags, error) {
	args := m.Called(ctx, path)
	tags, _ := args.Get(0).(*exif.Tags)
	return tags, args.Error(1)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func writeFile(t *testing.T, path, content string, mtime time.Time) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "creating parent")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "writing %s", path)
	require.NoError(t, os.Chtimes(path, mtime, mtime), "setting mtime")
	return path
}

func TestRegistry(t *testing.T) {
	ctx := testContext(t)
	r := NewRegistry(Deps{DestRoot: t.TempDir(), Extractor: &mockExtractor{}})

	assert.Equal(t, []string{"checksum", "default", "exif", "instagram", "quickchecksum"}, r.Names(), "built-in loaders")

	a, err := r.Get(ctx, NameDefault)
	require.NoError(t, err, "getting default loader")
	b, err := r.Get(ctx, NameDefault)
	require.NoError(t, err, "getting default loader again")
	assert.Same(t, a, b, "instances are cached per registry")

	other := NewRegistry(Deps{DestRoot: t.TempDir()})
	c, err := other.Get(ctx, NameDefault)
	require.NoError(t, err, "getting from another registry")
	assert.NotSame(t, a, c, "registries do not share instances")

	_, err = r.Resolve(ctx, []string{NameDefault, "bogus"})
	assert.True(t, errors.Is(err, ErrUnknownLoader), "unknown name fails, got %v", err)

	loaders, err := r.Resolve(ctx, []string{NameExif, NameDefault})
	require.NoError(t, err, "resolving list")
	require.Len(t, loaders, 2, "one loader per name")
	assert.Equal(t, NameExif, loaders[0].Name(), "order kept")

	assert.NoError(t, r.Close(ctx), "closing registry")
}

func TestDefaultLoader(t *testing.T) {
	ctx := testContext(t)
	mtime := time.Date(2020, 2, 3, 4, 5, 6, 0, time.UTC)
	path := writeFile(t, filepath.Join(t.TempDir(), "clip.MOV"), "data", mtime)

	bag := metadata.NewBag()
	require.True(t, NewDefault().ExtractPath(ctx, path, bag), "default never vetoes")

	mod, ok := bag.FirstTime(metadata.KeyFileModified)
	require.True(t, ok, "modified time recorded")
	assert.True(t, mod.Equal(mtime), "modified time")
	assert.True(t, bag.Has(metadata.KeyFileCreated), "created time recorded")

	kind, _ := bag.GetString(metadata.KeyMediaKind)
	assert.Equal(t, "video", kind, "kind from extension")
	_, ok = bag.GetString(metadata.KeyYear)
	assert.True(t, ok, "date tokens derived")
}

func TestDefaultPrepareOverwrite(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		dst       string
		overwrite bool
		want      bool
	}{
		{name: "sizes_differ", src: "longer", dst: "short", overwrite: true, want: true},
		{name: "same_size_kept", src: "abcd", dst: "wxyz", overwrite: true, want: false},
		{name: "not_requested", src: "longer", dst: "short", overwrite: false, want: false},
		{name: "empty_source", src: "", dst: "short", overwrite: true, want: false},
		{name: "no_destination", src: "longer", overwrite: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			now := time.Now()
			src := writeFile(t, filepath.Join(t.TempDir(), "a.jpg"), tt.src, now)
			dest := t.TempDir()
			if tt.dst != "" {
				writeFile(t, filepath.Join(dest, "a.jpg"), tt.dst, now)
			}

			cfg := &config.Config{OverrideDestination: config.Ptr(tt.overwrite)}
			e := entry.New(src, dest, cfg, []entry.Loader{NewDefault()})
			require.NoError(t, e.Load(ctx), "loading entry")
			require.True(t, e.Valid, "entry valid")
			assert.Equal(t, tt.want, e.MayOverwrite, "overwrite flag")
		})
	}
}

func TestExifLoader(t *testing.T) {
	ctx := testContext(t)
	taken := time.Date(2018, 8, 9, 10, 11, 12, 0, time.UTC)

	t.Run("tags_copied", func(t *testing.T) {
		m := &mockExtractor{}
		m.On("Extract", mock.Anything, "/photos/a.nef").Return(&exif.Tags{
			MIME:  "image/tiff",
			Kind:  metadata.MediaRaw,
			Maker: "NIKON",
			Model: "Z 6",
			Taken: taken,
		}, nil).Once()

		bag := metadata.NewBag()
		assert.True(t, NewExif(m).ExtractPath(ctx, "/photos/a.nef", bag), "exif never vetoes")
		m.AssertExpectations(t)

		maker, _ := bag.GetString(metadata.KeyCameraMaker)
		lens, _ := bag.GetString(metadata.KeyLens)
		kind, _ := bag.GetString(metadata.KeyMediaKind)
		year, _ := bag.GetString(metadata.KeyYear)
		assert.Equal(t, "NIKON", maker, "maker")
		assert.Equal(t, Unknown, lens, "missing tag defaults to Unknown")
		assert.Equal(t, "raw", kind, "kind from tags")
		assert.Equal(t, "2018", year, "year from capture time")
	})

	t.Run("failure_does_not_veto", func(t *testing.T) {
		m := &mockExtractor{}
		m.On("Extract", mock.Anything, mock.Anything).Return(nil, errors.New("unreadable")).Once()

		bag := metadata.NewBag()
		bag.SetString(metadata.KeyMediaKind, "image")
		assert.True(t, NewExif(m).ExtractPath(ctx, "/photos/b.jpg", bag), "exif never vetoes")

		model, _ := bag.GetString(metadata.KeyCameraModel)
		kind, _ := bag.GetString(metadata.KeyMediaKind)
		assert.Equal(t, Unknown, model, "unknown model")
		assert.Equal(t, "image", kind, "earlier kind kept")
		assert.False(t, bag.Has(metadata.KeyDateTaken), "no capture time")
	})
}

func TestInstagramLoader(t *testing.T) {
	ctx := testContext(t)

	t.Run("valid_name", func(t *testing.T) {
		bag := metadata.NewBag()
		ok := NewInstagram().ExtractPath(ctx, "/in/kendythefairy_1736177739_3539637887764580061_53168312232.jpg", bag)
		require.True(t, ok, "valid name accepted")

		user, _ := bag.GetString(metadata.KeyUsername)
		uid, _ := bag.GetInt(metadata.KeyUserID)
		cid, _ := bag.GetInt(metadata.KeyContentID)
		post, ok := bag.FirstTime(metadata.KeyPostTime)
		assert.Equal(t, "kendythefairy", user, "username")
		assert.Equal(t, int64(53168312232), uid, "user id")
		assert.Equal(t, int64(3539637887764580061), cid, "content id")
		require.True(t, ok, "post time")
		assert.Equal(t, int64(1736177739), post.Unix(), "post time")
	})

	t.Run("invalid_name_vetoes", func(t *testing.T) {
		assert.False(t, NewInstagram().ExtractPath(ctx, "/in/caca_9_8_7.kk", metadata.NewBag()), "invalid name rejected")
	})
}

func TestInstagramPrepareDeleteSource(t *testing.T) {
	name := "user_1736177739_3539637887764580061_53168312232.jpg"

	tests := []struct {
		name      string
		src       string
		dst       string
		requested bool
		want      bool
	}{
		{name: "destination_larger", src: "abc", dst: "abcdef", requested: true, want: true},
		{name: "destination_equal", src: "abc", dst: "xyz", requested: true, want: true},
		{name: "destination_smaller", src: "abcdef", dst: "abc", requested: true, want: false},
		{name: "not_requested", src: "abc", dst: "abcdef", requested: false, want: false},
		{name: "no_destination", src: "abc", requested: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			now := time.Now()
			src := writeFile(t, filepath.Join(t.TempDir(), name), tt.src, now)
			dest := t.TempDir()
			if tt.dst != "" {
				writeFile(t, filepath.Join(dest, "user", name), tt.dst, now)
			}

			cfg := &config.Config{
				DestinationFolder:    config.Ptr("{USERNAME}"),
				DeleteSourceIfExists: config.Ptr(tt.requested),
			}
			e := entry.New(src, dest, cfg, []entry.Loader{NewInstagram()})
			require.NoError(t, e.Load(ctx), "loading entry")
			require.True(t, e.Valid, "entry valid: %s", e.Reason)
			assert.Equal(t, tt.want, e.DeleteSourceIfExists, "delete-source flag")
		})
	}
}

func TestChecksumLoader(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	dest := t.TempDir()
	mtime := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	a := writeFile(t, filepath.Join(srcDir, "a.jpg"), "identical", mtime)
	b := writeFile(t, filepath.Join(srcDir, "b.jpg"), "identical", mtime)
	c := writeFile(t, filepath.Join(srcDir, "c.jpg"), "different", mtime)

	cfg := &config.Config{DestinationFolder: config.Ptr("{EXT}")}
	r := NewRegistry(Deps{DestRoot: dest})
	loaders, err := r.Resolve(ctx, []string{NameDefault, NameChecksum})
	require.NoError(t, err, "resolving loaders")

	load := func(path string) *entry.Entry {
		e := entry.New(path, dest, cfg, loaders)
		require.NoError(t, e.Load(ctx), "loading %s", path)
		e.Archived = e.Valid
		e.Close(ctx)
		return e
	}

	first := load(a)
	assert.True(t, first.Valid, "first copy accepted")

	dup := load(b)
	assert.False(t, dup.Valid, "identical content rejected")
	name, ok := dup.DuplicateOf()
	require.True(t, ok, "duplicate reference recorded")
	assert.Equal(t, "jpg/a.jpg", name, "points at the first file's destination name")

	assert.True(t, load(c).Valid, "different content accepted")

	require.NoError(t, r.Close(ctx), "committing store")

	// a later run still knows about a.jpg
	r2 := NewRegistry(Deps{DestRoot: dest})
	loaders, err = r2.Resolve(ctx, []string{NameDefault, NameChecksum})
	require.NoError(t, err, "resolving loaders again")
	again := load(b)
	assert.False(t, again.Valid, "duplicate across runs")
	require.NoError(t, r2.Close(ctx), "closing second run")
}

func TestChecksumAllowDuplicates(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	dest := t.TempDir()
	now := time.Now()

	a := writeFile(t, filepath.Join(srcDir, "a.jpg"), "same", now)
	b := writeFile(t, filepath.Join(srcDir, "b.jpg"), "same", now)

	cfg := &config.Config{AllowDuplicates: config.Ptr(true)}
	r := NewRegistry(Deps{DestRoot: dest, DryRun: true})
	defer r.Close(ctx)
	loaders, err := r.Resolve(ctx, []string{NameDefault, NameQuickChecksum})
	require.NoError(t, err, "resolving loaders")

	e1 := entry.New(a, dest, cfg, loaders)
	require.NoError(t, e1.Load(ctx), "loading a")
	e1.Archived = true
	e1.Close(ctx)
	e2 := entry.New(b, dest, cfg, loaders)
	require.NoError(t, e2.Load(ctx), "loading b")

	assert.True(t, e2.Valid, "duplicates allowed")
	name, ok := e2.DuplicateOf()
	assert.True(t, ok, "duplicate still noted")
	assert.Equal(t, "a.jpg", name, "reference to first")
}

func TestChecksumSkipsUnarchived(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	dest := t.TempDir()
	now := time.Now()

	a := writeFile(t, filepath.Join(srcDir, "a.jpg"), "same", now)
	b := writeFile(t, filepath.Join(srcDir, "b.jpg"), "same", now)

	r := NewRegistry(Deps{DestRoot: dest})
	defer r.Close(ctx)
	loaders, err := r.Resolve(ctx, []string{NameDefault, NameChecksum})
	require.NoError(t, err, "resolving loaders")

	failed := entry.New(a, dest, &config.Config{}, loaders)
	require.NoError(t, failed.Load(ctx), "loading a")
	require.True(t, failed.Valid, "a accepted")
	failed.Close(ctx)

	next := entry.New(b, dest, &config.Config{}, loaders)
	require.NoError(t, next.Load(ctx), "loading b")
	assert.True(t, next.Valid, "content of a file that never landed is not a duplicate")
	_, ok := next.DuplicateOf()
	assert.False(t, ok, "no duplicate reference")
}
