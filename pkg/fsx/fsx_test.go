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

package fsx

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func writeFile(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "creating parent")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "writing file")
	require.NoError(t, os.Chtimes(path, mtime, mtime), "setting mtime")
}

func TestCopy(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	mtime := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)

	src := filepath.Join(dir, "src", "a.jpg")
	dst := filepath.Join(dir, "dst", "2021", "03", "a.jpg")
	writeFile(t, src, "hello", mtime)

	n, err := Copy(ctx, src, dst)
	require.NoError(t, err, "copying file")
	assert.Equal(t, int64(5), n, "bytes copied")

	data, err := os.ReadFile(dst)
	require.NoError(t, err, "reading copy")
	assert.Equal(t, "hello", string(data), "copied content")
	assert.True(t, ModTime(dst).Equal(mtime), "mtime preserved, got %v", ModTime(dst))

	ok, _ := Exists(src)
	assert.True(t, ok, "source kept after copy")

	entries, err := os.ReadDir(filepath.Dir(dst))
	require.NoError(t, err, "listing destination")
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestCopyReplacesExisting(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	now := time.Now()

	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	writeFile(t, src, "new content", now)
	writeFile(t, dst, "old", now)

	_, err := Copy(ctx, src, dst)
	require.NoError(t, err, "copying over existing file")

	ok, size := Exists(dst)
	assert.True(t, ok, "destination exists")
	assert.Equal(t, int64(len("new content")), size, "destination replaced")
}

func TestMove(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()

	src := filepath.Join(dir, "a.mp4")
	dst := filepath.Join(dir, "out", "a.mp4")
	writeFile(t, src, "video", time.Now())

	n, err := Move(ctx, src, dst)
	require.NoError(t, err, "moving file")
	assert.Equal(t, int64(5), n, "bytes moved")

	ok, _ := Exists(src)
	assert.False(t, ok, "source gone after move")
	ok, _ = Exists(dst)
	assert.True(t, ok, "destination present after move")
}

func TestMoveCrossDevice(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()

	src := filepath.Join(dir, "a.mp4")
	dst := filepath.Join(dir, "out", "a.mp4")
	writeFile(t, src, "video", time.Now())

	calls := 0
	old := renameFunc
	renameFunc = func(oldpath, newpath string) error {
		calls++
		if calls == 1 {
			return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
		}
		return os.Rename(oldpath, newpath)
	}
	defer func() { renameFunc = old }()

	_, err := Move(ctx, src, dst)
	require.NoError(t, err, "cross-device move falls back to copy")

	ok, _ := Exists(src)
	assert.False(t, ok, "source removed after fallback copy")
	data, err := os.ReadFile(dst)
	require.NoError(t, err, "reading destination")
	assert.Equal(t, "video", string(data), "content carried over")
}

func TestRenameCrossDevice(t *testing.T) {
	old := renameFunc
	renameFunc = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}
	defer func() { renameFunc = old }()

	err := Rename("/a", "/b")
	require.Error(t, err, "rename should fail")
	assert.True(t, IsCrossDevice(err), "error should be CrossDeviceError, got %T", err)
}

func TestIsDirEmpty(t *testing.T) {
	dir := t.TempDir()

	empty, err := IsDirEmpty(dir)
	require.NoError(t, err, "checking empty dir")
	assert.True(t, empty, "fresh temp dir is empty")

	writeFile(t, filepath.Join(dir, "x"), "", time.Now())
	empty, err = IsDirEmpty(dir)
	require.NoError(t, err, "checking non-empty dir")
	assert.False(t, empty, "dir with a file is not empty")
}

func TestCreationTimeFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	writeFile(t, path, "x", time.Now())

	got := CreationTime(path)
	assert.False(t, got.IsZero(), "creation time resolved")
	assert.True(t, CreationTime(filepath.Join(t.TempDir(), "missing")).IsZero(), "missing file yields zero time")
}
