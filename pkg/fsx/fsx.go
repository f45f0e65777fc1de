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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// CrossDeviceError is a rename that failed because source and destination live on different filesystems
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("cross-device rename %q -> %q: %v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// IsCrossDevice reports whether err is an EXDEV rename failure
func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// swapped in tests to simulate EXDEV
var renameFunc = os.Rename

// Rename wraps os.Rename and reports EXDEV failures as *CrossDeviceError
func Rename(src, dst string) error {
	if err := renameFunc(src, dst); err != nil {
		if errors.Is(err, syscall.EXDEV) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return err
	}
	return nil
}

// 📦 Copy copies src to dst through a temp file in the destination directory.
// The modification time of src is carried over and an existing dst is replaced.
func Copy(ctx context.Context, src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, errors.Errorf("opening source: %w", err)
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return 0, errors.Errorf("stat source: %w", err)
	}

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, errors.Errorf("creating destination directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return 0, errors.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	n, err := io.Copy(tmp, in)
	if err != nil {
		return n, errors.Errorf("copying %s: %w", src, err)
	}
	if err := tmp.Chmod(fi.Mode().Perm()); err != nil {
		return n, errors.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return n, errors.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return n, errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chtimes(tmpName, fi.ModTime(), fi.ModTime()); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("path", dst).Msg("could not preserve modification time")
	}

	if err := Rename(tmpName, dst); err != nil {
		return n, errors.Errorf("placing %s: %w", dst, err)
	}

	return n, nil
}

// 🚚 Move renames src to dst, falling back to copy and delete across filesystems.
func Move(ctx context.Context, src, dst string) (int64, error) {
	fi, err := os.Stat(src)
	if err != nil {
		return 0, errors.Errorf("stat source: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, errors.Errorf("creating destination directory: %w", err)
	}

	err = Rename(src, dst)
	if err == nil {
		return fi.Size(), nil
	}
	if !IsCrossDevice(err) {
		return 0, errors.Errorf("moving %s: %w", src, err)
	}

	zerolog.Ctx(ctx).Debug().Str("src", src).Str("dst", dst).Msg("cross-device move, copying instead")

	n, err := Copy(ctx, src, dst)
	if err != nil {
		return n, err
	}
	if err := os.Remove(src); err != nil {
		return n, errors.Errorf("removing source after copy: %w", err)
	}
	return n, nil
}

// Exists reports whether path names an existing regular file, and its size
func Exists(path string) (bool, int64) {
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return false, 0
	}
	return true, fi.Size()
}

// IsDirEmpty reports whether dir has no entries
func IsDirEmpty(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}

// ModTime returns the modification time of path, or the zero time
func ModTime(path string) time.Time {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}
