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

//go:build linux

package fsx

import (
	"time"

	"golang.org/x/sys/unix"
)

// CreationTime returns the birth time of path when the filesystem records one,
// otherwise its modification time.
func CreationTime(path string) time.Time {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME|unix.STATX_MTIME, &stx)
	if err != nil {
		return ModTime(path)
	}
	if stx.Mask&unix.STATX_BTIME != 0 && stx.Btime.Sec > 0 {
		return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
	}
	return time.Unix(stx.Mtime.Sec, int64(stx.Mtime.Nsec))
}
