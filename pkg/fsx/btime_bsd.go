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

//go:build darwin || freebsd

package fsx

import (
	"time"

	"golang.org/x/sys/unix"
)

// CreationTime returns the birth time of path, falling back to its modification time
func CreationTime(path string) time.Time {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return ModTime(path)
	}
	if st.Btimespec.Sec > 0 {
		return time.Unix(st.Btimespec.Unix())
	}
	return time.Unix(st.Mtimespec.Unix())
}
