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

package entry

import (
	"os"

	"github.com/walteh/archiverc/pkg/fsx"
)

// 👀 FileView answers what is already at the destination.
// Dry runs use a view that also holds the files they only pretended to write or delete.
type FileView interface {
	// Stat reports whether path is a regular file, and its size
	Stat(path string) (bool, int64)

	// Files lists the names of the regular files directly inside dir, in lexical order
	Files(dir string) []string
}

// DiskView reads the real filesystem
type DiskView struct{}

var _ FileView = DiskView{}

func (DiskView) Stat(path string) (bool, int64) {
	return fsx.Exists(path)
}

func (DiskView) Files(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, de := range entries {
		if de.Type().IsRegular() {
			names = append(names, de.Name())
		}
	}
	return names
}
