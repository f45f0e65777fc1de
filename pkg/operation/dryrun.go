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

package operation

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/walteh/archiverc/pkg/entry"
)

// 🎭 pretendView is the destination as a dry run would have left it.
// Writes and evictions are recorded here instead of on disk.
type pretendView struct {
	disk    entry.DiskView
	written map[string]int64
	removed map[string]bool

	// used and reclaimed are net byte counts, applied to measured free space
	used      int64
	reclaimed int64
}

var _ entry.FileView = (*pretendView)(nil)

func newPretendView() *pretendView {
	return &pretendView{
		written: make(map[string]int64),
		removed: make(map[string]bool),
	}
}

func (v *pretendView) Stat(path string) (bool, int64) {
	if size, ok := v.written[path]; ok {
		return true, size
	}
	if v.removed[path] {
		return false, 0
	}
	return v.disk.Stat(path)
}

func (v *pretendView) Files(dir string) []string {
	var names []string
	for _, name := range v.disk.Files(dir) {
		if !v.removed[filepath.Join(dir, name)] {
			names = append(names, name)
		}
	}
	for path := range v.written {
		if filepath.Dir(path) == dir && !slices.Contains(names, filepath.Base(path)) {
			names = append(names, filepath.Base(path))
		}
	}
	slices.Sort(names)
	return names
}

// free is the space the pretended operations would have changed
func (v *pretendView) free() int64 {
	return v.reclaimed - v.used
}

func (v *pretendView) write(path string, size int64) {
	_, prev := v.Stat(path)
	v.used += size - prev
	v.written[path] = size
	delete(v.removed, path)
}

func (v *pretendView) remove(path string) {
	ok, size := v.Stat(path)
	if !ok {
		return
	}
	v.reclaimed += size
	delete(v.written, path)
	v.removed[path] = true
}

// candidates merges on-disk candidates with pretended writes under dest's subdirectories,
// in the order a directory walk would return them.
func (v *pretendView) candidates(dest string, disk []candidate) []candidate {
	sizes := make(map[string]int64, len(disk)+len(v.written))
	for _, c := range disk {
		if !v.removed[c.path] {
			sizes[c.path] = c.size
		}
	}
	for path, size := range v.written {
		if filepath.Dir(path) == dest || excluded(dest, path) {
			continue
		}
		sizes[path] = size
	}

	out := make([]candidate, 0, len(sizes))
	for path, size := range sizes {
		out = append(out, candidate{path: path, size: size})
	}
	slices.SortFunc(out, func(a, b candidate) int {
		return slices.Compare(strings.Split(a.path, string(filepath.Separator)), strings.Split(b.path, string(filepath.Separator)))
	})
	return out
}

// excluded reports whether eviction would never reach path below dest
func excluded(dest, path string) bool {
	name := filepath.Base(path)
	if name == SentinelFile || isJunk(name) {
		return true
	}
	prefix := dest + string(filepath.Separator)
	for dir := filepath.Dir(path); strings.HasPrefix(dir, prefix); dir = filepath.Dir(dir) {
		if hasSentinel(dir) {
			return true
		}
	}
	return false
}
