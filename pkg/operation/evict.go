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
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/archiverc/pkg/entry"
	"github.com/walteh/archiverc/pkg/fsx"
	"github.com/walteh/archiverc/pkg/status"
)

// JunkPatterns are file names removed along with the directories eviction empties
var JunkPatterns = []string{".DS_Store", "Thumbs.db", "desktop.ini", "._*"}

type candidate struct {
	path string
	size int64
}

// 💾 makeRoom evicts old files when the entry's config asks for free space and the destination is short of it.
// The requirement is the configured minimum, or the size of the file when no minimum is set.
func (a *Archiver) makeRoom(ctx context.Context, e *entry.Entry, emit func(*status.Result) bool) bool {
	logger := zerolog.Ctx(ctx)

	eff := e.Effective
	if !eff.ShouldRotate() && eff.FreeSpaceMin() <= 0 {
		return true
	}

	required := eff.FreeSpaceMin()
	if required <= 0 {
		required = e.Size
	}

	free, err := a.freeSpace(existingAncestor(a.dest))
	if err != nil {
		logger.Warn().Err(err).Str("dest", a.dest).Msg("cannot measure free space, skipping eviction")
		return true
	}
	if a.pretend != nil {
		free += a.pretend.free()
	}
	if free > required {
		return true
	}

	logger.Info().Int64("free", free).Int64("required", required).Msg("destination low on space, evicting")
	return a.evict(ctx, required, emit)
}

// 🗑️ evict deletes destination files oldest-name-first until more than want bytes were reclaimed
// or nothing is left to delete. Individual failures are logged and skipped.
func (a *Archiver) evict(ctx context.Context, want int64, emit func(*status.Result) bool) bool {
	logger := zerolog.Ctx(ctx)
	dry := a.pretend != nil

	var reclaimed int64
	for {
		candidates := a.evictionCandidates(ctx)
		if len(candidates) == 0 {
			return true
		}

		progress := false
		for _, c := range candidates {
			if !dry {
				if err := os.Remove(c.path); err != nil {
					logger.Warn().Err(err).Str("path", c.path).Msg("eviction failed")
					continue
				}
				a.pruneUp(ctx, filepath.Dir(c.path))
			} else {
				a.pretend.remove(c.path)
			}
			progress = true
			reclaimed += c.size

			if !emit(status.NewResult(status.KindDestinationDeleted, "", c.path, status.WithSize(c.size))) {
				return false
			}
			if reclaimed > want {
				return true
			}
		}

		if dry || !progress {
			logger.Warn().Int64("reclaimed", reclaimed).Int64("wanted", want).Msg("eviction ran out of candidates")
			return true
		}
	}
}

// evictionCandidates lists files below the destination's subdirectories in lexical order.
// Root-level files and excluded directories are never candidates.
func (a *Archiver) evictionCandidates(ctx context.Context) []candidate {
	logger := zerolog.Ctx(ctx)

	tops, err := os.ReadDir(a.dest)
	if err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Str("dest", a.dest).Msg("listing destination")
	}

	var out []candidate
	for _, top := range tops {
		if !top.IsDir() {
			continue
		}
		root := filepath.Join(a.dest, top.Name())
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn().Err(err).Str("path", path).Msg("scanning for eviction")
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if hasSentinel(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || d.Name() == SentinelFile || isJunk(d.Name()) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			out = append(out, candidate{path: path, size: info.Size()})
			return nil
		})
		if err != nil {
			logger.Warn().Err(err).Str("dir", root).Msg("scanning for eviction")
		}
	}
	if a.pretend != nil {
		return a.pretend.candidates(a.dest, out)
	}
	return out
}

// pruneUp removes junk files and then the directory itself, walking up
// until a directory still holds something or the destination root is reached.
func (a *Archiver) pruneUp(ctx context.Context, dir string) {
	logger := zerolog.Ctx(ctx)
	prefix := a.dest + string(filepath.Separator)

	for strings.HasPrefix(dir, prefix) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			logger.Warn().Err(err).Str("dir", dir).Msg("pruning")
			return
		}
		for _, de := range entries {
			if de.IsDir() || !isJunk(de.Name()) {
				return
			}
		}
		for _, de := range entries {
			if err := os.Remove(filepath.Join(dir, de.Name())); err != nil {
				logger.Warn().Err(err).Str("path", filepath.Join(dir, de.Name())).Msg("removing junk file")
				return
			}
		}
		if empty, _ := fsx.IsDirEmpty(dir); !empty {
			return
		}
		if err := os.Remove(dir); err != nil {
			logger.Warn().Err(err).Str("dir", dir).Msg("removing empty directory")
			return
		}
		dir = filepath.Dir(dir)
	}
}

func isJunk(name string) bool {
	for _, p := range JunkPatterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

func existingAncestor(path string) string {
	for {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(path)
		if parent == path {
			return path
		}
		path = parent
	}
}
