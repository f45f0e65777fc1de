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
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// walk visits the files of dir in lexical order, then, when recursive, each
// subdirectory in lexical order. Subdirectories holding the sentinel file and
// the skip directory are left out. fn returning false stops the walk.
func walk(ctx context.Context, dir string, recursive bool, skip string, fn func(path string, err error) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fn(dir, errors.Errorf("reading %s: %w", dir, err))
	}

	var subdirs []string
	for _, de := range entries {
		path := filepath.Join(dir, de.Name())
		switch {
		case de.IsDir():
			subdirs = append(subdirs, path)
		case de.Type().IsRegular():
			if de.Name() == SentinelFile {
				continue
			}
			if !fn(path, nil) {
				return false
			}
		}
	}

	if !recursive {
		return true
	}

	for _, sub := range subdirs {
		if sub == skip {
			continue
		}
		if hasSentinel(sub) {
			zerolog.Ctx(ctx).Debug().Str("dir", sub).Msg("skipping excluded directory")
			continue
		}
		if !walk(ctx, sub, true, skip, fn) {
			return false
		}
	}
	return true
}

func hasSentinel(dir string) bool {
	fi, err := os.Stat(filepath.Join(dir, SentinelFile))
	return err == nil && !fi.IsDir()
}
