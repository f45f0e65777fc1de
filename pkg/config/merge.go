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

package config

import (
	"sort"

	"gitlab.com/tozd/go/errors"
)

// 🔀 Merge layers other on top of cfg, with an optional fallback underneath.
// For every field the first set value among (other, cfg, fallback) wins;
// media entries are merged key by key, one level deep. At the media level
// loaders and media maps are dropped.
func (cfg *Config) Merge(other *Config, fallback ...*Config) (*Config, error) {
	if len(fallback) > 1 {
		return nil, errors.Errorf("merge takes at most one fallback, got %d", len(fallback))
	}
	layers := append([]*Config{other, cfg}, fallback...)
	return mergeLayers(false, layers...)
}

func mergeLayers(nested bool, layers ...*Config) (*Config, error) {
	out := &Config{}

	for _, l := range layers {
		if l == nil {
			continue
		}
		out.MoveFiles = first(out.MoveFiles, l.MoveFiles)
		out.OverrideDestination = first(out.OverrideDestination, l.OverrideDestination)
		out.DeleteSourceIfExists = first(out.DeleteSourceIfExists, l.DeleteSourceIfExists)
		out.Recursive = first(out.Recursive, l.Recursive)
		out.DestinationFolder = first(out.DestinationFolder, l.DestinationFolder)
		out.DestinationFile = first(out.DestinationFile, l.DestinationFile)
		out.SourceFilter = first(out.SourceFilter, l.SourceFilter)
		out.DryRun = first(out.DryRun, l.DryRun)
		out.MinFreeSpace = first(out.MinFreeSpace, l.MinFreeSpace)
		out.Rotate = first(out.Rotate, l.Rotate)
		out.AllowDuplicates = first(out.AllowDuplicates, l.AllowDuplicates)
		out.ExistsResolver = first(out.ExistsResolver, l.ExistsResolver)
		if out.Tokens == nil && len(l.Tokens) > 0 {
			out.Tokens = l.Tokens
		}
		if out.location == "" {
			out.location = l.location
		}

		if nested {
			continue
		}
		if out.Loaders == nil && len(l.Loaders) > 0 {
			out.Loaders = l.Loaders
		}
	}

	if nested {
		return out, nil
	}

	media, err := mergeMedia(layers)
	if err != nil {
		return nil, err
	}
	out.Media = media

	return out, nil
}

func mergeMedia(layers []*Config) (map[string]*Config, error) {
	seen := map[string]bool{}
	for _, l := range layers {
		if l == nil {
			continue
		}
		for k := range l.Media {
			seen[k] = true
		}
	}
	if len(seen) == 0 {
		return nil, nil
	}

	kinds := make([]string, 0, len(seen))
	for k := range seen {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	out := make(map[string]*Config, len(kinds))
	for _, kind := range kinds {
		entries := make([]*Config, 0, len(layers))
		for _, l := range layers {
			if l == nil || l.Media[kind] == nil {
				continue
			}
			m := l.Media[kind]
			if len(m.Loaders) > 0 || len(m.Media) > 0 {
				return nil, errors.Errorf("media %q: %w", kind, ErrNestedMedia)
			}
			entries = append(entries, m)
		}
		merged, err := mergeLayers(true, entries...)
		if err != nil {
			return nil, errors.Errorf("media %q: %w", kind, err)
		}
		out[kind] = merged
	}

	return out, nil
}

func first[T any](current, candidate *T) *T {
	if current != nil {
		return current
	}
	return candidate
}
