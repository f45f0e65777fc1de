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
	"context"
	"embed"
	"path"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

//go:embed presets/*.yaml
var presetFS embed.FS

// Presets lists the names of the built-in presets
func Presets() []string {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Preset returns the built-in preset called name
func Preset(ctx context.Context, name string) (*Config, error) {
	if name == "" || strings.ContainsAny(name, `/\.`) {
		return nil, errors.Errorf("%q: %w", name, ErrPresetNotFound)
	}

	data, err := presetFS.ReadFile(path.Join("presets", name+".yaml"))
	if err != nil {
		return nil, errors.Errorf("%q: %w", name, ErrPresetNotFound)
	}

	cfg, err := (&YAMLParser{}).Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing preset %q: %w", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating preset %q: %w", name, err)
	}
	return cfg, nil
}
