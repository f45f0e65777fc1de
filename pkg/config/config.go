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
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrPresetNotFound is returned when a selector is neither a file nor a built-in preset
	ErrPresetNotFound = errors.Base("config preset not found")
	// ErrNestedMedia is returned when a per-media config declares loaders or media of its own
	ErrNestedMedia = errors.Base("media config must not declare loaders or media")
)

// Exists resolver names
const (
	ResolverGeneric   = "generic"
	ResolverInstagram = "instagram"
)

// OverrideFiles are the destination-local documents merged on top of the selected config
var OverrideFiles = []string{".archiverc.yaml", ".archiverc.yml", ".archiverc.json", ".archiverc.hcl"}

// 📚 Config is one layer of archiving settings. Nil fields are unset and fall through on merge.
type Config struct {
	MoveFiles            *bool              `json:"move_files,omitempty" yaml:"move_files,omitempty"`
	OverrideDestination  *bool              `json:"override_destination,omitempty" yaml:"override_destination,omitempty"`
	DeleteSourceIfExists *bool              `json:"delete_source_if_exists,omitempty" yaml:"delete_source_if_exists,omitempty"`
	Recursive            *bool              `json:"recursive,omitempty" yaml:"recursive,omitempty"`
	DestinationFolder    *string            `json:"destination_folder,omitempty" yaml:"destination_folder,omitempty"`
	DestinationFile      *string            `json:"destination_file,omitempty" yaml:"destination_file,omitempty"`
	SourceFilter         *string            `json:"source_filter,omitempty" yaml:"source_filter,omitempty"`
	DryRun               *bool              `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	MinFreeSpace         *int64             `json:"min_free_space,omitempty" yaml:"min_free_space,omitempty"`
	Rotate               *bool              `json:"rotate,omitempty" yaml:"rotate,omitempty"`
	AllowDuplicates      *bool              `json:"allow_duplicates,omitempty" yaml:"allow_duplicates,omitempty"`
	ExistsResolver       *string            `json:"exists_resolver,omitempty" yaml:"exists_resolver,omitempty"`
	Loaders              []string           `json:"loaders,omitempty" yaml:"loaders,omitempty"`
	Tokens               map[string]string  `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Media                map[string]*Config `json:"media,omitempty" yaml:"media,omitempty"`

	location string
}

// Ptr returns a pointer to v, for building configs in code
func Ptr[T any](v T) *T {
	return &v
}

// 🎯 Load resolves selector: an existing file is parsed, anything else names a built-in preset.
func Load(ctx context.Context, selector string) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	if fi, err := os.Stat(selector); err == nil && !fi.IsDir() {
		logger.Debug().Str("path", selector).Msg("loading configuration file")
		return LoadFile(ctx, selector)
	}

	cfg, err := Preset(ctx, selector)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("preset", selector).Msg("loaded built-in preset")
	return cfg, nil
}

// LoadFile parses the document at path with the parser registered for its extension
func LoadFile(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config %s: %w", path, err)
	}
	cfg.location = path

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// 🗂️ LoadForDestination loads selector and merges the destination-local override on top, when present.
func LoadForDestination(ctx context.Context, selector, destination string) (*Config, error) {
	base, err := Load(ctx, selector)
	if err != nil {
		return nil, err
	}

	for _, name := range OverrideFiles {
		path := filepath.Join(destination, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}

		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("merging destination override")
		override, err := LoadFile(ctx, path)
		if err != nil {
			return nil, err
		}
		return base.Merge(override)
	}

	return base, nil
}

// Location returns the file the config was read from, if any
func (cfg *Config) Location() string {
	if cfg == nil {
		return ""
	}
	return cfg.location
}

// 🔍 Validate checks the config for fatal errors
func (cfg *Config) Validate() error {
	if cfg.MinFreeSpace != nil && *cfg.MinFreeSpace < 0 {
		return errors.Errorf("min_free_space must not be negative")
	}
	if cfg.ExistsResolver != nil {
		switch *cfg.ExistsResolver {
		case "", ResolverGeneric, ResolverInstagram:
		default:
			return errors.Errorf("unknown exists_resolver %q", *cfg.ExistsResolver)
		}
	}
	if cfg.SourceFilter != nil && *cfg.SourceFilter != "" && !doublestar.ValidatePattern(*cfg.SourceFilter) {
		return errors.Errorf("invalid source_filter pattern %q", *cfg.SourceFilter)
	}

	for kind, m := range cfg.Media {
		if m == nil {
			continue
		}
		if len(m.Loaders) > 0 || len(m.Media) > 0 {
			return errors.Errorf("media %q: %w", kind, ErrNestedMedia)
		}
		if err := m.Validate(); err != nil {
			return errors.Errorf("media %q: %w", kind, err)
		}
	}

	return nil
}

// ForMedia returns the effective settings for one media kind.
// Without a matching media entry the config itself is returned.
func (cfg *Config) ForMedia(kind string) (*Config, error) {
	m, ok := cfg.Media[kind]
	if !ok || m == nil {
		return cfg, nil
	}
	if len(m.Loaders) > 0 || len(m.Media) > 0 {
		return nil, errors.Errorf("media %q: %w", kind, ErrNestedMedia)
	}
	return mergeLayers(true, m, cfg)
}

func (cfg *Config) MediaKinds() []string {
	kinds := make([]string, 0, len(cfg.Media))
	for k := range cfg.Media {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func (cfg *Config) Move() bool { return deref(cfg.MoveFiles) }
func (cfg *Config) Overwrite() bool { return deref(cfg.OverrideDestination) }
func (cfg *Config) DeleteSourceOnExist() bool { return deref(cfg.DeleteSourceIfExists) }
func (cfg *Config) IsRecursive() bool { return deref(cfg.Recursive) }
func (cfg *Config) IsDryRun() bool { return deref(cfg.DryRun) }
func (cfg *Config) ShouldRotate() bool { return deref(cfg.Rotate) }
func (cfg *Config) DuplicatesAllowed() bool { return deref(cfg.AllowDuplicates) }
func (cfg *Config) FolderTemplate() string { return deref(cfg.DestinationFolder) }
func (cfg *Config) FileTemplate() string { return deref(cfg.DestinationFile) }
func (cfg *Config) Filter() string { return deref(cfg.SourceFilter) }
func (cfg *Config) FreeSpaceMin() int64 { return deref(cfg.MinFreeSpace) }

// Resolver returns the configured exists resolver, defaulting to generic
func (cfg *Config) Resolver() string {
	if r := deref(cfg.ExistsResolver); r != "" {
		return r
	}
	return ResolverGeneric
}

// MatchesFilter reports whether a source file name passes the source filter
func (cfg *Config) MatchesFilter(name string) bool {
	pattern := cfg.Filter()
	if pattern == "" {
		return true
	}
	ok, err := doublestar.Match(strings.ToLower(pattern), strings.ToLower(name))
	return err == nil && ok
}

// 📝 String returns a short description for logs
func (cfg *Config) String() string {
	mode := "copy"
	if cfg.Move() {
		mode = "move"
	}
	return fmt.Sprintf("%s %s/%s loaders=%v", mode, cfg.FolderTemplate(), cfg.FileTemplate(), cfg.Loaders)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
