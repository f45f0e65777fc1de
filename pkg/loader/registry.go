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

package loader

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"github.com/walteh/archiverc/pkg/entry"
	"github.com/walteh/archiverc/pkg/exif"
	"gitlab.com/tozd/go/errors"
)

// ErrUnknownLoader is returned for a loader name nothing is registered under
var ErrUnknownLoader = errors.Base("unknown loader")

// Built-in loader names
const (
	NameDefault       = "default"
	NameExif          = "exif"
	NameInstagram     = "instagram"
	NameChecksum      = "checksum"
	NameQuickChecksum = "quickchecksum"
)

// Deps is what factories may need to build a loader for one destination
type Deps struct {
	DestRoot  string
	DryRun    bool
	Extractor exif.Extractor
}

// 🏭 Factory creates a loader
type Factory func(ctx context.Context, deps Deps) (entry.Loader, error)

// 🗺️ Registry maps loader names to factories and caches one instance per name.
// A registry belongs to a single run against a single destination.
type Registry struct {
	deps      Deps
	factories map[string]Factory
	instances map[string]entry.Loader
	order     []string
}

// NewRegistry returns a registry with the built-in loaders registered
func NewRegistry(deps Deps) *Registry {
	if deps.Extractor == nil {
		deps.Extractor = exif.NewReader()
	}
	r := &Registry{
		deps:      deps,
		factories: make(map[string]Factory),
		instances: make(map[string]entry.Loader),
	}
	r.Register(NameDefault, func(ctx context.Context, d Deps) (entry.Loader, error) { return NewDefault(), nil })
	r.Register(NameExif, func(ctx context.Context, d Deps) (entry.Loader, error) { return NewExif(d.Extractor), nil })
	r.Register(NameInstagram, func(ctx context.Context, d Deps) (entry.Loader, error) { return NewInstagram(), nil })
	r.Register(NameChecksum, func(ctx context.Context, d Deps) (entry.Loader, error) {
		return NewChecksum(d.DestRoot, d.DryRun, false), nil
	})
	r.Register(NameQuickChecksum, func(ctx context.Context, d Deps) (entry.Loader, error) {
		return NewChecksum(d.DestRoot, d.DryRun, true), nil
	})
	return r
}

// 📝 Register adds or replaces a factory
func (r *Registry) Register(name string, factory Factory) {
	r.factories[name] = factory
}

// Names lists the registered loader names
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// 🎯 Get returns the cached loader for name, building it on first use
func (r *Registry) Get(ctx context.Context, name string) (entry.Loader, error) {
	if l, ok := r.instances[name]; ok {
		return l, nil
	}

	factory, ok := r.factories[name]
	if !ok {
		return nil, errors.Errorf("%q: %w", name, ErrUnknownLoader)
	}

	l, err := factory(ctx, r.deps)
	if err != nil {
		return nil, errors.Errorf("creating loader %q: %w", name, err)
	}

	zerolog.Ctx(ctx).Debug().Str("loader", name).Msg("loader created")
	r.instances[name] = l
	r.order = append(r.order, name)
	return l, nil
}

// Resolve returns the loaders for names, in order
func (r *Registry) Resolve(ctx context.Context, names []string) ([]entry.Loader, error) {
	loaders := make([]entry.Loader, 0, len(names))
	for _, n := range names {
		l, err := r.Get(ctx, n)
		if err != nil {
			return nil, err
		}
		loaders = append(loaders, l)
	}
	return loaders, nil
}

// 🏁 Close signals end of run to every loader built so far, most recent first.
// Every loader is closed even if one fails; the first error is returned.
func (r *Registry) Close(ctx context.Context) error {
	var first error
	for i := len(r.order) - 1; i >= 0; i-- {
		name := r.order[i]
		if err := r.instances[name].Close(ctx, nil); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("loader", name).Msg("closing loader")
			if first == nil {
				first = errors.Errorf("closing loader %q: %w", name, err)
			}
		}
	}
	r.instances = make(map[string]entry.Loader)
	r.order = nil
	return first
}
