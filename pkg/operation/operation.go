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
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/archiverc/pkg/config"
	"github.com/walteh/archiverc/pkg/entry"
	"github.com/walteh/archiverc/pkg/exif"
	"github.com/walteh/archiverc/pkg/fsx"
	"github.com/walteh/archiverc/pkg/loader"
	"github.com/walteh/archiverc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// ErrSourceNotFound is returned when a source folder does not exist
var ErrSourceNotFound = errors.Base("source folder not found")

const (
	// SentinelFile excludes its directory from scanning and eviction
	SentinelFile = ".archiverc-ignore"
	// AutoSource asks for attached camera volumes to be discovered
	AutoSource = "auto"
)

// 🔧 Options configures an Archiver
type Options struct {
	// Config is the merged run config
	Config *config.Config
	// Destination is the archive root
	Destination string
	// Extractor overrides the tag reader used by the exif loader
	Extractor exif.Extractor
	// FreeSpace overrides how free space is measured
	FreeSpace func(path string) (int64, error)
	// VolumeRoots overrides where removable volumes are looked for
	VolumeRoots []string
}

// 🗄️ Archiver archives source folders into one destination
type Archiver struct {
	cfg         *config.Config
	dest        string
	registry    *loader.Registry
	freeSpace   func(path string) (int64, error)
	volumeRoots []string
	stats       *status.Stats

	// view is what entries see at the destination; pretend is set only on dry runs
	view    entry.FileView
	pretend *pretendView
}

// 🏭 New creates an archiver for opts.Destination
func New(ctx context.Context, opts Options) (*Archiver, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Destination == "" {
		return nil, errors.Errorf("destination is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	dest, err := filepath.Abs(opts.Destination)
	if err != nil {
		return nil, errors.Errorf("resolving destination: %w", err)
	}
	if fi, err := os.Stat(dest); err == nil && !fi.IsDir() {
		return nil, errors.Errorf("destination %s is not a directory", dest)
	}

	freeSpace := opts.FreeSpace
	if freeSpace == nil {
		freeSpace = fsx.FreeSpace
	}
	roots := opts.VolumeRoots
	if roots == nil {
		roots = DefaultVolumeRoots()
	}

	a := &Archiver{
		cfg:  opts.Config,
		dest: dest,
		registry: loader.NewRegistry(loader.Deps{
			DestRoot:  dest,
			DryRun:    opts.Config.IsDryRun(),
			Extractor: opts.Extractor,
		}),
		freeSpace:   freeSpace,
		volumeRoots: roots,
		stats:       status.NewStats(),
		view:        entry.DiskView{},
	}
	if opts.Config.IsDryRun() {
		a.pretend = newPretendView()
		a.view = a.pretend
	}
	return a, nil
}

// Destination returns the absolute archive root
func (a *Archiver) Destination() string {
	return a.dest
}

// Stats returns the counters accumulated so far
func (a *Archiver) Stats() *status.Stats {
	return a.stats
}

// 🏃 Run checks the sources and returns the lazy result stream.
// Sources are processed one after another in the given order.
func (a *Archiver) Run(ctx context.Context, sources []string) (iter.Seq[*status.Result], error) {
	runLogger := zerolog.Ctx(ctx).With().Str("run_id", uuid.NewString()).Logger()
	ctx = runLogger.WithContext(ctx)
	logger := &runLogger

	folders, err := a.resolveSources(ctx, sources)
	if err != nil {
		return nil, err
	}

	loaders, err := a.registry.Resolve(ctx, a.cfg.Loaders)
	if err != nil {
		return nil, errors.Errorf("resolving loaders: %w", err)
	}

	logger.Info().
		Strs("sources", folders).
		Str("destination", a.dest).
		Bool("dry_run", a.cfg.IsDryRun()).
		Str("config", a.cfg.String()).
		Msg("starting archive run")

	return func(yield func(*status.Result) bool) {
		started := time.Now()
		defer func() {
			a.stats.Elapsed += time.Since(started)
			if err := a.registry.Close(ctx); err != nil {
				logger.Error().Err(err).Msg("finishing run")
			}
		}()

		emit := func(r *status.Result) bool {
			a.stats.Add(r)
			logger.Debug().Str("kind", r.Kind().String()).Str("src", r.Source()).Str("dst", r.Path()).Msg("result")
			return yield(r)
		}

		for _, folder := range folders {
			if !a.folder(ctx, folder, loaders, emit) {
				return
			}
		}
	}, nil
}

func (a *Archiver) resolveSources(ctx context.Context, sources []string) ([]string, error) {
	if len(sources) == 0 {
		return nil, errors.Errorf("at least one source is required")
	}

	var folders []string
	for _, src := range sources {
		if src == AutoSource {
			found, err := DiscoverVolumes(ctx, a.volumeRoots)
			if err != nil {
				return nil, err
			}
			if len(found) == 0 {
				return nil, errors.Errorf("no removable media found under %v: %w", a.volumeRoots, ErrSourceNotFound)
			}
			folders = append(folders, found...)
			continue
		}

		abs, err := filepath.Abs(src)
		if err != nil {
			return nil, errors.Errorf("resolving source %s: %w", src, err)
		}
		fi, err := os.Stat(abs)
		if err != nil || !fi.IsDir() {
			return nil, errors.Errorf("%s: %w", src, ErrSourceNotFound)
		}
		folders = append(folders, abs)
	}
	return folders, nil
}

// folder processes every file under root. It returns false once the consumer stops.
func (a *Archiver) folder(ctx context.Context, root string, loaders []entry.Loader, emit func(*status.Result) bool) bool {
	return walk(ctx, root, a.cfg.IsRecursive(), a.dest, func(path string, err error) bool {
		if ctx.Err() != nil {
			return false
		}
		if err != nil {
			return emit(status.NewResult(status.KindError, path, "", status.WithError(err)))
		}
		return a.file(ctx, path, loaders, emit)
	})
}

// 📄 file runs one source file through the pipeline and acts on the decision
func (a *Archiver) file(ctx context.Context, src string, loaders []entry.Loader, emit func(*status.Result) bool) bool {
	e := entry.New(src, a.dest, a.cfg, loaders)
	e.View = a.view
	defer e.Close(ctx)

	if err := e.Load(ctx); err != nil {
		return emit(status.NewResult(status.KindError, src, "", status.WithError(err), status.WithEntry(e)))
	}

	if !e.Valid {
		if dup, ok := e.DuplicateOf(); ok {
			return emit(status.NewResult(status.KindAlreadyExists, src, filepath.Join(a.dest, filepath.FromSlash(dup)),
				status.WithMessage("duplicate of "+dup), status.WithEntry(e)))
		}
		return emit(status.NewResult(status.KindInvalid, src, "", status.WithMessage(e.Reason), status.WithEntry(e)))
	}

	switch e.Decide() {
	case entry.ActionSkip:
		return emit(status.NewResult(status.KindAlreadyExists, src, e.ExistingPath(), status.WithEntry(e)))
	case entry.ActionDeleteSource:
		return emit(a.deleteSource(ctx, e))
	}

	if !a.makeRoom(ctx, e, emit) {
		return false
	}
	return emit(a.transfer(ctx, e))
}

func (a *Archiver) deleteSource(ctx context.Context, e *entry.Entry) *status.Result {
	if !a.cfg.IsDryRun() {
		if err := os.Remove(e.Source); err != nil {
			return status.NewResult(status.KindError, e.Source, e.ExistingPath(),
				status.WithError(errors.Errorf("deleting source: %w", err)), status.WithEntry(e))
		}
	}
	return status.NewResult(status.KindSourceDeleted, e.Source, e.ExistingPath(), status.WithSize(e.Size), status.WithEntry(e))
}

// 🚚 transfer copies or moves the entry into place.
// An existing destination at the same path is replaced by the final rename.
func (a *Archiver) transfer(ctx context.Context, e *entry.Entry) *status.Result {
	logger := zerolog.Ctx(ctx)

	overwrite := e.Decide() == entry.ActionOverwrite
	e.Updated = overwrite

	kind := status.KindCopied
	switch {
	case e.Move && overwrite:
		kind = status.KindMovedWithOverwrite
	case e.Move:
		kind = status.KindMoved
	case overwrite:
		kind = status.KindCopiedWithOverwrite
	}

	if a.pretend != nil {
		logger.Debug().Str("src", e.Source).Str("dst", e.Destination).Str("kind", kind.String()).Msg("dry run, not transferring")
		if overwrite && e.ExistingPath() != e.Destination {
			a.pretend.remove(e.ExistingPath())
		}
		a.pretend.write(e.Destination, e.Size)
		e.Archived = true
		return status.NewResult(kind, e.Source, e.Destination, status.WithSize(e.Size), status.WithEntry(e))
	}

	if overwrite && e.ExistingPath() != e.Destination {
		if err := os.Remove(e.ExistingPath()); err != nil && !os.IsNotExist(err) {
			return status.NewResult(status.KindError, e.Source, e.Destination,
				status.WithError(errors.Errorf("removing previous copy: %w", err)), status.WithEntry(e))
		}
	}

	var err error
	if e.Move {
		_, err = fsx.Move(ctx, e.Source, e.Destination)
	} else {
		_, err = fsx.Copy(ctx, e.Source, e.Destination)
	}
	if err != nil {
		return status.NewResult(status.KindError, e.Source, e.Destination, status.WithError(err), status.WithEntry(e))
	}
	e.Archived = true

	return status.NewResult(kind, e.Source, e.Destination, status.WithSize(e.Size), status.WithEntry(e))
}
