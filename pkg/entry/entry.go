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
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/archiverc/pkg/config"
	"github.com/walteh/archiverc/pkg/metadata"
	"github.com/walteh/archiverc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// Action is what the engine should do with a valid entry
type Action int

const (
	// ActionWrite transfers into a free destination
	ActionWrite Action = iota
	// ActionOverwrite removes the existing destination and transfers
	ActionOverwrite
	// ActionDeleteSource removes the source only, the destination already holds it
	ActionDeleteSource
	// ActionSkip leaves both sides alone
	ActionSkip
)

func (a Action) String() string {
	switch a {
	case ActionWrite:
		return "write"
	case ActionOverwrite:
		return "overwrite"
	case ActionDeleteSource:
		return "delete-source"
	case ActionSkip:
		return "skip"
	}
	return "unknown"
}

// 📄 Entry is everything known about one candidate file during a run
type Entry struct {
	Source   string
	DestRoot string

	// Config is the run config, Effective the one specialised for this file's media kind
	Config    *config.Config
	Effective *config.Config

	Bag  *metadata.Bag
	Size int64

	// Destination is the computed target path, Existing the file the exists check matched
	Destination       string
	Existing          string
	DestinationExists bool

	Valid  bool
	Reason string

	Move                 bool
	MayOverwrite         bool
	DeleteSourceIfExists bool
	Updated              bool

	// Archived is set by the engine once the file is in place at Destination
	Archived bool

	// View is consulted for everything already at the destination
	View FileView

	loaders  []Loader
	used     []Loader
	resolver ExistsResolver
}

// New creates an entry for source. Nothing is read until Load.
func New(source, destRoot string, cfg *config.Config, loaders []Loader) *Entry {
	return &Entry{
		Source:    source,
		DestRoot:  destRoot,
		Config:    cfg,
		Effective: cfg,
		Bag:       metadata.NewBag(),
		View:      DiskView{},
		loaders:   loaders,
	}
}

// 🔄 Load runs the pipeline: filter, extract, media config, destination path,
// exists check, prepare. A vetoed file ends up with Valid false and a Reason;
// the returned error is reserved for files that could not be examined at all.
func (e *Entry) Load(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	fi, err := os.Stat(e.Source)
	if err != nil {
		return errors.Errorf("stat %s: %w", e.Source, err)
	}
	if !fi.Mode().IsRegular() {
		return e.reject("not a regular file")
	}
	e.Size = fi.Size()

	base := filepath.Base(e.Source)
	ext := filepath.Ext(base)
	e.Bag.SetString(metadata.KeyFileName, base)
	e.Bag.SetString(metadata.KeyBaseName, strings.TrimSuffix(base, ext))
	e.Bag.SetString(metadata.KeyExt, strings.TrimPrefix(ext, "."))
	e.Bag.SetInt(metadata.KeySize, e.Size)

	if !e.Config.MatchesFilter(base) {
		return e.reject("filtered out by " + e.Config.Filter())
	}

	for _, l := range e.loaders {
		e.used = append(e.used, l)
		if !l.Extract(ctx, e) {
			return e.reject("rejected by " + l.Name() + " loader")
		}
	}

	metadata.SetDateTokens(e.Bag)

	kind := string(metadata.MediaUnknown)
	if k, ok := e.Bag.GetString(metadata.KeyMediaKind); ok && k != "" {
		kind = k
	}
	eff, err := e.Config.ForMedia(kind)
	if err != nil {
		return errors.Errorf("selecting %s config: %w", kind, err)
	}
	e.Effective = eff
	e.Move = eff.Move()
	e.MayOverwrite = eff.Overwrite()
	e.DeleteSourceIfExists = eff.DeleteSourceOnExist()

	dst, err := e.resolveDestination()
	if err != nil {
		return e.reject(err.Error())
	}
	e.Destination = dst

	if e.resolver == nil {
		r, err := ResolverFor(eff.Resolver())
		if err != nil {
			return err
		}
		e.resolver = r
	}
	e.Existing, e.DestinationExists = e.resolver.Exists(ctx, e)

	for _, l := range e.loaders {
		if !l.Prepare(ctx, e) {
			return e.reject("rejected by " + l.Name() + " loader")
		}
	}

	e.Valid = true
	logger.Debug().
		Str("src", e.Source).
		Str("dst", e.Destination).
		Str("kind", kind).
		Bool("exists", e.DestinationExists).
		Str("action", e.Decide().String()).
		Msg("entry prepared")

	return nil
}

func (e *Entry) reject(reason string) error {
	e.Valid = false
	e.Reason = reason
	return nil
}

// resolveDestination joins the folder and file templates under DestRoot.
// Bag values win over the config's fixed tokens.
func (e *Entry) resolveDestination() (string, error) {
	lookup := text.Chain{e.Bag, text.Map(e.Effective.Tokens)}

	folder := text.Resolve(e.Effective.FolderTemplate(), lookup).Text
	file := text.Resolve(e.Effective.FileTemplate(), lookup).Text
	if strings.TrimSpace(file) == "" {
		file = filepath.Base(e.Source)
	}

	dst := filepath.Join(e.DestRoot, folder, file)
	rel, err := filepath.Rel(e.DestRoot, dst)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("destination %q escapes %s", dst, e.DestRoot)
	}
	return dst, nil
}

// RelativeDestination returns the destination relative to DestRoot, slash separated
func (e *Entry) RelativeDestination() string {
	rel, err := filepath.Rel(e.DestRoot, e.Destination)
	if err != nil {
		return filepath.ToSlash(e.Destination)
	}
	return filepath.ToSlash(rel)
}

// DuplicateOf returns the destination-relative name of an earlier copy, when a loader found one
func (e *Entry) DuplicateOf() (string, bool) {
	return e.Bag.GetString(metadata.KeyDuplicateOf)
}

// 🎯 Decide applies the overwrite matrix to the entry's flags
func (e *Entry) Decide() Action {
	switch {
	case e.DestinationExists && e.DeleteSourceIfExists:
		return ActionDeleteSource
	case e.DestinationExists && e.MayOverwrite:
		return ActionOverwrite
	case e.DestinationExists:
		return ActionSkip
	default:
		return ActionWrite
	}
}

// ExistingPath is the file the destination check matched, or the computed destination
func (e *Entry) ExistingPath() string {
	if e.Existing != "" {
		return e.Existing
	}
	return e.Destination
}

// ExistingSize returns the size of the file at ExistingPath, zero when there is none
func (e *Entry) ExistingSize() int64 {
	_, n := e.view().Stat(e.ExistingPath())
	return n
}

func (e *Entry) view() FileView {
	if e.View == nil {
		return DiskView{}
	}
	return e.View
}

// Close runs every loader that took part, last one first
func (e *Entry) Close(ctx context.Context) {
	for i := len(e.used) - 1; i >= 0; i-- {
		if err := e.used[i].Close(ctx, e); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("loader", e.used[i].Name()).Str("src", e.Source).Msg("loader close failed")
		}
	}
	e.used = nil
}
