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
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/walteh/archiverc/pkg/config"
	"github.com/walteh/archiverc/pkg/instagram"
	"gitlab.com/tozd/go/errors"
)

// 🔎 ExistsResolver decides whether an entry's content is already at the destination.
// It returns the matched file, which may differ from the computed destination.
type ExistsResolver interface {
	Exists(ctx context.Context, e *Entry) (string, bool)
}

// ResolverFor returns the resolver registered under name
func ResolverFor(name string) (ExistsResolver, error) {
	switch name {
	case "", config.ResolverGeneric:
		return GenericResolver{}, nil
	case config.ResolverInstagram:
		return InstagramResolver{}, nil
	}
	return nil, errors.Errorf("unknown exists resolver %q", name)
}

// GenericResolver matches only a file at the exact destination path
type GenericResolver struct{}

func (GenericResolver) Exists(ctx context.Context, e *Entry) (string, bool) {
	if ok, _ := e.view().Stat(e.Destination); ok {
		return e.Destination, true
	}
	return "", false
}

// 📷 InstagramResolver matches any file in the destination folder, or in its
// user-id suffixed sibling, that carries the same content and user id.
// Renamed accounts keep matching because the username is not compared.
type InstagramResolver struct{}

func (InstagramResolver) Exists(ctx context.Context, e *Entry) (string, bool) {
	if p, ok := (GenericResolver{}).Exists(ctx, e); ok {
		return p, true
	}

	id := instagram.Parse(e.Source)
	if !id.Valid {
		return "", false
	}

	dir := filepath.Dir(e.Destination)
	dirs := []string{dir}
	if id.UserID != 0 {
		dirs = append(dirs, dir+"_"+strconv.FormatInt(id.UserID, 10))
	}

	for _, d := range dirs {
		for _, name := range e.view().Files(d) {
			path := filepath.Join(d, name)
			if path == e.Source {
				continue
			}
			other := instagram.Parse(path)
			if other.IsSidecar != id.IsSidecar || !id.SameContent(other) {
				continue
			}
			zerolog.Ctx(ctx).Debug().Str("src", e.Source).Str("match", path).Msg("content already archived under another name")
			return path, true
		}
	}

	return "", false
}
