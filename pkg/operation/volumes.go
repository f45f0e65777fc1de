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
	"golang.org/x/sync/errgroup"
)

// MediaMarkers are the folders that identify a camera or recorder card
var MediaMarkers = []string{"DCIM", "PRIVATE/M4ROOT", "PRIVATE/AVCHD", "MP_ROOT"}

// DefaultVolumeRoots returns the places removable media get mounted for the current user
func DefaultVolumeRoots() []string {
	roots := []string{}
	if user := os.Getenv("USER"); user != "" {
		roots = append(roots, filepath.Join("/media", user), filepath.Join("/run/media", user))
	}
	return append(roots, "/Volumes")
}

// 🔌 DiscoverVolumes finds media folders on volumes mounted under roots.
// Roots are scanned in parallel; results keep root order, then volume name order.
func DiscoverVolumes(ctx context.Context, roots []string) ([]string, error) {
	logger := zerolog.Ctx(ctx)
	found := make([][]string, len(roots))

	g, gctx := errgroup.WithContext(ctx)
	for i, root := range roots {
		g.Go(func() error {
			vols, err := os.ReadDir(root)
			if err != nil {
				if !os.IsNotExist(err) {
					logger.Debug().Err(err).Str("root", root).Msg("cannot list volume root")
				}
				return nil
			}
			for _, v := range vols {
				if err := gctx.Err(); err != nil {
					return err
				}
				for _, marker := range MediaMarkers {
					p := filepath.Join(root, v.Name(), filepath.FromSlash(marker))
					if fi, err := os.Stat(p); err == nil && fi.IsDir() {
						found[i] = append(found[i], p)
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Errorf("discovering volumes: %w", err)
	}

	var out []string
	for _, f := range found {
		out = append(out, f...)
	}
	logger.Debug().Strs("volumes", out).Msg("discovered media folders")
	return out, nil
}
