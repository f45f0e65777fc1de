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

package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/archiverc/cmd/archiverc/opts"
	"github.com/walteh/archiverc/pkg/config"
	"gitlab.com/tozd/go/errors"
)

func NewPresetsCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the built-in config presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var items []pterm.BulletListItem
			for _, name := range config.Presets() {
				cfg, err := config.Preset(ctx, name)
				if err != nil {
					return errors.Errorf("loading preset %s: %w", name, err)
				}
				items = append(items,
					pterm.BulletListItem{Level: 0, Text: name},
					pterm.BulletListItem{Level: 1, Text: cfg.String()},
				)
				for _, kind := range cfg.MediaKinds() {
					m, err := cfg.ForMedia(kind)
					if err != nil {
						return errors.Errorf("preset %s media %s: %w", name, kind, err)
					}
					items = append(items, pterm.BulletListItem{Level: 2, Text: kind + ": " + m.String()})
				}
			}

			if err := pterm.DefaultBulletList.WithItems(items).Render(); err != nil {
				return errors.Errorf("rendering presets: %w", err)
			}
			return nil
		},
	}

	return cmd
}
