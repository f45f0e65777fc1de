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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/archiverc/cmd/archiverc/opts"
	"github.com/walteh/archiverc/pkg/config"
	"github.com/walteh/archiverc/pkg/log"
	"github.com/walteh/archiverc/pkg/operation"
	"github.com/walteh/archiverc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

type runFlags struct {
	dryRun          bool
	move            bool
	overwrite       bool
	recursive       bool
	allowDuplicates bool
	minFreeSpace    int64
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "report what would happen without changing anything")
	cmd.Flags().BoolVar(&f.move, "move", false, "move files instead of copying them")
	cmd.Flags().BoolVar(&f.overwrite, "overwrite", false, "replace destination files whose size differs")
	cmd.Flags().BoolVarP(&f.recursive, "recursive", "r", false, "descend into subfolders of the sources")
	cmd.Flags().BoolVar(&f.allowDuplicates, "allow-duplicates", false, "archive content that is already in the destination")
	cmd.Flags().Int64Var(&f.minFreeSpace, "min-free-space", 0, "bytes to keep free on the destination, evicting old files")
}

// layer turns the flags the user actually set into a config layer
func (f *runFlags) layer(cmd *cobra.Command) *config.Config {
	fl := cmd.Flags()
	layer := &config.Config{}
	if fl.Changed("dry-run") {
		layer.DryRun = config.Ptr(f.dryRun)
	}
	if fl.Changed("move") {
		layer.MoveFiles = config.Ptr(f.move)
	}
	if fl.Changed("overwrite") {
		layer.OverrideDestination = config.Ptr(f.overwrite)
	}
	if fl.Changed("recursive") {
		layer.Recursive = config.Ptr(f.recursive)
	}
	if fl.Changed("allow-duplicates") {
		layer.AllowDuplicates = config.Ptr(f.allowDuplicates)
	}
	if fl.Changed("min-free-space") {
		layer.MinFreeSpace = config.Ptr(f.minFreeSpace)
	}
	return layer
}

func NewRunCmd(o *opts.RootOpts) *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run <source>... <destination>",
		Short: "Archive source folders into a destination",
		Long: `Run archives every file of the given source folders into the destination.
Use "auto" as a source to pick up attached camera cards.
It will:
1. Load the selected config and the destination's own .archiverc file
2. Apply the command line flags on top
3. Copy or move each file to the path its metadata resolves to
4. Report one line per file and a summary`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sources, dest := args[:len(args)-1], args[len(args)-1]

			base, err := config.LoadForDestination(ctx, o.ConfigSelector, dest)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}
			cfg, err := base.Merge(f.layer(cmd))
			if err != nil {
				return errors.Errorf("applying flags: %w", err)
			}

			archiver, err := operation.New(ctx, operation.Options{Config: cfg, Destination: dest})
			if err != nil {
				return errors.Errorf("creating archiver: %w", err)
			}

			results, err := archiver.Run(ctx, sources)
			if err != nil {
				return errors.Errorf("starting run: %w", err)
			}

			o.Console.StartRun(ctx, log.RunInfo{
				Sources:     sources,
				Destination: archiver.Destination(),
				Config:      o.ConfigSelector,
				DryRun:      cfg.IsDryRun(),
			})
			for r := range results {
				o.Console.LogResult(ctx, r)
			}
			stats := archiver.Stats()
			o.Console.EndRun(ctx, stats)

			if err := ctx.Err(); err != nil {
				return errors.Errorf("run interrupted: %w", err)
			}
			if n := stats.Count(status.KindError); n > 0 {
				o.UserLogger.LogValidation(false, fmt.Sprintf("%d files could not be archived", n), nil)
				return nil
			}
			o.UserLogger.LogValidation(true, "Archive complete", nil)
			return nil
		},
	}

	f.register(cmd)

	return cmd
}
