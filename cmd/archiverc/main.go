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

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/archiverc/cmd/archiverc/commands"
	"github.com/walteh/archiverc/cmd/archiverc/opts"
	"github.com/walteh/archiverc/pkg/log"
)

func main() {
	logger := setupLogging()
	ctx, stop := signal.NotifyContext(logger.WithContext(context.Background()), os.Interrupt)
	defer stop()

	rootOpts := &opts.RootOpts{
		UserLogger: opts.NewUserLogger(ctx),
		Console:    log.New(os.Stdout, zerolog.InfoLevel),
	}

	rootCmd := &cobra.Command{
		Use:   "archiverc",
		Short: "Archive photos, videos and exports into a dated library",
		Long: `archiverc copies or moves media from source folders (or attached camera cards)
into a destination tree named from file metadata, skipping what is already archived
and freeing space on the destination when asked to.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			applyLogLevel(rootOpts.Debug)
		},
	}

	addRootFlags(rootCmd, rootOpts)

	rootCmd.AddCommand(
		commands.NewRunCmd(rootOpts),
		commands.NewParseCmd(rootOpts),
		commands.NewPresetsCmd(rootOpts),
		newVersionCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		rootOpts.UserLogger.LogValidation(false, "Command failed", err)
		stop()
		os.Exit(1)
	}
}
