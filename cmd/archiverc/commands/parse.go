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
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/archiverc/cmd/archiverc/opts"
	"github.com/walteh/archiverc/pkg/instagram"
	"gitlab.com/tozd/go/errors"
)

func NewParseCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file>...",
		Short: "Show what a social-export file name decodes to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := pterm.TableData{{"file", "valid", "username", "user id", "content id", "posted", "sidecar"}}
			for _, arg := range args {
				id := instagram.Parse(arg)
				posted := ""
				if id.Valid {
					posted = id.PostTime().Format("2006-01-02 15:04:05")
				}
				data = append(data, []string{
					arg,
					strconv.FormatBool(id.Valid),
					id.Username,
					strconv.FormatInt(id.UserID, 10),
					strconv.FormatInt(id.ContentID, 10),
					posted,
					strconv.FormatBool(id.IsSidecar),
				})
			}

			if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
				return errors.Errorf("rendering table: %w", err)
			}
			return nil
		},
	}

	return cmd
}
