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
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/archiverc/cmd/archiverc/opts"
	"github.com/walteh/archiverc/pkg/log"
)

func testOpts(t *testing.T) (context.Context, *opts.RootOpts) {
	t.Helper()
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	return ctx, &opts.RootOpts{
		ConfigSelector: "default",
		UserLogger:     opts.NewUserLogger(ctx),
		Console:        log.New(io.Discard, zerolog.Disabled),
	}
}

func TestRunCmd(t *testing.T) {
	ctx, o := testOpts(t)
	src := t.TempDir()
	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.jpg"), []byte("data"), 0o644), "writing source")

	dry := NewRunCmd(o)
	dry.SetArgs([]string{"--dry-run", src, dest})
	require.NoError(t, dry.ExecuteContext(ctx), "dry run")

	found, err := filepath.Glob(filepath.Join(dest, "*", "*", "a.jpg"))
	require.NoError(t, err, "globbing")
	assert.Empty(t, found, "dry run leaves the destination alone")

	live := NewRunCmd(o)
	live.SetArgs([]string{"--move", src, dest})
	require.NoError(t, live.ExecuteContext(ctx), "live run")

	found, err = filepath.Glob(filepath.Join(dest, "*", "*", "a.jpg"))
	require.NoError(t, err, "globbing")
	assert.Len(t, found, 1, "archived under year and month")
	_, err = os.Stat(filepath.Join(src, "a.jpg"))
	assert.True(t, os.IsNotExist(err), "moved out of the source")
}

func TestRunCmdStartupErrors(t *testing.T) {
	ctx, o := testOpts(t)
	dest := t.TempDir()

	tests := []struct {
		name     string
		selector string
		args     []string
	}{
		{name: "missing_source", selector: "default", args: []string{filepath.Join(dest, "nope"), dest}},
		{name: "unknown_preset", selector: "does-not-exist", args: []string{dest, dest}},
		{name: "too_few_args", selector: "default", args: []string{dest}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o.ConfigSelector = tt.selector
			cmd := NewRunCmd(o)
			cmd.SetArgs(tt.args)
			cmd.SetOut(io.Discard)
			cmd.SetErr(io.Discard)
			assert.Error(t, cmd.ExecuteContext(ctx), "startup failure is returned")
		})
	}
}

func TestRunFlagsLayer(t *testing.T) {
	f := &runFlags{}
	cmd := &cobra.Command{Use: "run"}
	f.register(cmd)

	require.NoError(t, cmd.Flags().Parse([]string{"--move", "--recursive=false", "--min-free-space", "1024"}), "parsing flags")
	layer := f.layer(cmd)

	require.NotNil(t, layer.MoveFiles, "move set")
	assert.True(t, *layer.MoveFiles, "move value")
	require.NotNil(t, layer.Recursive, "explicit false is kept")
	assert.False(t, *layer.Recursive, "recursive value")
	require.NotNil(t, layer.MinFreeSpace, "min free space set")
	assert.Equal(t, int64(1024), *layer.MinFreeSpace, "min free space value")
	assert.Nil(t, layer.DryRun, "untouched flags stay unset")
	assert.Nil(t, layer.OverrideDestination, "untouched flags stay unset")
}
