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

package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/archiverc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

func lines(buf *bytes.Buffer) []string {
	output := strings.TrimSpace(buf.String())
	out := strings.Split(output, "\n")
	for i := range out {
		out[i] = strings.TrimSpace(out[i])
	}
	return out
}

func TestLogger(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "start_run",
			op: func(t *testing.T, logger *Logger) {
				logger.StartRun(context.Background(), RunInfo{
					Sources:     []string{"/media/card/DCIM"},
					Destination: "/archive",
					Config:      "camera",
					DryRun:      true,
				})
			},
			wantLogs: []string{
				"[archiving into /archive]",
				"◆ /media/card/DCIM • camera",
				"dry run, nothing will be changed",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("archiving camera cards")
			},
			wantLogs: []string{
				"archiverc • archiving camera cards",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
		{
			name: "end_run_without_start",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("only line")
				logger.EndRun(context.Background(), status.NewStats())
			},
			wantLogs: []string{
				"ℹ️  only line",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Disabled)

			tt.op(t, logger)

			got := lines(buf)
			require.Equal(t, len(tt.wantLogs), len(got), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, got[i], "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.InfoLevel)

	ctx := NewContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx), "logger from context should be the same instance")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestResultFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name   string
		result *status.Result
		want   string
	}{
		{
			name:   "copied_relative_to_destination",
			result: status.NewResult(status.KindCopied, "/card/a.jpg", "/archive/2024/a.jpg", status.WithSize(2048)),
			want:   fmt.Sprintf("✓ %-35s %-20s %s", "2024/a.jpg", "copied", "2.0 KiB"),
		},
		{
			name:   "overwrite",
			result: status.NewResult(status.KindCopiedWithOverwrite, "/card/a.jpg", "/archive/a.jpg", status.WithSize(10)),
			want:   fmt.Sprintf("⟳ %-35s %-20s %s", "a.jpg", "copied-overwrite", "10 B"),
		},
		{
			name:   "evicted",
			result: status.NewResult(status.KindDestinationDeleted, "", "/archive/2019/old.jpg", status.WithSize(1)),
			want:   fmt.Sprintf("✗ %-35s %-20s %s", "2019/old.jpg", "destination-deleted", "1 B"),
		},
		{
			name:   "invalid_with_reason",
			result: status.NewResult(status.KindInvalid, "/card/notes.txt", "", status.WithMessage("filtered out by *.jpg")),
			want:   fmt.Sprintf("- %-35s %-20s %-10s %s", "/card/notes.txt", "invalid", "", "filtered out by *.jpg"),
		},
		{
			name:   "error_outside_destination",
			result: status.NewResult(status.KindError, "/card/b.jpg", "/elsewhere/b.jpg", status.WithError(errors.New("disk full"))),
			want:   fmt.Sprintf("! %-35s %-20s %-10s %s", "/elsewhere/b.jpg", "error", "", "disk full"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Disabled)
			logger.StartRun(context.Background(), RunInfo{Destination: "/archive"})
			buf.Reset()

			logger.LogResult(context.Background(), tt.result)

			assert.Equal(t, tt.want, strings.TrimSpace(buf.String()), "formatted output should match")
		})
	}
}

func TestEndRun(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	buf := &bytes.Buffer{}
	logger := New(buf, zerolog.Disabled)
	logger.StartRun(context.Background(), RunInfo{Destination: "/archive"})

	stats := status.NewStats()
	r := status.NewResult(status.KindCopied, "/card/a.jpg", "/archive/a.jpg", status.WithSize(4096))
	logger.LogResult(context.Background(), r)
	stats.Add(r)

	buf.Reset()
	logger.EndRun(context.Background(), stats)

	out := buf.String()
	assert.Contains(t, out, "📊 1 files, 1 processed", "summary header")
	assert.Contains(t, out, "4.0 KiB", "bytes transferred")

	buf.Reset()
	logger.EndRun(context.Background(), stats)
	assert.Empty(t, buf.String(), "summary printed once per run")
}
