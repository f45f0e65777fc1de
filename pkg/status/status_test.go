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

package status

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gitlab.com/tozd/go/errors"
)

func TestStatsAdd(t *testing.T) {
	s := NewStats()
	for _, r := range []*Result{
		NewResult(KindCopied, "a", "dst/a", WithSize(10)),
		NewResult(KindMovedWithOverwrite, "b", "dst/b", WithSize(5)),
		NewResult(KindSourceDeleted, "c", "dst/c", WithSize(7)),
		NewResult(KindDestinationDeleted, "", "dst/old", WithSize(100)),
		NewResult(KindDestinationDeleted, "", "dst/older", WithSize(50)),
		NewResult(KindAlreadyExists, "d", "dst/d"),
		NewResult(KindInvalid, "e", "", WithMessage("filtered")),
		NewResult(KindError, "f", "dst/f", WithError(errors.New("disk full"))),
	} {
		s.Add(r)
	}

	assert.Equal(t, 6, s.Total, "evictions are not source files")
	assert.Equal(t, 3, s.Processed, "transfers and source deletions")
	assert.Equal(t, int64(15), s.BytesTransferred, "bytes transferred")
	assert.Equal(t, int64(150), s.BytesReclaimed, "bytes reclaimed")
	assert.Equal(t, 2, s.Count(KindDestinationDeleted), "eviction count")
	assert.Equal(t, 0, s.Count(KindMoved), "absent kind")
}

func TestStatsMerge(t *testing.T) {
	a := NewStats()
	a.Add(NewResult(KindCopied, "a", "x", WithSize(1)))
	a.Elapsed = time.Second

	b := NewStats()
	b.Add(NewResult(KindCopied, "b", "y", WithSize(2)))
	b.Add(NewResult(KindInvalid, "c", ""))
	b.Elapsed = 2 * time.Second

	a.Merge(b)
	assert.Equal(t, 3, a.Total, "total summed")
	assert.Equal(t, 2, a.Count(KindCopied), "per-kind summed")
	assert.Equal(t, int64(3), a.BytesTransferred, "bytes summed")
	assert.Equal(t, 3*time.Second, a.Elapsed, "elapsed summed")
}

func TestFormatResult(t *testing.T) {
	f := NewDefaultFormatter()

	tests := []struct {
		name   string
		result *Result
		want   string
	}{
		{
			name:   "copied",
			result: NewResult(KindCopied, "in/a.jpg", "out/2024/a.jpg"),
			want:   "✨ Copied in/a.jpg -> out/2024/a.jpg",
		},
		{
			name:   "evicted",
			result: NewResult(KindDestinationDeleted, "", "out/old.jpg", WithSize(2048)),
			want:   "🗑️  Evicted out/old.jpg (2.0 KiB)",
		},
		{
			name:   "exists_with_reference",
			result: NewResult(KindAlreadyExists, "in/b.jpg", "out/a.jpg"),
			want:   "👍 Exists in/b.jpg at out/a.jpg",
		},
		{
			name:   "invalid_with_reason",
			result: NewResult(KindInvalid, "in/x.txt", "", WithMessage("filtered out by *.jpg")),
			want:   "⏭️  Skipped in/x.txt: filtered out by *.jpg",
		},
		{
			name:   "error",
			result: NewResult(KindError, "in/c.jpg", "out/c.jpg", WithError(errors.New("permission denied"))),
			want:   "❌ Failed in/c.jpg: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.FormatResult(tt.result), "formatted result")
		})
	}
}

func TestFormatProgress(t *testing.T) {
	f := NewDefaultFormatter()
	assert.Equal(t, "⏳ Progress: 1/4 (25%)", f.FormatProgress(1, 4), "partial progress")
	assert.Equal(t, "✅ Progress: 4/4 (100%)", f.FormatProgress(4, 4), "complete")
	assert.Equal(t, "✅ Progress: 0/0 (0%)", f.FormatProgress(0, 0), "empty run")
}

func TestFormatSummary(t *testing.T) {
	s := NewStats()
	s.Add(NewResult(KindCopied, "a", "x", WithSize(3*1024*1024)))
	s.Add(NewResult(KindAlreadyExists, "b", "y"))

	out := NewDefaultFormatter().FormatSummary(s)
	assert.True(t, strings.HasPrefix(out, "📊 2 files, 1 processed"), "headline, got %q", out)
	assert.Contains(t, out, "copied", "copied counter listed")
	assert.Contains(t, out, "already-exists", "exists counter listed")
	assert.Contains(t, out, "3.0 MiB", "bytes transferred")
	assert.NotContains(t, out, "reclaimed", "no eviction line when nothing was reclaimed")
}

func TestHumanBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024 * 1024, "5.0 GiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HumanBytes(tt.in), "HumanBytes(%d)", tt.in)
	}
}

func TestResultString(t *testing.T) {
	r := NewResult(KindError, "a", "b", WithError(errors.New("boom")))
	assert.Equal(t, "error a -> b: boom", r.String(), "string form")
	assert.Equal(t, "kind(42)", Kind(42).String(), "unknown kind")
}
