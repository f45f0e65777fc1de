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
	"fmt"
	"strings"
	"time"
)

// 🎨 Formatter turns results and counters into plain-text messages
type Formatter interface {
	// FormatResult formats one file outcome
	FormatResult(r *Result) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatSummary formats the counters of a finished run
	FormatSummary(s *Stats) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFormatter provides a default implementation of Formatter
type DefaultFormatter struct{}

var _ Formatter = (*DefaultFormatter)(nil)

// NewDefaultFormatter creates a new DefaultFormatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{}
}

// FormatResult formats a file outcome with an emoji per kind
func (f *DefaultFormatter) FormatResult(r *Result) string {
	switch r.Kind() {
	case KindCopied:
		return fmt.Sprintf("✨ Copied %s -> %s", r.Source(), r.Path())
	case KindMoved:
		return fmt.Sprintf("🚚 Moved %s -> %s", r.Source(), r.Path())
	case KindCopiedWithOverwrite:
		return fmt.Sprintf("📝 Updated %s -> %s", r.Source(), r.Path())
	case KindMovedWithOverwrite:
		return fmt.Sprintf("📝 Updated (moved) %s -> %s", r.Source(), r.Path())
	case KindSourceDeleted:
		return fmt.Sprintf("🧹 Deleted source %s, already at %s", r.Source(), r.Path())
	case KindDestinationDeleted:
		return fmt.Sprintf("🗑️  Evicted %s (%s)", r.Path(), HumanBytes(r.Size()))
	case KindAlreadyExists:
		if r.Path() != "" {
			return fmt.Sprintf("👍 Exists %s at %s", r.Source(), r.Path())
		}
		return fmt.Sprintf("👍 Exists %s", r.Source())
	case KindInvalid:
		if r.Message() != "" {
			return fmt.Sprintf("⏭️  Skipped %s: %s", r.Source(), r.Message())
		}
		return fmt.Sprintf("⏭️  Skipped %s", r.Source())
	case KindError:
		return fmt.Sprintf("❌ Failed %s: %v", r.Source(), r.Err())
	}
	return r.String()
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatSummary lists the non-zero counters, one per line
func (f *DefaultFormatter) FormatSummary(s *Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 %d files, %d processed in %s\n", s.Total, s.Processed, s.Elapsed.Round(time.Millisecond))
	for _, k := range Kinds {
		if n := s.Count(k); n > 0 {
			fmt.Fprintf(&b, "   %-20s %d\n", k.String(), n)
		}
	}
	fmt.Fprintf(&b, "   %-20s %s\n", "transferred", HumanBytes(s.BytesTransferred))
	if s.BytesReclaimed > 0 {
		fmt.Fprintf(&b, "   %-20s %s\n", "reclaimed", HumanBytes(s.BytesReclaimed))
	}
	return b.String()
}

// FormatError formats an error message with emoji
func (f *DefaultFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}

// HumanBytes renders n with a binary unit
func HumanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
