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
	"time"

	"github.com/walteh/archiverc/pkg/entry"
)

// 📊 Kind is the outcome of one file, or of one eviction
type Kind int

const (
	KindInvalid Kind = iota
	KindMoved
	KindCopied
	KindCopiedWithOverwrite
	KindMovedWithOverwrite
	KindSourceDeleted
	KindDestinationDeleted
	KindError
	KindAlreadyExists
)

// Kinds lists every kind in display order
var Kinds = []Kind{
	KindCopied,
	KindMoved,
	KindCopiedWithOverwrite,
	KindMovedWithOverwrite,
	KindSourceDeleted,
	KindDestinationDeleted,
	KindAlreadyExists,
	KindInvalid,
	KindError,
}

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindMoved:
		return "moved"
	case KindCopied:
		return "copied"
	case KindCopiedWithOverwrite:
		return "copied-overwrite"
	case KindMovedWithOverwrite:
		return "moved-overwrite"
	case KindSourceDeleted:
		return "source-deleted"
	case KindDestinationDeleted:
		return "destination-deleted"
	case KindError:
		return "error"
	case KindAlreadyExists:
		return "already-exists"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsTransfer reports whether the kind wrote a file into the destination
func (k Kind) IsTransfer() bool {
	switch k {
	case KindMoved, KindCopied, KindCopiedWithOverwrite, KindMovedWithOverwrite:
		return true
	}
	return false
}

// 📄 Result is the immutable outcome for one file
type Result struct {
	kind    Kind
	source  string
	path    string
	size    int64
	message string
	err     error
	entry   *entry.Entry
}

// Option sets optional fields on a new Result
type Option func(*Result)

func WithSize(n int64) Option { return func(r *Result) { r.size = n } }
func WithMessage(msg string) Option { return func(r *Result) { r.message = msg } }
func WithError(err error) Option { return func(r *Result) { r.err = err } }
func WithEntry(e *entry.Entry) Option { return func(r *Result) { r.entry = e } }

// NewResult builds a result. source is the file that was considered and path
// the destination-side file the outcome refers to; either may be empty.
func NewResult(kind Kind, source, path string, opts ...Option) *Result {
	r := &Result{kind: kind, source: source, path: path}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Result) Kind() Kind { return r.kind }
func (r *Result) Source() string { return r.source }
func (r *Result) Path() string { return r.path }
func (r *Result) Size() int64 { return r.size }
func (r *Result) Message() string { return r.message }
func (r *Result) Err() error { return r.err }
func (r *Result) Entry() *entry.Entry { return r.entry }

func (r *Result) String() string {
	s := r.kind.String() + " " + r.source
	if r.path != "" && r.path != r.source {
		s += " -> " + r.path
	}
	switch {
	case r.err != nil:
		s += ": " + r.err.Error()
	case r.message != "":
		s += ": " + r.message
	}
	return s
}

// 📈 Stats accumulates counters over one or more runs
type Stats struct {
	Total            int
	Processed        int
	ByKind           map[Kind]int
	BytesTransferred int64
	BytesReclaimed   int64
	Elapsed          time.Duration
}

func NewStats() *Stats {
	return &Stats{ByKind: make(map[Kind]int)}
}

// Add counts r. Evictions are tracked separately from source files and only
// transfers and source deletions count as processed.
func (s *Stats) Add(r *Result) {
	s.ByKind[r.kind]++

	if r.kind == KindDestinationDeleted {
		s.BytesReclaimed += r.size
		return
	}

	s.Total++
	switch {
	case r.kind.IsTransfer():
		s.Processed++
		s.BytesTransferred += r.size
	case r.kind == KindSourceDeleted:
		s.Processed++
	}
}

// Merge adds o's counters to s
func (s *Stats) Merge(o *Stats) {
	s.Total += o.Total
	s.Processed += o.Processed
	s.BytesTransferred += o.BytesTransferred
	s.BytesReclaimed += o.BytesReclaimed
	s.Elapsed += o.Elapsed
	for k, n := range o.ByKind {
		s.ByKind[k] += n
	}
}

func (s *Stats) Count(k Kind) int {
	return s.ByKind[k]
}
