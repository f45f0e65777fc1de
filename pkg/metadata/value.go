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

package metadata

import (
	"fmt"
	"strconv"
	"time"
)

// 🏷️ ValueKind tags the concrete type held by a Value
type ValueKind int

const (
	KindNone ValueKind = iota
	KindString
	KindInt
	KindTime
	KindHash
)

// String returns a string representation of ValueKind
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindTime:
		return "time"
	case KindHash:
		return "hash"
	default:
		return "none"
	}
}

// TimeLayout is the layout used when a time value is rendered into a template
const TimeLayout = "2006-01-02 15-04-05"

// 📦 Value is a tagged variant stored in a Bag
type Value struct {
	kind ValueKind
	s    string
	i    int64
	t    time.Time
	h    uint64
}

func String(s string) Value { return Value{kind: KindString, s: s} }
func Int(i int64) Value { return Value{kind: KindInt, i: i} }
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }
func Hash(h uint64) Value { return Value{kind: KindHash, h: h} }
func (v Value) Kind() ValueKind { return v.kind }

// IsZero reports whether the value carries no usable content
func (v Value) IsZero() bool {
	switch v.kind {
	case KindString:
		return v.s == ""
	case KindInt:
		return v.i == 0
	case KindTime:
		return v.t.IsZero()
	case KindHash:
		return v.h == 0
	default:
		return true
	}
}

func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

func (v Value) AsTime() (time.Time, bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}
	return v.t, true
}

func (v Value) AsHash() (uint64, bool) {
	if v.kind != KindHash {
		return 0, false
	}
	return v.h, true
}

// String renders the value the way templates see it
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindTime:
		return v.t.Format(TimeLayout)
	case KindHash:
		return fmt.Sprintf("%016x", v.h)
	default:
		return ""
	}
}
