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
	"sort"
	"time"
)

// 🔑 Key names an attribute in a Bag. Keys double as template tokens.
type Key string

const (
	KeyFileName     Key = "FILENAME"
	KeyBaseName     Key = "BASENAME"
	KeyExt          Key = "EXT"
	KeyFileCreated  Key = "FILE_CREATED"
	KeyFileModified Key = "FILE_MODIFIED"
	KeyDateTaken    Key = "DATE_TAKEN"
	KeyPostTime     Key = "POST_TIME"
	KeyYear         Key = "YEAR"
	KeyMonth        Key = "MONTH"
	KeyDay          Key = "DAY"
	KeyDate         Key = "DATE"
	KeyMediaKind    Key = "MEDIA_KIND"
	KeyMimeType     Key = "MIME_TYPE"
	KeySize         Key = "SIZE"
	KeyChecksum     Key = "CHECKSUM"
	KeyDuplicateOf  Key = "DUPLICATE_OF"

	KeyCameraMaker Key = "CAMERA_MAKER"
	KeyCameraModel Key = "CAMERA_MODEL"
	KeyLens        Key = "LENS"
	KeyCopyright   Key = "COPYRIGHT"
	KeyArtist      Key = "ARTIST"

	KeyUsername  Key = "USERNAME"
	KeyUserID    Key = "USER_ID"
	KeyContentID Key = "CONTENT_ID"
)

// DateKeys is the fallback order used to pick the timestamp that drives YEAR/MONTH/DAY.
var DateKeys = []Key{KeyDateTaken, KeyPostTime, KeyFileCreated, KeyFileModified}

// 🧺 Bag holds the attributes loaders discover about one file
type Bag struct {
	values map[Key]Value
}

// NewBag returns an empty bag
func NewBag() *Bag {
	return &Bag{values: make(map[Key]Value)}
}

func (b *Bag) Set(k Key, v Value) {
	b.values[k] = v
}

func (b *Bag) SetString(k Key, s string) { b.Set(k, String(s)) }
func (b *Bag) SetInt(k Key, i int64) { b.Set(k, Int(i)) }
func (b *Bag) SetTime(k Key, t time.Time) { b.Set(k, Time(t)) }

func (b *Bag) Get(k Key) (Value, bool) {
	v, ok := b.values[k]
	return v, ok
}

func (b *Bag) Has(k Key) bool {
	_, ok := b.values[k]
	return ok
}

func (b *Bag) Delete(k Key) {
	delete(b.values, k)
}

func (b *Bag) Len() int {
	return len(b.values)
}

// GetString returns the string form of k, whatever its kind
func (b *Bag) GetString(k Key) (string, bool) {
	v, ok := b.values[k]
	if !ok {
		return "", false
	}
	return v.String(), true
}

func (b *Bag) GetInt(k Key) (int64, bool) {
	v, ok := b.values[k]
	if !ok {
		return 0, false
	}
	return v.AsInt()
}

// First returns the first key among keys that is present and non-zero.
func (b *Bag) First(keys ...Key) (Key, Value, bool) {
	for _, k := range keys {
		if v, ok := b.values[k]; ok && !v.IsZero() {
			return k, v, true
		}
	}
	return "", Value{}, false
}

// FirstTime returns the first present, non-zero time among keys.
// Keys holding a non-time value are skipped.
func (b *Bag) FirstTime(keys ...Key) (time.Time, bool) {
	for _, k := range keys {
		v, ok := b.values[k]
		if !ok {
			continue
		}
		if t, ok := v.AsTime(); ok && !t.IsZero() {
			return t, true
		}
	}
	return time.Time{}, false
}

// Lookup resolves a template token against the bag
func (b *Bag) Lookup(token string) (string, bool) {
	return b.GetString(Key(token))
}

// Keys returns all keys in sorted order
func (b *Bag) Keys() []Key {
	keys := make([]Key, 0, len(b.values))
	for k := range b.values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// SetDateTokens recomputes YEAR, MONTH, DAY and DATE from the best timestamp in DateKeys.
// It reports false when no timestamp is known.
func SetDateTokens(b *Bag) bool {
	t, ok := b.FirstTime(DateKeys...)
	if !ok {
		return false
	}
	b.SetString(KeyYear, t.Format("2006"))
	b.SetString(KeyMonth, t.Format("01"))
	b.SetString(KeyDay, t.Format("02"))
	b.SetString(KeyDate, t.Format("2006-01-02"))
	return true
}
