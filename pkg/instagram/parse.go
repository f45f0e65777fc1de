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

// Package instagram decodes the file naming convention used by social media
// exports: username_timestamp_contentId_userId[.ext] or username_contentId_userId[.ext],
// optionally followed by a metadata sidecar suffix.
package instagram

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// MinPlausibleTimestamp is 2010-01-01T00:00:00Z. A content id above it that is not in the
// future is taken to be a post timestamp when the name carries no timestamp segment.
const MinPlausibleTimestamp int64 = 1262304000

const (
	minUserID    = 100
	minContentID = 1000
)

var (
	sidecarSuffixes = []string{".json.xz", ".json", ".txt"}
	archiveSuffixes = []string{".xz", ".gz", ".bz2", ".zip", ".7z", ".rar", ".tar"}
)

// now is swapped in tests
var now = time.Now

// 🪪 Identity is the structured identity decoded from a file name
type Identity struct {
	FullPath  string
	FileName  string
	Username  string // empty when the name could not be decoded
	UserID    int64
	ContentID int64
	Timestamp int64 // unix seconds, 0 when absent
	IsSidecar bool
	Valid     bool
}

// PostTime returns the timestamp as a time, or the zero time when absent
func (id Identity) PostTime() time.Time {
	if id.Timestamp <= 0 {
		return time.Time{}
	}
	return time.Unix(id.Timestamp, 0).UTC()
}

// SameContent reports whether both identities point at the same post of the same user
func (id Identity) SameContent(other Identity) bool {
	return id.ContentID != 0 && id.ContentID == other.ContentID && id.UserID == other.UserID
}

func (id Identity) String() string {
	return fmt.Sprintf("%s user=%d content=%d ts=%d valid=%v", id.Username, id.UserID, id.ContentID, id.Timestamp, id.Valid)
}

// Parse decodes path. It never fails: names that do not follow the convention
// produce an Identity with Valid false and zeroed fields.
func Parse(path string) Identity {
	fileName := filepath.Base(path)
	if path == "" {
		fileName = ""
	}

	empty := Identity{FullPath: path, FileName: fileName}

	name, isSidecar := stripSidecar(fileName)
	empty.IsSidecar = isSidecar

	name = name[:extensionStart(name)]

	userSep := strings.LastIndexByte(name, '_')
	if userSep < 0 {
		return empty
	}
	contentSep := strings.LastIndexByte(name[:userSep], '_')
	if contentSep < 0 {
		return empty
	}

	userID := parseNumber(leadingDigits(name[userSep+1:]))
	contentID := parseNumber(name[contentSep+1 : userSep])

	id := Identity{
		FullPath:  path,
		FileName:  fileName,
		IsSidecar: isSidecar,
	}

	tsSep := strings.LastIndexByte(name[:contentSep], '_')
	if tsSep < 0 {
		id.Username = name[:contentSep]
		id.ContentID = contentID
		id.UserID = userID

		// username_timestamp_contentId: the user id slot really holds the content id
		if contentID > MinPlausibleTimestamp && contentID <= now().Unix() {
			id.Timestamp = contentID
			id.ContentID = userID
			id.UserID = 0
		} else if !fieldsValid(id) {
			return empty
		}
	} else {
		id.Username = name[:tsSep]
		id.Timestamp = parseNumber(name[tsSep+1 : contentSep])
		id.ContentID = contentID
		id.UserID = userID
	}

	id.Valid = fieldsValid(id) && (isSidecar || !hasAnySuffix(strings.ToLower(fileName), sidecarSuffixes, archiveSuffixes))
	return id
}

func fieldsValid(id Identity) bool {
	return id.FileName != "" && id.Username != "" && id.UserID > minUserID && id.ContentID > minContentID
}

// stripSidecar removes a metadata sidecar suffix from name
func stripSidecar(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, s := range sidecarSuffixes {
		if strings.HasSuffix(lower, s) && len(name) > len(s) {
			return name[:len(name)-len(s)], true
		}
	}
	return name, false
}

// extensionStart finds where the real extension begins
func extensionStart(name string) int {
	if i := strings.Index(name, "_n."); i >= 0 {
		return i
	}
	if i := strings.Index(name, " (1)."); i >= 0 {
		return i
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return i
	}
	return len(name)
}

func leadingDigits(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

func parseNumber(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func hasAnySuffix(s string, lists ...[]string) bool {
	for _, list := range lists {
		for _, suffix := range list {
			if strings.HasSuffix(s, suffix) {
				return true
			}
		}
	}
	return false
}
