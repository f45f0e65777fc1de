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

//go:build !(linux || darwin || freebsd)

package fsx

import (
	"gitlab.com/tozd/go/errors"
)

// ErrFreeSpaceUnsupported is returned where free space cannot be queried
var ErrFreeSpaceUnsupported = errors.Base("free space query not supported on this platform")

func FreeSpace(path string) (int64, error) {
	return 0, errors.WithStack(ErrFreeSpaceUnsupported)
}
