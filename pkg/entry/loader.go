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

package entry

import (
	"context"

	"github.com/walteh/archiverc/pkg/metadata"
)

// 🔌 Loader is one stage of the metadata pipeline.
//
// Extract and Prepare may veto a file by returning false. Close runs once per
// file for every loader that took part, and once more with a nil entry when the
// whole run is over so shared resources can be flushed.
type Loader interface {
	Name() string

	// Extract fills the entry's bag from the source file
	Extract(ctx context.Context, e *Entry) bool

	// ExtractPath is the standalone form of Extract, used outside a run
	ExtractPath(ctx context.Context, path string, bag *metadata.Bag) bool

	// Prepare runs after the destination is known and may adjust the entry's decision flags
	Prepare(ctx context.Context, e *Entry) bool

	Close(ctx context.Context, e *Entry) error
}
