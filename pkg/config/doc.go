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

/*
Package config loads and merges archiving configuration for archiverc.

	 selector (file or preset)      <dest>/.archiverc.*
	           |                            |
	     +-----+-----+                +-----+-----+
	     |   Load    |                | LoadFile  |
	     +-----+-----+                +-----+-----+
	           |                            |
	           +-----------> Merge <--------+
	                           |
	                     ForMedia(kind)

🎯 Purpose:
- Parses YAML, JSON and HCL documents through a parser registry keyed by extension
- Ships built-in presets (default, camera, instagram, backup)
- Layers configs: every field is optional and the first set value wins

📝 Merge rules:
  - Merge(other, fallback) resolves each field in the order other, cfg, fallback
  - media entries are merged per kind, one level deep
  - a media entry may not declare loaders or media of its own (ErrNestedMedia)
*/
package config
