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
Package operation is the folder engine: it walks source folders, builds an
entry for every file, frees destination space when asked to, performs the
transfer and streams one result per file.

	sources ──> enumerate ──> entry.Load ──> Decide ──> evict? ──> transfer ──> yield
	                              │                                              │
	                           loaders                                      status.Stats

🎯 Purpose:
- Deterministic enumeration: root files first, then subdirectories in lexical order
- Directories holding a .archiverc-ignore file are never scanned or evicted
- Eviction in lexical order (dated folders sort oldest first) when the destination runs low on space
- Dry runs report the same decisions without touching the filesystem

🔄 Flow:
1. Run validates the sources and resolves the configured loaders
2. The returned sequence is lazy: nothing happens until it is consumed
3. Stopping the iteration ends the run and still commits loader state

📝 Errors:
Only startup problems are returned from Run. Anything that goes wrong with a
single file becomes a KindError result and the run carries on.
*/
package operation
