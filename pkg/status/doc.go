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
Package status describes what happened to each file during an archiving run.

🎯 Purpose:
- Result: the immutable outcome of one source file or one eviction
- Stats: run counters (totals, per-kind counts, bytes moved and reclaimed, elapsed time)
- Formatter: plain-text rendering for logs and summaries

📝 Counting rules:
  - evictions (KindDestinationDeleted) only add to reclaimed bytes
  - transfers and source deletions count as processed
  - invalid, duplicate and failed files count toward the total only
*/
package status
