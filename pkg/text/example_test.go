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

package text_test

import (
	"fmt"

	"github.com/walteh/archiverc/pkg/text"
)

func ExampleResolve() {
	tokens := text.Map{
		"YEAR":  "2024",
		"MONTH": "05",
	}

	result := text.Resolve("{YEAR}/{MONTH}/{CAMERA_MODEL}", tokens)

	fmt.Printf("Text: %s\n", result.Text)
	fmt.Printf("Resolved: %d\n", result.Resolved)
	fmt.Printf("Unresolved: %v\n", result.Unresolved)

	// Output:
	// Text: 2024/05/{CAMERA_MODEL}
	// Resolved: 2
	// Unresolved: [CAMERA_MODEL]
}
