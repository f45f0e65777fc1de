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

package text

import (
	"strings"
)

// 🔎 Lookup resolves a token name to its replacement text
type Lookup interface {
	Lookup(token string) (string, bool)
}

// LookupFunc adapts a function to Lookup
type LookupFunc func(token string) (string, bool)

func (f LookupFunc) Lookup(token string) (string, bool) { return f(token) }

// Chain tries each Lookup in order; the first hit wins
type Chain []Lookup

func (c Chain) Lookup(token string) (string, bool) {
	for _, l := range c {
		if l == nil {
			continue
		}
		if v, ok := l.Lookup(token); ok {
			return v, true
		}
	}
	return "", false
}

// Map is a fixed token table
type Map map[string]string

func (m Map) Lookup(token string) (string, bool) {
	v, ok := m[token]
	return v, ok
}

// 📝 Result describes one template resolution
type Result struct {
	Text       string   // Resolved text
	Resolved   int      // Number of placeholders replaced
	Unresolved []string // Tokens left in place, in order of appearance
}

// Complete reports whether every placeholder was replaced
func (r *Result) Complete() bool {
	return len(r.Unresolved) == 0
}

// Resolve replaces every {TOKEN} in template with its value from lookup.
// Unknown tokens are left literally in place.
func Resolve(template string, lookup Lookup) *Result {
	res := &Result{}
	if template == "" {
		return res
	}

	var b strings.Builder
	b.Grow(len(template))

	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open+1:], '}')
		if end < 0 {
			b.WriteString(rest)
			break
		}
		end += open + 1

		token := rest[open+1 : end]
		// a nested brace means this '{' is literal text
		if inner := strings.LastIndexByte(token, '{'); inner >= 0 {
			b.WriteString(rest[:open+1+inner])
			rest = rest[open+1+inner:]
			continue
		}

		b.WriteString(rest[:open])
		if v, ok := lookup.Lookup(token); ok && token != "" {
			b.WriteString(v)
			res.Resolved++
		} else {
			b.WriteString(rest[open : end+1])
			if token != "" {
				res.Unresolved = append(res.Unresolved, token)
			}
		}
		rest = rest[end+1:]
	}

	res.Text = b.String()
	return res
}

// Tokens lists the placeholder names in template, in order of appearance
func Tokens(template string) []string {
	res := Resolve(template, LookupFunc(func(string) (string, bool) { return "", false }))
	return res.Unresolved
}
