/*
   Copyright 2026 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package apis

// Catalog is one namespace's resolved view: every key path maps to a final,
// pre-compiled literal template with all references dereferenced.
//
// A Catalog is immutable once published and safe for concurrent use.
// Render failures (missing parameters) are per-call and never mutate it.
type Catalog interface {
	// Render expands the template at key with params. It fails with an
	// error matching ErrUnknownKey when key is absent, or
	// ErrMissingParameter when the template needs a parameter params does
	// not bind. Unused parameters are ignored.
	Render(key string, params map[string]string) (string, error)

	// Text returns the resolved (unexpanded) template text at key.
	Text(key string) (string, bool)

	// Placeholders returns the placeholder identifiers of the template at
	// key, in first-occurrence order, or ok=false when key is absent.
	Placeholders(key string) (names []string, ok bool)

	// Keys returns a snapshot of the catalog's key paths (order is
	// unspecified).
	Keys() []string

	// Len returns the number of resolved entries.
	Len() int
}
