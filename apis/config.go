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

// Config carries read-only catalog knobs that influence loading and
// resolution. It is passed by value and should be treated as immutable by
// implementations.
type Config struct {
	// PathSeparator joins tree segment names into flat key paths
	// (e.g. "services.join.name"). It is also the canonical separator for
	// path segments inside an indirection token.
	PathSeparator string

	// NamespaceDelimiter splits the namespace from the key path inside an
	// indirection token (e.g. "common::greeting"). A token without the
	// delimiter refers to the current namespace.
	NamespaceDelimiter string

	// MaxDepth limits tree nesting during flattening. Acts as a safety
	// guard against pathological or accidentally recursive input.
	MaxDepth int
}
