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

// Store is the process-wide namespace registry: it owns every namespace's
// raw table and resolved Catalog for its lifetime. Callers receive read-only
// views, never ownership.
//
// Implementations follow a copy-on-write discipline: reads are lock-free
// against an immutable snapshot, writes build a complete replacement and
// swap it in atomically, so in-flight lookups always observe a consistent
// catalog (old or new, never partially resolved).
type Store interface {
	// Load registers (or replaces) the raw table for ns. A previously
	// resolved catalog for ns stays published until Resolve succeeds
	// against the new table; catalogs of other namespaces are untouched
	// even if they referenced ns (re-resolve to pick up the new table).
	Load(ns string, table Table)

	// Resolve builds and publishes the resolved catalog for ns using res,
	// replacing the previous one. On failure nothing is published and the
	// previously resolved catalog for ns (if any) stays intact.
	Resolve(ns string, res Resolver, cfg Config) error

	// Catalog returns the resolved catalog for ns, if one is published.
	Catalog(ns string) (Catalog, bool)

	// Table returns the raw table for ns, if loaded.
	Table(ns string) (Table, bool)

	// Tables returns the current raw view across all namespaces. The
	// returned map is a snapshot and must not be mutated.
	Tables() map[string]Table

	// Unload removes ns entirely (raw table and resolved catalog).
	Unload(ns string)

	// Namespaces returns the loaded namespace identifiers in lexical order.
	Namespaces() []string

	// Len returns the number of loaded namespaces.
	Len() int

	// Reset drops all namespaces.
	Reset()
}
