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

// Resolver turns one namespace's raw table into a resolved Catalog,
// dereferencing every Reference entry against the full set of loaded tables.
//
// Resolution is pure: it reads tables, never mutates them, and publishes
// nothing itself. Implementations must be safe for concurrent Resolve calls
// on distinct inputs.
type Resolver interface {
	// Resolve produces the resolved Catalog for namespace ns.
	//
	// tables is the registry's current raw view, keyed by namespace; it
	// must contain ns itself plus every namespace ns references
	// (transitively). Failure modes, all aborting the whole namespace:
	//
	//   - ErrUnresolvedReference: a target key or namespace is absent.
	//   - ErrReferenceCycle: the dereference chain re-enters itself.
	//   - ErrMalformedCatalog: a resolved literal fails template
	//     compilation.
	Resolve(ns string, tables map[string]Table, cfg Config) (Catalog, error)
}
