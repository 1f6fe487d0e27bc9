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

// Package registry implements the process-wide namespace store.
//
// The store keeps one immutable snapshot of all raw tables and resolved
// catalogs behind an atomic pointer. Readers load the pointer and never take
// locks; writers are serialized by a mutex, build a complete replacement
// snapshot, and swap it in. A reload therefore never exposes a partially
// resolved catalog to in-flight lookups.
package registry

import (
	"sort"
	"sync"
	"sync/atomic"

	"dirpx.dev/lcx/apis"
)

// New constructs an empty Store.
func New() apis.Store {
	s := &store{}
	s.snap.Store(emptySnapshot())
	return s
}

// store is the copy-on-write Store implementation.
type store struct {
	// mu serializes writers so snapshots derive from the latest state.
	mu sync.Mutex
	// snap is the current immutable snapshot.
	snap atomic.Pointer[snapshot]
}

// Ensure store implements apis.Store.
var _ apis.Store = (*store)(nil)

// snapshot is one immutable view of the registry. Never mutate a published
// snapshot; writers clone and swap.
type snapshot struct {
	// tables holds each namespace's raw table.
	tables map[string]apis.Table
	// catalogs holds each resolved namespace's catalog. A namespace may be
	// loaded but not (yet) resolved.
	catalogs map[string]apis.Catalog
}

func emptySnapshot() *snapshot {
	return &snapshot{
		tables:   make(map[string]apis.Table),
		catalogs: make(map[string]apis.Catalog),
	}
}

// clone copies the snapshot's maps (shallow: tables and catalogs are
// themselves immutable).
func (s *snapshot) clone() *snapshot {
	next := &snapshot{
		tables:   make(map[string]apis.Table, len(s.tables)),
		catalogs: make(map[string]apis.Catalog, len(s.catalogs)),
	}
	for ns, t := range s.tables {
		next.tables[ns] = t
	}
	for ns, c := range s.catalogs {
		next.catalogs[ns] = c
	}
	return next
}

// Load registers (or replaces) the raw table for ns. A previously resolved
// catalog for ns stays published until Resolve succeeds against the new
// table, so a hot reload never opens a window where lookups fail, and a
// reload whose resolve fails keeps serving the previous catalog. Catalogs of
// other namespaces stay published even if they referenced ns; re-resolving
// them picks up the new table.
func (s *store) Load(ns string, table apis.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.Load().clone()
	next.tables[ns] = table
	s.snap.Store(next)
}

// Resolve builds and publishes the resolved catalog for ns, replacing the
// previous one. On failure nothing is published: the previous catalog stays
// intact and in-flight lookups keep reading it.
func (s *store) Resolve(ns string, res apis.Resolver, cfg apis.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.snap.Load()
	cat, err := res.Resolve(ns, cur.tables, cfg)
	if err != nil {
		return err
	}

	next := cur.clone()
	next.catalogs[ns] = cat
	s.snap.Store(next)
	return nil
}

// Catalog returns the resolved catalog for ns, if one is published.
func (s *store) Catalog(ns string) (apis.Catalog, bool) {
	cat, ok := s.snap.Load().catalogs[ns]
	return cat, ok
}

// Table returns the raw table for ns, if loaded.
func (s *store) Table(ns string) (apis.Table, bool) {
	t, ok := s.snap.Load().tables[ns]
	return t, ok
}

// Tables returns the current raw view. The returned map belongs to the
// snapshot and must not be mutated.
func (s *store) Tables() map[string]apis.Table {
	return s.snap.Load().tables
}

// Unload removes ns entirely.
func (s *store) Unload(ns string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.Load().clone()
	delete(next.tables, ns)
	delete(next.catalogs, ns)
	s.snap.Store(next)
}

// Namespaces returns the loaded namespace identifiers in lexical order.
func (s *store) Namespaces() []string {
	tables := s.snap.Load().tables
	out := make([]string, 0, len(tables))
	for ns := range tables {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of loaded namespaces.
func (s *store) Len() int {
	return len(s.snap.Load().tables)
}

// Reset drops all namespaces.
func (s *store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Store(emptySnapshot())
}
