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

// Package lcx provides a global, process-wide localization catalog
// resolution service.
//
// lcx is responsible for turning namespaced string catalogs — nested trees
// whose leaves are template literals or indirection tokens pointing at other
// keys — into fully dereferenced, lookup-ready catalogs. Callers render
// strings through a typed facade: Get("bang_olufsen",
// "services.beolink_join.description", params).
//
// # Design
//
// The core of lcx is a read-mostly global snapshot (state). The snapshot
// holds four things:
//
//   - Config: rules that control how trees are flattened and how
//     indirection tokens are parsed (path separator, namespace delimiter,
//     nesting depth guard).
//
//   - Store: the process-wide namespace registry. It owns every namespace's
//     raw table and resolved catalog, behind its own copy-on-write
//     snapshot, so lookups racing a hot-reload always observe a complete,
//     consistent catalog — never a partially-resolved one.
//
//   - Resolver: a read-only engine that turns one namespace's raw table
//     into a resolved catalog. It dereferences reference entries depth-first
//     with per-pass memoization, detects cycles with an explicit
//     in-progress chain, and compiles every surviving literal template
//     exactly once. Resolution is pure and safe for concurrent passes.
//
//   - Builder: a pluggable factory that constructs Store and Resolver
//     instances for a given Config, migrating loaded namespaces from
//     previous instances on reconfiguration.
//
// All of these live inside a single immutable struct called state. The
// package holds an atomic pointer to the current state. Readers load that
// pointer, use it, and never mutate it. Writers build a brand-new state and
// atomically swap it in.
//
// This means lcx lookups are lock-free on the hot path:
//
//	msg, err := lcx.Get("app", "services.join.description", params)
//	msgs, err := lcx.GetBatch(reqs)
//
// and concurrent callers always see a consistent snapshot.
//
// # Catalog model
//
// A namespace is one component's catalog. Its raw tree flattens into dotted
// key paths ("services.beolink_join.fields.beolink_jid.name"); the engine is
// schema-agnostic below the namespace/key-path/entry model. Each entry is a
// tagged variant:
//
//   - Literal: a template string with {name} placeholders.
//   - Reference: an indirection token, "[%key:<namespace>::<key path>%]",
//     whose effective template is whatever the referenced entry resolves
//     to. Omitting the namespace means "this namespace".
//
// ResolveNamespace is total or it fails: the published catalog contains no
// references, so rendering never chases pointers. References across
// namespaces resolve lazily from the referenced namespace's raw table — no
// global topological load order is required, only that dependencies are
// loaded first. Diamond dependencies cost one resolution thanks to
// memoization; cycles abort with the full dereference chain.
//
// # Global API
//
// The package exposes three groups of operations:
//
//  1. Catalog lifecycle:
//
//     LoadNamespace(ns string, tree map[string]any) error
//     ResolveNamespace(ns string) error
//     UnloadNamespace(ns string)
//
//     Loading replaces the raw table for ns (hot-reload); the previously
//     resolved catalog stays published until resolving succeeds with the
//     new table. Resolving publishes a complete catalog or leaves the
//     previous one intact on failure, so a broken reload degrades to
//     stale, never to missing.
//
//  2. Lookups:
//
//     Get(ns, key string, params map[string]string) (string, error)
//     GetBatch(reqs []Request) ([]string, error)
//     Catalog(ns string) (apis.Catalog, bool)
//     Namespaces() []string
//
//     These are safe for concurrent use without additional locking. They
//     always read from the latest published snapshot. GetBatch is atomic:
//     any unknown key or missing parameter aborts the whole batch.
//
//  3. Reconfiguration:
//
//     SetConfig(cfg apis.Config)
//     SetBuilder(b apis.Builder)
//     SetAll(cfg *apis.Config, str apis.Store, res apis.Resolver, bld apis.Builder)
//     Reset()
//
//     Each of these acquires an internal build lock, derives a new snapshot
//     (rebuilding Store/Resolver through the builder, migrating loaded
//     namespaces), and then atomically publishes that snapshot. SetAll is
//     the "hard reset" API, mainly used by tests to inject mocks and get a
//     clean deterministic state between cases.
//
// # Error taxonomy
//
// Every failure is a typed result, never a silent fallback to raw text:
//
//   - apis.ErrMalformedCatalog — structural load failure; the namespace is
//     rejected as a whole, other namespaces are unaffected.
//   - apis.ErrReferenceCycle — self-referential chain, reported with the
//     full chain; resolution aborted.
//   - apis.ErrUnresolvedReference — target key/namespace not loaded;
//     resolution aborted, load the dependency and retry.
//   - apis.ErrMissingParameter — per-call render failure; catalog intact.
//   - apis.ErrUnknownKey — per-call lookup failure; catalog intact.
//
// # Concurrency model
//
// Reads (Get, GetBatch, Catalog, Namespaces) are wait-free at the facade:
// they load the current *state atomically and never take locks. The Store
// inside the state applies the same discipline one level down, publishing
// complete registry snapshots via an atomic pointer. Writers (LoadNamespace,
// ResolveNamespace, UnloadNamespace) serialize on the store's internal
// mutex; reconfiguration (SetConfig, SetBuilder, SetAll) serializes on the
// package build mutex. No operation suspends or performs I/O — resolution
// is synchronous and bounded by catalog size.
//
// # Usage pattern in a binary
//
// A typical component does:
//
//  1. Decode catalog trees with the loaders package (JSON/YAML/TOML), or
//     supply them directly:
//
//     _ = lcx.LoadNamespace("common", commonTree)
//     _ = lcx.LoadNamespace("app", appTree)
//
//  2. Resolve once at startup (and on hot-reload):
//
//     if err := lcx.ResolveNamespace("app"); err != nil { ... }
//
//  3. Render everywhere strings are needed:
//
//     title, err := lcx.Get("app", "sections.setup.title", nil)
//
//  4. In tests, call lcx.Reset() or lcx.SetAll(...) for deterministic
//     snapshots.
//
// # Scope
//
// lcx is intentionally small. It does not try to be a translation manager:
// no locale fallback chains, no pluralization rules, no formatter pipeline.
// It only solves one job:
//
//	"Given namespaced catalogs full of string-typed pointers, produce
//	 resolved, renderable templates — or a precise, typed reason why not."
//
// Everything else (locale negotiation, file watching, persistence) belongs
// to higher layers.
package lcx
