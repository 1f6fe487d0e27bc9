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

package lcx

import (
	"errors"
	"sync"
	"sync/atomic"

	"dirpx.dev/lcx/apis"
	"dirpx.dev/lcx/builder"
	"dirpx.dev/lcx/catalog"
	"dirpx.dev/lcx/config"
)

// init initializes the global lcx state.
func init() {
	// Initialize state with default cfg, store, and resolver.
	s := &state{cfg: config.DefaultConfig()}
	b := builder.New()
	s.str = b.BuildStore(s.cfg, nil)
	s.res = b.BuildResolver(s.cfg, nil)
	s.bld = b
	// Store the initial state atomically.
	st.Store(s)
}

var (
	// ErrNilStore is returned when a builder returns a nil store.
	ErrNilStore = errors.New("lcx: builder returned nil store")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("lcx: builder returned nil resolver")
)

// Request is one GetBatch item.
type Request struct {
	// Namespace names the catalog to look in.
	Namespace string
	// Key is the dotted key path.
	Key string
	// Params binds the template's placeholders (may be nil).
	Params map[string]string
}

// LoadNamespace flattens tree and registers it as the raw table for ns,
// replacing any prior table (hot-reload). A previously resolved catalog for
// ns stays published until ResolveNamespace succeeds with the new table, so
// lookups never fail mid-reload.
//
// A malformed tree fails with an error matching apis.ErrMalformedCatalog and
// leaves the registry untouched.
func LoadNamespace(ns string, tree map[string]any) error {
	s := st.Load()
	table, err := catalog.Flatten(ns, tree, s.cfg)
	if err != nil {
		return err
	}
	s.str.Load(ns, table)
	return nil
}

// ResolveNamespace builds and publishes the resolved catalog for ns,
// dereferencing every reference against the currently loaded namespaces.
//
// All-or-nothing: on failure (apis.ErrReferenceCycle,
// apis.ErrUnresolvedReference, apis.ErrMalformedCatalog) nothing is
// published and a previously resolved catalog for ns stays intact.
// Dependencies resolve lazily from their raw tables; they do not need to be
// resolved first, only loaded.
func ResolveNamespace(ns string) error {
	s := st.Load()
	return s.str.Resolve(ns, s.res, s.cfg)
}

// Get renders the entry at (ns, key) with params.
//
// It fails with an error matching apis.ErrUnknownKey when ns has no resolved
// catalog or key is absent, and apis.ErrMissingParameter when the template
// needs a parameter params does not bind. Failures are per-call: the catalog
// is never affected.
func Get(ns, key string, params map[string]string) (string, error) {
	cat, ok := st.Load().str.Catalog(ns)
	if !ok {
		return "", &apis.UnknownError{Namespace: ns}
	}
	return cat.Render(key, params)
}

// GetBatch renders every request against a single registry snapshot.
//
// The batch is atomic: the first unknown key or missing parameter aborts the
// whole call with no partial output. On success the results are returned in
// request order.
func GetBatch(reqs []Request) ([]string, error) {
	s := st.Load()

	// Pin each namespace's catalog once so all requests in the batch see
	// one consistent generation even if a reload lands mid-call.
	cats := make(map[string]apis.Catalog, 2)
	out := make([]string, len(reqs))
	for i, r := range reqs {
		cat, ok := cats[r.Namespace]
		if !ok {
			cat, ok = s.str.Catalog(r.Namespace)
			if !ok {
				return nil, &apis.UnknownError{Namespace: r.Namespace}
			}
			cats[r.Namespace] = cat
		}
		v, err := cat.Render(r.Key, r.Params)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// UnloadNamespace removes ns from the registry entirely (raw table and
// resolved catalog). Catalog views handed out earlier stay usable.
func UnloadNamespace(ns string) {
	st.Load().str.Unload(ns)
}

// Namespaces returns the loaded namespace identifiers in lexical order.
func Namespaces() []string {
	return st.Load().str.Namespaces()
}

// Catalog returns the resolved catalog for ns, if one is published.
// The returned view is read-only and stays consistent across reloads.
func Catalog(ns string) (apis.Catalog, bool) {
	return st.Load().str.Catalog(ns)
}

// Config returns the global lcx configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global lcx configuration to cfg.
// It rebuilds the global store (migrating raw tables) and resolver using the
// new configuration; resolved catalogs are rebuilt on the next
// ResolveNamespace of each namespace, since separators affect parsing.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	// Build new store and resolver based on the new cfg and old state.
	nstr := b.BuildStore(cfg, old.str)
	nres := b.BuildResolver(cfg, old.res)

	// Ensure non-nil store and resolver.
	if nstr == nil {
		panic(ErrNilStore)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg: cfg,
			str: nstr,
			res: nres,
			bld: b,
		},
	)
}

// Store returns the global lcx store.
func Store() apis.Store {
	return st.Load().str
}

// Resolver returns the global lcx resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// Builder returns the global lcx builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global lcx builder to b.
// It rebuilds the global store (migrating raw tables) and resolver through
// the new builder.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Build new store and resolver based on the new builder and old state.
	nstr := b.BuildStore(old.cfg, old.str)
	nres := b.BuildResolver(old.cfg, old.res)

	// Ensure non-nil store and resolver.
	if nstr == nil {
		panic(ErrNilStore)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg: old.cfg,
			str: nstr,
			res: nres,
			bld: b,
		},
	)
}

// SetAll explicitly sets all global lcx state components.
//
// Nil arguments leave the corresponding component to be rebuilt by the
// (possibly new) builder. This is mainly used by tests to get a clean
// deterministic state between test cases.
func SetAll(cfg *apis.Config, str apis.Store, res apis.Resolver, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Configuration
	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}

	// Builder
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	// Store
	nstr := str
	if nstr == nil {
		nstr = nbld.BuildStore(ncfg, old.str)
	}

	// Resolver
	nres := res
	if nres == nil {
		nres = nbld.BuildResolver(ncfg, old.res)
	}

	// Ensure non-nil store and resolver.
	if nstr == nil {
		panic(ErrNilStore)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg: ncfg,
			str: nstr,
			res: nres,
			bld: nbld,
		},
	)
}

// Reset restores defaults and drops every loaded namespace.
// Intended for tests.
func Reset() {
	buildMu.Lock()
	defer buildMu.Unlock()

	s := &state{cfg: config.DefaultConfig()}
	b := builder.New()
	s.str = b.BuildStore(s.cfg, nil)
	s.res = b.BuildResolver(s.cfg, nil)
	s.bld = b
	st.Store(s)
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global lcx state.
var st atomic.Pointer[state]

// state is the global lcx state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global lcx configuration.
	cfg apis.Config
	// str is the global namespace store.
	str apis.Store
	// res is the global resolver.
	res apis.Resolver
	// bld is the global builder.
	bld apis.Builder
}
