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

// Package resolver dereferences catalog tables into resolved catalogs.
//
// Resolution is depth-first with per-pass memoization: every (namespace,
// key) pair is resolved at most once regardless of fan-in, and diamond
// dependencies share one compiled template. Cycles are detected with an
// explicit in-progress chain, so no global topological order across
// namespaces is ever required — dependency chains resolve lazily on demand.
package resolver

import (
	"fmt"
	"sort"

	"dirpx.dev/lcx/apis"
	"dirpx.dev/lcx/template"
)

// New constructs the default apis.Resolver.
// The returned resolver is stateless; every Resolve call runs an
// independent pass and is safe to invoke concurrently.
func New() apis.Resolver {
	return engine{}
}

// engine is the stateless resolver implementation.
type engine struct{}

// Ensure engine implements apis.Resolver.
var _ apis.Resolver = engine{}

// Resolve produces the resolved catalog for ns against the raw view in
// tables. On any failure nothing is returned: resolution is all-or-nothing
// for the namespace.
func (engine) Resolve(ns string, tables map[string]apis.Table, cfg apis.Config) (apis.Catalog, error) {
	table, ok := tables[ns]
	if !ok {
		return nil, &apis.UnresolvedError{
			Source: apis.Ref{Namespace: ns},
			Target: apis.Ref{Namespace: ns},
		}
	}

	p := &pass{
		tables: tables,
		memo:   make(map[apis.Ref]*template.Template, len(table)),
		index:  make(map[apis.Ref]int),
	}

	entries := make(map[string]*template.Template, len(table))
	for key := range table {
		tpl, err := p.resolve(apis.Ref{Namespace: ns, Key: key})
		if err != nil {
			return nil, err
		}
		entries[key] = tpl
	}
	return &view{ns: ns, entries: entries}, nil
}

// pass holds the state of one resolution pass.
type pass struct {
	// tables is the read-only raw view across all loaded namespaces.
	tables map[string]apis.Table
	// memo caches resolved templates by (namespace, key).
	memo map[apis.Ref]*template.Template
	// chain is the in-progress dereference chain, in entry order.
	chain []apis.Ref
	// index maps each in-progress ref to its chain position.
	index map[apis.Ref]int
}

// resolve dereferences ref to its final compiled template.
func (p *pass) resolve(ref apis.Ref) (*template.Template, error) {
	if tpl, ok := p.memo[ref]; ok {
		return tpl, nil
	}
	if _, inProgress := p.index[ref]; inProgress {
		chain := make([]apis.Ref, 0, len(p.chain)+1)
		chain = append(chain, p.chain...)
		chain = append(chain, ref)
		return nil, &apis.CycleError{Chain: chain}
	}

	table, ok := p.tables[ref.Namespace]
	if !ok {
		return nil, &apis.UnresolvedError{Source: p.source(ref), Target: ref}
	}
	entry, ok := table[ref.Key]
	if !ok {
		return nil, &apis.UnresolvedError{Source: p.source(ref), Target: ref}
	}

	switch entry.Kind {
	case apis.KindLiteral:
		tpl, err := template.Compile(entry.Text)
		if err != nil {
			return nil, &apis.MalformedError{
				Namespace: ref.Namespace,
				Path:      ref.Key,
				Reason:    err.Error(),
			}
		}
		p.memo[ref] = tpl
		return tpl, nil

	case apis.KindReference:
		// References are transparent: the referent's template becomes this
		// entry's template, shared across fan-in via the memo.
		p.index[ref] = len(p.chain)
		p.chain = append(p.chain, ref)

		tpl, err := p.resolve(entry.Ref)

		p.chain = p.chain[:len(p.chain)-1]
		delete(p.index, ref)

		if err != nil {
			return nil, err
		}
		p.memo[ref] = tpl
		return tpl, nil

	default:
		return nil, &apis.MalformedError{
			Namespace: ref.Namespace,
			Path:      ref.Key,
			Reason:    fmt.Sprintf("unknown entry kind %d", entry.Kind),
		}
	}
}

// source identifies the referencing entry for diagnostics: the tail of the
// in-progress chain, or ref itself at the start of a pass.
func (p *pass) source(ref apis.Ref) apis.Ref {
	if len(p.chain) > 0 {
		return p.chain[len(p.chain)-1]
	}
	return ref
}

// view is the immutable apis.Catalog produced by a successful pass.
type view struct {
	ns      string
	entries map[string]*template.Template
}

// Ensure view implements apis.Catalog.
var _ apis.Catalog = (*view)(nil)

// Render expands the template at key with params.
func (v *view) Render(key string, params map[string]string) (string, error) {
	tpl, ok := v.entries[key]
	if !ok {
		return "", &apis.UnknownError{Namespace: v.ns, Key: key}
	}
	return tpl.Render(params)
}

// Text returns the resolved template text at key.
func (v *view) Text(key string) (string, bool) {
	tpl, ok := v.entries[key]
	if !ok {
		return "", false
	}
	return tpl.Text(), true
}

// Placeholders returns the placeholder names of the template at key.
func (v *view) Placeholders(key string) ([]string, bool) {
	tpl, ok := v.entries[key]
	if !ok {
		return nil, false
	}
	return tpl.Placeholders(), true
}

// Keys returns the catalog's key paths in lexical order.
func (v *view) Keys() []string {
	keys := make([]string, 0, len(v.entries))
	for k := range v.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of resolved entries.
func (v *view) Len() int {
	return len(v.entries)
}
