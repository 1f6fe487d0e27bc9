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

// Package catalog flattens raw namespaced string trees into flat key tables.
//
// The loader is schema-agnostic: structural groups (sections, fields, flows)
// are just deeper key paths. It only distinguishes literal leaves from
// indirection tokens, which it parses eagerly so malformed tokens surface at
// load time rather than at resolution.
package catalog

import (
	"fmt"
	"strings"

	"dirpx.dev/lcx/apis"
	"dirpx.dev/lcx/utils/token"
)

// Flatten walks tree depth-first and produces the flat raw table for
// namespace ns, joining segment names with cfg.PathSeparator.
//
// Failure modes (all matching apis.ErrMalformedCatalog, rejecting the whole
// namespace): empty or separator-carrying namespace identifiers, empty
// segment names, non-string non-object leaves, nesting beyond cfg.MaxDepth,
// and indirection tokens violating the grammar. Same-namespace references
// are normalized to ns here, so downstream Refs always carry an explicit
// namespace.
func Flatten(ns string, tree map[string]any, cfg apis.Config) (apis.Table, error) {
	if err := validateNamespace(ns, cfg); err != nil {
		return nil, err
	}

	table := make(apis.Table, len(tree))
	if err := walk(ns, "", tree, table, cfg, 1); err != nil {
		return nil, err
	}
	return table, nil
}

// walk recursively flattens node under prefix into table.
func walk(ns, prefix string, node map[string]any, table apis.Table, cfg apis.Config, depth int) error {
	if depth > cfg.MaxDepth {
		return &apis.MalformedError{
			Namespace: ns,
			Path:      prefix,
			Reason:    fmt.Sprintf("nesting exceeds max depth %d", cfg.MaxDepth),
		}
	}

	for seg, v := range node {
		if seg == "" {
			return &apis.MalformedError{Namespace: ns, Path: prefix, Reason: "empty segment name"}
		}
		if strings.Contains(seg, cfg.PathSeparator) {
			return &apis.MalformedError{
				Namespace: ns,
				Path:      prefix,
				Reason:    fmt.Sprintf("segment %q contains the path separator", seg),
			}
		}

		path := seg
		if prefix != "" {
			path = prefix + cfg.PathSeparator + seg
		}

		switch child := v.(type) {
		case string:
			entry, err := parseLeaf(ns, path, child, cfg)
			if err != nil {
				return err
			}
			table[path] = entry

		case map[string]any:
			if len(child) == 0 {
				return &apis.MalformedError{Namespace: ns, Path: path, Reason: "empty group"}
			}
			if err := walk(ns, path, child, table, cfg, depth+1); err != nil {
				return err
			}

		case nil:
			return &apis.MalformedError{Namespace: ns, Path: path, Reason: "null value"}

		default:
			return &apis.MalformedError{
				Namespace: ns,
				Path:      path,
				Reason:    fmt.Sprintf("unsupported value of type %T", v),
			}
		}
	}
	return nil
}

// parseLeaf classifies a string leaf as a literal or an indirection token.
func parseLeaf(ns, path, s string, cfg apis.Config) (apis.Entry, error) {
	ref, isTok, err := token.Parse(s, cfg)
	if err != nil {
		return apis.Entry{}, &apis.MalformedError{
			Namespace: ns,
			Path:      path,
			Reason:    err.Error(),
		}
	}
	if !isTok {
		// A leaf that opens like a token but fails the structural check is
		// a truncated token, not a literal. Reject rather than guess.
		if strings.HasPrefix(s, token.Prefix) {
			return apis.Entry{}, &apis.MalformedError{
				Namespace: ns,
				Path:      path,
				Reason:    "truncated indirection token",
			}
		}
		return apis.Literal(s), nil
	}

	if ref.Namespace == "" {
		ref.Namespace = ns
	}
	return apis.Reference(ref), nil
}

// validateNamespace rejects namespace identifiers the token grammar could
// never address.
func validateNamespace(ns string, cfg apis.Config) error {
	if ns == "" {
		return &apis.MalformedError{Namespace: ns, Reason: "empty namespace identifier"}
	}
	if strings.ContainsAny(ns, ".:") || strings.Contains(ns, cfg.NamespaceDelimiter) {
		return &apis.MalformedError{
			Namespace: ns,
			Reason:    "namespace identifier contains separator characters",
		}
	}
	return nil
}
