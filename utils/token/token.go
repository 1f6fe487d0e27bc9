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

package token

import (
	"errors"
	"strings"

	"dirpx.dev/lcx/apis"
)

// Indirection token grammar:
//
//	[%key:<namespace>::<key-path>%]
//	[%key:<key-path>%]               (same-namespace form)
//
// The key path is dot- or colon-separated; both separators normalize to the
// configured path separator. Any ambiguity (empty segments, repeated
// namespace delimiters, nested markers) is rejected rather than guessed.
const (
	// Prefix opens an indirection token.
	Prefix = "[%key:"
	// Suffix closes an indirection token.
	Suffix = "%]"
)

var (
	// ErrEmptyPath is returned when the token carries no key path.
	ErrEmptyPath = errors.New("token: empty key path")
	// ErrEmptySegment is returned when a key path segment is empty.
	ErrEmptySegment = errors.New("token: empty key path segment")
	// ErrBadNamespace is returned when the namespace part is empty or
	// contains path separators.
	ErrBadNamespace = errors.New("token: invalid namespace")
	// ErrAmbiguous is returned when the namespace delimiter appears more
	// than once, leaving no unambiguous parse.
	ErrAmbiguous = errors.New("token: ambiguous namespace delimiter")
	// ErrNested is returned when a token marker appears inside the token.
	ErrNested = errors.New("token: nested token marker")
)

// IsToken reports whether s is shaped like an indirection token.
// It is a cheap structural check; Parse still validates the interior.
func IsToken(s string) bool {
	return len(s) > len(Prefix)+len(Suffix) &&
		strings.HasPrefix(s, Prefix) &&
		strings.HasSuffix(s, Suffix)
}

// Parse parses an indirection token into a Ref.
//
// It returns ok=false (and no error) when s is not token-shaped at all, so
// callers can treat such values as plain literals. A token-shaped value that
// violates the grammar returns an error: the catalog must reject it rather
// than fall back to literal text.
//
// The returned Ref carries an empty Namespace for the same-namespace form;
// the caller normalizes it to the owning namespace.
func Parse(s string, cfg apis.Config) (ref apis.Ref, ok bool, err error) {
	if !IsToken(s) {
		return apis.Ref{}, false, nil
	}

	body := s[len(Prefix) : len(s)-len(Suffix)]
	if strings.Contains(body, Prefix) || strings.Contains(body, Suffix) {
		return apis.Ref{}, true, ErrNested
	}

	// Split off the namespace, if any.
	ns := ""
	path := body
	if delim := cfg.NamespaceDelimiter; delim != "" {
		switch parts := strings.Split(body, delim); len(parts) {
		case 1:
			// same-namespace form
		case 2:
			ns, path = parts[0], parts[1]
			if ns == "" || strings.ContainsAny(ns, ".:") {
				return apis.Ref{}, true, ErrBadNamespace
			}
		default:
			return apis.Ref{}, true, ErrAmbiguous
		}
	}

	key, err := normalizePath(path, cfg.PathSeparator)
	if err != nil {
		return apis.Ref{}, true, err
	}
	return apis.Ref{Namespace: ns, Key: key}, true, nil
}

// normalizePath splits a dot- or colon-separated token path and rejoins it
// with sep, rejecting empty paths and empty segments.
func normalizePath(path, sep string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	segs := strings.FieldsFunc(path, func(r rune) bool {
		return r == '.' || r == ':'
	})
	// FieldsFunc drops empty fields, so detect them by re-counting:
	// a valid path has exactly len(segs)-1 separator runes of length one.
	if countSeparators(path) != len(segs)-1 || len(segs) == 0 {
		return "", ErrEmptySegment
	}
	return strings.Join(segs, sep), nil
}

// countSeparators counts '.' and ':' runes in path.
func countSeparators(path string) int {
	n := 0
	for _, r := range path {
		if r == '.' || r == ':' {
			n++
		}
	}
	return n
}
