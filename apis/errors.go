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

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors classifying every failure the engine can produce.
// Structured error types below match their sentinel via errors.Is, so
// callers can branch on the class and still inspect the details.
var (
	// ErrMalformedCatalog indicates a structural load failure: a non-string
	// leaf, an empty segment name, excessive nesting, or an indirection
	// token that does not follow the grammar. The namespace is rejected as
	// a whole; other namespaces are unaffected.
	ErrMalformedCatalog = errors.New("lcx: malformed catalog")

	// ErrReferenceCycle indicates a self-referential resolution chain.
	// Resolution of the namespace is aborted.
	ErrReferenceCycle = errors.New("lcx: reference cycle")

	// ErrUnresolvedReference indicates a reference whose target namespace
	// or key path is absent from the registry. Resolution is aborted; the
	// caller must load the missing dependency and retry.
	ErrUnresolvedReference = errors.New("lcx: unresolved reference")

	// ErrMissingParameter indicates a render-time placeholder with no
	// bound parameter. Local to one lookup; the catalog is unaffected.
	ErrMissingParameter = errors.New("lcx: missing parameter")

	// ErrUnknownKey indicates a lookup of a key (or namespace) absent from
	// the resolved catalogs. Local to one lookup.
	ErrUnknownKey = errors.New("lcx: unknown key")
)

// MalformedError reports a structural problem in one namespace's raw tree.
type MalformedError struct {
	// Namespace is the catalog being loaded.
	Namespace string
	// Path is the key path (possibly partial) where the problem was found.
	Path string
	// Reason describes the problem.
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("lcx(catalog): malformed catalog %q at %q: %s", e.Namespace, e.Path, e.Reason)
}

// Is reports ErrMalformedCatalog as the error class.
func (e *MalformedError) Is(target error) bool { return target == ErrMalformedCatalog }

// CycleError reports a reference cycle. Chain lists the (namespace, key)
// pairs in resolution order; the re-entered pair is repeated at the tail,
// so A -> B -> A yields [A, B, A].
type CycleError struct {
	Chain []Ref
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Chain))
	for i, r := range e.Chain {
		parts[i] = r.String()
	}
	return "lcx(resolver): reference cycle: " + strings.Join(parts, " -> ")
}

// Is reports ErrReferenceCycle as the error class.
func (e *CycleError) Is(target error) bool { return target == ErrReferenceCycle }

// UnresolvedError reports a reference whose target cannot be found.
type UnresolvedError struct {
	// Source is the referencing entry.
	Source Ref
	// Target is the missing (namespace, key) pair.
	Target Ref
}

func (e *UnresolvedError) Error() string {
	if e.Source.Key == "" && e.Target.Key == "" {
		return fmt.Sprintf("lcx(resolver): namespace %q is not loaded", e.Target.Namespace)
	}
	return fmt.Sprintf("lcx(resolver): %s references %s, which is not loaded", e.Source, e.Target)
}

// Is reports ErrUnresolvedReference as the error class.
func (e *UnresolvedError) Is(target error) bool { return target == ErrUnresolvedReference }

// ParamError reports the first unbound placeholder of one render call.
type ParamError struct {
	// Name is the placeholder identifier with no bound parameter.
	Name string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("lcx(template): missing parameter %q", e.Name)
}

// Is reports ErrMissingParameter as the error class.
func (e *ParamError) Is(target error) bool { return target == ErrMissingParameter }

// UnknownError reports a lookup against a key or namespace that is not part
// of any resolved catalog.
type UnknownError struct {
	// Namespace is the requested catalog.
	Namespace string
	// Key is the requested key path ("" when the namespace itself is
	// unknown or unresolved).
	Key string
}

func (e *UnknownError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("lcx: namespace %q is not resolved", e.Namespace)
	}
	return fmt.Sprintf("lcx: unknown key %s", Ref{Namespace: e.Namespace, Key: e.Key})
}

// Is reports ErrUnknownKey as the error class.
func (e *UnknownError) Is(target error) bool { return target == ErrUnknownKey }
