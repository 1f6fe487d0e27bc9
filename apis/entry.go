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

// EntryKind discriminates the two Entry variants.
type EntryKind uint8

const (
	// KindLiteral marks an entry whose Text is a final template string.
	KindLiteral EntryKind = iota
	// KindReference marks an entry whose Ref points at another entry.
	KindReference
)

// String returns a short, stable name for the kind (used in diagnostics).
func (k EntryKind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindReference:
		return "reference"
	default:
		return "unknown"
	}
}

// Entry is a single raw catalog value: a tagged variant that is either a
// literal template string or a reference to another (namespace, key path).
//
// Keeping the variant explicit (rather than overloading the string type)
// makes resolution dispatch exhaustive and turns "must resolve before use"
// into a type-level invariant: a Catalog never contains KindReference.
type Entry struct {
	// Kind selects the active variant.
	Kind EntryKind
	// Text is the literal template text. Meaningful only for KindLiteral.
	Text string
	// Ref is the indirection target. Meaningful only for KindReference.
	Ref Ref
}

// Literal constructs a literal Entry from template text.
func Literal(text string) Entry {
	return Entry{Kind: KindLiteral, Text: text}
}

// Reference constructs a reference Entry pointing at target.
func Reference(target Ref) Entry {
	return Entry{Kind: KindReference, Ref: target}
}

// Ref addresses one entry in the registry: a namespace plus a key path.
// An empty Namespace means "the namespace of the referencing entry"; the
// catalog loader normalizes it to the owning namespace before the Ref is
// stored, so resolver inputs always carry an explicit namespace.
type Ref struct {
	// Namespace names the target catalog.
	Namespace string
	// Key is the dotted key path inside Namespace.
	Key string
}

// String renders the ref in token notation, e.g. "common::greeting.name".
func (r Ref) String() string {
	return r.Namespace + "::" + r.Key
}

// Table is one namespace's flat, unresolved key table: key path -> Entry.
// Tables are built once by the catalog loader and treated as immutable by
// everything downstream.
type Table map[string]Entry
