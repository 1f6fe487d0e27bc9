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

// Package template compiles and renders literal catalog templates.
//
// The grammar is deliberately tiny: static text interleaved with
// {identifier} placeholders. No formatters, no conditionals, no nesting, no
// arithmetic. Compilation happens once per resolved entry; rendering is a
// cheap per-call substitution.
package template

import (
	"errors"
	"fmt"
	"strings"

	"dirpx.dev/lcx/apis"
)

var (
	// ErrUnbalancedBrace is returned when a '{' has no matching '}' or a
	// '}' appears outside a placeholder.
	ErrUnbalancedBrace = errors.New("template: unbalanced brace")
	// ErrEmptyPlaceholder is returned for "{}".
	ErrEmptyPlaceholder = errors.New("template: empty placeholder")
	// ErrBadIdentifier is returned when a placeholder name contains
	// characters outside [A-Za-z0-9_].
	ErrBadIdentifier = errors.New("template: invalid placeholder identifier")
)

// segment is one compiled piece: static text or a placeholder name.
type segment struct {
	value string
	param bool
}

// Template is a compiled literal template. It is immutable and safe for
// concurrent Render calls.
type Template struct {
	text  string
	segs  []segment
	names []string // placeholder names, first-occurrence order, unique
}

// Compile parses text into a Template in a single left-to-right scan.
func Compile(text string) (*Template, error) {
	t := &Template{text: text}

	var buf strings.Builder
	seen := map[string]struct{}{}

	for i := 0; i < len(text); {
		switch text[i] {
		case '}':
			return nil, fmt.Errorf("%w: stray '}' at offset %d in %q", ErrUnbalancedBrace, i, text)

		case '{':
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed '{' at offset %d in %q", ErrUnbalancedBrace, i, text)
			}
			name := text[i+1 : i+1+end]
			if name == "" {
				return nil, fmt.Errorf("%w at offset %d in %q", ErrEmptyPlaceholder, i, text)
			}
			if !validIdentifier(name) {
				return nil, fmt.Errorf("%w: %q in %q", ErrBadIdentifier, name, text)
			}
			if buf.Len() > 0 {
				t.segs = append(t.segs, segment{value: buf.String()})
				buf.Reset()
			}
			t.segs = append(t.segs, segment{value: name, param: true})
			if _, dup := seen[name]; !dup {
				seen[name] = struct{}{}
				t.names = append(t.names, name)
			}
			i += end + 2

		default:
			buf.WriteByte(text[i])
			i++
		}
	}
	if buf.Len() > 0 {
		t.segs = append(t.segs, segment{value: buf.String()})
	}
	return t, nil
}

// MustCompile is like Compile but panics on error. Intended for tests and
// static templates.
func MustCompile(text string) *Template {
	t, err := Compile(text)
	if err != nil {
		panic(err)
	}
	return t
}

// Render substitutes every placeholder with its parameter value.
//
// The first unbound placeholder (leftmost) fails with an error matching
// apis.ErrMissingParameter. Unused parameters are ignored. A template with
// zero placeholders returns its text unchanged regardless of params.
func (t *Template) Render(params map[string]string) (string, error) {
	if len(t.names) == 0 {
		return t.text, nil
	}

	var b strings.Builder
	b.Grow(len(t.text))
	for _, s := range t.segs {
		if !s.param {
			b.WriteString(s.value)
			continue
		}
		v, ok := params[s.value]
		if !ok {
			return "", &apis.ParamError{Name: s.value}
		}
		b.WriteString(v)
	}
	return b.String(), nil
}

// Text returns the original (unexpanded) template text.
func (t *Template) Text() string {
	return t.text
}

// Placeholders returns the placeholder names in first-occurrence order.
// The returned slice is a copy.
func (t *Template) Placeholders() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// validIdentifier reports whether name is a placeholder identifier:
// a non-empty run of letters, digits, or underscores.
func validIdentifier(name string) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}
	return name != ""
}
