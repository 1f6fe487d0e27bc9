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

// Package loaders turns catalog files into loaded lcx namespaces.
//
// A catalog file is a JSON, YAML or TOML document holding one namespace's
// nested tree; the file's base name (without extension) is the namespace it
// loads into. Decode failures are reported as malformed catalogs so callers
// can branch on apis.ErrMalformedCatalog regardless of the on-disk format.
package loaders

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"dirpx.dev/lcx"
	"dirpx.dev/lcx/apis"
)

// Extensions recognized by Decode, LoadFile, LoadDir and LoadFS.
const (
	ExtJSON = ".json"
	ExtYAML = ".yaml"
	ExtYML  = ".yml"
	ExtTOML = ".toml"
)

// Namespace returns the namespace a catalog file loads into: the file's base
// name without its extension.
func Namespace(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Supported reports whether name carries a recognized catalog extension.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ExtJSON, ExtYAML, ExtYML, ExtTOML:
		return true
	}
	return false
}

// Decode decodes one catalog document into a nested tree. The decoder is
// selected by the extension of name; the document itself must be a mapping
// at the top level.
func Decode(name string, data []byte) (map[string]any, error) {
	tree := map[string]any{}
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ExtJSON:
		err = json.Unmarshal(data, &tree)
	case ExtYAML, ExtYML:
		err = yaml.Unmarshal(data, &tree)
	case ExtTOML:
		err = toml.Unmarshal(data, &tree)
	default:
		return nil, &apis.MalformedError{
			Namespace: Namespace(name),
			Reason:    fmt.Sprintf("unsupported catalog format %q", filepath.Ext(name)),
		}
	}
	if err != nil {
		return nil, &apis.MalformedError{
			Namespace: Namespace(name),
			Reason:    fmt.Sprintf("decode %s: %v", filepath.Base(name), err),
		}
	}
	return tree, nil
}

// LoadFile decodes one catalog file and loads it into the global registry.
// It returns the namespace the file loaded into.
func LoadFile(name string) (string, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("lcx(loaders): %w", err)
	}
	tree, err := Decode(name, data)
	if err != nil {
		return "", err
	}
	ns := Namespace(name)
	if err := lcx.LoadNamespace(ns, tree); err != nil {
		return "", err
	}
	return ns, nil
}

// LoadDir loads every catalog file under dir (walking subdirectories) into
// the global registry and returns the loaded namespaces in sorted order.
// Two files mapping to the same namespace are rejected rather than silently
// merged.
func LoadDir(dir string) ([]string, error) {
	return LoadFS(os.DirFS(dir), ".")
}

// LoadFS is LoadFile over every catalog file under root in fsys, walking
// subdirectories. It is the embed.FS entry point: ship catalogs inside the
// binary and load them at startup.
func LoadFS(fsys fs.FS, root string) ([]string, error) {
	seen := map[string]string{} // namespace -> file that claimed it
	var files []string

	// Collect and check for namespace collisions before loading anything,
	// so a collision does not leave half the set registered.
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("lcx(loaders): %w", err)
		}
		if d.IsDir() || !Supported(p) {
			return nil
		}
		ns := Namespace(p)
		if prev, dup := seen[ns]; dup {
			return &apis.MalformedError{
				Namespace: ns,
				Reason:    fmt.Sprintf("namespace defined by both %s and %s", prev, path.Base(p)),
			}
		}
		seen[ns] = path.Base(p)
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var namespaces []string
	for _, p := range files {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("lcx(loaders): %w", err)
		}
		tree, err := Decode(p, data)
		if err != nil {
			return nil, err
		}
		ns := Namespace(p)
		if err := lcx.LoadNamespace(ns, tree); err != nil {
			return nil, err
		}
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)
	return namespaces, nil
}
