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

package builder

import (
	"dirpx.dev/lcx/apis"
	"dirpx.dev/lcx/registry"
	"dirpx.dev/lcx/resolver"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildStore builds and returns a new apis.Store based on the provided
// configuration and pre-existing store. If a pre-existing store is provided,
// its raw tables are migrated into the new store; resolved catalogs are not
// migrated, since a config change may alter resolution, and are rebuilt on
// the next Resolve of each namespace.
func (b *builder) BuildStore(cfg apis.Config, prev apis.Store) apis.Store {
	next := registry.New()
	if prev != nil {
		for _, ns := range prev.Namespaces() {
			if table, ok := prev.Table(ns); ok {
				next.Load(ns, table)
			}
		}
	}
	return next
}

// BuildResolver builds and returns a new apis.Resolver based on the provided
// configuration and pre-existing resolver. The default resolver is stateless,
// so the previous instance is not reused.
func (b *builder) BuildResolver(_ apis.Config, _ apis.Resolver) apis.Resolver {
	return resolver.New()
}
