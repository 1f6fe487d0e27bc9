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

// Builder composes Store and Resolver instances for a Config.
// Implementations may migrate state from previous instances (prev*), or
// ignore them.
type Builder interface {
	// BuildStore constructs a Store for Config. May migrate namespaces
	// from the previous store.
	BuildStore(cfg Config, prev Store) Store
	// BuildResolver constructs a Resolver for Config. May reuse state from
	// the previous resolver.
	BuildResolver(cfg Config, prev Resolver) Resolver
}
