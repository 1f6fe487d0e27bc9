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

// Command lcxlint validates a directory of catalog files: it loads every
// catalog, resolves every namespace, and reports malformed entries, reference
// cycles and unresolved references. The exit status is non-zero when any
// finding is reported.
package main

import "os"

// Build information injected via ldflags at build time.
var version = "dev"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
