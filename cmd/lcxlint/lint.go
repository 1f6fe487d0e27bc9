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

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"

	"dirpx.dev/lcx"
	"dirpx.dev/lcx/apis"
	"dirpx.dev/lcx/loaders"
)

// options configures one lint run.
type options struct {
	params bool
	cfg    apis.Config
}

// Finding is one problem the linter reports.
type Finding struct {
	// File is the catalog file the finding belongs to ("" for findings
	// that surface at resolve time and span files).
	File string
	// Namespace is the affected namespace.
	Namespace string
	// Kind classifies the finding: malformed, cycle or unresolved.
	Kind string
	// Err is the underlying engine error.
	Err error
}

// Report is the outcome of one lint run.
type Report struct {
	// Namespaces that loaded and resolved.
	Namespaces []string
	// Keys is the total resolved key count across namespaces.
	Keys int
	// Findings holds every problem, in file order then namespace order.
	Findings []Finding
}

func classify(err error) string {
	switch {
	case errors.Is(err, apis.ErrReferenceCycle):
		return "cycle"
	case errors.Is(err, apis.ErrUnresolvedReference):
		return "unresolved"
	case errors.Is(err, apis.ErrMalformedCatalog):
		return "malformed"
	}
	return "error"
}

// lint loads every catalog file under dir into a fresh engine state,
// resolves every namespace, and collects findings instead of stopping at
// the first problem. Returns a non-nil error only for environment failures
// (unreadable directory); catalog problems are findings, not errors.
func lint(dir string, opts options, logger *slog.Logger) (*Report, error) {
	lcx.Reset()
	lcx.SetConfig(opts.cfg)

	fsys := os.DirFS(dir)
	report := &Report{}
	seen := map[string]string{} // namespace -> file that claimed it
	var loaded []string

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !loaders.Supported(p) {
			return nil
		}
		ns := loaders.Namespace(p)
		if prev, dup := seen[ns]; dup {
			report.Findings = append(report.Findings, Finding{
				File:      p,
				Namespace: ns,
				Kind:      "malformed",
				Err:       fmt.Errorf("namespace %q already defined by %s", ns, prev),
			})
			return nil
		}
		seen[ns] = p

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		tree, err := loaders.Decode(p, data)
		if err == nil {
			err = lcx.LoadNamespace(ns, tree)
		}
		if err != nil {
			report.Findings = append(report.Findings, Finding{
				File: p, Namespace: ns, Kind: classify(err), Err: err,
			})
			return nil
		}
		loaded = append(loaded, ns)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(loaded)
	for _, ns := range loaded {
		if err := lcx.ResolveNamespace(ns); err != nil {
			report.Findings = append(report.Findings, Finding{
				Namespace: ns, Kind: classify(err), Err: err,
			})
			continue
		}
		report.Namespaces = append(report.Namespaces, ns)
	}

	for _, f := range report.Findings {
		logger.Error(f.Kind, "file", f.File, "namespace", f.Namespace, "err", f.Err)
	}

	for _, ns := range report.Namespaces {
		cat, ok := lcx.Catalog(ns)
		if !ok {
			continue
		}
		report.Keys += cat.Len()
		if !opts.params {
			continue
		}
		for _, key := range cat.Keys() {
			names, _ := cat.Placeholders(key)
			if len(names) == 0 {
				logger.Info("key", "ref", apis.Ref{Namespace: ns, Key: key})
				continue
			}
			logger.Info("key",
				"ref", apis.Ref{Namespace: ns, Key: key},
				"params", strings.Join(names, ","))
		}
	}
	return report, nil
}
