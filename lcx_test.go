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

package lcx

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/lcx/apis"
	"dirpx.dev/lcx/config"
)

// reset restores a clean default snapshot before and after a test.
func reset(tb testing.TB) {
	tb.Helper()
	Reset()
	tb.Cleanup(Reset)
}

// ---------------------- Test doubles (mocks) ----------------------

// mockResolver counts passes and delegates to the real engine through the
// builder-provided resolver captured at swap time.
type mockResolver struct {
	inner    apis.Resolver
	mu       sync.Mutex
	resolveC int
}

func (r *mockResolver) Resolve(ns string, tables map[string]apis.Table, cfg apis.Config) (apis.Catalog, error) {
	r.mu.Lock()
	r.resolveC++
	r.mu.Unlock()
	return r.inner.Resolve(ns, tables, cfg)
}

func (r *mockResolver) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveC
}

// mockBuilder records the configs it was asked to build for.
type mockBuilder struct {
	inner   apis.Builder
	mu      sync.Mutex
	lastCfg apis.Config
	storeC  int
	resC    int
}

func (b *mockBuilder) BuildStore(cfg apis.Config, prev apis.Store) apis.Store {
	b.mu.Lock()
	b.lastCfg = cfg
	b.storeC++
	b.mu.Unlock()
	return b.inner.BuildStore(cfg, prev)
}

func (b *mockBuilder) BuildResolver(cfg apis.Config, prev apis.Resolver) apis.Resolver {
	b.mu.Lock()
	b.lastCfg = cfg
	b.resC++
	b.mu.Unlock()
	return b.inner.BuildResolver(cfg, prev)
}

// ---------------------- Lifecycle + lookup ----------------------

func TestEndToEnd_LoadResolveGet(t *testing.T) {
	reset(t)

	err := LoadNamespace("bang_olufsen", map[string]any{
		"services": map[string]any{
			"beolink_join": map[string]any{
				"name":        "Beolink join",
				"description": "Join {name} at {host}",
			},
		},
	})
	if err != nil {
		t.Fatalf("LoadNamespace: %v", err)
	}
	if err := ResolveNamespace("bang_olufsen"); err != nil {
		t.Fatalf("ResolveNamespace: %v", err)
	}

	got, err := Get("bang_olufsen", "services.beolink_join.description",
		map[string]string{"name": "Kitchen", "host": "10.0.0.5"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if want := "Join Kitchen at 10.0.0.5"; got != want {
		t.Fatalf("Get = %q, want %q", got, want)
	}

	// Missing parameter is per-call and names the first unbound placeholder.
	_, err = Get("bang_olufsen", "services.beolink_join.description",
		map[string]string{"name": "Kitchen"})
	var pe *apis.ParamError
	if !errors.As(err, &pe) || pe.Name != "host" {
		t.Fatalf("err = %v, want missing parameter \"host\"", err)
	}
	// The catalog is unaffected by the failed render.
	if _, err := Get("bang_olufsen", "services.beolink_join.name", nil); err != nil {
		t.Fatalf("Get after failed render: %v", err)
	}
}

func TestCrossNamespaceReference(t *testing.T) {
	reset(t)

	if err := LoadNamespace("common", map[string]any{"x": "hello"}); err != nil {
		t.Fatalf("LoadNamespace(common): %v", err)
	}
	if err := LoadNamespace("app", map[string]any{"y": "[%key:common::x%]"}); err != nil {
		t.Fatalf("LoadNamespace(app): %v", err)
	}
	if err := ResolveNamespace("app"); err != nil {
		t.Fatalf("ResolveNamespace(app): %v", err)
	}

	if got, err := Get("app", "y", nil); err != nil || got != "hello" {
		t.Fatalf("Get(app, y) = (%q, %v), want \"hello\"", got, err)
	}
}

func TestResolve_DependencyNotLoaded(t *testing.T) {
	reset(t)

	if err := LoadNamespace("app", map[string]any{"y": "[%key:common::x%]"}); err != nil {
		t.Fatalf("LoadNamespace: %v", err)
	}
	// "common" is not loaded: fail rather than block; caller loads it and
	// retries.
	if err := ResolveNamespace("app"); !errors.Is(err, apis.ErrUnresolvedReference) {
		t.Fatalf("err = %v, want ErrUnresolvedReference", err)
	}

	if err := LoadNamespace("common", map[string]any{"x": "hello"}); err != nil {
		t.Fatalf("LoadNamespace(common): %v", err)
	}
	if err := ResolveNamespace("app"); err != nil {
		t.Fatalf("retry after loading dependency: %v", err)
	}
}

func TestResolve_CycleAcrossNamespaces(t *testing.T) {
	reset(t)

	if err := LoadNamespace("a", map[string]any{"x": "[%key:b::y%]"}); err != nil {
		t.Fatalf("LoadNamespace(a): %v", err)
	}
	if err := LoadNamespace("b", map[string]any{"y": "[%key:a::x%]"}); err != nil {
		t.Fatalf("LoadNamespace(b): %v", err)
	}

	err := ResolveNamespace("a")
	var ce *apis.CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *apis.CycleError", err)
	}
	want := []apis.Ref{
		{Namespace: "a", Key: "x"},
		{Namespace: "b", Key: "y"},
		{Namespace: "a", Key: "x"},
	}
	if !reflect.DeepEqual(ce.Chain, want) {
		t.Fatalf("Chain = %v, want %v", ce.Chain, want)
	}
}

func TestGet_UnknownNamespaceAndKey(t *testing.T) {
	reset(t)

	// Namespace never loaded.
	if _, err := Get("ghost", "k", nil); !errors.Is(err, apis.ErrUnknownKey) {
		t.Fatalf("err = %v, want ErrUnknownKey", err)
	}

	// Loaded but not resolved: lookups stay typed failures, never raw text.
	if err := LoadNamespace("app", map[string]any{"k": "v"}); err != nil {
		t.Fatalf("LoadNamespace: %v", err)
	}
	if _, err := Get("app", "k", nil); !errors.Is(err, apis.ErrUnknownKey) {
		t.Fatalf("err = %v, want ErrUnknownKey before resolve", err)
	}

	if err := ResolveNamespace("app"); err != nil {
		t.Fatalf("ResolveNamespace: %v", err)
	}
	if _, err := Get("app", "missing", nil); !errors.Is(err, apis.ErrUnknownKey) {
		t.Fatalf("err = %v, want ErrUnknownKey for absent key", err)
	}
}

func TestLoadNamespace_Malformed(t *testing.T) {
	reset(t)

	err := LoadNamespace("app", map[string]any{"bad": 42})
	if !errors.Is(err, apis.ErrMalformedCatalog) {
		t.Fatalf("err = %v, want ErrMalformedCatalog", err)
	}
	// Nothing was registered.
	if got := Namespaces(); len(got) != 0 {
		t.Fatalf("Namespaces = %v, want empty", got)
	}
}

func TestFailedReloadKeepsServingPreviousCatalog(t *testing.T) {
	reset(t)

	if err := LoadNamespace("app", map[string]any{"k": "old"}); err != nil {
		t.Fatalf("LoadNamespace: %v", err)
	}
	if err := ResolveNamespace("app"); err != nil {
		t.Fatalf("ResolveNamespace: %v", err)
	}

	// Hot reload with a dangling reference: resolve fails, and lookups keep
	// answering from the previous generation.
	if err := LoadNamespace("app", map[string]any{"k": "[%key:missing::x%]"}); err != nil {
		t.Fatalf("LoadNamespace(reload): %v", err)
	}
	if err := ResolveNamespace("app"); !errors.Is(err, apis.ErrUnresolvedReference) {
		t.Fatalf("err = %v, want ErrUnresolvedReference", err)
	}
	if got, err := Get("app", "k", nil); err != nil || got != "old" {
		t.Fatalf("Get after failed reload = (%q, %v), want \"old\"", got, err)
	}

	// Repairing the catalog swaps in the new generation.
	if err := LoadNamespace("app", map[string]any{"k": "new"}); err != nil {
		t.Fatalf("LoadNamespace(repair): %v", err)
	}
	if err := ResolveNamespace("app"); err != nil {
		t.Fatalf("ResolveNamespace(repair): %v", err)
	}
	if got, err := Get("app", "k", nil); err != nil || got != "new" {
		t.Fatalf("Get after repair = (%q, %v), want \"new\"", got, err)
	}
}

func TestUnloadNamespace(t *testing.T) {
	reset(t)

	if err := LoadNamespace("app", map[string]any{"k": "v"}); err != nil {
		t.Fatalf("LoadNamespace: %v", err)
	}
	if err := ResolveNamespace("app"); err != nil {
		t.Fatalf("ResolveNamespace: %v", err)
	}

	// A view handed out before the unload stays usable.
	cat, ok := Catalog("app")
	if !ok {
		t.Fatalf("Catalog(app): missing")
	}

	UnloadNamespace("app")
	if _, err := Get("app", "k", nil); !errors.Is(err, apis.ErrUnknownKey) {
		t.Fatalf("err = %v, want ErrUnknownKey after unload", err)
	}
	if got, err := cat.Render("k", nil); err != nil || got != "v" {
		t.Fatalf("old view Render = (%q, %v), want \"v\"", got, err)
	}
}

// ---------------------- Batch ----------------------

func TestGetBatch(t *testing.T) {
	reset(t)

	if err := LoadNamespace("app", map[string]any{
		"hello": "Hello {who}",
		"bye":   "Bye",
	}); err != nil {
		t.Fatalf("LoadNamespace: %v", err)
	}
	if err := ResolveNamespace("app"); err != nil {
		t.Fatalf("ResolveNamespace: %v", err)
	}

	got, err := GetBatch([]Request{
		{Namespace: "app", Key: "hello", Params: map[string]string{"who": "you"}},
		{Namespace: "app", Key: "bye"},
	})
	if err != nil {
		t.Fatalf("GetBatch: %v", err)
	}
	if want := []string{"Hello you", "Bye"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("GetBatch = %v, want %v", got, want)
	}
}

func TestGetBatch_Atomic(t *testing.T) {
	reset(t)

	if err := LoadNamespace("app", map[string]any{
		"hello": "Hello {who}",
		"bye":   "Bye",
	}); err != nil {
		t.Fatalf("LoadNamespace: %v", err)
	}
	if err := ResolveNamespace("app"); err != nil {
		t.Fatalf("ResolveNamespace: %v", err)
	}

	// Unknown key anywhere in the batch: no partial output.
	out, err := GetBatch([]Request{
		{Namespace: "app", Key: "bye"},
		{Namespace: "app", Key: "missing"},
	})
	if !errors.Is(err, apis.ErrUnknownKey) || out != nil {
		t.Fatalf("GetBatch = (%v, %v), want nil output and ErrUnknownKey", out, err)
	}

	// Missing parameter anywhere in the batch: same discipline.
	out, err = GetBatch([]Request{
		{Namespace: "app", Key: "bye"},
		{Namespace: "app", Key: "hello"},
	})
	if !errors.Is(err, apis.ErrMissingParameter) || out != nil {
		t.Fatalf("GetBatch = (%v, %v), want nil output and ErrMissingParameter", out, err)
	}
}

// ---------------------- Reconfiguration ----------------------

func TestSetConfig_MigratesNamespacesAndRebuilds(t *testing.T) {
	reset(t)

	mb := &mockBuilder{inner: Builder()}
	SetAll(nil, nil, nil, mb)

	if err := LoadNamespace("app", map[string]any{"g": map[string]any{"k": "v"}}); err != nil {
		t.Fatalf("LoadNamespace: %v", err)
	}

	cfg := config.NewConfig(config.WithPathSeparator("/"))
	SetConfig(cfg)

	if Config().PathSeparator != "/" {
		t.Fatalf("Config().PathSeparator = %q, want \"/\"", Config().PathSeparator)
	}
	if mb.storeC == 0 || mb.resC == 0 {
		t.Fatalf("builder not consulted: storeC=%d resC=%d", mb.storeC, mb.resC)
	}

	// The raw table migrated across the swap (still keyed with the old
	// separator it was flattened with)...
	if got := Namespaces(); !reflect.DeepEqual(got, []string{"app"}) {
		t.Fatalf("Namespaces = %v, want [app]", got)
	}
	// ...and newly loaded trees flatten with the new separator.
	if err := LoadNamespace("fresh", map[string]any{"g": map[string]any{"k": "v"}}); err != nil {
		t.Fatalf("LoadNamespace(fresh): %v", err)
	}
	if err := ResolveNamespace("fresh"); err != nil {
		t.Fatalf("ResolveNamespace(fresh): %v", err)
	}
	if got, err := Get("fresh", "g/k", nil); err != nil || got != "v" {
		t.Fatalf("Get(fresh, g/k) = (%q, %v), want \"v\"", got, err)
	}
}

func TestSetAll_InjectsResolver(t *testing.T) {
	reset(t)

	mr := &mockResolver{inner: Resolver()}
	SetAll(nil, nil, mr, nil)

	if err := LoadNamespace("app", map[string]any{"k": "v"}); err != nil {
		t.Fatalf("LoadNamespace: %v", err)
	}
	if err := ResolveNamespace("app"); err != nil {
		t.Fatalf("ResolveNamespace: %v", err)
	}
	if mr.calls() != 1 {
		t.Fatalf("resolver calls = %d, want 1", mr.calls())
	}
}

func TestSetBuilder_NilIsIgnored(t *testing.T) {
	reset(t)
	before := Builder()
	SetBuilder(nil)
	if Builder() != before {
		t.Fatalf("SetBuilder(nil) replaced the builder")
	}
}

// ---------------------- Concurrency ----------------------

// TestConcurrentGetDuringReload exercises the copy-on-write discipline end
// to end: readers render whole batches while a writer hot-reloads the
// namespace, and every batch must come from a single catalog generation.
func TestConcurrentGetDuringReload(t *testing.T) {
	reset(t)

	tree := func(gen int) map[string]any {
		return map[string]any{
			"a": fmt.Sprintf("gen-%d", gen),
			"b": "[%key:a%]",
			"c": "[%key:b%]",
		}
	}

	if err := LoadNamespace("app", tree(0)); err != nil {
		t.Fatalf("LoadNamespace: %v", err)
	}
	if err := ResolveNamespace("app"); err != nil {
		t.Fatalf("ResolveNamespace: %v", err)
	}

	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 2
	stop := make(chan struct{})

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				out, err := GetBatch([]Request{
					{Namespace: "app", Key: "a"},
					{Namespace: "app", Key: "b"},
					{Namespace: "app", Key: "c"},
				})
				if err != nil {
					// The previous generation stays published across a
					// reload; lookups must never fail mid-reload.
					t.Errorf("GetBatch: %v", err)
					return
				}
				if out[0] != out[1] || out[1] != out[2] {
					t.Errorf("mixed generations in one batch: %v", out)
					return
				}
			}
		}()
	}

	for gen := 1; gen <= 100; gen++ {
		if err := LoadNamespace("app", tree(gen)); err != nil {
			t.Fatalf("LoadNamespace gen %d: %v", gen, err)
		}
		if err := ResolveNamespace("app"); err != nil {
			t.Fatalf("ResolveNamespace gen %d: %v", gen, err)
		}
	}
	close(stop)
	wg.Wait()
}
