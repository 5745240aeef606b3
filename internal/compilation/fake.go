// Package compilation provides Fake, an in-memory contract.Compilation
// used by the driver's tests and by the CLI's demo build: module graph
// construction, resolution, and chunking are out of scope for this
// module (spec.md §1, "Out of scope"), so Fake simply holds whatever
// assets and records its caller seeded it with and answers the
// Compilation surface the emission and records stages need.
package compilation

import (
	"context"
	"strings"
	"sync"

	"github.com/buildforge/compiler/internal/contract"
)

// Fake is a minimal, directly-seeded contract.Compilation.
type Fake struct {
	mu sync.Mutex

	name        string
	assets      map[string]contract.AssetEntry
	emitted     map[string]struct{}
	compared    map[string]struct{}
	records     map[string]any
	entrypoints []contract.Entrypoint
	children    []contract.Compilation
	buildDeps   []string
	needPass    bool
	passesLeft  int

	childCompilerEvents []ChildCompilerEvent
}

// ChildCompilerEvent records one childCompiler hook firing, for tests
// asserting against spec.md §4.6's "fire the compilation's
// childCompiler hook with (childCompiler, name, index)".
type ChildCompilerEvent struct {
	Child any
	Name  string
	Index int
}

// New returns an empty Fake compilation named name.
func New(name string) *Fake {
	return &Fake{
		name:     name,
		assets:   map[string]contract.AssetEntry{},
		emitted:  map[string]struct{}{},
		compared: map[string]struct{}{},
		records:  map[string]any{},
	}
}

// SeedAsset registers an asset as if a module/chunk pipeline had produced
// it, for use by callers assembling a build without a real compilation.
func (f *Fake) SeedAsset(name string, source contract.Source, info contract.AssetInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assets[name] = contract.AssetEntry{Name: name, Source: source, Info: info}
}

// SeedAdditionalPasses makes NeedAdditionalPass() return true exactly n
// more times before reverting to false, for exercising spec.md's
// additional-pass loop (S6).
func (f *Fake) SeedAdditionalPasses(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passesLeft = n
}

func (f *Fake) Name() string { return f.name }

func (f *Fake) GetAssets() []contract.AssetEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]contract.AssetEntry, 0, len(f.assets))
	for _, a := range f.assets {
		out = append(out, a)
	}
	return out
}

func (f *Fake) UpdateAsset(name string, source contract.Source, info contract.AssetInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assets[name] = contract.AssetEntry{Name: name, Source: source, Info: info}
}

func (f *Fake) EmitAsset(name string, source contract.Source, info contract.AssetInfo) {
	f.UpdateAsset(name, source, info)
}

func (f *Fake) Finish(ctx context.Context) error { return nil }
func (f *Fake) Seal(ctx context.Context) error   { return nil }

func (f *Fake) GetLogger(name string) contract.InfrastructureLogger {
	return noopLogger{}
}

func (f *Fake) GetPath(template string, data map[string]string) string {
	out := template
	for k, v := range data {
		out = strings.ReplaceAll(out, "["+k+"]", v)
	}
	return out
}

func (f *Fake) MarkEmitted(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emitted[name] = struct{}{}
}

func (f *Fake) MarkCompared(targetPath string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.compared[targetPath] = struct{}{}
}

func (f *Fake) NeedAdditionalPass() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.passesLeft > 0 {
		f.passesLeft--
		return true
	}
	return false
}

func (f *Fake) Records() map[string]any { return f.records }

func (f *Fake) Entrypoints() []contract.Entrypoint { return f.entrypoints }

func (f *Fake) AddChild(c contract.Compilation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.children = append(f.children, c)
}

func (f *Fake) AddBuildDependency(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buildDeps = append(f.buildDeps, path)
}

func (f *Fake) BuildDependencies() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.buildDeps...)
}

func (f *Fake) FireChildCompiler(child any, name string, index int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.childCompilerEvents = append(f.childCompilerEvents, ChildCompilerEvent{Child: child, Name: name, Index: index})
}

// ChildCompilerEvents reports every childCompiler hook firing recorded
// so far, for test assertions.
func (f *Fake) ChildCompilerEvents() []ChildCompilerEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ChildCompilerEvent(nil), f.childCompilerEvents...)
}

// EmittedAssets reports which asset names MarkEmitted has recorded, used
// by tests asserting against spec.md's emittedAssets set.
func (f *Fake) EmittedAssets() map[string]struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]struct{}, len(f.emitted))
	for k := range f.emitted {
		out[k] = struct{}{}
	}
	return out
}

type noopLogger struct{}

func (noopLogger) Log(level, msg string, args ...any) {}

func (l noopLogger) GetChildLogger(name any) contract.InfrastructureLogger { return l }

var _ contract.Compilation = (*Fake)(nil)
