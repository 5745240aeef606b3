// Package cache provides the default, in-process contract.Cache backing:
// a stdlib-only map guarded by a mutex. No example repo carries a
// dependency targeting this exact shape (a build-dependency set keyed by
// path, idle/active lifecycle), so this component is stdlib by necessity
// rather than by choice; see DESIGN.md.
package cache

import (
	"context"
	"sync"

	"github.com/buildforge/compiler/internal/contract"
)

// Memory is a contract.Cache backed by an in-memory set of build
// dependency paths.
type Memory struct {
	mu   sync.Mutex
	idle bool
	deps map[string]struct{}
}

// NewMemory returns an active (non-idle) empty cache.
func NewMemory() *Memory {
	return &Memory{deps: map[string]struct{}{}}
}

func (m *Memory) BeginIdle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idle = true
}

func (m *Memory) EndIdle(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idle = false
	return nil
}

func (m *Memory) StoreBuildDependencies(ctx context.Context, deps []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range deps {
		m.deps[d] = struct{}{}
	}
	return nil
}

func (m *Memory) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deps = map[string]struct{}{}
	return nil
}

// BuildDependencies returns the currently stored dependency paths,
// unordered. Used by tests and by diagnostics.
func (m *Memory) BuildDependencies() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.deps))
	for d := range m.deps {
		out = append(out, d)
	}
	return out
}

// IsIdle reports whether BeginIdle has been called without a matching
// EndIdle.
func (m *Memory) IsIdle() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.idle
}

var _ contract.Cache = (*Memory)(nil)
