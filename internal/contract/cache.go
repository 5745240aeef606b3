package contract

import "context"

// Cache is the cross-build cache handle shared between a compiler and
// its children. Only one active idle transition is expected at a time
// per root compiler.
type Cache interface {
	BeginIdle()
	EndIdle(ctx context.Context) error
	StoreBuildDependencies(ctx context.Context, deps []string) error
	Shutdown(ctx context.Context) error
}
