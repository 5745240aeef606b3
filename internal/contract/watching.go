package contract

import "context"

// Watching is created by a Compiler's Watch method; it takes over
// rebuild responsibility on filesystem change events and invokes the
// driver's Compile for each one. The driver treats it as an opaque
// collaborator it does not serialise rebuilds for — Watching must
// serialise its own rebuilds.
type Watching interface {
	// Close stops watching. It returns without waiting for a rebuild that
	// is already running.
	Close(ctx context.Context) error
	// Invalidate forces an immediate rebuild, as if a change had been
	// observed, without waiting for the debounce window.
	Invalidate() error
}
