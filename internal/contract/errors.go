// Package contract holds the external interfaces and error kinds the
// compilation driver consumes but does not implement: filesystem surfaces,
// the module-graph collaborators, and the cache. See DESIGN.md for the
// grounding of each type.
package contract

import "fmt"

// ConcurrentBuildError is returned when run or watch is called while a
// build is already running.
type ConcurrentBuildError struct{}

func (ConcurrentBuildError) Error() string {
	return "concurrent build: a run or watch is already in progress"
}

// RecordsParseError wraps a JSON parse failure reading the records sidecar.
type RecordsParseError struct {
	Path string
	Err  error
}

func (e *RecordsParseError) Error() string {
	return fmt.Sprintf("records parse: %s: %v", e.Path, e.Err)
}

func (e *RecordsParseError) Unwrap() error { return e.Err }

// CaseCollisionError is returned when two target paths would collide on a
// case-insensitive filesystem within one emission.
type CaseCollisionError struct {
	First  string
	Second string
}

func (e *CaseCollisionError) Error() string {
	return fmt.Sprintf("case collision: %q and %q resolve to the same path on a case-insensitive filesystem", e.First, e.Second)
}

// IOFailureError wraps an OS error surfaced from a filesystem operation.
type IOFailureError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOFailureError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOFailureError) Unwrap() error { return e.Err }

// HookTapFailureError wraps an error a tap surfaced through an async hook.
type HookTapFailureError struct {
	Hook string
	Tap  string
	Err  error
}

func (e *HookTapFailureError) Error() string {
	return fmt.Sprintf("hook %q: tap %q failed: %v", e.Hook, e.Tap, e.Err)
}

func (e *HookTapFailureError) Unwrap() error { return e.Err }

// ArgumentError signals misuse at an API boundary.
type ArgumentError struct {
	Message string
}

func (e *ArgumentError) Error() string { return "argument error: " + e.Message }

// ShutdownError is returned when the cache fails to shut down on close.
type ShutdownError struct {
	Err error
}

func (e *ShutdownError) Error() string { return fmt.Sprintf("shutdown: %v", e.Err) }

func (e *ShutdownError) Unwrap() error { return e.Err }
