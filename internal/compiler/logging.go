package compiler

import (
	"sync"

	"github.com/buildforge/compiler/internal/contract"
)

// nameThunk resolves a logger name lazily on first use (spec.md §4.7: "name
// may be a thunk, resolved lazily on first message") and caches the result
// so every later message reuses it.
type nameThunk struct {
	once    sync.Once
	resolve func() string
	value   string
}

func newNameThunk(name any) *nameThunk {
	switch n := name.(type) {
	case string:
		return &nameThunk{resolve: func() string { return n }}
	case func() string:
		return &nameThunk{resolve: n}
	default:
		return &nameThunk{resolve: func() string { return "" }}
	}
}

func (t *nameThunk) Resolve() string {
	t.once.Do(func() { t.value = t.resolve() })
	return t.value
}

func resolveName(name any) string {
	switch n := name.(type) {
	case string:
		return n
	case func() string:
		return n()
	default:
		return ""
	}
}

// infraLogger is the InfrastructureLogger a Compiler hands back from
// GetInfrastructureLogger: each message is first offered to the
// infrastructureLog sync-bail hook (origin, type, args); if no tap
// consumes it, the message falls through to the installed base logger
// (spec.md §4.7).
type infraLogger struct {
	compiler *Compiler
	name     *nameThunk
}

func (l *infraLogger) Log(level, msg string, args ...any) {
	payload := append([]any{msg}, args...)
	origin := l.name.Resolve()
	if _, ok := l.compiler.Hooks.InfrastructureLog.Call(origin, level, payload); ok {
		return
	}
	if l.compiler.logger == nil {
		return
	}
	l.compiler.logger(origin).Log(level, msg, args...)
}

// GetChildLogger implements spec.md §4.7's "child-logger names concatenate
// with a /": the joined name is itself a thunk, so the parent's name is
// not resolved (nor the join computed) until the child's first message.
func (l *infraLogger) GetChildLogger(name any) contract.InfrastructureLogger {
	parent := l.name
	return &infraLogger{
		compiler: l.compiler,
		name:     newNameThunk(func() string { return parent.Resolve() + "/" + resolveName(name) }),
	}
}

// GetInfrastructureLogger implements spec.md §4.7's getInfrastructureLogger
// (name): name may be a plain string or a func() string thunk, resolved
// lazily on first message. A statically-known empty name is rejected
// up front; a thunk's emptiness can only be discovered once resolved, at
// which point infraLogger.Log simply passes the empty origin through.
func (c *Compiler) GetInfrastructureLogger(name any) (contract.InfrastructureLogger, error) {
	if s, ok := name.(string); ok && s == "" {
		return nil, &contract.ArgumentError{Message: "infrastructure logger name must not be empty"}
	}
	return &infraLogger{compiler: c, name: newNameThunk(name)}, nil
}
