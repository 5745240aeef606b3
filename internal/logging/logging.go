// Package logging provides the base infrastructure logger a Compiler
// falls through to once the infrastructureLog hook declines a message
// (spec.md §4.7), backed by charmbracelet/log the same way the teacher
// wires its ssh server's logger (internal/sshserver/server.go:
// log.NewWithOptions(os.Stderr, log.Options{Prefix: ...})).
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/buildforge/compiler/internal/compiler"
	"github.com/buildforge/compiler/internal/contract"
)

// charmLogger adapts a *log.Logger to contract.InfrastructureLogger. w and
// prefix are retained alongside l so GetChildLogger can derive a new
// logger without needing to read them back out of *log.Logger.
type charmLogger struct {
	l      *log.Logger
	w      io.Writer
	prefix string
}

func (c *charmLogger) Log(level, msg string, args ...any) {
	switch level {
	case "error":
		c.l.Error(msg, args...)
	case "warn", "warning":
		c.l.Warn(msg, args...)
	case "debug", "trace":
		c.l.Debug(msg, args...)
	default:
		c.l.Info(msg, args...)
	}
}

// GetChildLogger returns a charmLogger prefixed with this logger's prefix
// joined to name by "/".
func (c *charmLogger) GetChildLogger(name any) contract.InfrastructureLogger {
	joined := c.prefix + "/" + resolveName(name)
	return &charmLogger{
		l:      log.NewWithOptions(c.w, log.Options{Prefix: joined}),
		w:      c.w,
		prefix: joined,
	}
}

// resolveName resolves a GetChildLogger/GetInfrastructureLogger name
// argument that may be a plain string or a func() string thunk.
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

// NewFactory returns a compiler.InfrastructureLoggerFactory writing to w
// (os.Stderr in production), one *log.Logger per origin name, each
// prefixed with that name the way the teacher prefixes its ssh server's
// logger.
func NewFactory(w io.Writer) compiler.InfrastructureLoggerFactory {
	if w == nil {
		w = os.Stderr
	}
	return func(name string) contract.InfrastructureLogger {
		return &charmLogger{l: log.NewWithOptions(w, log.Options{Prefix: name}), w: w, prefix: name}
	}
}
