package compiler

import (
	"testing"

	"github.com/buildforge/compiler/internal/contract"
)

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) Log(level, msg string, args ...any) {
	r.lines = append(r.lines, level+":"+msg)
}

func (r *recordingLogger) GetChildLogger(name any) contract.InfrastructureLogger { return r }

func TestGetInfrastructureLogger_RejectsEmptyStringName(t *testing.T) {
	c, _ := newTestCompiler(t, defaultOptions(), nil)
	if _, err := c.GetInfrastructureLogger(""); err == nil {
		t.Fatalf("expected ArgumentError for empty name")
	}
}

func TestGetInfrastructureLogger_FallsThroughToBaseLogger(t *testing.T) {
	c, _ := newTestCompiler(t, defaultOptions(), nil)
	base := &recordingLogger{}
	c.SetLogger(func(name string) contract.InfrastructureLogger { return base })

	logger, err := c.GetInfrastructureLogger("origin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Log("info", "hello")
	if len(base.lines) != 1 || base.lines[0] != "info:hello" {
		t.Fatalf("expected base logger to receive the message, got %v", base.lines)
	}
}

func TestGetInfrastructureLogger_HookConsumesMessageBeforeBaseLogger(t *testing.T) {
	c, _ := newTestCompiler(t, defaultOptions(), nil)
	base := &recordingLogger{}
	c.SetLogger(func(name string) contract.InfrastructureLogger { return base })

	var gotOrigin, gotLevel string
	c.Hooks.InfrastructureLog.Tap("consume", func(origin, level string, args []any) (any, bool) {
		gotOrigin, gotLevel = origin, level
		return nil, true
	})

	logger, err := c.GetInfrastructureLogger("origin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Log("warn", "careful")

	if gotOrigin != "origin" || gotLevel != "warn" {
		t.Fatalf("hook saw (%q, %q)", gotOrigin, gotLevel)
	}
	if len(base.lines) != 0 {
		t.Fatalf("expected base logger to be bypassed, got %v", base.lines)
	}
}

func TestGetInfrastructureLogger_NameThunkResolvedLazilyAndCached(t *testing.T) {
	c, _ := newTestCompiler(t, defaultOptions(), nil)
	base := &recordingLogger{}
	c.SetLogger(func(name string) contract.InfrastructureLogger { return base })

	calls := 0
	thunk := func() string {
		calls++
		return "lazy"
	}

	logger, err := c.GetInfrastructureLogger(thunk)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected the thunk not to run before the first message, ran %d times", calls)
	}

	logger.Log("info", "one")
	logger.Log("info", "two")
	if calls != 1 {
		t.Fatalf("expected the thunk to be resolved once and cached, ran %d times", calls)
	}
}

func TestGetInfrastructureLogger_ChildLoggerJoinsNamesWithSlash(t *testing.T) {
	c, _ := newTestCompiler(t, defaultOptions(), nil)
	base := &recordingLogger{}
	c.SetLogger(func(name string) contract.InfrastructureLogger { return base })

	var gotOrigin string
	c.Hooks.InfrastructureLog.Tap("capture", func(origin, level string, args []any) (any, bool) {
		gotOrigin = origin
		return nil, true
	})

	parent, err := c.GetInfrastructureLogger("parent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	child := parent.GetChildLogger("child")
	child.Log("info", "hi")

	if gotOrigin != "parent/child" {
		t.Fatalf("origin = %q, want %q", gotOrigin, "parent/child")
	}
}
