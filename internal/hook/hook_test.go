package hook

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestSyncHook1_RegistrationOrder(t *testing.T) {
	var h SyncHook1[int]
	var order []string
	h.Tap("a", func(int) { order = append(order, "a") })
	h.Tap("b", func(int) { order = append(order, "b") })
	h.Tap("c", func(int) { order = append(order, "c") })
	h.Call(0)
	if !reflect.DeepEqual(order, []string{"a", "b", "c"}) {
		t.Fatalf("order = %v", order)
	}
}

func TestSyncHook1_Stage(t *testing.T) {
	var h SyncHook1[int]
	var order []string
	h.Tap("default", func(int) { order = append(order, "default") })
	h.TapStage("early", -10, func(int) { order = append(order, "early") })
	h.TapStage("late", 10, func(int) { order = append(order, "late") })
	h.Call(0)
	if !reflect.DeepEqual(order, []string{"early", "default", "late"}) {
		t.Fatalf("order = %v", order)
	}
}

func TestSyncHook1_Before(t *testing.T) {
	var h SyncHook1[int]
	var order []string
	h.Tap("a", func(int) { order = append(order, "a") })
	h.Tap("b", func(int) { order = append(order, "b") })
	h.TapBefore("z", []string{"b"}, func(int) { order = append(order, "z") })
	h.Call(0)
	if !reflect.DeepEqual(order, []string{"a", "z", "b"}) {
		t.Fatalf("order = %v", order)
	}
}

func TestSyncHook1_Panic_Propagates(t *testing.T) {
	var h SyncHook1[int]
	h.Tap("boom", func(int) { panic("boom") })
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
	}()
	h.Call(0)
}

func TestSyncBailHook1_FirstDefinedWins(t *testing.T) {
	var h SyncBailHook1[string]
	var called []string
	h.Tap("no-opinion", func(string) (any, bool) {
		called = append(called, "no-opinion")
		return nil, false
	})
	h.Tap("winner", func(string) (any, bool) {
		called = append(called, "winner")
		return 42, true
	})
	h.Tap("never", func(string) (any, bool) {
		called = append(called, "never")
		return 99, true
	})
	v, ok := h.Call("x")
	if !ok || v != 42 {
		t.Fatalf("result = %v, %v", v, ok)
	}
	if !reflect.DeepEqual(called, []string{"no-opinion", "winner"}) {
		t.Fatalf("called = %v", called)
	}
}

func TestSyncBailHook1_NoTapsReturnsUndefined(t *testing.T) {
	var h SyncBailHook1[string]
	v, ok := h.Call("x")
	if ok || v != nil {
		t.Fatalf("expected no opinion, got %v, %v", v, ok)
	}
}

func TestAsyncSeriesHook1_StopsOnFirstError(t *testing.T) {
	var h AsyncSeriesHook1[int]
	var ran []string
	wantErr := errors.New("boom")
	h.Tap("a", func(context.Context, int) error { ran = append(ran, "a"); return nil })
	h.Tap("b", func(context.Context, int) error { ran = append(ran, "b"); return wantErr })
	h.Tap("c", func(context.Context, int) error { ran = append(ran, "c"); return nil })
	err := h.CallAsync(context.Background(), 0)
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v", err)
	}
	if !reflect.DeepEqual(ran, []string{"a", "b"}) {
		t.Fatalf("ran = %v", ran)
	}
}

func TestAsyncParallelHook1_AllStartAndAnyFailureSurfaces(t *testing.T) {
	var h AsyncParallelHook1[int]
	started := make(chan string, 3)
	h.Tap("a", func(context.Context, int) error { started <- "a"; return nil })
	h.Tap("b", func(context.Context, int) error { started <- "b"; return errors.New("bad") })
	h.Tap("c", func(context.Context, int) error { started <- "c"; return nil })
	err := h.CallAsync(context.Background(), 0)
	if err == nil {
		t.Fatalf("expected error")
	}
	close(started)
	seen := map[string]bool{}
	for s := range started {
		seen[s] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected all 3 taps to start, got %v", seen)
	}
}

func TestSyncHook0_CopyFrom(t *testing.T) {
	var parent SyncHook0
	parent.Tap("a", func() {})
	parent.Tap("b", func() {})
	var child SyncHook0
	child.CopyFrom(&parent)
	if child.TapCount() != 2 {
		t.Fatalf("expected 2 taps copied, got %d", child.TapCount())
	}
}

func TestSyncBailHook1_TapLua(t *testing.T) {
	var h SyncBailHook1[string]
	h.TapLua("lua-tap", `if arg0 == "bail" then return true end`)
	v, ok := h.Call("bail")
	if !ok || v != true {
		t.Fatalf("result = %v, %v", v, ok)
	}
	v2, ok2 := h.Call("other")
	if ok2 || v2 != nil {
		t.Fatalf("expected no opinion for non-matching input, got %v, %v", v2, ok2)
	}
}

func TestSyncHook1_TapLua_RunsWithoutError(t *testing.T) {
	var h SyncHook1[string]
	var calledErr error
	h.TapLuaChecked("noop", `local x = arg0`, func(err error) { calledErr = err })
	h.Call("hello")
	if calledErr != nil {
		t.Fatalf("unexpected lua error: %v", calledErr)
	}
}
