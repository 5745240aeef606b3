package hook

// SyncHook0 is a SyncHook with no declared parameters.
type SyncHook0 struct {
	taps []syncTap0
	seq  int
}

type syncTap0 struct {
	meta meta
	fn   func()
}

func (h *SyncHook0) Tap(name string, fn func()) {
	h.taps = append(h.taps, syncTap0{meta: meta{name: name, kind: KindNormal, seq: h.seq}, fn: fn})
	h.seq++
}

func (h *SyncHook0) TapStage(name string, stage int, fn func()) {
	h.taps = append(h.taps, syncTap0{meta: meta{name: name, kind: KindStage, stage: stage, seq: h.seq}, fn: fn})
	h.seq++
}

func (h *SyncHook0) TapBefore(name string, before []string, fn func()) {
	h.taps = append(h.taps, syncTap0{meta: meta{name: name, kind: KindBefore, before: before, seq: h.seq}, fn: fn})
	h.seq++
}

// Call invokes every tap in order. A panic inside a tap propagates to the
// caller, matching spec.md's "any tap failure is surfaced verbatim".
func (h *SyncHook0) Call() {
	metas := make([]meta, len(h.taps))
	for i, t := range h.taps {
		metas[i] = t.meta
	}
	for _, i := range order(metas) {
		h.taps[i].fn()
	}
}

// TapCount reports the number of registered taps.
func (h *SyncHook0) TapCount() int { return len(h.taps) }

// CopyFrom appends other's taps to h, used by child-compiler construction
// to inherit a parent's observation/configuration taps (spec.md §4.6).
func (h *SyncHook0) CopyFrom(other *SyncHook0) {
	for _, t := range other.taps {
		t.meta.seq = h.seq
		h.seq++
		h.taps = append(h.taps, t)
	}
}

// SyncHook1 is a SyncHook taking one parameter.
type SyncHook1[A any] struct {
	taps []syncTap1[A]
	seq  int
}

type syncTap1[A any] struct {
	meta meta
	fn   func(A)
}

func (h *SyncHook1[A]) Tap(name string, fn func(A)) {
	h.taps = append(h.taps, syncTap1[A]{meta: meta{name: name, kind: KindNormal, seq: h.seq}, fn: fn})
	h.seq++
}

func (h *SyncHook1[A]) TapStage(name string, stage int, fn func(A)) {
	h.taps = append(h.taps, syncTap1[A]{meta: meta{name: name, kind: KindStage, stage: stage, seq: h.seq}, fn: fn})
	h.seq++
}

func (h *SyncHook1[A]) TapBefore(name string, before []string, fn func(A)) {
	h.taps = append(h.taps, syncTap1[A]{meta: meta{name: name, kind: KindBefore, before: before, seq: h.seq}, fn: fn})
	h.seq++
}

// TapLua registers a Lua-sandboxed tap (spec.md §4.1 "Scriptable taps").
// The hook's single parameter is bound to the Lua global arg0; a runtime
// or sandbox-timeout failure is swallowed (Sync hooks have no error
// channel to report it through) and logged would require a logger this
// package does not have, so it is silently skipped — callers wanting
// visibility should prefer TapLuaChecked.
func (h *SyncHook1[A]) TapLua(name, script string) {
	h.Tap(name, func(a A) {
		_, _ = runLuaTap(name, script, []any{a}, DefaultLuaLimits())
	})
}

// TapLuaChecked is like TapLua but reports sandbox failures through onErr.
func (h *SyncHook1[A]) TapLuaChecked(name, script string, onErr func(error)) {
	h.Tap(name, func(a A) {
		if _, err := runLuaTap(name, script, []any{a}, DefaultLuaLimits()); err != nil && onErr != nil {
			onErr(err)
		}
	})
}

func (h *SyncHook1[A]) Call(a A) {
	metas := make([]meta, len(h.taps))
	for i, t := range h.taps {
		metas[i] = t.meta
	}
	for _, i := range order(metas) {
		h.taps[i].fn(a)
	}
}

// TapCount reports the number of registered taps, used by tests asserting
// tap-inheritance exclusions.
func (h *SyncHook1[A]) TapCount() int { return len(h.taps) }

// CopyFrom appends other's taps to h; see SyncHook0.CopyFrom.
func (h *SyncHook1[A]) CopyFrom(other *SyncHook1[A]) {
	for _, t := range other.taps {
		t.meta.seq = h.seq
		h.seq++
		h.taps = append(h.taps, t)
	}
}

// SyncHook2 is a SyncHook taking two parameters.
type SyncHook2[A, B any] struct {
	taps []syncTap2[A, B]
	seq  int
}

type syncTap2[A, B any] struct {
	meta meta
	fn   func(A, B)
}

func (h *SyncHook2[A, B]) Tap(name string, fn func(A, B)) {
	h.taps = append(h.taps, syncTap2[A, B]{meta: meta{name: name, kind: KindNormal, seq: h.seq}, fn: fn})
	h.seq++
}

func (h *SyncHook2[A, B]) TapStage(name string, stage int, fn func(A, B)) {
	h.taps = append(h.taps, syncTap2[A, B]{meta: meta{name: name, kind: KindStage, stage: stage, seq: h.seq}, fn: fn})
	h.seq++
}

func (h *SyncHook2[A, B]) Call(a A, b B) {
	metas := make([]meta, len(h.taps))
	for i, t := range h.taps {
		metas[i] = t.meta
	}
	for _, i := range order(metas) {
		h.taps[i].fn(a, b)
	}
}

func (h *SyncHook2[A, B]) TapCount() int { return len(h.taps) }

// CopyFrom appends other's taps to h; see SyncHook0.CopyFrom.
func (h *SyncHook2[A, B]) CopyFrom(other *SyncHook2[A, B]) {
	for _, t := range other.taps {
		t.meta.seq = h.seq
		h.seq++
		h.taps = append(h.taps, t)
	}
}
