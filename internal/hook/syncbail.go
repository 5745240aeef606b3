package hook

// SyncBailHook1 invokes taps in order; the first tap to return a non-nil
// bool true "ok" short-circuits the hook with its value.
type SyncBailHook1[A any] struct {
	taps []bailTap1[A]
	seq  int
}

type bailTap1[A any] struct {
	meta meta
	fn   func(A) (any, bool)
}

func (h *SyncBailHook1[A]) Tap(name string, fn func(A) (any, bool)) {
	h.taps = append(h.taps, bailTap1[A]{meta: meta{name: name, kind: KindNormal, seq: h.seq}, fn: fn})
	h.seq++
}

func (h *SyncBailHook1[A]) TapStage(name string, stage int, fn func(A) (any, bool)) {
	h.taps = append(h.taps, bailTap1[A]{meta: meta{name: name, kind: KindStage, stage: stage, seq: h.seq}, fn: fn})
	h.seq++
}

// TapLua registers a Lua-sandboxed tap. A script returning Lua nil is
// treated as "no opinion"; any other value bails the hook.
func (h *SyncBailHook1[A]) TapLua(name, script string) {
	h.Tap(name, func(a A) (any, bool) {
		v, err := runLuaTap(name, script, []any{a}, DefaultLuaLimits())
		if err != nil || v == nil {
			return nil, false
		}
		return v, true
	})
}

func (h *SyncBailHook1[A]) Call(a A) (any, bool) {
	metas := make([]meta, len(h.taps))
	for i, t := range h.taps {
		metas[i] = t.meta
	}
	for _, i := range order(metas) {
		if v, ok := h.taps[i].fn(a); ok {
			return v, true
		}
	}
	return nil, false
}

func (h *SyncBailHook1[A]) TapCount() int { return len(h.taps) }

func (h *SyncBailHook1[A]) CopyFrom(other *SyncBailHook1[A]) {
	for _, t := range other.taps {
		t.meta.seq = h.seq
		h.seq++
		h.taps = append(h.taps, t)
	}
}

// SyncBailHook2 is a SyncBailHook over two parameters.
type SyncBailHook2[A, B any] struct {
	taps []bailTap2[A, B]
	seq  int
}

type bailTap2[A, B any] struct {
	meta meta
	fn   func(A, B) (any, bool)
}

func (h *SyncBailHook2[A, B]) Tap(name string, fn func(A, B) (any, bool)) {
	h.taps = append(h.taps, bailTap2[A, B]{meta: meta{name: name, kind: KindNormal, seq: h.seq}, fn: fn})
	h.seq++
}

func (h *SyncBailHook2[A, B]) TapLua(name, script string) {
	h.Tap(name, func(a A, b B) (any, bool) {
		v, err := runLuaTap(name, script, []any{a, b}, DefaultLuaLimits())
		if err != nil || v == nil {
			return nil, false
		}
		return v, true
	})
}

func (h *SyncBailHook2[A, B]) Call(a A, b B) (any, bool) {
	metas := make([]meta, len(h.taps))
	for i, t := range h.taps {
		metas[i] = t.meta
	}
	for _, i := range order(metas) {
		if v, ok := h.taps[i].fn(a, b); ok {
			return v, true
		}
	}
	return nil, false
}

func (h *SyncBailHook2[A, B]) TapCount() int { return len(h.taps) }

func (h *SyncBailHook2[A, B]) CopyFrom(other *SyncBailHook2[A, B]) {
	for _, t := range other.taps {
		t.meta.seq = h.seq
		h.seq++
		h.taps = append(h.taps, t)
	}
}

// SyncBailHook3 is a SyncBailHook over three parameters (e.g.
// infrastructureLog(origin, type, args)).
type SyncBailHook3[A, B, C any] struct {
	taps []bailTap3[A, B, C]
	seq  int
}

type bailTap3[A, B, C any] struct {
	meta meta
	fn   func(A, B, C) (any, bool)
}

func (h *SyncBailHook3[A, B, C]) Tap(name string, fn func(A, B, C) (any, bool)) {
	h.taps = append(h.taps, bailTap3[A, B, C]{meta: meta{name: name, kind: KindNormal, seq: h.seq}, fn: fn})
	h.seq++
}

func (h *SyncBailHook3[A, B, C]) Call(a A, b B, c C) (any, bool) {
	metas := make([]meta, len(h.taps))
	for i, t := range h.taps {
		metas[i] = t.meta
	}
	for _, i := range order(metas) {
		if v, ok := h.taps[i].fn(a, b, c); ok {
			return v, true
		}
	}
	return nil, false
}

func (h *SyncBailHook3[A, B, C]) TapCount() int { return len(h.taps) }

func (h *SyncBailHook3[A, B, C]) CopyFrom(other *SyncBailHook3[A, B, C]) {
	for _, t := range other.taps {
		t.meta.seq = h.seq
		h.seq++
		h.taps = append(h.taps, t)
	}
}
