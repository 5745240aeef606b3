package hook

import "context"

// AsyncSeriesHook0 dispatches taps sequentially with no parameters;
// any tap failure aborts the series.
type AsyncSeriesHook0 struct {
	taps []asyncTap0
	seq  int
}

type asyncTap0 struct {
	meta meta
	fn   func(context.Context) error
}

func (h *AsyncSeriesHook0) Tap(name string, fn func(context.Context) error) {
	h.taps = append(h.taps, asyncTap0{meta: meta{name: name, kind: KindNormal, seq: h.seq}, fn: fn})
	h.seq++
}

func (h *AsyncSeriesHook0) CallAsync(ctx context.Context) error {
	metas := make([]meta, len(h.taps))
	for i, t := range h.taps {
		metas[i] = t.meta
	}
	for _, i := range order(metas) {
		if err := h.taps[i].fn(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (h *AsyncSeriesHook0) TapCount() int { return len(h.taps) }

func (h *AsyncSeriesHook0) CopyFrom(other *AsyncSeriesHook0) {
	for _, t := range other.taps {
		t.meta.seq = h.seq
		h.seq++
		h.taps = append(h.taps, t)
	}
}

// AsyncSeriesHook1 dispatches taps sequentially, each receiving the same
// single parameter.
type AsyncSeriesHook1[A any] struct {
	taps []asyncTap1[A]
	seq  int
}

type asyncTap1[A any] struct {
	meta meta
	fn   func(context.Context, A) error
}

func (h *AsyncSeriesHook1[A]) Tap(name string, fn func(context.Context, A) error) {
	h.taps = append(h.taps, asyncTap1[A]{meta: meta{name: name, kind: KindNormal, seq: h.seq}, fn: fn})
	h.seq++
}

func (h *AsyncSeriesHook1[A]) TapStage(name string, stage int, fn func(context.Context, A) error) {
	h.taps = append(h.taps, asyncTap1[A]{meta: meta{name: name, kind: KindStage, stage: stage, seq: h.seq}, fn: fn})
	h.seq++
}

func (h *AsyncSeriesHook1[A]) CallAsync(ctx context.Context, a A) error {
	metas := make([]meta, len(h.taps))
	for i, t := range h.taps {
		metas[i] = t.meta
	}
	for _, i := range order(metas) {
		if err := h.taps[i].fn(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (h *AsyncSeriesHook1[A]) TapCount() int { return len(h.taps) }

func (h *AsyncSeriesHook1[A]) CopyFrom(other *AsyncSeriesHook1[A]) {
	for _, t := range other.taps {
		t.meta.seq = h.seq
		h.seq++
		h.taps = append(h.taps, t)
	}
}

// AsyncSeriesHook2 dispatches taps sequentially over two parameters (e.g.
// assetEmitted(file, info)).
type AsyncSeriesHook2[A, B any] struct {
	taps []asyncTap2[A, B]
	seq  int
}

type asyncTap2[A, B any] struct {
	meta meta
	fn   func(context.Context, A, B) error
}

func (h *AsyncSeriesHook2[A, B]) Tap(name string, fn func(context.Context, A, B) error) {
	h.taps = append(h.taps, asyncTap2[A, B]{meta: meta{name: name, kind: KindNormal, seq: h.seq}, fn: fn})
	h.seq++
}

func (h *AsyncSeriesHook2[A, B]) CallAsync(ctx context.Context, a A, b B) error {
	metas := make([]meta, len(h.taps))
	for i, t := range h.taps {
		metas[i] = t.meta
	}
	for _, i := range order(metas) {
		if err := h.taps[i].fn(ctx, a, b); err != nil {
			return err
		}
	}
	return nil
}

func (h *AsyncSeriesHook2[A, B]) TapCount() int { return len(h.taps) }

func (h *AsyncSeriesHook2[A, B]) CopyFrom(other *AsyncSeriesHook2[A, B]) {
	for _, t := range other.taps {
		t.meta.seq = h.seq
		h.seq++
		h.taps = append(h.taps, t)
	}
}
