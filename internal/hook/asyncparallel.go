package hook

import (
	"context"
	"sync"
)

// AsyncParallelHook1 starts every tap in registration order and completes
// when all have completed or any has failed. Completion order among taps
// is unspecified; once every tap has finished, the error of the
// earliest-registered failing tap is returned, matching
// spec.md §4.1's "completes when all have completed or any failed".
type AsyncParallelHook1[A any] struct {
	taps []asyncTap1[A]
	seq  int
}

func (h *AsyncParallelHook1[A]) Tap(name string, fn func(context.Context, A) error) {
	h.taps = append(h.taps, asyncTap1[A]{meta: meta{name: name, kind: KindNormal, seq: h.seq}, fn: fn})
	h.seq++
}

func (h *AsyncParallelHook1[A]) CallAsync(ctx context.Context, a A) error {
	if len(h.taps) == 0 {
		return nil
	}
	var wg sync.WaitGroup
	errs := make([]error, len(h.taps))
	for i, t := range h.taps {
		wg.Add(1)
		go func(i int, fn func(context.Context, A) error) {
			defer wg.Done()
			errs[i] = fn(ctx, a)
		}(i, t.fn)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (h *AsyncParallelHook1[A]) TapCount() int { return len(h.taps) }
