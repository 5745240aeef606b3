// Package hook implements the typed event bus plugins tap into: four hook
// kinds (sync, sync-bail, async-series, async-parallel), each declared with
// a fixed parameter arity and ordered tap registration.
//
// Ordering mirrors the teacher's stage registry (internal/stage/registry.go)
// generalized from "one runner per name" to "an ordered list of taps per
// hook": taps run in registration order unless given an explicit numeric
// stage (lower runs first) or a before-list (forces the tap ahead of the
// named taps). Ties break by registration order.
package hook

// Kind distinguishes how a tap requests its position in the invocation
// order.
type Kind int

const (
	// KindNormal taps run in registration order, interleaved with staged
	// taps at the default stage (0).
	KindNormal Kind = iota
	// KindBefore taps are moved immediately ahead of the first tap named
	// in Before, after stage ordering has been applied.
	KindBefore
	// KindStage taps are ordered by Stage ascending; ties within a stage
	// (including the implicit stage 0 of normal/before taps) break by
	// registration order.
	KindStage
)

// meta is the ordering-relevant shape of a tap, kept separate from its
// typed function value so the same sort routine serves every hook arity.
type meta struct {
	name   string
	kind   Kind
	before []string
	stage  int
	seq    int
}

// order computes the invocation order (as indices into metas) implementing
// the rule in spec.md §4.1: sync/async-series taps run in registration
// order unless a tap specified before or stage; lower stage first; ties
// break by registration order.
func order(metas []meta) []int {
	idx := make([]int, len(metas))
	for i := range idx {
		idx[i] = i
	}
	// Stable sort by effective stage (KindBefore and KindNormal are both
	// stage 0), preserving registration order within a stage.
	stageOf := func(i int) int {
		if metas[i].kind == KindStage {
			return metas[i].stage
		}
		return 0
	}
	// Insertion sort is fine: hook tap counts are small and this keeps the
	// stability guarantee explicit without relying on sort.SliceStable's
	// less-function nuances for equal keys.
	for i := 1; i < len(idx); i++ {
		j := i
		for j > 0 && stageOf(idx[j-1]) > stageOf(idx[j]) {
			idx[j-1], idx[j] = idx[j], idx[j-1]
			j--
		}
	}

	// Apply before-constraints: move each before-tap immediately ahead of
	// the earliest tap named in its Before list, scanning left to right in
	// registration order so multiple before-taps targeting the same name
	// keep their relative registration order.
	byName := map[string]int{}
	for _, i := range idx {
		if metas[i].name != "" {
			byName[metas[i].name] = i
		}
	}
	for _, i := range idx {
		m := metas[i]
		if m.kind != KindBefore || len(m.before) == 0 {
			continue
		}
		target := -1
		targetPos := len(idx)
		for _, name := range m.before {
			j, ok := byName[name]
			if !ok || j == i {
				continue
			}
			if pos := indexOf(idx, j); pos >= 0 && pos < targetPos {
				targetPos = pos
				target = j
			}
		}
		if target < 0 {
			continue
		}
		idx = moveBefore(idx, i, target)
	}
	return idx
}

func indexOf(s []int, v int) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// moveBefore relocates element elem to immediately precede element target
// in idx, preserving the relative order of everything else.
func moveBefore(idx []int, elem, target int) []int {
	if elem == target {
		return idx
	}
	out := make([]int, 0, len(idx))
	for _, v := range idx {
		if v == elem {
			continue
		}
		if v == target {
			out = append(out, elem)
		}
		out = append(out, v)
	}
	return out
}
