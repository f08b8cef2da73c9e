package accum

// Helpers for contiguous group indices, where equal adjacent values already
// form unbroken runs (as after a stable partition by group). The grouping
// reductions establish this precondition via a stable sort and then walk the
// run boundaries instead of a second counting pass.

// StepCount returns the number of runs of equal values in groupIdx.
// An empty index has zero runs.
func StepCount(groupIdx []int64) int {
	if len(groupIdx) == 0 {
		return 0
	}
	steps := 1
	cmp := groupIdx[0]
	for _, g := range groupIdx[1:] {
		if g != cmp {
			cmp = g
			steps++
		}
	}
	return steps
}

// StepIndices returns the boundary positions of the runs in groupIdx: the
// first entry is 0, the last is len(groupIdx), and every inner entry is a
// position where the group id changes. Run r spans
// [indices[r], indices[r+1]).
func StepIndices(groupIdx []int64) []int {
	if len(groupIdx) == 0 {
		return []int{0}
	}
	indices := make([]int, 1, StepCount(groupIdx)+1)
	cmp := groupIdx[0]
	for i, g := range groupIdx[1:] {
		if g != cmp {
			cmp = g
			indices = append(indices, i+1)
		}
	}
	return append(indices, len(groupIdx))
}
