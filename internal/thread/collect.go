package thread

// descendants walks the reply tree below each of the start positions and
// returns the replies in depth-first pre-order. visit marks a position and
// reports whether it was unmarked before; positions already marked are neither
// returned nor descended into. The walk uses an explicit stack, so reply cycles
// and very deep threads are both safe.
func (ix *index) descendants(start []int, visit func(pos int) bool) []int {
	var out []int
	var stack []int

	pushChildren := func(pos int) {
		kids := ix.children[ix.number(pos)]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}

	// Children of start[0] must come out first, so they are pushed last.
	for i := len(start) - 1; i >= 0; i-- {
		pushChildren(start[i])
	}
	for len(stack) > 0 {
		pos := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(pos) {
			continue
		}
		out = append(out, pos)
		pushChildren(pos)
	}
	return out
}

// visitOnce returns a visit function backed by a set seeded with the given positions.
func visitOnce(seed ...int) func(int) bool {
	seen := make(map[int]struct{}, len(seed))
	for _, p := range seed {
		seen[p] = struct{}{}
	}
	return func(pos int) bool {
		if _, ok := seen[pos]; ok {
			return false
		}
		seen[pos] = struct{}{}
		return true
	}
}

// visitUnclaimed marks positions in claimed.
func visitUnclaimed(claimed []bool) func(int) bool {
	return func(pos int) bool {
		if claimed[pos] {
			return false
		}
		claimed[pos] = true
		return true
	}
}
