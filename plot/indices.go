package plot

// Indices returns the line index buffer for rows of len(order) attributes.
//
// Each row walks order; an axis counted twice or more in excluded is skipped,
// one counted once is skipped at either end of the row. Interior axes are
// emitted twice so every segment has its own pair of endpoints. An empty
// result is replaced by a degenerate pair.
func Indices(order, excluded []int, rows int) []uint32 {
	n := len(order)
	if len(excluded) != n {
		panic("plot: exclusion length does not match order")
	}
	if n < 2 {
		return []uint32{0, 0}
	}
	out := make([]uint32, 0, rows*2*n)
	for row := 0; row < rows; row++ {
		base := uint32(row * n)
		for j, a := range order {
			c := excluded[a]
			end := j == 0 || j == n-1
			if c > 1 || (c > 0 && end) {
				continue
			}
			if !end && c <= 0 {
				out = append(out, base+uint32(a))
			}
			out = append(out, base+uint32(a))
		}
	}
	if len(out) == 0 {
		out = append(out, 0, 0)
	}
	return out
}

// IsPermutation reports whether order holds every index 0..len(order)-1 once.
func IsPermutation(order []int) bool {
	seen := make([]bool, len(order))
	for _, x := range order {
		if x < 0 || x >= len(order) || seen[x] {
			return false
		}
		seen[x] = true
	}
	return true
}
