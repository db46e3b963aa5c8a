package lattice

// Reachable floods outward from every node marked in seeds, moving only
// across axis-adjacent active nodes, and reports which nodes the flood
// touched. Nodes outside active are never visited. Seeds that are
// themselves inactive are ignored.
//
// The walker package uses this as the pre-pass that detects unlabeled
// regions cut off from every seed by pruning: such regions have no
// well-defined potential and are pruned before the linear solve.
//
// Returns ErrMaskLength if either mask length differs from s.Len().
// Complexity: O(N) time and memory.
func Reachable(s Shape, seeds, active Mask) (Mask, error) {
	n := s.Len()
	if len(seeds) != n || len(active) != n {
		return nil, ErrMaskLength
	}
	reached := make(Mask, n)
	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if seeds[i] && active[i] {
			reached[i] = true
			queue = append(queue, i)
		}
	}
	// Plain FIFO walk; depth is irrelevant here, only coverage.
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		x, y, z := s.At(cur)
		for _, d := range axisSteps {
			nx, ny, nz := x+d[0], y+d[1], z+d[2]
			if !s.InBounds(nx, ny, nz) {
				continue
			}
			nbr := s.Index(nx, ny, nz)
			if reached[nbr] || !active[nbr] {
				continue
			}
			reached[nbr] = true
			queue = append(queue, nbr)
		}
	}

	return reached, nil
}
