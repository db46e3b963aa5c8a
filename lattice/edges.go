package lattice

// Edges enumerates every axis-aligned neighbor pair of the grid described
// by s. The result is the concatenation of three runs: edges along z
// ("deep"), along y ("right"), then along x ("down"), each emitted in
// C order. Each pair appears exactly once, with U the lower index.
//
// Returns ErrEmptyShape if any extent is non-positive.
// Complexity: O(N) time and memory in the number of edges.
func Edges(s Shape) ([]Edge, error) {
	if !s.Valid() {
		return nil, ErrEmptyShape
	}
	edges := make([]Edge, 0, s.NumEdges())
	// Deep: (x,y,z)–(x,y,z+1). The +1 neighbor differs by exactly 1 in
	// flattened index, so U < V holds by construction; same for the other
	// two runs, where the neighbor offset is NZ and NY·NZ respectively.
	for x := 0; x < s.NX; x++ {
		for y := 0; y < s.NY; y++ {
			for z := 0; z+1 < s.NZ; z++ {
				u := s.Index(x, y, z)
				edges = append(edges, Edge{U: u, V: u + 1})
			}
		}
	}
	// Right: (x,y,z)–(x,y+1,z).
	for x := 0; x < s.NX; x++ {
		for y := 0; y+1 < s.NY; y++ {
			for z := 0; z < s.NZ; z++ {
				u := s.Index(x, y, z)
				edges = append(edges, Edge{U: u, V: u + s.NZ})
			}
		}
	}
	// Down: (x,y,z)–(x+1,y,z).
	for x := 0; x+1 < s.NX; x++ {
		for y := 0; y < s.NY; y++ {
			for z := 0; z < s.NZ; z++ {
				u := s.Index(x, y, z)
				edges = append(edges, Edge{U: u, V: u + s.NY*s.NZ})
			}
		}
	}

	return edges, nil
}

// axisSteps are the coordinate deltas of the six axis neighbors,
// in ±z, ±y, ±x order. In 2-D (NZ=1) the z steps never pass InBounds,
// degrading naturally to 4-connectivity.
var axisSteps = [6][3]int{
	{0, 0, +1}, {0, 0, -1},
	{0, +1, 0}, {0, -1, 0},
	{+1, 0, 0}, {-1, 0, 0},
}

// InBounds reports whether (x,y,z) lies within the grid extents.
// Complexity: O(1).
func (s Shape) InBounds(x, y, z int) bool {
	return x >= 0 && x < s.NX && y >= 0 && y < s.NY && z >= 0 && z < s.NZ
}
