package scoring

// AssignWeights converts an ordered list of active dimensions into rank
// weights. The dimension at position i of n receives (n-i)/S where S is the
// triangular number n(n+1)/2, so weights decrease with position and sum to 1.
// The identity dimension is dropped before ranking; inactive dimensions are
// expected to be filtered by the caller (see ActiveDimensions).
func AssignWeights(dims []Dimension) map[string]float64 {
	ranked := make([]Dimension, 0, len(dims))
	for _, d := range dims {
		if d.IsIdentity() {
			continue
		}
		ranked = append(ranked, d)
	}

	weights := make(map[string]float64, len(ranked))
	n := len(ranked)
	if n == 0 {
		return weights
	}
	s := float64(n*(n+1)) / 2
	for i, d := range ranked {
		weights[d.ID] = float64(n-i) / s
	}
	return weights
}

// ActiveDimensions returns the active dimensions in their priority order.
func ActiveDimensions(dims []Dimension) []Dimension {
	out := make([]Dimension, 0, len(dims))
	for _, d := range dims {
		if d.Active {
			out = append(out, d)
		}
	}
	return out
}
