package geometry

// AlignClosed re-indexes target by the rotation offset that minimises the
// total squared distance to reference. Ties keep the smallest offset.
//
// The search is O(N²) over the vertex count, which is bounded by the
// resample count rather than by raw input size. Slices of different lengths
// are returned unchanged. The inputs are never modified.
func AlignClosed(reference, target []Point) []Point {
	n := len(target)
	if len(reference) != n || n == 0 {
		return target
	}

	bestOffset := 0
	bestDist := 0.0
	for offset := 0; offset < n; offset++ {
		var d float64
		for i := 0; i < n; i++ {
			d += reference[i].DistanceSquared(target[(i+offset)%n])
		}
		if offset == 0 || d < bestDist {
			bestDist = d
			bestOffset = offset
		}
	}

	aligned := make([]Point, n)
	for i := 0; i < n; i++ {
		aligned[i] = target[(i+bestOffset)%n]
	}
	return aligned
}

// AlignOpen returns target reversed when the reversed correspondence is
// strictly closer to reference than the direct one, and target otherwise.
// Only the first min(len(reference), len(target)) indices are compared.
func AlignOpen(reference, target []Point) []Point {
	n := min(len(reference), len(target))
	last := len(target) - 1
	var direct, reversed float64
	for i := 0; i < n; i++ {
		direct += reference[i].DistanceSquared(target[i])
		reversed += reference[i].DistanceSquared(target[last-i])
	}
	if reversed < direct {
		return Reversed(target)
	}
	return target
}
