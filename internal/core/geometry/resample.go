package geometry

import "math"

// Resample redistributes pts into exactly targetCount vertices spaced evenly
// by arc length.
//
// Closed shapes are first put into canonical winding so that the result does
// not depend on the direction the shape was traced in. The first output
// vertex is always the first input vertex (after winding normalisation). Open
// shapes additionally end exactly on their last input vertex.
//
// Inputs with fewer than two points, or a targetCount below one, are returned
// as an unmodified copy.
func Resample(pts []Point, targetCount int, closed bool) []Point {
	if len(pts) < 2 || targetCount < 1 {
		return Clone(pts)
	}

	src := pts
	if closed {
		src = NormalizeWinding(pts)
	}
	n := len(src)
	edges := n - 1
	if closed {
		edges = n
	}

	// Open paths stop one increment early and append the final vertex.
	limit := targetCount
	if !closed {
		limit = targetCount - 1
	}

	out := make([]Point, 0, targetCount)
	out = append(out, src[0])

	total := PathLength(src, closed)
	if total == 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		for len(out) < limit {
			out = append(out, src[0])
		}
		if !closed && targetCount > 1 {
			out = append(out, src[n-1])
		}
		return out
	}

	step := total / float64(targetCount)
	edge := 0
	edgeStart := 0.0
	edgeLen := src[0].Distance(src[1])

	for i := 1; i < limit; i++ {
		target := float64(i) * step
		for edge < edges-1 && (edgeLen == 0 || edgeStart+edgeLen < target) {
			edgeStart += edgeLen
			edge++
			edgeLen = src[edge].Distance(src[(edge+1)%n])
		}
		a, b := src[edge], src[(edge+1)%n]
		t := (target - edgeStart) / edgeLen
		if t > 1 {
			t = 1
		}
		out = append(out, lerpFinite(a, b, t))
	}

	if !closed && targetCount > 1 {
		out = append(out, src[n-1])
	}
	return out
}

// lerpFinite interpolates a→b, substituting a's coordinate for any component
// that is not finite.
func lerpFinite(a, b Point, t float64) Point {
	x := Lerp(a.X, b.X, t)
	if math.IsNaN(x) || math.IsInf(x, 0) {
		x = a.X
	}
	y := Lerp(a.Y, b.Y, t)
	if math.IsNaN(y) || math.IsInf(y, 0) {
		y = a.Y
	}
	return Point{X: x, Y: y}
}
