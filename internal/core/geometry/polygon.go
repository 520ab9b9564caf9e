package geometry

// ContainsPoint reports whether p lies inside the closed ring poly using
// even-odd ray casting.
func ContainsPoint(p Point, poly []Point) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}

// DistanceToSegment returns the distance from p to the segment ab.
func DistanceToSegment(p, a, b Point) float64 {
	l2 := a.DistanceSquared(b)
	if l2 == 0 {
		return p.Distance(a)
	}
	t := ((p.X-a.X)*(b.X-a.X) + (p.Y-a.Y)*(b.Y-a.Y)) / l2
	t = max(0, min(1, t))
	return p.Distance(a.Lerp(b, t))
}

// DistanceToPath returns the smallest distance from p to any edge of pts.
// The wrap-around edge is included when closed is set. A single point path
// measures the distance to that point; an empty path returns -1.
func DistanceToPath(p Point, pts []Point, closed bool) float64 {
	switch len(pts) {
	case 0:
		return -1
	case 1:
		return p.Distance(pts[0])
	}
	edges := len(pts) - 1
	if closed {
		edges = len(pts)
	}
	best := -1.0
	for i := 0; i < edges; i++ {
		d := DistanceToSegment(p, pts[i], pts[(i+1)%len(pts)])
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}
