package entity

import "github.com/penwyp/go-chrono-atlas/internal/core/geometry"

type span struct {
	from, to int
}

// interval is the normalised form of two neighbouring keyframes: equal
// vertex counts, next aligned onto prev, both split into a centroid and
// per-vertex offsets from it.
type interval struct {
	c1, c2     geometry.Point
	off1, off2 []geometry.Point
}

func (e *Entity) invalidate() {
	if len(e.cache) > 0 {
		clear(e.cache)
	}
}

func (e *Entity) intervalFor(prev, next Keyframe) *interval {
	key := span{prev.Year, next.Year}
	if iv, ok := e.cache[key]; ok {
		return iv
	}
	iv := e.normalize(prev.Geometry, next.Geometry)
	if iv == nil {
		return nil
	}
	if e.cache == nil {
		e.cache = make(map[span]*interval)
	}
	e.cache[key] = iv
	return iv
}

func (e *Entity) normalize(a, b []geometry.Point) *interval {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	class := e.Class()

	if class == geometry.Single {
		a, b = a[:1], b[:1]
	} else {
		closed := class == geometry.Closed
		if len(a) != len(b) {
			a = geometry.Resample(a, e.resampleCount, closed)
			b = geometry.Resample(b, e.resampleCount, closed)
			a, b = broadcast(a, len(b)), broadcast(b, len(a))
			if len(a) != len(b) {
				return nil
			}
		}
		if closed {
			b = geometry.AlignClosed(a, b)
		} else {
			b = geometry.AlignOpen(a, b)
		}
	}

	iv := &interval{c1: geometry.Centroid(a), c2: geometry.Centroid(b)}
	iv.off1 = offsets(a, iv.c1)
	iv.off2 = offsets(b, iv.c2)
	return iv
}

// broadcast repeats a lone vertex n times so it can morph into a full shape.
func broadcast(pts []geometry.Point, n int) []geometry.Point {
	if len(pts) != 1 || n <= 1 {
		return pts
	}
	out := make([]geometry.Point, n)
	for i := range out {
		out[i] = pts[0]
	}
	return out
}

func offsets(pts []geometry.Point, c geometry.Point) []geometry.Point {
	out := make([]geometry.Point, len(pts))
	for i, p := range pts {
		out[i] = p.Sub(c)
	}
	return out
}

func (iv *interval) blend(t float64) []geometry.Point {
	c := iv.c1.Lerp(iv.c2, t)
	out := make([]geometry.Point, len(iv.off1))
	for i := range out {
		out[i] = c.Add(iv.off1[i].Lerp(iv.off2[i], t))
	}
	return out
}
