// Package geometry holds the planar primitives used by the temporal engine:
// points, rectangles, arc-length resampling and vertex alignment.
//
// Coordinates are abstract planar units. Nothing in this package performs I/O.
package geometry

import (
	"fmt"
	"math"
)

// Point is a planar coordinate. Points are values and are always copied.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Add returns p translated by o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p - o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Lerp linearly interpolates between p and o.
func (p Point) Lerp(o Point, t float64) Point {
	return Point{X: Lerp(p.X, o.X, t), Y: Lerp(p.Y, o.Y, t)}
}

// Distance returns the euclidean distance between two points.
func (p Point) Distance(o Point) float64 {
	return math.Hypot(o.X-p.X, o.Y-p.Y)
}

// DistanceSquared returns the squared euclidean distance between two points.
func (p Point) DistanceSquared(o Point) float64 {
	dx := o.X - p.X
	dy := o.Y - p.Y
	return dx*dx + dy*dy
}

// IsFinite reports whether both coordinates are finite.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Lerp interpolates between a and b. t=0 yields a and t=1 yields b exactly.
func Lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// Clone returns a copy of pts that shares no backing array with it.
// A nil input yields nil.
func Clone(pts []Point) []Point {
	if pts == nil {
		return nil
	}
	out := make([]Point, len(pts))
	copy(out, pts)
	return out
}

// Reversed returns a reversed copy of pts.
func Reversed(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// Centroid returns the vertex mean of pts, or the origin for an empty slice.
func Centroid(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	var sx, sy float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(pts))
	return Point{X: sx / n, Y: sy / n}
}

// SignedArea returns the shoelace area of the closed ring pts. The sign
// encodes the winding: negative rings are reversed by NormalizeWinding.
func SignedArea(pts []Point) float64 {
	var area float64
	for i := range pts {
		j := (i + 1) % len(pts)
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return area / 2
}

// NormalizeWinding returns pts in the canonical winding used for closed
// shapes. The result is always a fresh slice.
func NormalizeWinding(pts []Point) []Point {
	if SignedArea(pts) < 0 {
		return Reversed(pts)
	}
	return Clone(pts)
}

// PathLength returns the length of the polyline through pts, including the
// wrap-around edge when closed is set.
func PathLength(pts []Point, closed bool) float64 {
	if len(pts) < 2 {
		return 0
	}
	edges := len(pts) - 1
	if closed {
		edges = len(pts)
	}
	var total float64
	for i := 0; i < edges; i++ {
		total += pts[i].Distance(pts[(i+1)%len(pts)])
	}
	return total
}

// TotalSquaredDistance sums the squared distances of index-wise
// correspondences over the shorter of the two slices.
func TotalSquaredDistance(a, b []Point) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i].DistanceSquared(b[i])
	}
	return sum
}
