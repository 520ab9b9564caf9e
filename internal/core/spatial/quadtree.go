// Package spatial provides a recursive quadtree over axis-aligned bounding
// boxes. It knows nothing about entities or time: callers rebuild it with
// Clear and Insert whenever the boxes they feed it change.
package spatial

import "github.com/penwyp/go-chrono-atlas/internal/core/geometry"

const (
	DefaultCapacity = 10
	DefaultMaxDepth = 8
)

// Quadrant order used for child nodes and insertion attempts.
const (
	TopRight = iota
	TopLeft
	BottomLeft
	BottomRight
)

// Bounded is anything with an axis-aligned bounding box.
type Bounded interface {
	Bounds() geometry.Rect
}

// Item pairs an arbitrary value with the box it is indexed under.
type Item[V any] struct {
	Box   geometry.Rect
	Value V
}

func (it Item[V]) Bounds() geometry.Rect { return it.Box }

// Quadtree is one node of the tree; the root is the node returned by New.
//
// A leaf holds at most capacity objects unless it sits at maxDepth. Once a
// node subdivides it stays internal, and keeps only the objects that do not
// fit wholly inside a single child (plus, at the root, objects outside the
// root bounds).
//
// A Quadtree is not safe for concurrent mutation.
type Quadtree[T Bounded] struct {
	bounds   geometry.Rect
	capacity int
	maxDepth int
	depth    int
	objects  []T
	children []*Quadtree[T]
}

// New returns an empty root node. Non-positive capacity or maxDepth fall
// back to DefaultCapacity and DefaultMaxDepth.
func New[T Bounded](bounds geometry.Rect, capacity, maxDepth int) *Quadtree[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return newNode[T](bounds, capacity, maxDepth, 0)
}

func newNode[T Bounded](bounds geometry.Rect, capacity, maxDepth, depth int) *Quadtree[T] {
	return &Quadtree[T]{
		bounds:   bounds,
		capacity: capacity,
		maxDepth: maxDepth,
		depth:    depth,
	}
}

func (q *Quadtree[T]) Bounds() geometry.Rect { return q.bounds }
func (q *Quadtree[T]) Capacity() int         { return q.capacity }
func (q *Quadtree[T]) MaxDepth() int         { return q.maxDepth }
func (q *Quadtree[T]) Depth() int            { return q.depth }

// Divided reports whether the node has been split into four children.
func (q *Quadtree[T]) Divided() bool { return len(q.children) == 4 }

// Objects returns the objects stored directly on this node.
func (q *Quadtree[T]) Objects() []T { return q.objects }

// Children returns the child nodes in TopRight, TopLeft, BottomLeft,
// BottomRight order, or nil for a leaf.
func (q *Quadtree[T]) Children() []*Quadtree[T] { return q.children }

// Len returns the number of objects stored in this subtree.
func (q *Quadtree[T]) Len() int {
	n := len(q.objects)
	for _, c := range q.children {
		n += c.Len()
	}
	return n
}

// Insert stores obj in the deepest node that wholly contains it.
//
// Below the root an object outside the node bounds is rejected and false is
// returned; the parent then keeps the object itself. The root never checks
// containment, so out-of-bounds objects are always accepted there.
func (q *Quadtree[T]) Insert(obj T) bool {
	box := obj.Bounds()
	if q.depth > 0 && !q.bounds.Contains(box) {
		return false
	}

	if q.Divided() {
		for _, c := range q.children {
			if c.Insert(obj) {
				return true
			}
		}
		// straddles a child boundary
		q.objects = append(q.objects, obj)
		return true
	}

	q.objects = append(q.objects, obj)
	if len(q.objects) > q.capacity && q.depth < q.maxDepth {
		q.subdivide()
	}
	return true
}

func (q *Quadtree[T]) subdivide() {
	x, y := q.bounds.X, q.bounds.Y
	w, h := q.bounds.W/2, q.bounds.H/2
	d := q.depth + 1

	q.children = []*Quadtree[T]{
		TopRight:    newNode[T](geometry.R(x+w, y, w, h), q.capacity, q.maxDepth, d),
		TopLeft:     newNode[T](geometry.R(x, y, w, h), q.capacity, q.maxDepth, d),
		BottomLeft:  newNode[T](geometry.R(x, y+h, w, h), q.capacity, q.maxDepth, d),
		BottomRight: newNode[T](geometry.R(x+w, y+h, w, h), q.capacity, q.maxDepth, d),
	}

	old := q.objects
	q.objects = nil
	for _, obj := range old {
		q.Insert(obj)
	}
}

// Retrieve returns every stored object whose box intersects rng. The result
// is exact, not a candidate list.
//
// A query that misses the root bounds finds nothing, so an outlier stored
// outside them is only found by a query overlapping both it and the root.
func (q *Quadtree[T]) Retrieve(rng geometry.Rect) []T {
	var found []T
	return q.retrieve(rng, found)
}

func (q *Quadtree[T]) retrieve(rng geometry.Rect, found []T) []T {
	if !q.bounds.Intersects(rng) {
		return found
	}

	for _, c := range q.children {
		if c.bounds.Intersects(rng) {
			found = c.retrieve(rng, found)
		}
	}

	for _, obj := range q.objects {
		if obj.Bounds().Intersects(rng) {
			found = append(found, obj)
		}
	}
	return found
}

// Clear drops all objects and children, returning the node to an empty leaf.
func (q *Quadtree[T]) Clear() {
	q.objects = nil
	for _, c := range q.children {
		c.Clear()
	}
	q.children = nil
}

// Reset clears the tree and moves the root to bounds. Capacity and depth
// limits are kept.
func (q *Quadtree[T]) Reset(bounds geometry.Rect) {
	q.Clear()
	q.bounds = bounds
}

// Walk visits every node depth-first, parents before children. Returning
// false from fn stops descent into that node's children.
func (q *Quadtree[T]) Walk(fn func(node *Quadtree[T]) bool) {
	if !fn(q) {
		return
	}
	for _, c := range q.children {
		c.Walk(fn)
	}
}
