package workspace

import (
	"math"
	"sort"
	"sync"

	"github.com/penwyp/go-chrono-atlas/internal/core/entity"
	"github.com/penwyp/go-chrono-atlas/internal/core/geometry"
	"github.com/penwyp/go-chrono-atlas/internal/core/spatial"
)

const (
	// DefaultWorldMargin pads the union of entity boxes.
	DefaultWorldMargin = 100
	// minExtent keeps degenerate boxes (points, axis-aligned lines) indexable.
	minExtent = 0.001
	// fallbackExtent bounds the world when nothing has geometry.
	fallbackExtent = 1000
)

// Placement is one entity's evaluated geometry at a year. It is a copy:
// later snapshots do not change it.
type Placement struct {
	ID         string
	Name       string
	Layer      string
	Domain     string
	Typology   string
	Subtype    string
	Class      geometry.Class
	Visibility string
	Geometry   []geometry.Point
	Box        geometry.Rect
	order      int
}

func (p *Placement) Bounds() geometry.Rect { return p.Box }

// Hidden reports whether the entity is excluded from queries and hit tests.
func (p *Placement) Hidden() bool {
	return p.Visibility == "hidden"
}

// zScore ranks hit-test candidates: points above linguistic areas above
// water above everything else.
func (p *Placement) zScore() int {
	score := 0
	if len(p.Geometry) == 1 {
		score += 100
	}
	if p.Domain == "linguistic" {
		score += 80
	}
	if p.Typology == "aquatic" {
		score += 50
	}
	return score
}

// Frame is the state of the world at one year.
type Frame struct {
	Year       float64
	Bounds     geometry.Rect
	Placements []*Placement
}

// Visible returns the placements that are not hidden.
func (f *Frame) Visible() []*Placement {
	if f == nil {
		return nil
	}
	out := make([]*Placement, 0, len(f.Placements))
	for _, p := range f.Placements {
		if !p.Hidden() {
			out = append(out, p)
		}
	}
	return out
}

// World evaluates a Manager's entities at a year and indexes the result.
type World struct {
	mu      sync.RWMutex
	manager *Manager
	index   *spatial.Quadtree[*Placement]
	frame   *Frame
	margin  float64
}

func NewWorld(m *Manager) *World {
	cfg := m.Config()
	return &World{
		manager: m,
		index:   spatial.New[*Placement](geometry.R(-fallbackExtent, -fallbackExtent, 2*fallbackExtent, 2*fallbackExtent), cfg.IndexCapacity, cfg.IndexMaxDepth),
		margin:  cfg.WorldMargin,
	}
}

// Snapshot evaluates every entity at year, recomputes the world bounds and
// rebuilds the index. Entities with no geometry at year are left out.
func (w *World) Snapshot(year float64) *Frame {
	var placements []*Placement
	w.manager.evaluate(func(e *entity.Entity, layer string) {
		pts := e.Evaluate(year)
		if len(pts) == 0 {
			return
		}
		placements = append(placements, &Placement{
			ID:         e.ID,
			Name:       e.Name,
			Layer:      layer,
			Domain:     e.Domain,
			Typology:   e.Typology,
			Subtype:    e.Subtype,
			Class:      e.Class(),
			Visibility: e.Visibility,
			Geometry:   pts,
			Box:        indexBox(pts),
			order:      len(placements),
		})
	})

	frame := &Frame{Year: year, Bounds: WorldBounds(placements, w.margin), Placements: placements}

	w.mu.Lock()
	w.index.Reset(frame.Bounds)
	for _, p := range placements {
		w.index.Insert(p)
	}
	w.frame = frame
	w.mu.Unlock()

	return frame
}

// Current returns the last snapshot, or nil before the first.
func (w *World) Current() *Frame {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.frame
}

// Query returns the visible placements whose boxes intersect rect, in
// entity load order.
func (w *World) Query(rect geometry.Rect) []*Placement {
	w.mu.RLock()
	found := w.index.Retrieve(rect)
	w.mu.RUnlock()

	out := found[:0]
	for _, p := range found {
		if !p.Hidden() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].order < out[j].order })
	return out
}

// HitTest returns the topmost visible placement under p, or nil. Candidates
// come from a tolerance-sized box around p and are tried by descending
// z-score, later entities first on ties. Points hit within tolerance, open
// paths within a fifth of it, closed shapes when p is inside.
func (w *World) HitTest(p geometry.Point, tolerance float64) *Placement {
	candidates := w.Query(geometry.R(p.X-tolerance/2, p.Y-tolerance/2, tolerance, tolerance))

	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := candidates[i].zScore(), candidates[j].zScore()
		if si != sj {
			return si > sj
		}
		return candidates[i].order > candidates[j].order
	})

	for _, c := range candidates {
		if hits(c, p, tolerance) {
			return c
		}
	}
	return nil
}

func hits(c *Placement, p geometry.Point, tolerance float64) bool {
	switch {
	case len(c.Geometry) == 1:
		return p.Distance(c.Geometry[0]) < tolerance
	case c.Class == geometry.Open:
		return geometry.DistanceToPath(p, c.Geometry, false) < tolerance/5
	default:
		return geometry.ContainsPoint(p, c.Geometry)
	}
}

// indexBox is the bounding box of pts with each side at least minExtent.
func indexBox(pts []geometry.Point) geometry.Rect {
	box := geometry.BoundingBox(pts)
	if math.Abs(box.W) < minExtent {
		box.W = minExtent
	}
	if math.Abs(box.H) < minExtent {
		box.H = minExtent
	}
	return box
}

// WorldBounds is the union of the placements' boxes grown by margin. With no
// placements the union is taken to be the 2000×2000 square around the origin.
func WorldBounds(placements []*Placement, margin float64) geometry.Rect {
	if len(placements) == 0 {
		return geometry.R(-fallbackExtent, -fallbackExtent, 2*fallbackExtent, 2*fallbackExtent).Inflate(margin)
	}
	bounds := placements[0].Box
	for _, p := range placements[1:] {
		bounds = bounds.Union(p.Box)
	}
	return bounds.Inflate(margin)
}
