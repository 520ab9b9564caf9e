// Package entity implements time-varying shapes: keyframed geometry that can
// be evaluated at any year as a smoothly morphed snapshot.
//
// An Entity is not safe for concurrent mutation. Hosts that share one across
// goroutines must serialise AddKeyframe, RemoveKeyframe and Evaluate.
package entity

import (
	"fmt"

	"github.com/penwyp/go-chrono-atlas/internal/core/geometry"
	"github.com/penwyp/go-chrono-atlas/internal/core/ontology"
)

// DefaultResampleCount is the canonical vertex count for non-exact shapes.
const DefaultResampleCount = 100

// Taxonomy supplies classification metadata. *ontology.Registry satisfies it.
type Taxonomy interface {
	Classify(domain, typology, subtype string) ontology.Info
}

// Config describes a new entity. Zero values pick the defaults.
type Config struct {
	ID       string
	Name     string
	Domain   string
	Typology string
	Subtype  string

	Color              string
	HatchStyle         string
	BoundaryType       string
	BoundaryConfidence *float64

	ParentID   string
	Children   []string
	Attributes map[string]any

	Description     string
	Visibility      string
	ValidTime       map[string]any
	TransactionTime map[string]any
	ExternalRefs    map[string]any

	// ValidRange defaults to all of time.
	ValidRange *ValidityRange
	// ResampleCount defaults to DefaultResampleCount.
	ResampleCount int
	// Taxonomy defaults to ontology.Default().
	Taxonomy Taxonomy
}

// Entity is a named shape whose geometry is keyed by year.
type Entity struct {
	ID       string
	Name     string
	Domain   string
	Typology string
	Subtype  string

	Color              string
	HatchStyle         string
	BoundaryType       string
	BoundaryConfidence float64

	ParentID   string
	Children   []string
	Attributes map[string]any

	Description     string
	Visibility      string
	ValidTime       map[string]any
	TransactionTime map[string]any
	ExternalRefs    map[string]any

	// CurrentGeometry holds the result of the last Evaluate call.
	CurrentGeometry []geometry.Point

	timeline      timeline
	validRange    ValidityRange
	resampleCount int
	taxonomy      Taxonomy
	cache         map[span]*interval
}

// New builds an entity with no keyframes.
func New(cfg Config) (*Entity, error) {
	if cfg.ID == "" {
		return nil, ErrMissingID
	}

	vr := Unbounded()
	if cfg.ValidRange != nil {
		var err error
		if vr, err = NewValidityRange(cfg.ValidRange.Start, cfg.ValidRange.End); err != nil {
			return nil, fmt.Errorf("entity %s: %w", cfg.ID, err)
		}
	}
	if cfg.ResampleCount <= 0 {
		cfg.ResampleCount = DefaultResampleCount
	}
	if cfg.Taxonomy == nil {
		cfg.Taxonomy = ontology.Default()
	}

	info := cfg.Taxonomy.Classify(cfg.Domain, cfg.Typology, cfg.Subtype)
	confidence := info.BoundaryConfidence
	if cfg.BoundaryConfidence != nil {
		confidence = *cfg.BoundaryConfidence
	}
	boundaryType := cfg.BoundaryType
	if boundaryType == "" {
		boundaryType = info.BoundaryType
	}
	visibility := cfg.Visibility
	if visibility == "" {
		visibility = "visible"
	}

	e := &Entity{
		ID:                 cfg.ID,
		Name:               cfg.Name,
		Domain:             cfg.Domain,
		Typology:           cfg.Typology,
		Subtype:            cfg.Subtype,
		Color:              cfg.Color,
		HatchStyle:         cfg.HatchStyle,
		BoundaryType:       boundaryType,
		BoundaryConfidence: confidence,
		ParentID:           cfg.ParentID,
		Children:           append([]string(nil), cfg.Children...),
		Attributes:         cfg.Attributes,
		Description:        cfg.Description,
		Visibility:         visibility,
		ValidTime:          cfg.ValidTime,
		TransactionTime:    cfg.TransactionTime,
		ExternalRefs:       cfg.ExternalRefs,
		validRange:         vr,
		resampleCount:      cfg.ResampleCount,
		taxonomy:           cfg.Taxonomy,
	}
	if e.Attributes == nil {
		e.Attributes = make(map[string]any)
	}
	return e, nil
}

// Class is the geometry class derived from the entity's classification.
func (e *Entity) Class() geometry.Class {
	return e.taxonomy.Classify(e.Domain, e.Typology, e.Subtype).Class
}

// ResampleCount returns the canonical vertex count.
func (e *Entity) ResampleCount() int {
	return e.resampleCount
}

// ValidRange returns the current validity range.
func (e *Entity) ValidRange() ValidityRange {
	return e.validRange
}

// SetValidRange replaces the validity range.
func (e *Entity) SetValidRange(r ValidityRange) error {
	vr, err := NewValidityRange(r.Start, r.End)
	if err != nil {
		return err
	}
	e.validRange = vr
	return nil
}

// ExistsAt reports whether the entity has geometry at year.
func (e *Entity) ExistsAt(year float64) bool {
	return e.timeline.Len() > 0 && e.validRange.Contains(year)
}

// Len returns the number of keyframes.
func (e *Entity) Len() int {
	return e.timeline.Len()
}

// Keyframes returns a deep copy of the timeline in year order.
func (e *Entity) Keyframes() []Keyframe {
	return e.timeline.snapshot()
}

// Keyframe returns a copy of the keyframe stored at year.
func (e *Entity) Keyframe(year int) (Keyframe, bool) {
	i := e.timeline.search(year)
	if i >= e.timeline.Len() || e.timeline.frames[i].Year != year {
		return Keyframe{}, false
	}
	return e.timeline.frames[i].clone(), true
}

// Span returns the first and last keyframe years.
func (e *Entity) Span() (first, last int, ok bool) {
	f, ok := e.timeline.first()
	if !ok {
		return 0, 0, false
	}
	l, _ := e.timeline.last()
	return f.Year, l.Year, true
}

// AddKeyframe stores pts as the entity's shape at year, replacing any
// keyframe already there.
//
// Point-class entities and single-point inputs store one copied vertex.
// Exact keyframes keep their vertices verbatim; everything else is resampled
// to the canonical count, closed or open according to the class. Finite
// valid-range bounds grow to cover year±RangeMargin.
func (e *Entity) AddKeyframe(year int, pts []geometry.Point, exact bool) {
	class := e.Class()

	var stored []geometry.Point
	switch {
	case len(pts) == 0:
		stored = []geometry.Point{}
	case class == geometry.Single || len(pts) == 1:
		stored = []geometry.Point{pts[0]}
	case exact:
		stored = geometry.Clone(pts)
	default:
		stored = geometry.Resample(pts, e.resampleCount, class == geometry.Closed)
	}

	e.timeline.put(Keyframe{Year: year, Geometry: stored})
	e.validRange = e.validRange.Expand(year)
	e.invalidate()
}

// RemoveKeyframe deletes the keyframe at year. The valid range is unchanged.
func (e *Entity) RemoveKeyframe(year int) bool {
	if !e.timeline.remove(year) {
		return false
	}
	e.invalidate()
	return true
}

// GeometryAt returns the shape at year, or nil when the entity does not exist
// then. The result is a fresh slice the caller may keep.
func (e *Entity) GeometryAt(year float64) []geometry.Point {
	if e.timeline.Len() == 0 || !e.validRange.Contains(year) {
		return nil
	}
	if e.timeline.Len() == 1 {
		return geometry.Clone(e.timeline.frames[0].Geometry)
	}

	pi, ni := e.timeline.bracket(year)
	switch {
	case pi < 0:
		return geometry.Clone(e.timeline.frames[ni].Geometry)
	case ni < 0, pi == ni:
		return geometry.Clone(e.timeline.frames[pi].Geometry)
	}

	prev, next := e.timeline.frames[pi], e.timeline.frames[ni]
	iv := e.intervalFor(prev, next)
	if iv == nil {
		return geometry.Clone(prev.Geometry)
	}
	t := (year - float64(prev.Year)) / float64(next.Year-prev.Year)
	return iv.blend(t)
}

// Evaluate computes the geometry at year and keeps it in CurrentGeometry.
func (e *Entity) Evaluate(year float64) []geometry.Point {
	e.CurrentGeometry = e.GeometryAt(year)
	return e.CurrentGeometry
}

// Bounds returns the bounding box of CurrentGeometry.
func (e *Entity) Bounds() geometry.Rect {
	return geometry.BoundingBox(e.CurrentGeometry)
}

func (e *Entity) String() string {
	return fmt.Sprintf("%s(%s %s/%s, %d keyframes, %s)",
		e.ID, e.Name, e.Domain, e.Typology, e.timeline.Len(), e.validRange)
}

// SetClassification changes domain, typology and subtype. Cached
// interpolation state is dropped since the geometry class may change.
func (e *Entity) SetClassification(c ontology.Classification) {
	e.Domain, e.Typology, e.Subtype = c.Domain, c.Typology, c.Subtype
	e.invalidate()
}

// Classification returns the entity's domain, typology and subtype.
func (e *Entity) Classification() ontology.Classification {
	return ontology.Classification{Domain: e.Domain, Typology: e.Typology, Subtype: e.Subtype}
}
