package atlas

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/penwyp/go-chrono-atlas/internal/core/entity"
	"github.com/penwyp/go-chrono-atlas/internal/core/geometry"
)

func init() {
	geojson.CustomJSONMarshaler = sonic.ConfigStd
	geojson.CustomJSONUnmarshaler = sonic.ConfigStd
}

func toOrb(p geometry.Point) orb.Point {
	return orb.Point{p.X, p.Y}
}

func fromOrb(p orb.Point) geometry.Point {
	return geometry.Point{X: p[0], Y: p[1]}
}

func fromOrbPath(ps []orb.Point) []geometry.Point {
	out := make([]geometry.Point, len(ps))
	for i, p := range ps {
		out[i] = fromOrb(p)
	}
	return out
}

// ToGeometry converts a shape to GeoJSON geometry according to its class.
// Polygons get a closed ring; rings shorter than four positions, and empty
// inputs, yield nil.
func ToGeometry(pts []geometry.Point, class geometry.Class) orb.Geometry {
	if len(pts) == 0 {
		return nil
	}
	switch class {
	case geometry.Single:
		return toOrb(pts[0])
	case geometry.Open:
		ls := make(orb.LineString, len(pts))
		for i, p := range pts {
			ls[i] = toOrb(p)
		}
		return ls
	default:
		ring := make(orb.Ring, 0, len(pts)+1)
		for _, p := range pts {
			ring = append(ring, toOrb(p))
		}
		if !ring.Closed() {
			ring = append(ring, ring[0])
		}
		if len(ring) < 4 {
			return nil
		}
		return orb.Polygon{ring}
	}
}

// FromGeometry extracts a point sequence. Polygons yield their outer ring
// without the closing duplicate; multi-geometries yield their first member.
func FromGeometry(g orb.Geometry) []geometry.Point {
	switch v := g.(type) {
	case orb.Point:
		return []geometry.Point{fromOrb(v)}
	case orb.MultiPoint:
		if len(v) == 0 {
			return nil
		}
		return []geometry.Point{fromOrb(v[0])}
	case orb.LineString:
		return fromOrbPath(v)
	case orb.Ring:
		return openRing(v)
	case orb.Polygon:
		if len(v) == 0 {
			return nil
		}
		return openRing(v[0])
	case orb.MultiPolygon:
		if len(v) == 0 || len(v[0]) == 0 {
			return nil
		}
		return openRing(v[0][0])
	case orb.MultiLineString:
		if len(v) == 0 {
			return nil
		}
		return fromOrbPath(v[0])
	case orb.Collection:
		for _, member := range v {
			if pts := FromGeometry(member); len(pts) > 0 {
				return pts
			}
		}
	}
	return nil
}

func openRing(r orb.Ring) []geometry.Point {
	if len(r) > 1 && r.Closed() {
		r = r[:len(r)-1]
	}
	return fromOrbPath(r)
}

func geojsonGeometry(g orb.Geometry) *geojson.Geometry {
	if g == nil {
		return nil
	}
	return geojson.NewGeometry(g)
}

// SnapshotFeatureCollection renders the entities that exist at year as a
// FeatureCollection with their style and classification as properties.
func SnapshotFeatureCollection(es []*entity.Entity, year float64) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, e := range es {
		g := ToGeometry(e.GeometryAt(year), e.Class())
		if g == nil {
			continue
		}
		f := geojson.NewFeature(g)
		f.ID = e.ID
		f.Properties["name"] = e.Name
		f.Properties["domain"] = e.Domain
		f.Properties["typology"] = e.Typology
		if e.Subtype != "" {
			f.Properties["subtype"] = e.Subtype
		}
		f.Properties["color"] = e.Color
		if e.ParentID != "" {
			f.Properties["parentId"] = e.ParentID
		}
		f.Properties["year"] = year
		fc.Append(f)
	}
	return fc
}

// ShapeKind names the kind of a reference shape.
type ShapeKind string

const (
	ShapePoint   ShapeKind = "Point"
	ShapeLine    ShapeKind = "LineString"
	ShapePolygon ShapeKind = "Polygon"
)

// Shape is a static reference outline, drawn under the atlas for tracing.
type Shape struct {
	Kind   ShapeKind
	Points []geometry.Point
}

// ParseReference reads a FeatureCollection, Feature, GeometryCollection or
// bare geometry and flattens it into shapes: every polygon ring and every
// line member becomes its own shape.
func ParseReference(data []byte) ([]Shape, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := sonic.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("failed to decode reference: %w", err)
	}

	var geoms []orb.Geometry
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode feature collection: %w", err)
		}
		for _, f := range fc.Features {
			geoms = append(geoms, f.Geometry)
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode feature: %w", err)
		}
		geoms = append(geoms, f.Geometry)
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode geometry: %w", err)
		}
		geoms = append(geoms, g.Geometry())
	}

	var shapes []Shape
	for _, g := range geoms {
		shapes = appendShapes(shapes, g)
	}
	if len(shapes) == 0 {
		return nil, ErrEmptyReference
	}
	return shapes, nil
}

func appendShapes(shapes []Shape, g orb.Geometry) []Shape {
	switch v := g.(type) {
	case orb.Point:
		shapes = append(shapes, Shape{Kind: ShapePoint, Points: []geometry.Point{fromOrb(v)}})
	case orb.MultiPoint:
		for _, p := range v {
			shapes = append(shapes, Shape{Kind: ShapePoint, Points: []geometry.Point{fromOrb(p)}})
		}
	case orb.LineString:
		shapes = append(shapes, Shape{Kind: ShapeLine, Points: fromOrbPath(v)})
	case orb.MultiLineString:
		for _, ls := range v {
			shapes = append(shapes, Shape{Kind: ShapeLine, Points: fromOrbPath(ls)})
		}
	case orb.Polygon:
		for _, ring := range v {
			shapes = append(shapes, Shape{Kind: ShapePolygon, Points: fromOrbPath(ring)})
		}
	case orb.MultiPolygon:
		for _, poly := range v {
			shapes = appendShapes(shapes, poly)
		}
	case orb.Collection:
		for _, member := range v {
			shapes = appendShapes(shapes, member)
		}
	}
	return shapes
}
