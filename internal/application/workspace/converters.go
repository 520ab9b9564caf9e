package workspace

import (
	"github.com/penwyp/go-chrono-atlas/internal/core/geometry"
	"github.com/penwyp/go-chrono-atlas/internal/presentation/formatter"
)

// convertPlacement flattens a placement for the formatters. Bounds are the
// true extents, not the padded index box.
func convertPlacement(p *Placement) formatter.Row {
	c := geometry.Centroid(p.Geometry)
	b := geometry.BoundingBox(p.Geometry)
	return formatter.Row{
		ID:        p.ID,
		Name:      p.Name,
		Layer:     p.Layer,
		Domain:    p.Domain,
		Typology:  p.Typology,
		Subtype:   p.Subtype,
		Class:     p.Class.String(),
		Vertices:  len(p.Geometry),
		CentroidX: c.X,
		CentroidY: c.Y,
		MinX:      b.MinX(),
		MinY:      b.MinY(),
		MaxX:      b.MaxX(),
		MaxY:      b.MaxY(),
	}
}

// Rows converts placements in order.
func Rows(placements []*Placement) []formatter.Row {
	rows := make([]formatter.Row, 0, len(placements))
	for _, p := range placements {
		rows = append(rows, convertPlacement(p))
	}
	return rows
}

// ReportFor builds the formatter report for year from placements,
// optionally restricted to one layer.
func ReportFor(year float64, placements []*Placement, layer string) formatter.Report {
	if layer != "" {
		filtered := make([]*Placement, 0, len(placements))
		for _, p := range placements {
			if p.Layer == layer {
				filtered = append(filtered, p)
			}
		}
		placements = filtered
	}
	return formatter.Report{Year: year, Rows: Rows(placements)}
}
