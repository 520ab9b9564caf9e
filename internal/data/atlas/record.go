package atlas

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/penwyp/go-chrono-atlas/internal/core/entity"
	"github.com/penwyp/go-chrono-atlas/internal/core/ontology"
)

// DefaultColor is used when neither the entity nor the atlas style sets one.
const DefaultColor = "#264e86"

// RangeRecord is a validity range whose infinite bounds are stored as null.
type RangeRecord struct {
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

// Record is the stored form of one entity.
//
// Two shapes share it: full records carry a timeline, snapshot features
// carry a GeoJSON geometry with optional GeoJSON-T "when" timespans. Older
// files use category/type instead of domain/typology.
type Record struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Domain   string `json:"domain,omitempty"`
	Typology string `json:"typology,omitempty"`
	Subtype  string `json:"subtype,omitempty"`
	Category string `json:"category,omitempty"`
	Type     string `json:"type,omitempty"`

	Color              string   `json:"color,omitempty"`
	HatchStyle         string   `json:"hatchStyle,omitempty"`
	BoundaryType       string   `json:"boundaryType,omitempty"`
	BoundaryConfidence *float64 `json:"boundaryConfidence,omitempty"`

	ParentID   string         `json:"parentId,omitempty"`
	Children   []string       `json:"children,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`

	Timeline   []entity.Keyframe `json:"timeline,omitempty"`
	ValidRange *RangeRecord      `json:"validRange,omitempty"`

	ValidTime       map[string]any `json:"validTime,omitempty"`
	TransactionTime map[string]any `json:"transactionTime,omitempty"`
	ExternalRefs    map[string]any `json:"externalRefs,omitempty"`
	Description     string         `json:"description,omitempty"`
	Visibility      string         `json:"visibility,omitempty"`

	Geometry   *geojson.Geometry `json:"geometry,omitempty"`
	When       *When             `json:"when,omitempty"`
	Properties map[string]any    `json:"properties,omitempty"`
}

// When is the GeoJSON-T temporal extent of a snapshot feature.
type When struct {
	Timespans []Timespan `json:"timespans"`
}

type Timespan struct {
	Start *Instant `json:"start,omitempty"`
	End   *Instant `json:"end,omitempty"`
}

// Instant holds a year as a number or as an ISO-like string ("-0500", "0117-03").
type Instant struct {
	In any `json:"in"`
}

// Defaults fill in what a record leaves out, usually from the atlas meta.
type Defaults struct {
	Year     int
	Domain   string
	Layer    string
	Color    string
	Taxonomy entity.Taxonomy
	// ResampleCount is passed to every entity; zero keeps the entity default.
	ResampleCount int
}

// ToRecord serialises e as a full record.
func ToRecord(e *entity.Entity) Record {
	confidence := e.BoundaryConfidence
	vr := e.ValidRange()
	return Record{
		ID:                 e.ID,
		Name:               e.Name,
		Domain:             e.Domain,
		Typology:           e.Typology,
		Subtype:            e.Subtype,
		Color:              e.Color,
		HatchStyle:         e.HatchStyle,
		BoundaryType:       e.BoundaryType,
		BoundaryConfidence: &confidence,
		ParentID:           e.ParentID,
		Children:           append([]string(nil), e.Children...),
		Attributes:         e.Attributes,
		Timeline:           e.Keyframes(),
		ValidRange:         &RangeRecord{Start: finite(vr.Start), End: finite(vr.End)},
		ValidTime:          e.ValidTime,
		TransactionTime:    e.TransactionTime,
		ExternalRefs:       e.ExternalRefs,
		Description:        e.Description,
		Visibility:         e.Visibility,
	}
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

// Range converts the stored range back, mapping null to the matching infinity.
func (r *RangeRecord) Range() (entity.ValidityRange, error) {
	vr := entity.Unbounded()
	if r == nil {
		return vr, nil
	}
	if r.Start != nil {
		vr.Start = *r.Start
	}
	if r.End != nil {
		vr.End = *r.End
	}
	return entity.NewValidityRange(vr.Start, vr.End)
}

// Classification resolves the record's domain/typology/subtype, migrating
// legacy category/type pairs when no domain is present.
func (r *Record) Classification(d Defaults) ontology.Classification {
	if r.Domain != "" || d.Domain != "" {
		c := ontology.Classification{Domain: r.Domain, Typology: r.Typology, Subtype: r.Subtype}
		if c.Domain == "" {
			c.Domain = d.Domain
		}
		if c.Typology == "" {
			c.Typology = r.Type
		}
		return c
	}
	category := r.Category
	if category == "" {
		category = d.Layer
	}
	c := ontology.MigrateLegacy(category, r.Type)
	if r.Subtype != "" {
		c.Subtype = r.Subtype
	}
	return c
}

// FromRecord rebuilds an entity. Stored vertices are added as exact
// keyframes so they round-trip verbatim.
func FromRecord(r Record, d Defaults) (*entity.Entity, error) {
	c := r.Classification(d)

	color := r.Color
	if color == "" {
		color = d.Color
	}
	if color == "" {
		color = DefaultColor
	}
	description := r.Description
	if desc, ok := r.Properties["description"].(string); ok && desc != "" {
		description = desc
	}

	e, err := entity.New(entity.Config{
		ID:                 r.ID,
		Name:               r.Name,
		Domain:             c.Domain,
		Typology:           c.Typology,
		Subtype:            c.Subtype,
		Color:              color,
		HatchStyle:         r.HatchStyle,
		BoundaryType:       r.BoundaryType,
		BoundaryConfidence: r.BoundaryConfidence,
		ParentID:           r.ParentID,
		Children:           r.Children,
		Attributes:         r.Attributes,
		Description:        description,
		Visibility:         r.Visibility,
		ValidTime:          r.ValidTime,
		TransactionTime:    r.TransactionTime,
		ExternalRefs:       r.ExternalRefs,
		Taxonomy:           d.Taxonomy,
		ResampleCount:      d.ResampleCount,
	})
	if err != nil {
		return nil, err
	}

	for _, k := range r.Timeline {
		e.AddKeyframe(k.Year, k.Geometry, true)
	}

	if r.Geometry != nil {
		if pts := FromGeometry(r.Geometry.Geometry()); len(pts) > 0 {
			for _, year := range r.years(d.Year) {
				e.AddKeyframe(year, pts, true)
			}
		}
	}

	if r.ValidRange != nil {
		vr, err := r.ValidRange.Range()
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", r.ID, err)
		}
		if err := e.SetValidRange(vr); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// years lists the keyframe years of a snapshot feature.
func (r *Record) years(base int) []int {
	if r.When == nil || len(r.When.Timespans) == 0 {
		return []int{base}
	}
	out := make([]int, 0, len(r.When.Timespans))
	for _, span := range r.When.Timespans {
		year, ok := 0, false
		if span.Start != nil {
			year, ok = ParseYear(span.Start.In)
		}
		if !ok {
			year = base
		}
		out = append(out, year)
	}
	return out
}

// ParseYear reads a year from a JSON number or from the leading signed
// integer of a string.
func ParseYear(v any) (int, bool) {
	switch y := v.(type) {
	case float64:
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return 0, false
		}
		return int(y), true
	case int:
		return y, true
	case int64:
		return int(y), true
	case string:
		s := strings.TrimSpace(y)
		end := 0
		if end < len(s) && (s[end] == '-' || s[end] == '+') {
			end++
		}
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		n, err := strconv.Atoi(s[:end])
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
