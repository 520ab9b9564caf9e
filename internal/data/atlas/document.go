// Package atlas reads and writes atlas documents: layered collections of
// temporal entities stored as JSON.
package atlas

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/penwyp/go-chrono-atlas/internal/core/entity"
	"github.com/penwyp/go-chrono-atlas/internal/core/ontology"
)

// FormatVersion is written into the meta of exported documents.
const FormatVersion = "2.0"

// Meta describes an atlas file.
type Meta struct {
	ID          string `json:"id,omitempty"`
	Layer       string `json:"layer,omitempty"`
	Year        any    `json:"year,omitempty"`
	Domain      string `json:"domain,omitempty"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
	Created     string `json:"created,omitempty"`
	Modified    string `json:"modified,omitempty"`
	Version     string `json:"version,omitempty"`
}

// BaseYear returns meta.year when it is a number. Strings do not count.
func (m *Meta) BaseYear() (int, bool) {
	if m == nil {
		return 0, false
	}
	switch m.Year.(type) {
	case float64, int, int64:
		return ParseYear(m.Year)
	}
	return 0, false
}

// Style holds atlas-wide presentation defaults.
type Style struct {
	Color string `json:"color,omitempty"`
}

// Document is one atlas file.
type Document struct {
	Meta        *Meta        `json:"meta"`
	Style       *Style       `json:"style,omitempty"`
	Entities    []Record     `json:"entities"`
	Connections []Connection `json:"connections,omitempty"`
}

// Decode parses an atlas document.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode atlas: %w", err)
	}
	return &doc, nil
}

// ReadFile decodes the atlas at path.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Encode writes doc as indented JSON.
func Encode(doc *Document) ([]byte, error) {
	return sonic.ConfigStd.MarshalIndent(doc, "", "  ")
}

// WriteFile encodes doc to path.
func WriteFile(path string, doc *Document) error {
	data, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("failed to encode atlas: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the structure required for loading: meta.id, meta.layer
// and an entities array.
func Validate(doc *Document) error {
	switch {
	case doc == nil || doc.Meta == nil:
		return fmt.Errorf("%w: missing meta", ErrInvalidAtlas)
	case doc.Meta.ID == "":
		return fmt.Errorf("%w: missing meta.id", ErrInvalidAtlas)
	case doc.Meta.Layer == "":
		return fmt.Errorf("%w: missing meta.layer", ErrInvalidAtlas)
	case doc.Entities == nil:
		return fmt.Errorf("%w: entities must be an array", ErrInvalidAtlas)
	}
	return nil
}

// ExportReport lists every problem found in a document meant for export.
type ExportReport struct {
	Valid  bool
	Errors []string
}

// ValidateExport applies the stricter export rules: a numeric meta.year and
// geometry on every entity.
func ValidateExport(doc *Document) ExportReport {
	var errs []string

	if doc == nil || doc.Meta == nil {
		errs = append(errs, "Missing or invalid meta section")
	} else {
		if doc.Meta.ID == "" {
			errs = append(errs, "Missing meta.id")
		}
		if doc.Meta.Layer == "" {
			errs = append(errs, "Missing meta.layer")
		}
		if _, ok := doc.Meta.BaseYear(); !ok {
			errs = append(errs, "Invalid meta.year")
		}
	}

	if doc == nil || doc.Entities == nil {
		errs = append(errs, "entities must be an array")
	} else {
		for i, r := range doc.Entities {
			if r.ID == "" {
				errs = append(errs, fmt.Sprintf("Entity %d: missing id", i))
			}
			if r.Geometry == nil && len(r.Timeline) == 0 {
				errs = append(errs, fmt.Sprintf("Entity %d: missing geometry", i))
			}
		}
	}
	return ExportReport{Valid: len(errs) == 0, Errors: errs}
}

// ValidateEntities runs the taxonomy checks over every record and returns
// the failures keyed by entity id.
func ValidateEntities(doc *Document, reg *ontology.Registry) map[string][]string {
	out := make(map[string][]string)
	if doc == nil {
		return out
	}
	d := doc.Defaults(reg)
	for _, r := range doc.Entities {
		c := r.Classification(d)
		res := reg.Validate(&ontology.Subject{Domain: c.Domain, Typology: c.Typology, Attributes: r.Attributes})
		if !res.Valid {
			out[r.ID] = res.Errors
		}
	}
	return out
}

// Defaults derives record defaults from the document's meta and style.
func (doc *Document) Defaults(tax entity.Taxonomy) Defaults {
	d := Defaults{Taxonomy: tax}
	if doc.Meta != nil {
		d.Year, _ = doc.Meta.BaseYear()
		d.Domain = doc.Meta.Domain
		d.Layer = doc.Meta.Layer
	}
	if doc.Style != nil {
		d.Color = doc.Style.Color
	}
	return d
}

// Build converts every record into an entity. A record that fails is
// reported and skipped; the rest are still returned.
func (doc *Document) Build(tax entity.Taxonomy) ([]*entity.Entity, []error) {
	return doc.BuildWith(doc.Defaults(tax))
}

// BuildWith is Build with caller-adjusted defaults.
func (doc *Document) BuildWith(d Defaults) ([]*entity.Entity, []error) {
	out := make([]*entity.Entity, 0, len(doc.Entities))
	var errs []error
	for i, r := range doc.Entities {
		e, err := FromRecord(r, d)
		if err != nil {
			errs = append(errs, fmt.Errorf("entity %d (%s): %w", i, r.ID, err))
			continue
		}
		out = append(out, e)
	}
	return out, errs
}

// NewAtlasID returns a fresh "atlas-" prefixed id.
func NewAtlasID() string {
	return fmt.Sprintf("atlas-%d-%s", time.Now().UnixMilli(), strings.SplitN(uuid.NewString(), "-", 2)[0])
}

// Export wraps entities into a document with full timeline records. A
// missing meta id is generated and modified/version are stamped in the
// zone of now.
func Export(meta Meta, es []*entity.Entity, now time.Time) *Document {
	if meta.ID == "" {
		meta.ID = NewAtlasID()
	}
	meta.Modified = now.Format(time.RFC3339)
	meta.Version = FormatVersion

	records := make([]Record, 0, len(es))
	for _, e := range es {
		records = append(records, ToRecord(e))
	}
	return &Document{Meta: &meta, Entities: records, Connections: []Connection{}}
}

// SessionMeta is the meta written for a manual drawing session.
func SessionMeta(layer string, year int, author string, now time.Time) Meta {
	return Meta{
		ID:          fmt.Sprintf("%s-%d", layer, year),
		Layer:       layer,
		Year:        float64(year),
		Description: fmt.Sprintf("Manual drawing for %s layer at year %d", layer, year),
		Author:      author,
		Created:     now.Format(time.RFC3339),
	}
}

// ExportSnapshot writes the entities as snapshot features at year: each
// record carries the GeoJSON of its geometry then, plus legacy category/type
// for older readers. Entities absent at year are skipped.
func ExportSnapshot(meta Meta, es []*entity.Entity, year float64, now time.Time) *Document {
	if meta.ID == "" {
		meta.ID = NewAtlasID()
	}
	if meta.Year == nil && !math.IsNaN(year) {
		meta.Year = math.Floor(year)
	}
	meta.Modified = now.Format(time.RFC3339)
	meta.Version = FormatVersion

	records := make([]Record, 0, len(es))
	for _, e := range es {
		pts := e.GeometryAt(year)
		g := ToGeometry(pts, e.Class())
		if g == nil {
			continue
		}
		category, legacyType := ontology.Legacy(e.Classification())
		records = append(records, Record{
			ID:       e.ID,
			Name:     e.Name,
			Domain:   e.Domain,
			Typology: e.Typology,
			Subtype:  e.Subtype,
			Category: category,
			Type:     legacyType,
			Geometry: geojsonGeometry(g),
			Properties: map[string]any{
				"description": e.Description,
				"color":       e.Color,
				"parentId":    e.ParentID,
			},
		})
	}
	return &Document{Meta: &meta, Entities: records, Connections: []Connection{}}
}
