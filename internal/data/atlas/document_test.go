package atlas

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-chrono-atlas/internal/core/entity"
	"github.com/penwyp/go-chrono-atlas/internal/core/geometry"
	"github.com/penwyp/go-chrono-atlas/internal/core/ontology"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		json string
		msg  string
	}{
		{"ok", `{"meta":{"id":"a","layer":"l"},"entities":[]}`, ""},
		{"no meta", `{"entities":[]}`, "missing meta"},
		{"no id", `{"meta":{"layer":"l"},"entities":[]}`, "missing meta.id"},
		{"no layer", `{"meta":{"id":"a"},"entities":[]}`, "missing meta.layer"},
		{"no entities", `{"meta":{"id":"a","layer":"l"}}`, "entities must be an array"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode([]byte(tt.json))
			require.NoError(t, err)
			err = Validate(doc)
			if tt.msg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidAtlas)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
	assert.ErrorIs(t, Validate(nil), ErrInvalidAtlas)
}

func TestValidateExport(t *testing.T) {
	doc, err := Decode([]byte(`{
		"meta": {"layer": "l", "year": "1800"},
		"entities": [
			{"name": "nameless"},
			{"id": "ok", "geometry": {"type": "Point", "coordinates": [1, 2]}},
			{"id": "kf", "timeline": [{"year": 1, "geometry": [{"x": 0, "y": 0}]}]}
		]
	}`))
	require.NoError(t, err)

	report := ValidateExport(doc)
	assert.False(t, report.Valid)
	assert.Equal(t, []string{
		"Missing meta.id",
		"Invalid meta.year",
		"Entity 0: missing id",
		"Entity 0: missing geometry",
	}, report.Errors)

	report = ValidateExport(&Document{})
	assert.Equal(t, []string{"Missing or invalid meta section", "entities must be an array"}, report.Errors)

	good := &Document{Meta: &Meta{ID: "x", Layer: "l", Year: float64(1)}, Entities: []Record{}}
	assert.True(t, ValidateExport(good).Valid)
}

func TestValidateEntities(t *testing.T) {
	doc := &Document{
		Meta: &Meta{ID: "x", Layer: "political"},
		Entities: []Record{
			{ID: "good", Domain: "political", Typology: "empire", Attributes: map[string]any{"OCM:640": "State"}},
			{ID: "bad", Domain: "political", Typology: "river", Attributes: map[string]any{"OCM:999": 1}},
		},
	}
	failures := ValidateEntities(doc, ontology.Default())
	require.Len(t, failures, 1)
	assert.Equal(t, []string{
		"Invalid typology 'river' for domain 'political'",
		"Unknown OCM code: OCM:999",
	}, failures["bad"])
}

func TestBuildReportsBadRecords(t *testing.T) {
	start, end := 5.0, 1.0
	doc := &Document{
		Meta: &Meta{ID: "x", Layer: "political", Year: float64(0)},
		Entities: []Record{
			{Domain: "political", Typology: "empire"},
			{ID: "inverted", Domain: "political", Typology: "empire", ValidRange: &RangeRecord{Start: &start, End: &end}},
			{ID: "fine", Domain: "political", Typology: "empire"},
		},
	}
	es, errs := doc.Build(nil)
	require.Len(t, es, 1)
	assert.Equal(t, "fine", es[0].ID)
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], entity.ErrMissingID)
	assert.ErrorIs(t, errs[1], entity.ErrInvalidRange)
}

func TestReadWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.json")
	require.NoError(t, os.WriteFile(path, []byte(snapshotAtlas), 0o644))

	doc, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "roman-117", doc.Meta.ID)
	year, ok := doc.Meta.BaseYear()
	assert.True(t, ok)
	assert.Equal(t, 117, year)

	out := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteFile(out, doc))
	again, err := ReadFile(out)
	require.NoError(t, err)
	assert.Len(t, again.Entities, 3)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = ReadFile(bad)
	assert.ErrorContains(t, err, "bad.json")
}

func TestExportSnapshot(t *testing.T) {
	square := []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}

	polity, err := entity.New(entity.Config{ID: "p", Name: "P", Domain: "political", Typology: "empire", Color: "#fff"})
	require.NoError(t, err)
	polity.AddKeyframe(100, square, true)

	ghost, err := entity.New(entity.Config{ID: "g", Domain: "political", Typology: "empire", ValidRange: &entity.ValidityRange{Start: 0, End: 1}})
	require.NoError(t, err)
	ghost.AddKeyframe(0, square, true)

	now := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)
	doc := ExportSnapshot(SessionMeta("political", 500, "me", now), []*entity.Entity{polity, ghost}, 500, now)

	assert.Equal(t, "political-500", doc.Meta.ID)
	assert.Equal(t, "Manual drawing for political layer at year 500", doc.Meta.Description)
	require.Len(t, doc.Entities, 1)
	r := doc.Entities[0]
	assert.Equal(t, "political", r.Category)
	assert.Equal(t, "polity", r.Type)
	assert.Equal(t, "#fff", r.Properties["color"])
	require.NotNil(t, r.Geometry)
	assert.Equal(t, "Polygon", r.Geometry.Type)
	assert.True(t, ValidateExport(doc).Valid)
}

func TestNewAtlasID(t *testing.T) {
	a, b := NewAtlasID(), NewAtlasID()
	assert.True(t, strings.HasPrefix(a, "atlas-"))
	assert.NotEqual(t, a, b)
	assert.Len(t, strings.Split(a, "-"), 3)
}
