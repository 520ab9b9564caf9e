package atlas

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-chrono-atlas/internal/core/entity"
	"github.com/penwyp/go-chrono-atlas/internal/core/geometry"
	"github.com/penwyp/go-chrono-atlas/internal/core/ontology"
)

const snapshotAtlas = `{
  "meta": {"id": "roman-117", "layer": "political", "year": 117, "author": "test"},
  "style": {"color": "#aa0000"},
  "entities": [
    {
      "id": "rome",
      "name": "Roman Empire",
      "domain": "political",
      "typology": "empire",
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]},
      "when": {"timespans": [{"start": {"in": "0117-08"}}, {"start": {"in": -27}}]},
      "properties": {"description": "SPQR"}
    },
    {
      "id": "londinium",
      "name": "Londinium",
      "category": "geographical",
      "type": "city",
      "color": "#000000",
      "geometry": {"type": "Point", "coordinates": [3, 4]}
    },
    {
      "id": "thames",
      "name": "Thames",
      "type": "river",
      "geometry": {"type": "LineString", "coordinates": [[0,0],[5,1],[9,3]]}
    }
  ]
}`

func decodeSnapshot(t *testing.T) map[string]*entity.Entity {
	t.Helper()
	doc, err := Decode([]byte(snapshotAtlas))
	require.NoError(t, err)
	require.NoError(t, Validate(doc))

	es, errs := doc.Build(ontology.Default())
	require.Empty(t, errs)
	out := make(map[string]*entity.Entity, len(es))
	for _, e := range es {
		out[e.ID] = e
	}
	return out
}

func TestBuildSnapshotAtlas(t *testing.T) {
	es := decodeSnapshot(t)
	require.Len(t, es, 3)

	rome := es["rome"]
	frames := rome.Keyframes()
	require.Len(t, frames, 2)
	assert.Equal(t, -27, frames[0].Year)
	assert.Equal(t, 117, frames[1].Year)
	assert.Equal(t, []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}, frames[1].Geometry)
	assert.Equal(t, "#aa0000", rome.Color)
	assert.Equal(t, "SPQR", rome.Description)
	assert.Equal(t, entity.Unbounded(), rome.ValidRange())

	city := es["londinium"]
	assert.Equal(t, ontology.Classification{Domain: "geographic", Typology: "landmass", Subtype: "city"}, city.Classification())
	assert.Equal(t, geometry.Single, city.Class())
	assert.Equal(t, "#000000", city.Color)
	kf, ok := city.Keyframe(117)
	require.True(t, ok)
	assert.Equal(t, []geometry.Point{{X: 3, Y: 4}}, kf.Geometry)

	river := es["thames"]
	assert.Equal(t, geometry.Open, river.Class())
	kf, ok = river.Keyframe(117)
	require.True(t, ok)
	assert.Len(t, kf.Geometry, 3, "atlas geometry is stored exactly")
}

func TestRecordRoundTrip(t *testing.T) {
	conf := 0.42
	e, err := entity.New(entity.Config{
		ID: "gaul", Name: "Gaul", Domain: "political", Typology: "chiefdom", Subtype: "vassal",
		Color: "#123456", HatchStyle: "diagonal", BoundaryConfidence: &conf,
		ParentID: "celts", Children: []string{"aedui"},
		Attributes:   map[string]any{"OCM:640": "State"},
		ExternalRefs: map[string]any{"wikidata": "Q38060"},
		Description:  "Before the conquest",
	})
	require.NoError(t, err)
	e.AddKeyframe(-100, []geometry.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}}, true)
	e.AddKeyframe(-50, []geometry.Point{{X: 1, Y: 1}, {X: 5, Y: 1}, {X: 5, Y: 4}, {X: 1, Y: 4}}, true)
	require.NoError(t, e.SetValidRange(entity.ValidityRange{Start: -200, End: math.Inf(1)}))

	doc := Export(Meta{Layer: "political", Year: float64(-50)}, []*entity.Entity{e}, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	data, err := Encode(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"end": null`)
	assert.Contains(t, string(data), `"start": -200`)

	back, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, back.Meta.Version)
	assert.Equal(t, "2024-01-02T03:04:05Z", back.Meta.Modified)
	assert.Contains(t, back.Meta.ID, "atlas-")

	es, errs := back.Build(nil)
	require.Empty(t, errs)
	require.Len(t, es, 1)
	got := es[0]

	if diff := cmp.Diff(e.Keyframes(), got.Keyframes()); diff != "" {
		t.Errorf("timeline mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, e.ValidRange(), got.ValidRange())
	assert.Equal(t, e.Classification(), got.Classification())
	assert.Equal(t, 0.42, got.BoundaryConfidence)
	assert.Equal(t, "diagonal", got.HatchStyle)
	assert.Equal(t, "celts", got.ParentID)
	assert.Equal(t, []string{"aedui"}, got.Children)
	assert.Equal(t, "State", got.Attributes["OCM:640"])
	assert.Equal(t, "Q38060", got.ExternalRefs["wikidata"])
}

func TestRangeRecord(t *testing.T) {
	var nilRec *RangeRecord
	vr, err := nilRec.Range()
	require.NoError(t, err)
	assert.Equal(t, entity.Unbounded(), vr)

	start, end := 10.0, 5.0
	_, err = (&RangeRecord{Start: &start, End: &end}).Range()
	assert.ErrorIs(t, err, entity.ErrInvalidRange)

	vr, err = (&RangeRecord{End: &start}).Range()
	require.NoError(t, err)
	assert.True(t, math.IsInf(vr.Start, -1))
	assert.Equal(t, 10.0, vr.End)
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   any
		want int
		ok   bool
	}{
		{float64(117), 117, true},
		{"0117", 117, true},
		{"-0500-03-01", -500, true},
		{"+12", 12, true},
		{"0", 0, true},
		{"AD 117", 0, false},
		{"", 0, false},
		{nil, 0, false},
		{math.NaN(), 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseYear(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}

func TestLegacyCategoryFallsBackToLayer(t *testing.T) {
	r := Record{ID: "x", Type: "shrine"}
	c := r.Classification(Defaults{Layer: "faith"})
	assert.Equal(t, ontology.Classification{Domain: "religious", Typology: "shrine"}, c)

	c = r.Classification(Defaults{Domain: "religious"})
	assert.Equal(t, "shrine", c.Typology)
}
