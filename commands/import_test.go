package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-chrono-atlas/internal/data/atlas"
)

const coastGeoJSON = `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "properties": {}, "geometry": {"type": "Polygon",
    "coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]}},
  {"type": "Feature", "properties": {}, "geometry": {"type": "LineString",
    "coordinates": [[0,0],[5,5],[9,2]]}},
  {"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [3,4]}}
]}`

func TestImportReference(t *testing.T) {
	src := writeFile(t, t.TempDir(), "coast.geojson", coastGeoJSON)

	out, _, err := execute(t, "import", src, "--year=-200", "--id", "coast", "--layer", "reference")
	require.NoError(t, err)

	doc, err := atlas.Decode([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "coast", doc.Meta.ID)
	assert.Equal(t, "reference", doc.Meta.Layer)
	require.Len(t, doc.Entities, 3)

	poly, line, point := doc.Entities[0], doc.Entities[1], doc.Entities[2]
	assert.Equal(t, "coast-1", poly.ID)
	assert.Equal(t, "landmass", poly.Typology)
	require.Len(t, poly.Timeline, 1)
	assert.Equal(t, -200, poly.Timeline[0].Year)
	assert.Len(t, poly.Timeline[0].Geometry, 4, "closing vertex dropped")

	assert.Equal(t, "river", line.Subtype)
	assert.Len(t, line.Timeline[0].Geometry, 3)
	assert.Equal(t, "city", point.Subtype)

	// the result loads as a regular atlas
	built, errs := doc.Build(nil)
	assert.Empty(t, errs)
	assert.Len(t, built, 3)
}

func TestImportToFile(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "coast.geojson", coastGeoJSON)
	target := filepath.Join(dir, "coast.json")

	out, _, err := execute(t, "import", src, "-f", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	doc, err := atlas.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, doc.Meta.ID, "atlas-")
}

func TestImportErrors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := execute(t, "import", filepath.Join(dir, "missing.geojson"))
	assert.Error(t, err)

	empty := writeFile(t, dir, "empty.geojson", `{"type":"FeatureCollection","features":[]}`)
	_, _, err = execute(t, "import", empty)
	assert.ErrorIs(t, err, atlas.ErrEmptyReference)

	_, _, err = execute(t, "import")
	assert.Error(t, err)
}
