package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const undatedAtlas = `{"meta": {"id": "undated", "layer": "political"}, "entities": [
  {"id": "a", "name": "A", "domain": "political", "typology": "empire",
   "timeline": [{"year": 0, "geometry": [{"x":0,"y":0},{"x":1,"y":0},{"x":1,"y":1}]}]}]}`

const linksAtlas = `{"meta": {"id": "links", "layer": "political", "year": 0}, "entities": [
  {"id": "gaul", "name": "Gaul", "domain": "political", "typology": "empire",
   "validRange": {"start": -400, "end": -50},
   "timeline": [{"year": -100, "geometry": [{"x":0,"y":0},{"x":1,"y":0},{"x":1,"y":1}]}]}],
 "connections": [
  {"id": "alliance", "fromId": "rome", "targetId": "gaul", "year": -100},
  {"id": "late", "fromId": "rome", "targetId": "gaul", "year": 0},
  {"id": "river", "fromId": "rome", "targetId": "tiber", "year": 0}]}`

func TestValidateCommand(t *testing.T) {
	dir := atlasDir(t)

	out, _, err := execute(t, "validate", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ "+dir+"/rivers.json")
	assert.Contains(t, out, "✓ "+dir+"/rome.json")
}

func TestValidateWarnings(t *testing.T) {
	path := writeFile(t, t.TempDir(), "undated.json", undatedAtlas)

	out, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Invalid meta.year")

	_, _, err = execute(t, "validate", "--strict", path)
	assert.ErrorContains(t, err, "1 of 1 atlas files failed validation")
}

func TestValidateConnections(t *testing.T) {
	dir := atlasDir(t)
	links := writeFile(t, t.TempDir(), "links.json", linksAtlas)

	out, _, err := execute(t, "validate", links, dir+"/rome.json", dir+"/rivers.json")
	require.NoError(t, err)
	assert.NotContains(t, out, "✓ "+links)
	assert.NotContains(t, out, "alliance")
	assert.Contains(t, out, "invalid connection late: year 0 outside gaul range [-400, -50]")
	assert.Contains(t, out, "invalid connection river: domains differ (political, geographic)")
	assert.Contains(t, out, "✓ "+dir+"/rome.json")

	_, _, err = execute(t, "validate", "--strict", links, dir+"/rome.json", dir+"/rivers.json")
	assert.ErrorContains(t, err, "1 of 3 atlas files failed validation")
}

func TestValidateConnectionsUnknownEntity(t *testing.T) {
	links := writeFile(t, t.TempDir(), "links.json", linksAtlas)

	out, _, err := execute(t, "validate", links)
	require.NoError(t, err)
	assert.Contains(t, out, `invalid connection alliance: unknown entity "rome"`)
}

func TestValidateBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.json", `{"meta":`)
	noLayer := writeFile(t, dir, "nolayer.json", `{"meta": {"id": "x"}, "entities": []}`)
	good := writeFile(t, dir, "rome.json", romeAtlas)

	out, _, err := execute(t, "validate", broken, noLayer, good)
	assert.ErrorContains(t, err, "2 of 3 atlas files failed validation")
	assert.Contains(t, out, "missing meta.layer")
	assert.Contains(t, out, "✓ "+good)
}

func TestValidateEmptyDir(t *testing.T) {
	out, _, err := execute(t, "validate", "--dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No atlas files found.")
}
