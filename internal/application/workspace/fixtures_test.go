package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const romeAtlas = `{
  "meta": {"id": "rome-atlas", "layer": "political", "year": 0},
  "entities": [
    {"id": "rome", "name": "Rome", "domain": "political", "typology": "empire",
     "timeline": [
       {"year": -100, "geometry": [{"x":0,"y":0},{"x":100,"y":0},{"x":100,"y":100},{"x":0,"y":100}]},
       {"year": 100, "geometry": [{"x":0,"y":0},{"x":200,"y":0},{"x":200,"y":200},{"x":0,"y":200}]}
     ]},
    {"id": "capital", "name": "Roma", "domain": "geographic", "typology": "landmass", "subtype": "city",
     "timeline": [{"year": -100, "geometry": [{"x":50,"y":50}]}]},
    {"id": "ghost", "name": "Ghost", "domain": "political", "typology": "empire", "visibility": "hidden",
     "timeline": [{"year": 0, "geometry": [{"x":0,"y":0},{"x":100,"y":0},{"x":100,"y":100},{"x":0,"y":100}]}]}
  ]
}`

const riversAtlas = `{
  "meta": {"id": "rivers-atlas", "layer": "geographic", "year": 0},
  "entities": [
    {"id": "tiber", "name": "Tiber", "domain": "geographic", "typology": "aquatic", "subtype": "river",
     "timeline": [{"year": 0, "geometry": [{"x":0,"y":150},{"x":300,"y":150}]}]},
    {"id": "latin", "name": "Latin", "domain": "linguistic", "typology": "genealogical",
     "timeline": [{"year": 0, "geometry": [{"x":10,"y":10},{"x":90,"y":10},{"x":90,"y":90},{"x":10,"y":90}]}]},
    {"id": "carthage", "name": "Carthage", "domain": "political", "typology": "empire",
     "validRange": {"start": -800, "end": -146},
     "timeline": [{"year": -300, "geometry": [{"x":60,"y":60},{"x":140,"y":60},{"x":140,"y":140},{"x":60,"y":140}]}]}
  ]
}`

const dupAtlas = `{
  "meta": {"id": "dup-atlas", "layer": "religious"},
  "entities": [
    {"id": "rome", "name": "Other Rome", "domain": "religious", "typology": "ethnic",
     "timeline": [{"year": 0, "geometry": [{"x":0,"y":0},{"x":1,"y":0},{"x":1,"y":1}]}]},
    {"id": "cult", "name": "Cult", "domain": "religious", "typology": "ethnic",
     "timeline": [{"year": 0, "geometry": [{"x":0,"y":0},{"x":1,"y":0},{"x":1,"y":1}]}]}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newManager(t *testing.T, cfg *Config) *Manager {
	t.Helper()
	if cfg == nil {
		cfg = &Config{DataDir: t.TempDir()}
	}
	m, err := NewManager(cfg)
	require.NoError(t, err)
	return m
}

// loadedManager loads rome then rivers, in that order.
func loadedManager(t *testing.T) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	m := newManager(t, &Config{DataDir: dir})
	_, err := m.Load(writeFile(t, dir, "rome.json", romeAtlas))
	require.NoError(t, err)
	_, err = m.Load(writeFile(t, dir, "rivers.json", riversAtlas))
	require.NoError(t, err)
	return m, dir
}
