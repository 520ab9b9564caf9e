package fixtures

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/penwyp/go-chrono-atlas/internal/core/entity"
	"github.com/penwyp/go-chrono-atlas/internal/core/geometry"
	"github.com/penwyp/go-chrono-atlas/internal/data/atlas"
)

// AtlasGenerator writes synthetic atlas files for tests.
type AtlasGenerator struct {
	baseDir string
}

// NewAtlasGenerator creates a generator writing below baseDir.
func NewAtlasGenerator(baseDir string) *AtlasGenerator {
	return &AtlasGenerator{baseDir: baseDir}
}

// BaseDir returns the output directory.
func (g *AtlasGenerator) BaseDir() string {
	return g.baseDir
}

// Square returns the corners of the axis-aligned square at (x, y).
func Square(x, y, size float64) []geometry.Point {
	return []geometry.Point{{X: x, Y: y}, {X: x + size, Y: y}, {X: x + size, Y: y + size}, {X: x, Y: y + size}}
}

// NewDocument returns an empty atlas with a numeric base year.
func NewDocument(id, layer string, year int) *atlas.Document {
	return &atlas.Document{
		Meta:     &atlas.Meta{ID: id, Layer: layer, Year: float64(year)},
		Entities: []atlas.Record{},
	}
}

// Write encodes doc to name and returns the full path.
func (g *AtlasGenerator) Write(name string, doc *atlas.Document) (string, error) {
	path := filepath.Join(g.baseDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := atlas.WriteFile(path, doc); err != nil {
		return "", err
	}
	return path, nil
}

// GenerateGrid writes an atlas of n*n political squares of the given size,
// one every 2*size units, keyframed at year. Entity ids are "<id>-r<row>c<col>".
func (g *AtlasGenerator) GenerateGrid(name, id, layer string, n int, size float64, year int) (string, error) {
	doc := NewDocument(id, layer, year)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			doc.Entities = append(doc.Entities, atlas.Record{
				ID:       fmt.Sprintf("%s-r%dc%d", id, row, col),
				Name:     fmt.Sprintf("Cell %d,%d", row, col),
				Domain:   "political",
				Typology: "nation-state",
				Timeline: []entity.Keyframe{{
					Year:     year,
					Geometry: Square(float64(col)*2*size, float64(row)*2*size, size),
				}},
			})
		}
	}
	return g.Write(name, doc)
}

// GenerateGrowth writes one empire square growing from size `from` at
// year `start` to size `to` at year `end`, anchored at the origin.
func (g *AtlasGenerator) GenerateGrowth(name, id string, start, end int, from, to float64) (string, error) {
	doc := NewDocument(id+"-atlas", "political", start)
	doc.Entities = append(doc.Entities, atlas.Record{
		ID:       id,
		Name:     id,
		Domain:   "political",
		Typology: "empire",
		Timeline: []entity.Keyframe{
			{Year: start, Geometry: Square(0, 0, from)},
			{Year: end, Geometry: Square(0, 0, to)},
		},
	})
	return g.Write(name, doc)
}

// CreateEmptyDir creates a subdirectory and returns its path.
func (g *AtlasGenerator) CreateEmptyDir(name string) (string, error) {
	dir := filepath.Join(g.baseDir, name)
	return dir, os.MkdirAll(dir, 0755)
}
