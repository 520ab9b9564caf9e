package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-chrono-atlas/internal/core/geometry"
	"github.com/penwyp/go-chrono-atlas/internal/testing/fixtures"
)

func placementIDs(ps []*Placement) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestWorldSnapshot(t *testing.T) {
	m, _ := loadedManager(t)
	w := NewWorld(m)
	assert.Nil(t, w.Current())

	frame := w.Snapshot(0)
	require.NotNil(t, frame)
	assert.Same(t, frame, w.Current())
	assert.Equal(t, []string{"rome", "capital", "ghost", "tiber", "latin"}, placementIDs(frame.Placements))
	assert.Equal(t, []string{"rome", "capital", "tiber", "latin"}, placementIDs(frame.Visible()))

	// union (0,0)-(300,150.001) plus the default margin
	assert.InDelta(t, -100, frame.Bounds.X, 1e-9)
	assert.InDelta(t, -100, frame.Bounds.Y, 1e-9)
	assert.InDelta(t, 500, frame.Bounds.W, 1e-9)
	assert.InDelta(t, 350, frame.Bounds.H, 0.01)

	rome := frame.Placements[0]
	assert.Equal(t, "political", rome.Layer)
	assert.Equal(t, geometry.Closed, rome.Class)
	assert.InDelta(t, 150, rome.Box.W, 1e-6)

	tiber := frame.Placements[3]
	assert.Equal(t, geometry.Open, tiber.Class)
	assert.Equal(t, minExtent, tiber.Box.H)
}

func TestWorldSnapshotIsACopy(t *testing.T) {
	m, _ := loadedManager(t)
	w := NewWorld(m)

	early := w.Snapshot(-100)
	romeEarly := early.Placements[0]
	require.Equal(t, "rome", romeEarly.ID)
	w.Snapshot(100)

	assert.InDelta(t, 100, romeEarly.Box.W, 1e-6)
}

func TestWorldEmptyBounds(t *testing.T) {
	w := NewWorld(newManager(t, nil))
	frame := w.Snapshot(0)
	assert.Empty(t, frame.Placements)
	assert.Equal(t, geometry.R(-1100, -1100, 2200, 2200), frame.Bounds)
	assert.Nil(t, w.HitTest(geometry.Point{}, 10))
}

func TestWorldBoundsMargin(t *testing.T) {
	ps := []*Placement{
		{Box: geometry.R(0, 0, 10, 10)},
		{Box: geometry.R(-5, 20, 1, 1)},
	}
	assert.Equal(t, geometry.R(-6, -1, 17, 23), WorldBounds(ps, 1))
	assert.Equal(t, geometry.R(-1000, -1000, 2000, 2000), WorldBounds(nil, 0))
}

func TestWorldQuery(t *testing.T) {
	m, _ := loadedManager(t)
	w := NewWorld(m)
	w.Snapshot(0)

	assert.Equal(t, []string{"rome"}, placementIDs(w.Query(geometry.R(-5, -5, 10, 10))))
	assert.Equal(t, []string{"rome", "capital", "latin"}, placementIDs(w.Query(geometry.R(45, 45, 10, 10))))
	assert.Equal(t, []string{"tiber"}, placementIDs(w.Query(geometry.R(250, 140, 20, 20))))
	assert.Empty(t, w.Query(geometry.R(1000, 1000, 5, 5)))
}

func TestWorldHitTest(t *testing.T) {
	m, _ := loadedManager(t)
	w := NewWorld(m)
	w.Snapshot(0)

	tests := []struct {
		name string
		p    geometry.Point
		tol  float64
		want string
	}{
		{"point within tolerance", geometry.Point{X: 50, Y: 50}, 25, "capital"},
		{"linguistic above empire", geometry.Point{X: 60, Y: 60}, 4, "latin"},
		{"near river", geometry.Point{X: 200, Y: 151}, 25, "tiber"},
		{"too far from river", geometry.Point{X: 200, Y: 160}, 25, ""},
		{"inside empire only", geometry.Point{X: 120, Y: 120}, 4, "rome"},
		{"hidden is skipped", geometry.Point{X: 95, Y: 5}, 2, "rome"},
		{"nothing", geometry.Point{X: 500, Y: 500}, 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.HitTest(tt.p, tt.tol)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestWorldHitTestTieGoesToLaterEntity(t *testing.T) {
	m, _ := loadedManager(t)
	w := NewWorld(m)

	w.Snapshot(-200)
	got := w.HitTest(geometry.Point{X: 95, Y: 95}, 1)
	require.NotNil(t, got)
	assert.Equal(t, "carthage", got.ID)

	// carthage is gone by year 0
	w.Snapshot(0)
	got = w.HitTest(geometry.Point{X: 95, Y: 95}, 1)
	require.NotNil(t, got)
	assert.Equal(t, "rome", got.ID)
}

func TestReportFor(t *testing.T) {
	m, _ := loadedManager(t)
	frame := NewWorld(m).Snapshot(0)

	all := ReportFor(0, frame.Visible(), "")
	assert.Len(t, all.Rows, 4)

	geo := ReportFor(0, frame.Visible(), "geographic")
	require.Len(t, geo.Rows, 2)
	tiber := geo.Rows[0]
	assert.Equal(t, "tiber", tiber.ID)
	assert.Equal(t, "open", tiber.Class)
	assert.Equal(t, 2, tiber.Vertices)
	assert.InDelta(t, 150, tiber.CentroidY, 1e-9)
	assert.InDelta(t, 150, tiber.MaxY, 1e-9, "true bounds, not the padded index box")
	assert.Equal(t, "geographic/aquatic/river", tiber.Kind())

	assert.Empty(t, ReportFor(0, frame.Visible(), "religious").Rows)
}

func TestWorldGrid(t *testing.T) {
	gen := fixtures.NewAtlasGenerator(t.TempDir())
	path, err := gen.GenerateGrid("grid.json", "grid", "political", 10, 10, 0)
	require.NoError(t, err)

	m := newManager(t, &Config{DataDir: gen.BaseDir()})
	info, err := m.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, info.EntityCount)

	w := NewWorld(m)
	frame := w.Snapshot(0)
	assert.Len(t, frame.Placements, 100)
	assert.InDelta(t, -100, frame.Bounds.X, 1e-6)
	assert.InDelta(t, -100, frame.Bounds.Y, 1e-6)
	assert.InDelta(t, 390, frame.Bounds.W, 1e-6)
	assert.InDelta(t, 390, frame.Bounds.H, 1e-6)

	got := placementIDs(w.Query(geometry.R(0, 0, 25, 25)))
	assert.ElementsMatch(t, []string{"grid-r0c0", "grid-r0c1", "grid-r1c0", "grid-r1c1"}, got)

	hit := w.HitTest(geometry.Point{X: 5, Y: 5}, 1)
	require.NotNil(t, hit)
	assert.Equal(t, "grid-r0c0", hit.ID)
	assert.Nil(t, w.HitTest(geometry.Point{X: 15, Y: 15}, 1))

	hit = w.HitTest(geometry.Point{X: 185, Y: 45}, 1)
	require.NotNil(t, hit)
	assert.Equal(t, "grid-r2c9", hit.ID)
}
