package atlas

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-chrono-atlas/internal/core/entity"
)

func rangedEntity(t *testing.T, id, domain string, start, end float64) *entity.Entity {
	t.Helper()
	e, err := entity.New(entity.Config{
		ID:         id,
		Domain:     domain,
		Typology:   "empire",
		ValidRange: &entity.ValidityRange{Start: start, End: end},
	})
	require.NoError(t, err)
	return e
}

func connectionFixture(t *testing.T) EntityLookup {
	t.Helper()
	return LookupIn([]*entity.Entity{
		rangedEntity(t, "rome", "political", -500, 500),
		rangedEntity(t, "carthage", "political", -800, -146),
		rangedEntity(t, "tiber", "geographic", -1000, 2000),
	})
}

func TestConnectionYears(t *testing.T) {
	tests := []struct {
		name     string
		conn     Connection
		from, to int
		ok       bool
	}{
		{"year only", Connection{Year: float64(-200)}, -200, -200, true},
		{"from overrides year", Connection{Year: float64(0), FromYear: float64(-50)}, -50, 0, true},
		{"to overrides year", Connection{Year: float64(0), ToYear: float64(30)}, 0, 30, true},
		{"to falls back to from", Connection{FromYear: float64(10)}, 10, 10, true},
		{"string year", Connection{Year: "-264 BC"}, -264, -264, true},
		{"missing", Connection{}, 0, 0, false},
		{"bad to", Connection{Year: float64(0), ToYear: "soon"}, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, ok := tt.conn.Years()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}
}

func TestCheckConnection(t *testing.T) {
	lookup := connectionFixture(t)

	tests := []struct {
		name string
		conn Connection
		msg  string
	}{
		{"valid", Connection{ID: "punic", FromID: "rome", TargetID: "carthage", Year: float64(-264)}, ""},
		{"unknown from", Connection{FromID: "sparta", TargetID: "rome", Year: float64(0)}, `sparta->rome: unknown entity "sparta"`},
		{"unknown target", Connection{ID: "c1", FromID: "rome", TargetID: "gaul", Year: float64(0)}, `c1: unknown entity "gaul"`},
		{"domains differ", Connection{ID: "c2", FromID: "rome", TargetID: "tiber", Year: float64(0)}, "domains differ (political, geographic)"},
		{"missing year", Connection{ID: "c3", FromID: "rome", TargetID: "carthage"}, "c3: missing year"},
		{"from out of range", Connection{ID: "c4", FromID: "rome", TargetID: "carthage", Year: float64(-600)}, "year -600 outside rome range [-500, 500]"},
		{"to out of range", Connection{ID: "c5", FromID: "rome", TargetID: "carthage", Year: float64(-100)}, "year -100 outside carthage range [-800, -146]"},
		{"per end years", Connection{ID: "c6", FromID: "rome", TargetID: "carthage", FromYear: float64(300), ToYear: float64(-300)}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConnection(tt.conn, lookup)
			if tt.msg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidConnection)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestValidateConnections(t *testing.T) {
	lookup := connectionFixture(t)
	conns := []Connection{
		{ID: "ok", FromID: "rome", TargetID: "carthage", Year: float64(-200)},
		{ID: "late", FromID: "rome", TargetID: "carthage", Year: float64(0)},
		{ID: "cross", FromID: "tiber", TargetID: "rome", Year: float64(0)},
	}

	errs := ValidateConnections(conns, lookup)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "late:")
	assert.Contains(t, errs[1].Error(), "cross:")
	assert.Empty(t, ValidateConnections(conns[:1], lookup))
}

func TestInvalidateConnections(t *testing.T) {
	lookup := connectionFixture(t)
	yes := true
	conns := []Connection{
		{ID: "kept", FromID: "rome", TargetID: "carthage", Year: float64(-200), Confirmed: &yes},
		{ID: "stale", FromID: "carthage", TargetID: "rome", Year: float64(-100), Confirmed: &yes},
		{ID: "orphan", FromID: "rome", TargetID: "gaul", Year: float64(0)},
		{ID: "other", FromID: "carthage", TargetID: "carthage", Year: float64(-300), Confirmed: &yes},
	}

	kept, dropped := InvalidateConnections(conns, "rome", lookup)
	assert.Equal(t, 2, dropped)

	ids := make([]string, len(kept))
	for i, c := range kept {
		ids[i] = c.ID
	}
	if diff := cmp.Diff([]string{"kept", "other"}, ids); diff != "" {
		t.Errorf("kept connections mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, kept[0].IsConfirmed())
	assert.True(t, kept[1].IsConfirmed())
	assert.True(t, conns[0].IsConfirmed(), "input slice must not change")
}

func TestDecodeConnections(t *testing.T) {
	doc, err := Decode([]byte(`{"meta":{"id":"a","layer":"political"},"entities":[],
		"connections":[{"id":"c","fromId":"rome","fromSide":"east","targetId":"carthage","toSide":"west","year":-264,"confirmed":false}]}`))
	require.NoError(t, err)
	require.Len(t, doc.Connections, 1)

	c := doc.Connections[0]
	assert.Equal(t, "rome", c.FromID)
	assert.Equal(t, "carthage", c.TargetID)
	assert.Equal(t, "east", c.FromSide)
	assert.False(t, c.IsConfirmed())
	from, to, ok := c.Years()
	assert.True(t, ok)
	assert.Equal(t, -264, from)
	assert.Equal(t, -264, to)
}
