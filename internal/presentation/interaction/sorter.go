package interaction

import (
	"fmt"
	"sort"
	"strings"

	"github.com/penwyp/go-chrono-atlas/internal/presentation/formatter"
)

// SortField represents the field to sort rows by
type SortField int

const (
	SortByName SortField = iota
	SortByID
	SortByKind
	SortByVertices
	SortByArea
)

var sortFieldNames = []string{"name", "id", "kind", "vertices", "area"}

func (f SortField) String() string {
	if int(f) < len(sortFieldNames) {
		return sortFieldNames[f]
	}
	return "unknown"
}

// ParseSortField accepts the names printed by SortField.String.
func ParseSortField(s string) (SortField, error) {
	for i, name := range sortFieldNames {
		if strings.EqualFold(s, name) {
			return SortField(i), nil
		}
	}
	return SortByName, fmt.Errorf("unknown sort field %q (want one of %s)", s, strings.Join(sortFieldNames, ", "))
}

// SortOrder represents the sort order
type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)

// RowSorter orders snapshot rows. Ties fall back to id so output is stable.
type RowSorter struct {
	field SortField
	order SortOrder
}

func NewRowSorter(field SortField, order SortOrder) *RowSorter {
	return &RowSorter{field: field, order: order}
}

// Field returns the current sort field.
func (s *RowSorter) Field() SortField {
	return s.field
}

// Cycle advances to the next field; play mode binds it to a key.
func (s *RowSorter) Cycle() SortField {
	s.field = (s.field + 1) % SortField(len(sortFieldNames))
	return s.field
}

// Toggle flips the sort order.
func (s *RowSorter) Toggle() {
	if s.order == SortAscending {
		s.order = SortDescending
	} else {
		s.order = SortAscending
	}
}

func (s *RowSorter) Sort(rows []formatter.Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		c := s.compare(rows[i], rows[j])
		if c == 0 {
			return rows[i].ID < rows[j].ID
		}
		if s.order == SortDescending {
			return c > 0
		}
		return c < 0
	})
}

func (s *RowSorter) compare(a, b formatter.Row) int {
	switch s.field {
	case SortByID:
		return strings.Compare(a.ID, b.ID)
	case SortByKind:
		return strings.Compare(a.Kind(), b.Kind())
	case SortByVertices:
		return a.Vertices - b.Vertices
	case SortByArea:
		return cmpFloat(boxArea(a), boxArea(b))
	default:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}
}

func boxArea(r formatter.Row) float64 {
	return (r.MaxX - r.MinX) * (r.MaxY - r.MinY)
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
