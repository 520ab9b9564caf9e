package geometry

import "strings"

// Class says how a shape's vertices are interpreted. The zero value is
// Closed, which is also the default for unknown typologies.
type Class int

const (
	Closed Class = iota // polygon
	Open                // polyline: rivers, routes, coastlines
	Single              // a single coordinate, never resampled
)

func (c Class) String() string {
	switch c {
	case Open:
		return "open"
	case Single:
		return "point"
	default:
		return "closed"
	}
}

// ParseClass maps "point", "open"/"line" and anything else to Closed.
func ParseClass(s string) Class {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "point", "single":
		return Single
	case "open", "line", "polyline":
		return Open
	default:
		return Closed
	}
}
