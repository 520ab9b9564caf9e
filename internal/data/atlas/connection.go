package atlas

import (
	"fmt"

	"github.com/penwyp/go-chrono-atlas/internal/core/entity"
)

// Connection links two entities at a point in time, such as a border shared
// by two polities or a river feeding a lake. FromYear and ToYear override
// Year for either end.
type Connection struct {
	ID        string `json:"id,omitempty"`
	FromID    string `json:"fromId"`
	FromSide  string `json:"fromSide,omitempty"`
	TargetID  string `json:"targetId"`
	ToSide    string `json:"toSide,omitempty"`
	Year      any    `json:"year,omitempty"`
	FromYear  any    `json:"fromYear,omitempty"`
	ToYear    any    `json:"toYear,omitempty"`
	Confirmed *bool  `json:"confirmed,omitempty"`
}

// EntityLookup resolves an entity id, returning nil when it is unknown.
type EntityLookup func(id string) *entity.Entity

// Label names the connection in messages.
func (c Connection) Label() string {
	if c.ID != "" {
		return c.ID
	}
	return c.FromID + "->" + c.TargetID
}

// Years returns the year at each end. The from end falls back to Year; the
// to end falls back to Year and then to the from end.
func (c Connection) Years() (from, to int, ok bool) {
	fromRaw := c.FromYear
	if fromRaw == nil {
		fromRaw = c.Year
	}
	from, ok = ParseYear(fromRaw)
	if !ok {
		return 0, 0, false
	}

	toRaw := c.ToYear
	if toRaw == nil {
		toRaw = c.Year
	}
	if toRaw == nil {
		return from, from, true
	}
	to, ok = ParseYear(toRaw)
	if !ok {
		return 0, 0, false
	}
	return from, to, true
}

// IsConfirmed reports whether the connection is confirmed. An absent flag
// counts as confirmed.
func (c Connection) IsConfirmed() bool {
	return c.Confirmed == nil || *c.Confirmed
}

// CheckConnection reports why c is invalid: both entities must exist, share
// a domain and be valid at their end's year.
func CheckConnection(c Connection, lookup EntityLookup) error {
	from, target := lookup(c.FromID), lookup(c.TargetID)
	if from == nil {
		return fmt.Errorf("%w %s: unknown entity %q", ErrInvalidConnection, c.Label(), c.FromID)
	}
	if target == nil {
		return fmt.Errorf("%w %s: unknown entity %q", ErrInvalidConnection, c.Label(), c.TargetID)
	}
	if from.Domain != target.Domain {
		return fmt.Errorf("%w %s: domains differ (%s, %s)", ErrInvalidConnection, c.Label(), from.Domain, target.Domain)
	}
	fromYear, toYear, ok := c.Years()
	if !ok {
		return fmt.Errorf("%w %s: missing year", ErrInvalidConnection, c.Label())
	}
	if vr := from.ValidRange(); !vr.Contains(float64(fromYear)) {
		return fmt.Errorf("%w %s: year %d outside %s range %s", ErrInvalidConnection, c.Label(), fromYear, from.ID, vr)
	}
	if vr := target.ValidRange(); !vr.Contains(float64(toYear)) {
		return fmt.Errorf("%w %s: year %d outside %s range %s", ErrInvalidConnection, c.Label(), toYear, target.ID, vr)
	}
	return nil
}

// ValidateConnections checks every connection and returns one error per
// invalid connection, in order.
func ValidateConnections(conns []Connection, lookup EntityLookup) []error {
	var errs []error
	for _, c := range conns {
		if err := CheckConnection(c, lookup); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// InvalidateConnections revisits the connections touching entityID after
// that entity changed. A connection whose ends are gone or out of range is
// dropped; the others stay but lose their confirmation. Untouched
// connections are kept as they are.
func InvalidateConnections(conns []Connection, entityID string, lookup EntityLookup) (kept []Connection, dropped int) {
	kept = make([]Connection, 0, len(conns))
	unconfirmed := false
	for _, c := range conns {
		if c.FromID != entityID && c.TargetID != entityID {
			kept = append(kept, c)
			continue
		}
		if !endsInRange(c, lookup) {
			dropped++
			continue
		}
		c.Confirmed = &unconfirmed
		kept = append(kept, c)
	}
	return kept, dropped
}

func endsInRange(c Connection, lookup EntityLookup) bool {
	from, target := lookup(c.FromID), lookup(c.TargetID)
	if from == nil || target == nil {
		return false
	}
	fromYear, toYear, ok := c.Years()
	if !ok {
		return true
	}
	return from.ValidRange().Contains(float64(fromYear)) && target.ValidRange().Contains(float64(toYear))
}

// LookupIn resolves ids against es, first occurrence winning.
func LookupIn(es []*entity.Entity) EntityLookup {
	byID := make(map[string]*entity.Entity, len(es))
	for _, e := range es {
		if _, ok := byID[e.ID]; !ok {
			byID[e.ID] = e
		}
	}
	return func(id string) *entity.Entity { return byID[id] }
}
