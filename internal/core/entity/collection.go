package entity

import (
	"fmt"
	"slices"
)

// Collection owns a set of entities keyed by id. Parent and child links
// between them are ids, not pointers.
type Collection struct {
	byID     map[string]*Entity
	order    []string
	selected string
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{byID: make(map[string]*Entity)}
}

// Len returns the number of entities.
func (c *Collection) Len() int {
	return len(c.order)
}

// Add registers e. Ids must be unique.
func (c *Collection) Add(e *Entity) error {
	if e == nil || e.ID == "" {
		return ErrMissingID
	}
	if _, exists := c.byID[e.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
	}
	c.byID[e.ID] = e
	c.order = append(c.order, e.ID)
	return nil
}

// Get returns the entity with id, or nil.
func (c *Collection) Get(id string) *Entity {
	return c.byID[id]
}

// Remove deletes id. Its parent forgets it and its children become roots.
func (c *Collection) Remove(id string) error {
	e, ok := c.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if p := c.byID[e.ParentID]; p != nil {
		p.Children = slices.DeleteFunc(p.Children, func(cid string) bool { return cid == id })
	}
	for _, cid := range e.Children {
		if child := c.byID[cid]; child != nil && child.ParentID == id {
			child.ParentID = ""
		}
	}
	delete(c.byID, id)
	c.order = slices.DeleteFunc(c.order, func(oid string) bool { return oid == id })
	if c.selected == id {
		c.selected = ""
	}
	return nil
}

// All returns the entities in insertion order.
func (c *Collection) All() []*Entity {
	out := make([]*Entity, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// AtYear returns the entities that exist at year, in insertion order.
func (c *Collection) AtYear(year float64) []*Entity {
	var out []*Entity
	for _, id := range c.order {
		if e := c.byID[id]; e.ExistsAt(year) {
			out = append(out, e)
		}
	}
	return out
}

// Children returns the entities whose parent is parentID.
func (c *Collection) Children(parentID string) []*Entity {
	var out []*Entity
	for _, id := range c.order {
		if e := c.byID[id]; e.ParentID == parentID && parentID != "" {
			out = append(out, e)
		}
	}
	return out
}

// Ancestors walks from id's parent to the root.
func (c *Collection) Ancestors(id string) []*Entity {
	var out []*Entity
	seen := map[string]bool{id: true}
	e := c.byID[id]
	for e != nil && e.ParentID != "" && !seen[e.ParentID] {
		seen[e.ParentID] = true
		e = c.byID[e.ParentID]
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// SetParent links childID under parentID, or detaches it when parentID is
// empty. Links that would make an entity its own ancestor fail with ErrCycle.
func (c *Collection) SetParent(childID, parentID string) error {
	child, ok := c.byID[childID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, childID)
	}
	if parentID != "" {
		if _, ok := c.byID[parentID]; !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, parentID)
		}
		if parentID == childID {
			return fmt.Errorf("%w: %s", ErrCycle, childID)
		}
		for _, a := range c.Ancestors(parentID) {
			if a.ID == childID {
				return fmt.Errorf("%w: %s under %s", ErrCycle, childID, parentID)
			}
		}
	}

	if old := c.byID[child.ParentID]; old != nil {
		old.Children = slices.DeleteFunc(old.Children, func(id string) bool { return id == childID })
	}
	child.ParentID = parentID
	if p := c.byID[parentID]; p != nil && !slices.Contains(p.Children, childID) {
		p.Children = append(p.Children, childID)
	}
	return nil
}

// Select marks id as the selected entity; an empty id clears the selection.
func (c *Collection) Select(id string) error {
	if id != "" {
		if _, ok := c.byID[id]; !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
	}
	c.selected = id
	return nil
}

// Selected returns the selected entity, or nil.
func (c *Collection) Selected() *Entity {
	return c.byID[c.selected]
}
