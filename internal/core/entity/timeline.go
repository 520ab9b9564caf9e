package entity

import (
	"sort"

	"github.com/penwyp/go-chrono-atlas/internal/core/geometry"
)

// Keyframe records an entity's shape at one year.
type Keyframe struct {
	Year     int              `json:"year"`
	Geometry []geometry.Point `json:"geometry"`
}

func (k Keyframe) clone() Keyframe {
	return Keyframe{Year: k.Year, Geometry: geometry.Clone(k.Geometry)}
}

// timeline is a year-sorted keyframe list with unique years. Geometry slices
// are owned by the timeline and never handed out directly.
type timeline struct {
	frames []Keyframe
}

func (tl *timeline) Len() int {
	return len(tl.frames)
}

func (tl *timeline) search(year int) int {
	return sort.Search(len(tl.frames), func(i int) bool {
		return tl.frames[i].Year >= year
	})
}

// put inserts or replaces the keyframe for k.Year.
func (tl *timeline) put(k Keyframe) {
	i := tl.search(k.Year)
	if i < len(tl.frames) && tl.frames[i].Year == k.Year {
		tl.frames[i] = k
		return
	}
	tl.frames = append(tl.frames, Keyframe{})
	copy(tl.frames[i+1:], tl.frames[i:])
	tl.frames[i] = k
}

func (tl *timeline) remove(year int) bool {
	i := tl.search(year)
	if i >= len(tl.frames) || tl.frames[i].Year != year {
		return false
	}
	tl.frames = append(tl.frames[:i], tl.frames[i+1:]...)
	return true
}

// bracket returns the indices of the latest keyframe at or before year and
// the earliest at or after it; -1 marks a missing side.
func (tl *timeline) bracket(year float64) (prev, next int) {
	prev, next = -1, -1
	for i, k := range tl.frames {
		y := float64(k.Year)
		if y <= year {
			prev = i
		}
		if y >= year && next < 0 {
			next = i
		}
	}
	return prev, next
}

func (tl *timeline) first() (Keyframe, bool) {
	if len(tl.frames) == 0 {
		return Keyframe{}, false
	}
	return tl.frames[0], true
}

func (tl *timeline) last() (Keyframe, bool) {
	if len(tl.frames) == 0 {
		return Keyframe{}, false
	}
	return tl.frames[len(tl.frames)-1], true
}

func (tl *timeline) snapshot() []Keyframe {
	out := make([]Keyframe, len(tl.frames))
	for i, k := range tl.frames {
		out[i] = k.clone()
	}
	return out
}
