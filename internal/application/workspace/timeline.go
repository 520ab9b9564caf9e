package workspace

import "math"

const maxStep = 1000

// Timeline is the play-mode clock: a year moving through [Start, End].
type Timeline struct {
	Start   float64
	End     float64
	Year    float64
	Step    float64
	Playing bool
}

// NewTimeline starts paused at year, clamped into range.
func NewTimeline(start, end, year, step float64) *Timeline {
	if end < start {
		start, end = end, start
	}
	if step <= 0 {
		step = 1
	}
	t := &Timeline{Start: start, End: end, Step: step}
	t.Seek(year)
	return t
}

// Tick advances one step while playing, looping to Start past End. It
// reports whether the year changed.
func (t *Timeline) Tick() bool {
	if !t.Playing {
		return false
	}
	next := t.Year + t.Step
	if next > t.End {
		next = t.Start
	}
	changed := next != t.Year
	t.Year = next
	return changed
}

// Forward and Back move one step, stopping at the ends.
func (t *Timeline) Forward() { t.Seek(t.Year + t.Step) }
func (t *Timeline) Back()    { t.Seek(t.Year - t.Step) }

// Seek jumps to year, clamped into range.
func (t *Timeline) Seek(year float64) {
	t.Year = math.Max(t.Start, math.Min(t.End, year))
}

// Faster doubles the step, up to maxStep.
func (t *Timeline) Faster() {
	t.Step = math.Min(t.Step*2, maxStep)
}

// Slower halves the step, never below one year.
func (t *Timeline) Slower() {
	t.Step = math.Max(t.Step/2, 1)
}

// Toggle pauses or resumes.
func (t *Timeline) Toggle() {
	t.Playing = !t.Playing
}
