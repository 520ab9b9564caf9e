package entity

import (
	"fmt"
	"math"
)

// RangeMargin is how far past a new keyframe a finite valid range is pushed.
const RangeMargin = 100

// ValidityRange is the span of years an entity exists in. Either bound may
// be infinite.
type ValidityRange struct {
	Start float64
	End   float64
}

// Unbounded returns the range covering all time.
func Unbounded() ValidityRange {
	return ValidityRange{Start: math.Inf(-1), End: math.Inf(1)}
}

// NewValidityRange builds a range, rejecting start > end and NaN bounds.
func NewValidityRange(start, end float64) (ValidityRange, error) {
	if math.IsNaN(start) || math.IsNaN(end) || start > end {
		return ValidityRange{}, fmt.Errorf("%w: [%v, %v]", ErrInvalidRange, start, end)
	}
	return ValidityRange{Start: start, End: end}, nil
}

// Contains reports whether year falls inside the closed interval.
func (r ValidityRange) Contains(year float64) bool {
	return year >= r.Start && year <= r.End
}

// Bounded reports whether both ends are finite.
func (r ValidityRange) Bounded() bool {
	return !math.IsInf(r.Start, 0) && !math.IsInf(r.End, 0)
}

// Expand widens finite bounds so that year±RangeMargin is covered. Infinite
// bounds are left alone.
func (r ValidityRange) Expand(year int) ValidityRange {
	if !math.IsInf(r.Start, 0) {
		r.Start = math.Min(r.Start, float64(year-RangeMargin))
	}
	if !math.IsInf(r.End, 0) {
		r.End = math.Max(r.End, float64(year+RangeMargin))
	}
	return r
}

func (r ValidityRange) String() string {
	return fmt.Sprintf("[%s, %s]", formatBound(r.Start), formatBound(r.End))
}

func formatBound(v float64) string {
	switch {
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsInf(v, 1):
		return "+inf"
	default:
		return fmt.Sprintf("%g", v)
	}
}
