package timestamp

import (
	"fmt"
	"math/big"

	"github.com/npillmayer/tracescope"
)

// TimeRange is a closed interval [From, To] of timestamps of one domain.
type TimeRange struct {
	From Timestamp
	To   Timestamp
}

// NewTimeRange creates a range, checking that both bounds share a domain and
// that from ≤ to.
func NewTimeRange(from, to Timestamp) (TimeRange, error) {
	if from.Domain() != to.Domain() {
		return TimeRange{}, fmt.Errorf("%w: range bounds of domains %s and %s",
			tracescope.ErrInvariant, from.Domain(), to.Domain())
	}
	if from.After(to) {
		return TimeRange{}, fmt.Errorf("%w: range from %s after to %s",
			tracescope.ErrInvariant, from, to)
	}
	return TimeRange{From: from, To: to}, nil
}

// Domain returns the time domain of the range.
func (r TimeRange) Domain() Domain {
	return r.From.Domain()
}

// Width returns To - From in nanoseconds.
func (r TimeRange) Width() *big.Int {
	return r.To.Minus(r.From).Nanos()
}

// Contains is true if From ≤ ts ≤ To.
func (r TimeRange) Contains(ts Timestamp) bool {
	return !ts.Before(r.From) && !ts.After(r.To)
}

// Covers is true if other lies completely within r.
func (r TimeRange) Covers(other TimeRange) bool {
	return r.Contains(other.From) && r.Contains(other.To)
}

// Clamp moves ts into the range.
func (r TimeRange) Clamp(ts Timestamp) Timestamp {
	if ts.Before(r.From) {
		return r.From
	}
	if ts.After(r.To) {
		return r.To
	}
	return ts
}

// ClampRange clamps both bounds of other into r. The result satisfies
// From ≤ To whenever other does.
func (r TimeRange) ClampRange(other TimeRange) TimeRange {
	return TimeRange{From: r.Clamp(other.From), To: r.Clamp(other.To)}
}

// Center returns the midpoint of the range, rounded down.
func (r TimeRange) Center() Timestamp {
	return r.From.Plus(r.To.Minus(r.From).Div(2))
}

// Equal is true for ranges with equal bounds.
func (r TimeRange) Equal(other TimeRange) bool {
	return r.From.Equal(other.From) && r.To.Equal(other.To)
}

func (r TimeRange) String() string {
	return fmt.Sprintf("[%s, %s]", r.From, r.To)
}

// Span returns the smallest range containing all timestamps.
// It returns false if ts is empty.
func Span(ts []Timestamp) (TimeRange, bool) {
	if len(ts) == 0 {
		return TimeRange{}, false
	}
	r := TimeRange{From: ts[0], To: ts[0]}
	for _, t := range ts[1:] {
		r.From = Min(r.From, t)
		r.To = Max(r.To, t)
	}
	return r, true
}
