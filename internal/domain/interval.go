package domain

import "time"

// Interval is a half-open [Start, End) time range of a booking or a
// waitlist request. Capacity usage is piecewise-constant over a finite
// set of bookings, so admission checks only need to look at interval
// boundaries, never at a continuous timeline.
type Interval struct {
	Start time.Time
	End   time.Time
}

// IsValid returns true if the interval is well-formed (End after Start)
func (i Interval) IsValid() bool {
	return !i.Start.IsZero() && !i.End.IsZero() && i.End.After(i.Start)
}

// Overlaps returns true if the two half-open intervals share any instant.
// Touching boundaries (one ends exactly where the other starts) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// Contains returns true if t lies within the half-open interval
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Duration returns the interval length
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Days returns the number of daycare days the interval spans, counting
// any started day as a full day. Used for per-day rate billing.
func (i Interval) Days() int64 {
	if !i.IsValid() {
		return 0
	}
	d := i.End.Sub(i.Start)
	days := int64(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}
