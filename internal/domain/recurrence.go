package domain

import (
	"time"
)

// RecurrenceSeries describes a weekly repeating reservation: the same
// location, client and pets on a fixed weekday set within a date range.
// The series owns the bookings it generates; each occurrence is an
// independent Booking row carrying a non-owning SeriesID back-reference,
// so single occurrences can be cancelled or detached without touching
// the rest of the series.
type RecurrenceSeries struct {
	ID         int64
	LocationID int64
	ClientID   int64
	PetIDs     []int64

	Weekdays  []time.Weekday // at least one
	StartDate time.Time      // first candidate day, date only
	EndDate   time.Time      // last candidate day inclusive, date only

	// Time of day of each occurrence, minutes from midnight
	DayStartMinutes int
	DayEndMinutes   int

	// Dates skipped or individually modified; excluded from expansion
	ExceptionDates []time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsValid returns true if the series can be expanded
func (s *RecurrenceSeries) IsValid() bool {
	return len(s.Weekdays) > 0 &&
		len(s.PetIDs) > 0 &&
		!s.StartDate.IsZero() && !s.EndDate.IsZero() &&
		!s.EndDate.Before(s.StartDate) &&
		s.DayStartMinutes >= 0 && s.DayEndMinutes <= 24*60 &&
		s.DayStartMinutes < s.DayEndMinutes
}

// HasException returns true if the date is excluded from expansion
func (s *RecurrenceSeries) HasException(date time.Time) bool {
	y, m, d := date.Date()
	for _, ex := range s.ExceptionDates {
		ey, em, ed := ex.Date()
		if y == ey && m == em && d == ed {
			return true
		}
	}
	return false
}

func (s *RecurrenceSeries) matchesWeekday(date time.Time) bool {
	for _, wd := range s.Weekdays {
		if date.Weekday() == wd {
			return true
		}
	}
	return false
}

// Occurrences expands the series into concrete intervals, in date
// order, skipping exception dates. Expansion is deterministic: the
// same series always yields the same intervals.
func (s *RecurrenceSeries) Occurrences() []Interval {
	occurrences := make([]Interval, 0)

	for day := s.StartDate; !day.After(s.EndDate); day = day.AddDate(0, 0, 1) {
		if !s.matchesWeekday(day) || s.HasException(day) {
			continue
		}

		midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		occurrences = append(occurrences, Interval{
			Start: midnight.Add(time.Duration(s.DayStartMinutes) * time.Minute),
			End:   midnight.Add(time.Duration(s.DayEndMinutes) * time.Minute),
		})
	}

	return occurrences
}
