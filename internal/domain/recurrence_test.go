package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRecurrenceSeriesOccurrences(t *testing.T) {
	// 2026-09-14 is a Monday
	series := &RecurrenceSeries{
		PetIDs:          []int64{1},
		Weekdays:        []time.Weekday{time.Monday, time.Wednesday},
		StartDate:       date(2026, time.September, 14),
		EndDate:         date(2026, time.September, 27),
		DayStartMinutes: 9 * 60,
		DayEndMinutes:   17 * 60,
	}

	occurrences := series.Occurrences()
	require.Len(t, occurrences, 4)

	expected := []time.Time{
		date(2026, time.September, 14),
		date(2026, time.September, 16),
		date(2026, time.September, 21),
		date(2026, time.September, 23),
	}
	for i, occ := range occurrences {
		assert.Equal(t, expected[i].Add(9*time.Hour), occ.Start)
		assert.Equal(t, expected[i].Add(17*time.Hour), occ.End)
	}
}

func TestRecurrenceSeriesOccurrencesSkipsExceptions(t *testing.T) {
	series := &RecurrenceSeries{
		PetIDs:          []int64{1},
		Weekdays:        []time.Weekday{time.Monday},
		StartDate:       date(2026, time.September, 14),
		EndDate:         date(2026, time.September, 28),
		DayStartMinutes: 9 * 60,
		DayEndMinutes:   17 * 60,
		ExceptionDates:  []time.Time{date(2026, time.September, 21)},
	}

	occurrences := series.Occurrences()
	require.Len(t, occurrences, 2)
	assert.Equal(t, date(2026, time.September, 14).Add(9*time.Hour), occurrences[0].Start)
	assert.Equal(t, date(2026, time.September, 28).Add(9*time.Hour), occurrences[1].Start)
}

func TestRecurrenceSeriesOccurrencesDeterministic(t *testing.T) {
	series := &RecurrenceSeries{
		PetIDs:          []int64{1, 2},
		Weekdays:        []time.Weekday{time.Tuesday, time.Thursday},
		StartDate:       date(2026, time.September, 1),
		EndDate:         date(2026, time.September, 30),
		DayStartMinutes: 8 * 60,
		DayEndMinutes:   18 * 60,
	}

	first := series.Occurrences()
	second := series.Occurrences()
	assert.Equal(t, first, second)
}

func TestRecurrenceSeriesIsValid(t *testing.T) {
	valid := &RecurrenceSeries{
		PetIDs:          []int64{1},
		Weekdays:        []time.Weekday{time.Monday},
		StartDate:       date(2026, time.September, 14),
		EndDate:         date(2026, time.September, 28),
		DayStartMinutes: 9 * 60,
		DayEndMinutes:   17 * 60,
	}
	assert.True(t, valid.IsValid())

	tests := []struct {
		name   string
		mutate func(*RecurrenceSeries)
	}{
		{"No weekdays", func(s *RecurrenceSeries) { s.Weekdays = nil }},
		{"No pets", func(s *RecurrenceSeries) { s.PetIDs = nil }},
		{"End before start", func(s *RecurrenceSeries) { s.EndDate = date(2026, time.September, 1) }},
		{"Day end before day start", func(s *RecurrenceSeries) { s.DayEndMinutes = 8 * 60 }},
		{"Day end past midnight", func(s *RecurrenceSeries) { s.DayEndMinutes = 25 * 60 }},
		{"Negative day start", func(s *RecurrenceSeries) { s.DayStartMinutes = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := *valid
			tt.mutate(&s)
			assert.False(t, s.IsValid())
		})
	}
}

func TestRecurrenceSeriesHasException(t *testing.T) {
	series := &RecurrenceSeries{
		ExceptionDates: []time.Time{date(2026, time.September, 21)},
	}

	// Time of day is ignored, only the date matters
	assert.True(t, series.HasException(time.Date(2026, 9, 21, 15, 30, 0, 0, time.UTC)))
	assert.False(t, series.HasException(date(2026, time.September, 22)))
}
