package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(h, m int) time.Time {
	return time.Date(2026, 9, 14, h, m, 0, 0, time.UTC)
}

func TestIntervalOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Interval
		expected bool
	}{
		{
			"Fully inside",
			Interval{day(9, 0), day(17, 0)},
			Interval{day(10, 0), day(12, 0)},
			true,
		},
		{
			"Partial overlap",
			Interval{day(9, 0), day(12, 0)},
			Interval{day(11, 0), day(15, 0)},
			true,
		},
		{
			"Touching boundaries do not overlap",
			Interval{day(9, 0), day(12, 0)},
			Interval{day(12, 0), day(15, 0)},
			false,
		},
		{
			"Disjoint",
			Interval{day(9, 0), day(10, 0)},
			Interval{day(14, 0), day(15, 0)},
			false,
		},
		{
			"Identical",
			Interval{day(9, 0), day(17, 0)},
			Interval{day(9, 0), day(17, 0)},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.expected, tt.b.Overlaps(tt.a))
		})
	}
}

func TestIntervalContains(t *testing.T) {
	interval := Interval{Start: day(9, 0), End: day(17, 0)}

	assert.True(t, interval.Contains(day(9, 0)), "start is inside")
	assert.True(t, interval.Contains(day(12, 30)))
	assert.False(t, interval.Contains(day(17, 0)), "end is outside, half-open")
	assert.False(t, interval.Contains(day(8, 59)))
}

func TestIntervalIsValid(t *testing.T) {
	assert.True(t, Interval{day(9, 0), day(17, 0)}.IsValid())
	assert.False(t, Interval{day(17, 0), day(9, 0)}.IsValid())
	assert.False(t, Interval{day(9, 0), day(9, 0)}.IsValid())
	assert.False(t, Interval{time.Time{}, day(9, 0)}.IsValid())
	assert.False(t, Interval{day(9, 0), time.Time{}}.IsValid())
}

func TestIntervalDays(t *testing.T) {
	start := time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		interval Interval
		expected int64
	}{
		{"Part of a day counts as one", Interval{start, start.Add(9 * time.Hour)}, 1},
		{"Exactly one day", Interval{start, start.Add(24 * time.Hour)}, 1},
		{"One day and an hour", Interval{start, start.Add(25 * time.Hour)}, 2},
		{"Three full days", Interval{start, start.Add(72 * time.Hour)}, 3},
		{"Invalid interval", Interval{start, start}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.interval.Days())
		})
	}
}
