package get_availability

import (
	"sort"
	"time"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/internal/service/capacity"
)

// buildSegments разбивает интервал на отрезки постоянной занятости.
// Занятость меняется только в границах бронирований, поэтому точки
// разбиения - старты и окончания активных бронирований, обрезанные по
// запрошенному интервалу. Соседние отрезки с одинаковой занятостью
// склеиваются.
func buildSegments(bookings []*domain.Booking, interval domain.Interval, totalCapacity int) []Segment {
	points := []time.Time{interval.Start, interval.End}
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		if interval.Contains(b.Interval.Start) {
			points = append(points, b.Interval.Start)
		}
		if b.Interval.End.After(interval.Start) && b.Interval.End.Before(interval.End) {
			points = append(points, b.Interval.End)
		}
	}

	points = sortedUnique(points)

	segments := make([]Segment, 0, len(points)-1)
	for i := 0; i+1 < len(points); i++ {
		occupied := capacity.LoadAt(bookings, points[i])
		free := totalCapacity - occupied
		if free < 0 {
			free = 0
		}

		if n := len(segments); n > 0 && segments[n-1].Occupied == occupied {
			segments[n-1].EndTime = points[i+1]
			continue
		}

		segments = append(segments, Segment{
			StartTime: points[i],
			EndTime:   points[i+1],
			Occupied:  occupied,
			Free:      free,
		})
	}

	return segments
}

func sortedUnique(points []time.Time) []time.Time {
	sort.Slice(points, func(i, j int) bool { return points[i].Before(points[j]) })

	out := points[:0]
	for _, p := range points {
		if len(out) == 0 || !out[len(out)-1].Equal(p) {
			out = append(out, p)
		}
	}
	return out
}
