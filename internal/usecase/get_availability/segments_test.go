package get_availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/DDC-BookingService/internal/domain"
)

func at(h int) time.Time {
	return time.Date(2026, 9, 14, h, 0, 0, 0, time.UTC)
}

func booking(status domain.BookingStatus, pets int, startHour, endHour int) *domain.Booking {
	petIDs := make([]int64, pets)
	for i := range petIDs {
		petIDs[i] = int64(i + 1)
	}
	return &domain.Booking{
		PetIDs:   petIDs,
		Status:   status,
		Interval: domain.Interval{Start: at(startHour), End: at(endHour)},
	}
}

func TestBuildSegmentsEmptyLocation(t *testing.T) {
	interval := domain.Interval{Start: at(9), End: at(17)}

	segments := buildSegments(nil, interval, 10)

	require.Len(t, segments, 1)
	assert.Equal(t, at(9), segments[0].StartTime)
	assert.Equal(t, at(17), segments[0].EndTime)
	assert.Equal(t, 0, segments[0].Occupied)
	assert.Equal(t, 10, segments[0].Free)
}

func TestBuildSegmentsBookingInTheMiddle(t *testing.T) {
	interval := domain.Interval{Start: at(9), End: at(17)}
	bookings := []*domain.Booking{booking(domain.StatusConfirmed, 3, 11, 14)}

	segments := buildSegments(bookings, interval, 10)

	require.Len(t, segments, 3)
	assert.Equal(t, Segment{StartTime: at(9), EndTime: at(11), Occupied: 0, Free: 10}, segments[0])
	assert.Equal(t, Segment{StartTime: at(11), EndTime: at(14), Occupied: 3, Free: 7}, segments[1])
	assert.Equal(t, Segment{StartTime: at(14), EndTime: at(17), Occupied: 0, Free: 10}, segments[2])
}

func TestBuildSegmentsMergesEqualOccupancy(t *testing.T) {
	interval := domain.Interval{Start: at(9), End: at(17)}
	// Второе бронирование начинается там, где кончается первое:
	// занятость не меняется и отрезки склеиваются
	bookings := []*domain.Booking{
		booking(domain.StatusConfirmed, 2, 9, 12),
		booking(domain.StatusConfirmed, 2, 12, 15),
	}

	segments := buildSegments(bookings, interval, 10)

	require.Len(t, segments, 2)
	assert.Equal(t, Segment{StartTime: at(9), EndTime: at(15), Occupied: 2, Free: 8}, segments[0])
	assert.Equal(t, Segment{StartTime: at(15), EndTime: at(17), Occupied: 0, Free: 10}, segments[1])
}

func TestBuildSegmentsClampsBookingsToInterval(t *testing.T) {
	interval := domain.Interval{Start: at(10), End: at(14)}
	bookings := []*domain.Booking{booking(domain.StatusConfirmed, 4, 8, 16)}

	segments := buildSegments(bookings, interval, 10)

	require.Len(t, segments, 1)
	assert.Equal(t, Segment{StartTime: at(10), EndTime: at(14), Occupied: 4, Free: 6}, segments[0])
}

func TestBuildSegmentsIgnoresInactiveBookings(t *testing.T) {
	interval := domain.Interval{Start: at(9), End: at(17)}
	bookings := []*domain.Booking{
		booking(domain.StatusWaitlisted, 5, 10, 12),
		booking(domain.StatusCancelled, 5, 10, 12),
		booking(domain.StatusCheckedOut, 5, 10, 12),
	}

	segments := buildSegments(bookings, interval, 10)

	require.Len(t, segments, 1)
	assert.Equal(t, 0, segments[0].Occupied)
}

func TestBuildSegmentsOverlappingBookings(t *testing.T) {
	interval := domain.Interval{Start: at(9), End: at(17)}
	bookings := []*domain.Booking{
		booking(domain.StatusConfirmed, 2, 9, 13),
		booking(domain.StatusCheckedIn, 3, 11, 15),
	}

	segments := buildSegments(bookings, interval, 5)

	require.Len(t, segments, 4)
	assert.Equal(t, Segment{StartTime: at(9), EndTime: at(11), Occupied: 2, Free: 3}, segments[0])
	assert.Equal(t, Segment{StartTime: at(11), EndTime: at(13), Occupied: 5, Free: 0}, segments[1])
	assert.Equal(t, Segment{StartTime: at(13), EndTime: at(15), Occupied: 3, Free: 2}, segments[2])
	assert.Equal(t, Segment{StartTime: at(15), EndTime: at(17), Occupied: 0, Free: 5}, segments[3])
}

func TestBuildSegmentsFreeNeverNegative(t *testing.T) {
	interval := domain.Interval{Start: at(9), End: at(17)}
	bookings := []*domain.Booking{booking(domain.StatusConfirmed, 8, 9, 17)}

	segments := buildSegments(bookings, interval, 5)

	require.Len(t, segments, 1)
	assert.Equal(t, 8, segments[0].Occupied)
	assert.Equal(t, 0, segments[0].Free)
}
