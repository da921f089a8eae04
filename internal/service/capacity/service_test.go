package capacity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/DDC-BookingService/internal/domain"
)

// Mock структуры

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetOverlapping(ctx context.Context, locationID int64, interval domain.Interval) ([]*domain.Booking, error) {
	args := m.Called(ctx, locationID, interval)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

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

func TestLoadAt(t *testing.T) {
	bookings := []*domain.Booking{
		booking(domain.StatusConfirmed, 2, 9, 12),
		booking(domain.StatusCheckedIn, 1, 10, 14),
		booking(domain.StatusWaitlisted, 5, 9, 17),
		booking(domain.StatusCancelled, 5, 9, 17),
	}

	tests := []struct {
		name     string
		at       time.Time
		expected int
	}{
		{"Before everything", at(8), 0},
		{"First booking only", at(9), 2},
		{"Both active bookings", at(10), 3},
		{"End boundary excluded", at(12), 1},
		{"After everything", at(14), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LoadAt(bookings, tt.at))
		})
	}
}

func TestPeakLoad(t *testing.T) {
	tests := []struct {
		name     string
		bookings []*domain.Booking
		interval domain.Interval
		expected int
	}{
		{
			"No bookings",
			nil,
			domain.Interval{Start: at(9), End: at(17)},
			0,
		},
		{
			"Peak at interior start point",
			[]*domain.Booking{
				booking(domain.StatusConfirmed, 2, 9, 12),
				booking(domain.StatusConfirmed, 3, 11, 15),
			},
			domain.Interval{Start: at(9), End: at(17)},
			5,
		},
		{
			"Booking starting before interval counted at interval start",
			[]*domain.Booking{
				booking(domain.StatusConfirmed, 4, 7, 13),
			},
			domain.Interval{Start: at(9), End: at(17)},
			4,
		},
		{
			"Sequential bookings do not stack",
			[]*domain.Booking{
				booking(domain.StatusConfirmed, 3, 9, 12),
				booking(domain.StatusConfirmed, 3, 12, 15),
			},
			domain.Interval{Start: at(9), End: at(17)},
			3,
		},
		{
			"Inactive statuses ignored",
			[]*domain.Booking{
				booking(domain.StatusWaitlisted, 5, 9, 17),
				booking(domain.StatusConfirmed, 2, 10, 12),
			},
			domain.Interval{Start: at(9), End: at(17)},
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PeakLoad(tt.bookings, tt.interval))
		})
	}
}

func TestAdmissible(t *testing.T) {
	ctx := context.Background()
	location := &domain.Location{ID: 1, Capacity: 5}
	interval := domain.Interval{Start: at(9), End: at(17)}

	t.Run("Request over raw capacity rejected without repository call", func(t *testing.T) {
		repo := new(MockBookingRepository)
		service := NewService(repo, nopLogger{})

		err := service.Admissible(ctx, location, interval, 6, nil)

		assert.ErrorIs(t, err, ErrCapacityExceeded)
		repo.AssertNotCalled(t, "GetOverlapping", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Fits into free capacity", func(t *testing.T) {
		repo := new(MockBookingRepository)
		repo.On("GetOverlapping", mock.Anything, int64(1), interval).Return([]*domain.Booking{
			booking(domain.StatusConfirmed, 3, 9, 17),
		}, nil)
		service := NewService(repo, nopLogger{})

		err := service.Admissible(ctx, location, interval, 2, nil)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Peak load leaves no room", func(t *testing.T) {
		repo := new(MockBookingRepository)
		repo.On("GetOverlapping", mock.Anything, int64(1), interval).Return([]*domain.Booking{
			booking(domain.StatusConfirmed, 2, 9, 12),
			booking(domain.StatusConfirmed, 2, 11, 15),
		}, nil)
		service := NewService(repo, nopLogger{})

		err := service.Admissible(ctx, location, interval, 2, nil)

		assert.ErrorIs(t, err, ErrCapacityExceeded)
	})

	t.Run("Excluded booking does not block its own modification", func(t *testing.T) {
		own := booking(domain.StatusConfirmed, 4, 9, 17)
		own.ID = 42

		repo := new(MockBookingRepository)
		repo.On("GetOverlapping", mock.Anything, int64(1), interval).Return([]*domain.Booking{own}, nil)
		service := NewService(repo, nopLogger{})

		excludeID := int64(42)
		err := service.Admissible(ctx, location, interval, 5, &excludeID)

		assert.NoError(t, err)
	})
}
