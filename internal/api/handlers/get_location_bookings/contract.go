package get_location_bookings

import (
	"context"

	"github.com/m04kA/DDC-BookingService/internal/domain"
)

type BookingService interface {
	ListByLocation(ctx context.Context, filter domain.LocationBookingsFilter) ([]*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
