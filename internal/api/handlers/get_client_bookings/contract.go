package get_client_bookings

import (
	"context"

	"github.com/m04kA/DDC-BookingService/internal/domain"
)

type BookingService interface {
	ListByClient(ctx context.Context, filter domain.ClientBookingsFilter) ([]*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
