package get_booking

import (
	"context"

	"github.com/m04kA/DDC-BookingService/internal/domain"
)

type BookingService interface {
	GetByID(ctx context.Context, id int64, clientID int64) (*domain.Booking, error)
}

type BillingService interface {
	GetByBooking(ctx context.Context, bookingID int64) (*domain.Invoice, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
