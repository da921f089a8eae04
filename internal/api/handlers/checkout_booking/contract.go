package checkout_booking

import (
	"context"
	"time"

	"github.com/m04kA/DDC-BookingService/internal/domain"
)

type BookingService interface {
	CheckOut(ctx context.Context, id int64, now time.Time) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
