package get_location_waitlist

import (
	"context"

	"github.com/m04kA/DDC-BookingService/internal/domain"
)

type WaitlistService interface {
	ListPending(ctx context.Context, locationID int64) ([]*domain.WaitlistEntry, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
