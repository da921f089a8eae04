package get_locations

import (
	"context"

	"github.com/m04kA/DDC-BookingService/internal/domain"
)

type LocationService interface {
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
	List(ctx context.Context) ([]*domain.Location, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
