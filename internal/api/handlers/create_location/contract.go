package create_location

import (
	"context"

	"github.com/m04kA/DDC-BookingService/internal/domain"
)

type LocationService interface {
	Create(ctx context.Context, location *domain.Location) (*domain.Location, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
