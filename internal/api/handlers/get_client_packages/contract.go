package get_client_packages

import (
	"context"

	"github.com/m04kA/DDC-BookingService/internal/domain"
)

type PackageService interface {
	GetByClient(ctx context.Context, clientID int64) ([]*domain.ClientPackage, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
