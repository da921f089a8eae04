package get_invoice

import (
	"context"

	"github.com/m04kA/DDC-BookingService/internal/domain"
)

type BillingService interface {
	GetByID(ctx context.Context, id int64, clientID int64) (*domain.Invoice, error)
	ListByClient(ctx context.Context, clientID int64) ([]*domain.Invoice, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
