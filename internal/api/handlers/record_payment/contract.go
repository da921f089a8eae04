package record_payment

import (
	"context"
	"time"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/pkg/money"
)

type BillingService interface {
	RecordPayment(ctx context.Context, invoiceID int64, amount money.Cents, method string, reference *string, now time.Time) (*domain.Invoice, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
