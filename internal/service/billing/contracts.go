package billing

import (
	"context"
	"time"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/pkg/money"
)

// InvoiceRepository интерфейс репозитория счетов
type InvoiceRepository interface {
	NextNumber(ctx context.Context, year int) (string, error)
	Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Invoice, error)
	GetByClient(ctx context.Context, clientID int64) ([]*domain.Invoice, error)
	AddLineItems(ctx context.Context, invoiceID int64, items []domain.LineItem) ([]domain.LineItem, error)
	AddPayment(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.InvoiceStatus) error
	SetGST(ctx context.Context, id int64, gst money.Cents) error
	FlagPaymentsRefundDue(ctx context.Context, invoiceID int64) error
}

// PackageService интерфейс сервиса пакетов
type PackageService interface {
	Get(ctx context.Context, packageID, clientID int64) (*domain.ClientPackage, error)
	Redeem(ctx context.Context, packageID, clientID, credits, invoiceID int64, at time.Time) (*domain.ClientPackage, error)
	ReverseForInvoice(ctx context.Context, invoiceID int64) (int64, error)
}

// EventPublisher интерфейс публикации доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, payload any) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
