package packages

import (
	"context"

	"github.com/m04kA/DDC-BookingService/internal/domain"
)

// PackageRepository интерфейс репозитория пакетов
type PackageRepository interface {
	Create(ctx context.Context, pkg *domain.ClientPackage) (*domain.ClientPackage, error)
	GetByID(ctx context.Context, id int64) (*domain.ClientPackage, error)
	GetByClient(ctx context.Context, clientID int64) ([]*domain.ClientPackage, error)
	DecrementCredits(ctx context.Context, id int64, n int64) error
	IncrementCredits(ctx context.Context, id int64, n int64) error
	RecordRedemption(ctx context.Context, red *domain.CreditRedemption) (*domain.CreditRedemption, error)
	GetRedemptionsByInvoice(ctx context.Context, invoiceID int64) ([]*domain.CreditRedemption, error)
	MarkRedemptionReversed(ctx context.Context, id int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
