package purchase_package

import (
	"context"
	"time"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/pkg/money"
)

type PackageService interface {
	Purchase(ctx context.Context, clientID int64, totalCredits int64, priceCents money.Cents, purchaseDate, expiryDate time.Time) (*domain.ClientPackage, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
