package waitlist

import (
	"context"
	"time"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/internal/service/billing"
)

// WaitlistRepository интерфейс репозитория листа ожидания
type WaitlistRepository interface {
	Create(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error)
	GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error)
	ListPending(ctx context.Context, locationID int64) ([]*domain.WaitlistEntry, error)
	ListOverlappingPending(ctx context.Context, locationID int64, freed domain.Interval) ([]*domain.WaitlistEntry, error)
	UpdateStatus(ctx context.Context, id int64, status domain.WaitlistEntryStatus) error
	RemoveByBooking(ctx context.Context, bookingID int64) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
}

// CapacityChecker интерфейс проверки вместимости площадки
type CapacityChecker interface {
	Admissible(ctx context.Context, location *domain.Location, interval domain.Interval, petCount int, excludeBookingID *int64) error
}

// BillingService интерфейс биллинга: продвинутое бронирование
// подтверждается и сразу получает счет
type BillingService interface {
	DraftInvoice(ctx context.Context, booking *domain.Booking, location *domain.Location, extras []billing.ExtraCharge, redemption *billing.Redemption, now time.Time) (*domain.Invoice, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider возвращает реальное текущее время
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
