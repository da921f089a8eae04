package modify_booking

import (
	"context"
	"time"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/internal/service/billing"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateInterval(ctx context.Context, id int64, interval domain.Interval) error
	ReplacePets(ctx context.Context, id int64, petIDs []int64) error
	DetachFromSeries(ctx context.Context, id int64) error
}

// SeriesRepository интерфейс репозитория серий
type SeriesRepository interface {
	AddException(ctx context.Context, seriesID int64, date time.Time) error
}

// LocationRepository интерфейс репозитория площадок
type LocationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
}

// CapacityService интерфейс проверки вместимости
type CapacityService interface {
	Admissible(ctx context.Context, location *domain.Location, interval domain.Interval, petCount int, excludeBookingID *int64) error
}

// WaitlistService интерфейс листа ожидания
type WaitlistService interface {
	PromoteCandidates(ctx context.Context, location *domain.Location, freed domain.Interval) ([]*domain.Booking, error)
}

// BillingService интерфейс биллинга
type BillingService interface {
	CancelForBooking(ctx context.Context, bookingID int64) (*domain.Invoice, error)
	DraftInvoice(ctx context.Context, booking *domain.Booking, location *domain.Location, extras []billing.ExtraCharge, redemption *billing.Redemption, now time.Time) (*domain.Invoice, error)
}

// EventPublisher интерфейс публикации доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, payload any) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
