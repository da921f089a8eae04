package capacity

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/DDC-BookingService/internal/domain"
)

// Service проверяет вместимость площадки. Загрузка площадки - кусочно-
// постоянная функция времени, поэтому пик ищем только в границах
// пересекающихся бронирований, а не по всей временной шкале.
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса вместимости
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Admissible проверяет, вмещает ли площадка petCount питомцев на всем
// интервале. excludeBookingID исключает из расчета само изменяемое
// бронирование. Внутри транзакции выборка блокирует пересекающиеся
// бронирования, чтобы конкурентные проверки сериализовались.
func (s *Service) Admissible(ctx context.Context, location *domain.Location, interval domain.Interval, petCount int, excludeBookingID *int64) error {
	if petCount > location.Capacity {
		s.logger.Warn("Admissible: request for %d pets exceeds capacity %d of location=%d outright", petCount, location.Capacity, location.ID)
		return ErrCapacityExceeded
	}

	overlapping, err := s.bookingRepo.GetOverlapping(ctx, location.ID, interval)
	if err != nil {
		s.logger.Error("Admissible: failed to fetch overlapping bookings for location=%d: %v", location.ID, err)
		return fmt.Errorf("%w: Admissible - repository error: %v", ErrInternal, err)
	}

	bookings := make([]*domain.Booking, 0, len(overlapping))
	for _, b := range overlapping {
		if excludeBookingID != nil && b.ID == *excludeBookingID {
			continue
		}
		bookings = append(bookings, b)
	}

	peak := PeakLoad(bookings, interval)
	if peak+petCount > location.Capacity {
		s.logger.Info("Admissible: location=%d peak load %d + %d pets exceeds capacity %d", location.ID, peak, petCount, location.Capacity)
		return ErrCapacityExceeded
	}

	return nil
}

// PeakLoad возвращает максимальное число питомцев, одновременно
// занимающих площадку на интервале. Кандидаты на максимум - начало
// интервала и старты пересекающихся бронирований внутри него.
func PeakLoad(bookings []*domain.Booking, interval domain.Interval) int {
	points := []time.Time{interval.Start}
	for _, b := range bookings {
		if interval.Contains(b.Interval.Start) {
			points = append(points, b.Interval.Start)
		}
	}

	peak := 0
	for _, at := range points {
		load := LoadAt(bookings, at)
		if load > peak {
			peak = load
		}
	}

	return peak
}

// LoadAt возвращает число питомцев на площадке в момент времени.
// Считаются только активные бронирования: ожидающие, листы ожидания,
// отмененные и завершенные выездом вместимость не занимают.
func LoadAt(bookings []*domain.Booking, at time.Time) int {
	load := 0
	for _, b := range bookings {
		if b.IsActive() && b.Interval.Contains(at) {
			load += b.PetCount()
		}
	}
	return load
}
