package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	locationRepo "github.com/m04kA/DDC-BookingService/internal/infra/storage/location"
)

// UseCase use case для просмотра свободной вместимости площадки.
// Ответ - моментальный снимок без блокировок: гарантию места дает
// только само создание бронирования.
type UseCase struct {
	bookingRepo  BookingRepository
	locationRepo LocationRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	locationRepo LocationRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		locationRepo: locationRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения свободной вместимости
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: location=%d, interval=[%s, %s)",
		req.LocationID, req.StartTime.Format(domain.DateTimeFormat), req.EndTime.Format(domain.DateTimeFormat))

	if req.LocationID <= 0 {
		return nil, fmt.Errorf("%w: locationID must be positive", ErrInvalidInput)
	}

	interval := domain.Interval{Start: req.StartTime, End: req.EndTime}
	if !interval.IsValid() {
		return nil, ErrInvalidInterval
	}

	location, err := uc.locationRepo.GetByID(ctx, req.LocationID)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			uc.logger.Warn("GetAvailability: location id=%d not found", req.LocationID)
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("GetAvailability: failed to get location id=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.GetOverlapping(ctx, req.LocationID, interval)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get bookings for location=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	segments := buildSegments(bookings, interval, location.Capacity)

	uc.logger.Info("GetAvailability: location=%d, %d segments", req.LocationID, len(segments))

	return &Response{
		LocationID: req.LocationID,
		StartTime:  interval.Start,
		EndTime:    interval.End,
		Capacity:   location.Capacity,
		Segments:   segments,
	}, nil
}
