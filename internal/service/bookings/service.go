package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/internal/infra/events"
	bookingRepo "github.com/m04kA/DDC-BookingService/internal/infra/storage/booking"
	locationRepo "github.com/m04kA/DDC-BookingService/internal/infra/storage/location"
)

// Service сервис бронирований: чтение, заезд и выезд.
// Создание, изменение и отмена бронирований живут в usecase-слое.
type Service struct {
	bookingRepo  BookingRepository
	locationRepo LocationRepository
	waitlist     WaitlistPromoter
	txManager    TransactionManager
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	locationRepo LocationRepository,
	waitlist WaitlistPromoter,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		locationRepo: locationRepo,
		waitlist:     waitlist,
		txManager:    txManager,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Клиент видит только собственные бронирования
func (s *Service) GetByID(ctx context.Context, id int64, clientID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.ClientID != clientID {
		s.logger.Warn("GetByID: access denied for client=%d to booking=%d", clientID, id)
		return nil, ErrAccessDenied
	}

	return booking, nil
}

// ListByClient возвращает бронирования клиента
func (s *Service) ListByClient(ctx context.Context, filter domain.ClientBookingsFilter) ([]*domain.Booking, error) {
	result, err := s.bookingRepo.GetByClient(ctx, filter)
	if err != nil {
		s.logger.Error("ListByClient: repository error for client=%d: %v", filter.ClientID, err)
		return nil, fmt.Errorf("%w: ListByClient - repository error: %v", ErrInternal, err)
	}
	return result, nil
}

// ListByLocation возвращает бронирования площадки с фильтрацией
func (s *Service) ListByLocation(ctx context.Context, filter domain.LocationBookingsFilter) ([]*domain.Booking, error) {
	result, err := s.bookingRepo.GetByLocation(ctx, filter)
	if err != nil {
		s.logger.Error("ListByLocation: repository error for location=%d: %v", filter.LocationID, err)
		return nil, fmt.Errorf("%w: ListByLocation - repository error: %v", ErrInternal, err)
	}
	return result, nil
}

// CheckIn регистрирует заезд: confirmed -> checked_in
func (s *Service) CheckIn(ctx context.Context, id int64) (*domain.Booking, error) {
	var booking *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.fetchForTransition(ctx, id, domain.StatusCheckedIn)
		if err != nil {
			return err
		}

		if err := s.bookingRepo.UpdateStatus(ctx, id, domain.StatusCheckedIn); err != nil {
			return fmt.Errorf("%w: CheckIn - update status: %v", ErrInternal, err)
		}
		booking.Status = domain.StatusCheckedIn
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("CheckIn: booking id=%d checked in", id)
	s.publishBookingEvent(ctx, events.TypeBookingCheckedIn, booking)
	return booking, nil
}

// CheckOut регистрирует выезд: checked_in -> checked_out. Выехавшее
// бронирование перестает занимать вместимость, поэтому после фиксации
// перехода очередь листа ожидания проверяется на продвижение для
// остатка интервала отдельной транзакцией.
func (s *Service) CheckOut(ctx context.Context, id int64, now time.Time) (*domain.Booking, error) {
	var booking *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.fetchForTransition(ctx, id, domain.StatusCheckedOut)
		if err != nil {
			return err
		}

		if err := s.bookingRepo.UpdateStatus(ctx, id, domain.StatusCheckedOut); err != nil {
			return fmt.Errorf("%w: CheckOut - update status: %v", ErrInternal, err)
		}
		booking.Status = domain.StatusCheckedOut
		return nil
	})
	if err != nil {
		return nil, err
	}

	var promoted []*domain.Booking
	freed := booking.Interval
	if now.After(freed.Start) {
		freed.Start = now
	}
	if freed.IsValid() {
		promoted = s.promoteWaitlist(ctx, booking.LocationID, freed)
	}

	s.logger.Info("CheckOut: booking id=%d checked out, %d waitlist entries promoted", id, len(promoted))

	s.publishBookingEvent(ctx, events.TypeBookingCheckedOut, booking)
	for _, b := range promoted {
		s.publishBookingEvent(ctx, events.TypeBookingPromoted, b)
	}
	return booking, nil
}

// promoteWaitlist поднимает очередь на освободившийся интервал. Выезд уже
// зафиксирован, поэтому сбой поднятия только логируется
func (s *Service) promoteWaitlist(ctx context.Context, locationID int64, freed domain.Interval) []*domain.Booking {
	var promoted []*domain.Booking
	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		promoted = nil

		location, err := s.locationRepo.GetByID(ctx, locationID)
		if err != nil {
			if errors.Is(err, locationRepo.ErrLocationNotFound) {
				return ErrLocationNotFound
			}
			return fmt.Errorf("%w: promoteWaitlist - fetch location: %v", ErrInternal, err)
		}

		promoted, err = s.waitlist.PromoteCandidates(ctx, location, freed)
		if err != nil {
			return fmt.Errorf("%w: promoteWaitlist - promote: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("promoteWaitlist: booking checked out but promotion failed: %v", err)
		return nil
	}
	return promoted
}

func (s *Service) fetchForTransition(ctx context.Context, id int64, next domain.BookingStatus) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: fetchForTransition - repository error: %v", ErrInternal, err)
	}

	if !booking.CanTransitionTo(next) {
		s.logger.Warn("fetchForTransition: booking id=%d cannot go %s -> %s", id, booking.Status, next)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, next)
	}

	return booking, nil
}

// publishBookingEvent публикует событие после фиксации транзакции.
// Ошибка публикации не отменяет операцию, только логируется.
func (s *Service) publishBookingEvent(ctx context.Context, eventType string, b *domain.Booking) {
	event := events.BookingEvent{
		Type:       eventType,
		BookingID:  b.ID,
		LocationID: b.LocationID,
		ClientID:   b.ClientID,
		PetIDs:     b.PetIDs,
		StartTime:  b.Interval.Start,
		EndTime:    b.Interval.End,
		Status:     string(b.Status),
		OccurredAt: s.timeProvider.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("publishBookingEvent: failed to publish %s for booking=%d: %v", eventType, b.ID, err)
	}
}
