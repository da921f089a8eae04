package waitlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	waitlistRepo "github.com/m04kA/DDC-BookingService/internal/infra/storage/waitlist"
	"github.com/m04kA/DDC-BookingService/internal/service/capacity"
)

// Service сервис листа ожидания
type Service struct {
	waitlistRepo WaitlistRepository
	bookingRepo  BookingRepository
	capacity     CapacityChecker
	billing      BillingService
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса листа ожидания
func NewService(
	waitlistRepo WaitlistRepository,
	bookingRepo BookingRepository,
	capacity CapacityChecker,
	billing BillingService,
	logger Logger,
) *Service {
	return &Service{
		waitlistRepo: waitlistRepo,
		bookingRepo:  bookingRepo,
		capacity:     capacity,
		billing:      billing,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Enqueue ставит запрос в лист ожидания площадки
func (s *Service) Enqueue(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	entry.Status = domain.WaitlistPending

	created, err := s.waitlistRepo.Create(ctx, entry)
	if err != nil {
		s.logger.Error("Enqueue: failed to create entry for location=%d client=%d: %v", entry.LocationID, entry.ClientID, err)
		return nil, fmt.Errorf("%w: Enqueue - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Enqueue: entry id=%d enqueued for location=%d client=%d", created.ID, created.LocationID, created.ClientID)
	return created, nil
}

// Remove снимает запись с листа ожидания. Запись остается в истории
// со статусом removed, физически не удаляется.
func (s *Service) Remove(ctx context.Context, entryID int64, clientID int64) error {
	entry, err := s.waitlistRepo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
			return ErrEntryNotFound
		}
		s.logger.Error("Remove: repository error for entry=%d: %v", entryID, err)
		return fmt.Errorf("%w: Remove - repository error: %v", ErrInternal, err)
	}

	if entry.ClientID != clientID {
		s.logger.Warn("Remove: access denied for client=%d to entry=%d", clientID, entryID)
		return ErrAccessDenied
	}

	if !entry.IsPending() {
		return ErrNotPending
	}

	if err := s.waitlistRepo.UpdateStatus(ctx, entryID, domain.WaitlistRemoved); err != nil {
		s.logger.Error("Remove: failed to update entry=%d: %v", entryID, err)
		return fmt.Errorf("%w: Remove - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Remove: entry id=%d removed by client=%d", entryID, clientID)
	return nil
}

// RemoveForBooking снимает ожидающую запись отмененного бронирования
func (s *Service) RemoveForBooking(ctx context.Context, bookingID int64) error {
	if err := s.waitlistRepo.RemoveByBooking(ctx, bookingID); err != nil {
		s.logger.Error("RemoveForBooking: repository error for booking=%d: %v", bookingID, err)
		return fmt.Errorf("%w: RemoveForBooking - repository error: %v", ErrInternal, err)
	}
	return nil
}

// ListPending возвращает ожидающие записи площадки в порядке очереди
func (s *Service) ListPending(ctx context.Context, locationID int64) ([]*domain.WaitlistEntry, error) {
	entries, err := s.waitlistRepo.ListPending(ctx, locationID)
	if err != nil {
		s.logger.Error("ListPending: repository error for location=%d: %v", locationID, err)
		return nil, fmt.Errorf("%w: ListPending - repository error: %v", ErrInternal, err)
	}
	return entries, nil
}

// PromoteCandidates продвигает записи листа ожидания после освобождения
// вместимости на интервале freed. Очередь обходится в порядке FIFO;
// запись, которая все еще не помещается, пропускается, а следующие за
// ней проверяются дальше - большая заявка в голове очереди не блокирует
// меньшие за ней. Запись продвигается только целиком: либо все ее
// питомцы получают места, либо она остается в очереди.
// Продвинутое бронирование подтверждается и сразу получает счет.
// Вызывается внутри транзакции операции, освободившей вместимость.
func (s *Service) PromoteCandidates(ctx context.Context, location *domain.Location, freed domain.Interval) ([]*domain.Booking, error) {
	entries, err := s.waitlistRepo.ListOverlappingPending(ctx, location.ID, freed)
	if err != nil {
		s.logger.Error("PromoteCandidates: failed to list candidates for location=%d: %v", location.ID, err)
		return nil, fmt.Errorf("%w: PromoteCandidates - repository error: %v", ErrInternal, err)
	}

	promoted := make([]*domain.Booking, 0)

	for _, entry := range entries {
		err := s.capacity.Admissible(ctx, location, entry.Requested, entry.PetCount(), entry.BookingID)
		if err != nil {
			if errors.Is(err, capacity.ErrCapacityExceeded) {
				continue
			}
			return promoted, fmt.Errorf("%w: PromoteCandidates - capacity check: %v", ErrInternal, err)
		}

		booking, err := s.confirmEntry(ctx, entry)
		if err != nil {
			return promoted, err
		}

		if err := s.waitlistRepo.UpdateStatus(ctx, entry.ID, domain.WaitlistPromoted); err != nil {
			return promoted, fmt.Errorf("%w: PromoteCandidates - update entry: %v", ErrInternal, err)
		}

		if _, err := s.billing.DraftInvoice(ctx, booking, location, nil, nil, s.timeProvider.Now()); err != nil {
			return promoted, err
		}

		s.logger.Info("PromoteCandidates: entry id=%d promoted to booking id=%d at location=%d", entry.ID, booking.ID, location.ID)
		promoted = append(promoted, booking)
	}

	return promoted, nil
}

// confirmEntry подтверждает бронирование записи. Запись, привязанная к
// существующему waitlisted-бронированию, подтверждает его; запись без
// привязки получает новое подтвержденное бронирование.
func (s *Service) confirmEntry(ctx context.Context, entry *domain.WaitlistEntry) (*domain.Booking, error) {
	if entry.BookingID != nil {
		booking, err := s.bookingRepo.GetByID(ctx, *entry.BookingID)
		if err != nil {
			return nil, fmt.Errorf("%w: confirmEntry - fetch booking: %v", ErrInternal, err)
		}
		if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, domain.StatusConfirmed); err != nil {
			return nil, fmt.Errorf("%w: confirmEntry - update booking: %v", ErrInternal, err)
		}
		booking.Status = domain.StatusConfirmed
		return booking, nil
	}

	booking, err := s.bookingRepo.Create(ctx, &domain.Booking{
		LocationID: entry.LocationID,
		ClientID:   entry.ClientID,
		PetIDs:     entry.PetIDs,
		Interval:   entry.Requested,
		Status:     domain.StatusConfirmed,
		Notes:      entry.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: confirmEntry - create booking: %v", ErrInternal, err)
	}
	return booking, nil
}
