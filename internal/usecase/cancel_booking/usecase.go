package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/internal/infra/events"
	bookingRepo "github.com/m04kA/DDC-BookingService/internal/infra/storage/booking"
	locationRepo "github.com/m04kA/DDC-BookingService/internal/infra/storage/location"
)

// UseCase use case для отмены бронирования.
// Отмена аннулирует счет и возвращает списанные кредиты в одной
// транзакции с отменой самого бронирования. Поднятие листа ожидания
// выполняется отдельной транзакцией уже после фиксации отмены, чтобы
// не удлинять критическую секцию черновиками счетов.
type UseCase struct {
	bookingRepo  BookingRepository
	locationRepo LocationRepository
	waitlist     WaitlistService
	billing      BillingService
	txManager    TransactionManager
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	locationRepo LocationRepository,
	waitlistSvc WaitlistService,
	billingSvc BillingService,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		locationRepo: locationRepo,
		waitlist:     waitlistSvc,
		billing:      billingSvc,
		txManager:    txManager,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case отмены бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, client=%d", req.BookingID, req.ClientID)

	if req.BookingID <= 0 || req.ClientID <= 0 {
		return nil, ErrInvalidInput
	}

	var (
		result    *domain.Booking
		inv       *domain.Invoice
		wasActive bool
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		result, inv = nil, nil
		wasActive = false

		// 1. Забираем бронирование с блокировкой
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if booking.ClientID != req.ClientID {
			return ErrAccessDenied
		}

		if !booking.CanBeCancelled() {
			return ErrCannotCancel
		}

		wasActive = booking.IsActive()
		wasWaitlisted := booking.Status == domain.StatusWaitlisted

		// 2. Отменяем бронирование
		if err := uc.bookingRepo.Cancel(txCtx, booking.ID, req.Reason); err != nil {
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}
		booking.Status = domain.StatusCancelled

		// 3. Отмененная запись листа ожидания снимается с очереди
		if wasWaitlisted {
			if err := uc.waitlist.RemoveForBooking(txCtx, booking.ID); err != nil {
				return fmt.Errorf("%w: failed to remove waitlist entry: %v", ErrInternal, err)
			}
		}

		// 4. Аннулируем счет: сторнирующие строки, возврат кредитов,
		// платежи помечаются к возврату
		inv, err = uc.billing.CancelForBooking(txCtx, booking.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to cancel invoice: %v", ErrInternal, err)
		}

		result = booking
		return nil
	})
	if err != nil {
		if isKnownError(err) {
			uc.logger.Warn("CancelBooking: booking=%d rejected: %v", req.BookingID, err)
		} else {
			uc.logger.Error("CancelBooking: booking=%d failed: %v", req.BookingID, err)
		}
		return nil, err
	}

	// 5. Активное бронирование освобождало место - поднимаем очередь
	// отдельной транзакцией после фиксации отмены
	var promoted []*domain.Booking
	if wasActive {
		promoted = uc.promoteWaitlist(ctx, result)
	}

	uc.publishEvent(ctx, events.TypeBookingCancelled, result)
	for _, b := range promoted {
		uc.publishEvent(ctx, events.TypeBookingPromoted, b)
	}

	uc.logger.Info("CancelBooking: booking=%d cancelled, promoted=%d", result.ID, len(promoted))
	return toResponse(result, inv, promoted), nil
}

// promoteWaitlist поднимает очередь на освободившееся место. Отмена уже
// зафиксирована, поэтому сбой поднятия только логируется: следующее
// освобождение места повторит попытку
func (uc *UseCase) promoteWaitlist(ctx context.Context, cancelled *domain.Booking) []*domain.Booking {
	var promoted []*domain.Booking
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		promoted = nil

		location, err := uc.locationRepo.GetByID(txCtx, cancelled.LocationID)
		if err != nil {
			if errors.Is(err, locationRepo.ErrLocationNotFound) {
				return ErrLocationNotFound
			}
			return fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
		}

		promoted, err = uc.waitlist.PromoteCandidates(txCtx, location, cancelled.Interval)
		if err != nil {
			return fmt.Errorf("%w: failed to promote waitlist: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("CancelBooking: booking=%d cancelled but waitlist promotion failed: %v", cancelled.ID, err)
		return nil
	}
	return promoted
}

func isKnownError(err error) bool {
	return errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, ErrCannotCancel)
}

func (uc *UseCase) publishEvent(ctx context.Context, eventType string, b *domain.Booking) {
	event := events.BookingEvent{
		Type:       eventType,
		BookingID:  b.ID,
		LocationID: b.LocationID,
		ClientID:   b.ClientID,
		PetIDs:     b.PetIDs,
		StartTime:  b.Interval.Start,
		EndTime:    b.Interval.End,
		Status:     string(b.Status),
		OccurredAt: uc.timeProvider.Now(),
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("CancelBooking: failed to publish %s for booking=%d: %v", eventType, b.ID, err)
	}
}
