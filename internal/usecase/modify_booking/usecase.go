package modify_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/internal/infra/events"
	bookingRepo "github.com/m04kA/DDC-BookingService/internal/infra/storage/booking"
	locationRepo "github.com/m04kA/DDC-BookingService/internal/infra/storage/location"
	"github.com/m04kA/DDC-BookingService/internal/service/capacity"
	"github.com/m04kA/DDC-BookingService/pkg/ptr"
)

// UseCase use case для изменения бронирования.
// Проверка идет как атомарный возврат-и-перезаход: вместимость
// считается без изменяемого бронирования, и если новые параметры не
// помещаются, транзакция откатывается и исходное бронирование остается
// нетронутым. Непоместившееся изменение не ставится в лист ожидания.
type UseCase struct {
	bookingRepo  BookingRepository
	seriesRepo   SeriesRepository
	locationRepo LocationRepository
	capacity     CapacityService
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
	seriesRepo SeriesRepository,
	locationRepo LocationRepository,
	capacitySvc CapacityService,
	waitlistSvc WaitlistService,
	billingSvc BillingService,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		seriesRepo:   seriesRepo,
		locationRepo: locationRepo,
		capacity:     capacitySvc,
		waitlist:     waitlistSvc,
		billing:      billingSvc,
		txManager:    txManager,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case изменения бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ModifyBooking: booking=%d, client=%d", req.BookingID, req.ClientID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ModifyBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var (
		result      *domain.Booking
		detached    bool
		inv         *domain.Invoice
		changed     bool
		oldInterval domain.Interval
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		result, inv = nil, nil
		detached, changed = false, false

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

		// Записи листа ожидания меняются через снятие и новую заявку,
		// иначе изменение обошло бы FIFO-порядок очереди
		if booking.Status == domain.StatusWaitlisted || !booking.CanBeModified() {
			return ErrCannotModify
		}

		// 2. Блокируем строку площадки
		location, err := uc.locationRepo.GetByID(txCtx, booking.LocationID)
		if err != nil {
			if errors.Is(err, locationRepo.ErrLocationNotFound) {
				return ErrLocationNotFound
			}
			return fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
		}

		oldInterval = booking.Interval

		newInterval := booking.Interval
		if req.StartTime != nil {
			newInterval.Start = *req.StartTime
		}
		if req.EndTime != nil {
			newInterval.End = *req.EndTime
		}
		if !newInterval.IsValid() {
			return ErrInvalidInterval
		}

		newPets := booking.PetIDs
		if req.PetIDs != nil {
			newPets = req.PetIDs
		}

		intervalChanged := !newInterval.Start.Equal(oldInterval.Start) || !newInterval.End.Equal(oldInterval.End)
		petsChanged := req.PetIDs != nil && !samePets(booking.PetIDs, newPets)

		if !intervalChanged && !petsChanged {
			result = booking
			return nil
		}
		changed = true

		// 3. Перезаход: проверяем вместимость без самого бронирования
		admitErr := uc.capacity.Admissible(txCtx, location, newInterval, len(newPets), ptr.Ptr(booking.ID))
		if admitErr != nil {
			if errors.Is(admitErr, capacity.ErrCapacityExceeded) {
				uc.logger.Info("ModifyBooking: booking=%d modification does not fit, original kept", booking.ID)
				return ErrCapacityExceeded
			}
			return fmt.Errorf("%w: capacity check: %v", ErrInternal, admitErr)
		}

		// 4. Применяем изменения
		if intervalChanged {
			if err := uc.bookingRepo.UpdateInterval(txCtx, booking.ID, newInterval); err != nil {
				return fmt.Errorf("%w: failed to update interval: %v", ErrInternal, err)
			}
			booking.Interval = newInterval
		}
		if petsChanged {
			if err := uc.bookingRepo.ReplacePets(txCtx, booking.ID, newPets); err != nil {
				return fmt.Errorf("%w: failed to replace pets: %v", ErrInternal, err)
			}
			booking.PetIDs = newPets
		}

		// 5. Измененное вхождение серии открепляется, дата в серии
		// помечается исключением - серия не пересоздаст его заново
		if booking.SeriesID != nil && intervalChanged {
			seriesID := *booking.SeriesID
			if err := uc.bookingRepo.DetachFromSeries(txCtx, booking.ID); err != nil {
				return fmt.Errorf("%w: failed to detach from series: %v", ErrInternal, err)
			}
			if err := uc.seriesRepo.AddException(txCtx, seriesID, oldInterval.Start); err != nil {
				return fmt.Errorf("%w: failed to add series exception: %v", ErrInternal, err)
			}
			booking.SeriesID = nil
			detached = true
		}

		// 6. Перевыставляем счет: старый сторнируется, кредиты
		// возвращаются, новый выставляется по новым параметрам
		if booking.IsActive() {
			if _, err := uc.billing.CancelForBooking(txCtx, booking.ID); err != nil {
				return err
			}
			inv, err = uc.billing.DraftInvoice(txCtx, booking, location, nil, nil, now)
			if err != nil {
				return err
			}
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 7. Сжатие могло освободить вместимость на старом интервале -
	// поднимаем очередь отдельной транзакцией после фиксации изменения
	var promoted []*domain.Booking
	if changed {
		promoted = uc.promoteWaitlist(ctx, result.LocationID, oldInterval)
	}

	uc.publishEvent(ctx, events.TypeBookingModified, result)
	for _, b := range promoted {
		uc.publishEvent(ctx, events.TypeBookingPromoted, b)
	}

	uc.logger.Info("ModifyBooking: booking id=%d modified, %d waitlist entries promoted", result.ID, len(promoted))
	return toResponse(result, detached, inv), nil
}

// promoteWaitlist поднимает очередь на интервал, который изменение могло
// освободить. Изменение уже зафиксировано, сбой поднятия только логируется
func (uc *UseCase) promoteWaitlist(ctx context.Context, locationID int64, freed domain.Interval) []*domain.Booking {
	var promoted []*domain.Booking
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		promoted = nil

		location, err := uc.locationRepo.GetByID(txCtx, locationID)
		if err != nil {
			return fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
		}

		promoted, err = uc.waitlist.PromoteCandidates(txCtx, location, freed)
		if err != nil {
			return fmt.Errorf("%w: failed to promote waitlist: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("ModifyBooking: modification committed but waitlist promotion failed: %v", err)
		return nil
	}
	return promoted
}

func samePets(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[int64]bool, len(a))
	for _, id := range a {
		set[id] = true
	}
	for _, id := range b {
		if !set[id] {
			return false
		}
	}
	return true
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
		uc.logger.Error("ModifyBooking: failed to publish %s for booking=%d: %v", eventType, b.ID, err)
	}
}
