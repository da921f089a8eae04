package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/internal/infra/events"
	locationRepo "github.com/m04kA/DDC-BookingService/internal/infra/storage/location"
	crmClient "github.com/m04kA/DDC-BookingService/internal/integrations/crmservice"
	"github.com/m04kA/DDC-BookingService/internal/service/billing"
	"github.com/m04kA/DDC-BookingService/internal/service/capacity"
	"github.com/m04kA/DDC-BookingService/pkg/ptr"
)

// UseCase use case для создания бронирования
// Вместимость проверяется и бронирование создается в одной
// сериализуемой транзакции: строка площадки блокируется первой и
// служит точкой сериализации конкурентных заявок на одну площадку.
type UseCase struct {
	bookingRepo  BookingRepository
	locationRepo LocationRepository
	capacity     CapacityService
	waitlist     WaitlistService
	billing      BillingService
	crmClient    CRMClient
	txManager    TransactionManager
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger

	openHour  int
	closeHour int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	locationRepo LocationRepository,
	capacitySvc CapacityService,
	waitlistSvc WaitlistService,
	billingSvc BillingService,
	crm CRMClient,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
	openHour, closeHour int,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		locationRepo: locationRepo,
		capacity:     capacitySvc,
		waitlist:     waitlistSvc,
		billing:      billingSvc,
		crmClient:    crm,
		txManager:    txManager,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		openHour:     openHour,
		closeHour:    closeHour,
	}
}

// Execute выполняет use case создания бронирования.
// Если площадка вмещает заявку - бронирование подтверждается и сразу
// выставляется счет. Если нет - бронирование встает в лист ожидания
// целиком; частичное размещение части питомцев не делается.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%d, location=%d, pets=%d, interval=%s - %s",
		req.ClientID, req.LocationID, len(req.PetIDs),
		req.StartTime.Format(domain.TimeFormat), req.EndTime.Format(domain.TimeFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	interval := domain.Interval{Start: req.StartTime, End: req.EndTime}

	// 2. Валидация интервала и операционных часов
	if err := validateInterval(interval, now, uc.openHour, uc.closeHour); err != nil {
		uc.logger.Warn("CreateBooking: interval validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем владение питомцами в CRM. Недоступность CRM не
	// блокирует бронирование - владение перепроверит персонал при заезде.
	if err := uc.crmClient.VerifyPetOwnership(ctx, req.ClientID, req.PetIDs); err != nil {
		switch {
		case errors.Is(err, crmClient.ErrClientNotFound):
			uc.logger.Warn("CreateBooking: client=%d not found in CRM", req.ClientID)
			return nil, ErrClientNotFound
		case errors.Is(err, crmClient.ErrPetNotOwned):
			uc.logger.Warn("CreateBooking: pet ownership check failed for client=%d: %v", req.ClientID, err)
			return nil, ErrPetNotOwned
		case errors.Is(err, crmClient.ErrServiceDegraded):
			uc.logger.Warn("CreateBooking: CRM degraded, skipping ownership check for client=%d", req.ClientID)
		default:
			uc.logger.Error("CreateBooking: CRM error for client=%d: %v", req.ClientID, err)
			return nil, fmt.Errorf("%w: crm error: %v", ErrInternal, err)
		}
	}

	var (
		result *domain.Booking
		entry  *domain.WaitlistEntry
		inv    *domain.Invoice
	)

	// 4. Проверка вместимости и создание в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		result, entry, inv = nil, nil, nil

		// 4.1. Блокируем строку площадки (FOR UPDATE)
		location, err := uc.locationRepo.GetByID(txCtx, req.LocationID)
		if err != nil {
			if errors.Is(err, locationRepo.ErrLocationNotFound) {
				return ErrLocationNotFound
			}
			return fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
		}

		// 4.2. Проверяем вместимость на всем интервале
		admitErr := uc.capacity.Admissible(txCtx, location, interval, len(req.PetIDs), nil)
		if admitErr != nil && !errors.Is(admitErr, capacity.ErrCapacityExceeded) {
			return fmt.Errorf("%w: capacity check: %v", ErrInternal, admitErr)
		}

		status := domain.StatusConfirmed
		if admitErr != nil {
			status = domain.StatusWaitlisted
		}

		// 4.3. Создаем бронирование
		booking, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			LocationID: req.LocationID,
			ClientID:   req.ClientID,
			PetIDs:     req.PetIDs,
			Interval:   interval,
			Status:     status,
			Notes:      req.Notes,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}
		result = booking

		// 4.4. Нет мест - в лист ожидания, без счета
		if status == domain.StatusWaitlisted {
			entry, err = uc.waitlist.Enqueue(txCtx, &domain.WaitlistEntry{
				LocationID: req.LocationID,
				ClientID:   req.ClientID,
				PetIDs:     req.PetIDs,
				Requested:  interval,
				BookingID:  ptr.Ptr(booking.ID),
				Notes:      req.Notes,
			})
			if err != nil {
				return fmt.Errorf("%w: failed to enqueue: %v", ErrInternal, err)
			}
			return nil
		}

		// 4.5. Подтверждено - выставляем счет
		inv, err = uc.billing.DraftInvoice(txCtx, booking, location, toBillingExtras(req.Extras), toBillingRedemption(req.Redemption), now)
		if err != nil {
			return err
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	eventType := events.TypeBookingConfirmed
	if result.Status == domain.StatusWaitlisted {
		eventType = events.TypeBookingWaitlisted
	}
	uc.publishEvent(ctx, eventType, result)

	uc.logger.Info("CreateBooking: booking id=%d created with status=%s", result.ID, result.Status)
	return toResponse(result, entry, inv), nil
}

func toBillingExtras(extras []ExtraCharge) []billing.ExtraCharge {
	if len(extras) == 0 {
		return nil
	}
	result := make([]billing.ExtraCharge, 0, len(extras))
	for _, e := range extras {
		result = append(result, billing.ExtraCharge{
			Description: e.Description,
			Quantity:    e.Quantity,
			UnitPrice:   e.UnitPrice,
		})
	}
	return result
}

func toBillingRedemption(r *Redemption) *billing.Redemption {
	if r == nil {
		return nil
	}
	return &billing.Redemption{PackageID: r.PackageID, Credits: r.Credits}
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
		uc.logger.Error("CreateBooking: failed to publish %s for booking=%d: %v", eventType, b.ID, err)
	}
}
