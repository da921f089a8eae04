package create_recurring_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/internal/infra/events"
	locationRepo "github.com/m04kA/DDC-BookingService/internal/infra/storage/location"
	crmClient "github.com/m04kA/DDC-BookingService/internal/integrations/crmservice"
	"github.com/m04kA/DDC-BookingService/internal/service/capacity"
	"github.com/m04kA/DDC-BookingService/pkg/ptr"
)

// UseCase use case для создания серии повторяющихся бронирований.
// Серия разворачивается в независимые бронирования: каждое вхождение
// проходит проверку вместимости в собственной сериализуемой
// транзакции, поэтому длинная серия не держит площадку заблокированной
// на все время размещения.
type UseCase struct {
	bookingRepo  BookingRepository
	seriesRepo   SeriesRepository
	locationRepo LocationRepository
	capacity     CapacityService
	waitlist     WaitlistService
	billing      BillingService
	crmClient    CRMClient
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
	crm CRMClient,
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
		crmClient:    crm,
		txManager:    txManager,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания серии
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateRecurringBooking: client=%d, location=%d, weekdays=%v, %s - %s",
		req.ClientID, req.LocationID, req.Weekdays,
		req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateRecurringBooking: validation failed: %v", err)
		return nil, err
	}

	series := &domain.RecurrenceSeries{
		LocationID:      req.LocationID,
		ClientID:        req.ClientID,
		PetIDs:          req.PetIDs,
		Weekdays:        req.Weekdays,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		DayStartMinutes: req.DayStartMinutes,
		DayEndMinutes:   req.DayEndMinutes,
		ExceptionDates:  req.ExceptionDates,
	}

	if !series.IsValid() {
		return nil, ErrInvalidSeries
	}

	// 2. Разворачиваем серию заранее: пустая серия - ошибка запроса
	occurrences := series.Occurrences()
	if len(occurrences) == 0 {
		return nil, ErrEmptySeries
	}

	// 3. Проверяем владение питомцами в CRM
	if err := uc.crmClient.VerifyPetOwnership(ctx, req.ClientID, req.PetIDs); err != nil {
		switch {
		case errors.Is(err, crmClient.ErrClientNotFound):
			return nil, ErrClientNotFound
		case errors.Is(err, crmClient.ErrPetNotOwned):
			return nil, ErrPetNotOwned
		case errors.Is(err, crmClient.ErrServiceDegraded):
			uc.logger.Warn("CreateRecurringBooking: CRM degraded, skipping ownership check for client=%d", req.ClientID)
		default:
			return nil, fmt.Errorf("%w: crm error: %v", ErrInternal, err)
		}
	}

	// 4. Создаем саму серию
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		created, err := uc.seriesRepo.Create(txCtx, series)
		if err != nil {
			return fmt.Errorf("%w: failed to create series: %v", ErrInternal, err)
		}
		series = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := &Response{
		SeriesID:    series.ID,
		Occurrences: make([]OccurrenceResult, 0, len(occurrences)),
		CreatedAt:   series.CreatedAt,
	}

	// 5. Размещаем вхождения по одному. Между вхождениями проверяем
	// отмену запроса: уже размещенные бронирования остаются.
	for _, interval := range occurrences {
		if ctx.Err() != nil {
			uc.logger.Warn("CreateRecurringBooking: context cancelled, series=%d placed %d of %d occurrences",
				series.ID, len(resp.Occurrences), len(occurrences))
			resp.Interrupted = true
			break
		}

		booking, inv, err := uc.placeOccurrence(ctx, series, interval)
		if err != nil {
			return nil, err
		}

		eventType := events.TypeBookingConfirmed
		if booking.Status == domain.StatusWaitlisted {
			eventType = events.TypeBookingWaitlisted
		}
		uc.publishEvent(ctx, eventType, booking)

		resp.Occurrences = append(resp.Occurrences, toOccurrenceResult(booking, inv))
	}

	uc.logger.Info("CreateRecurringBooking: series id=%d created with %d occurrences", series.ID, len(resp.Occurrences))
	return resp, nil
}

// placeOccurrence размещает одно вхождение серии в сериализуемой
// транзакции: подтверждение со счетом либо лист ожидания
func (uc *UseCase) placeOccurrence(ctx context.Context, series *domain.RecurrenceSeries, interval domain.Interval) (*domain.Booking, *domain.Invoice, error) {
	now := uc.timeProvider.Now()

	var (
		result *domain.Booking
		inv    *domain.Invoice
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		result, inv = nil, nil

		location, err := uc.locationRepo.GetByID(txCtx, series.LocationID)
		if err != nil {
			if errors.Is(err, locationRepo.ErrLocationNotFound) {
				return ErrLocationNotFound
			}
			return fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
		}

		admitErr := uc.capacity.Admissible(txCtx, location, interval, len(series.PetIDs), nil)
		if admitErr != nil && !errors.Is(admitErr, capacity.ErrCapacityExceeded) {
			return fmt.Errorf("%w: capacity check: %v", ErrInternal, admitErr)
		}

		status := domain.StatusConfirmed
		if admitErr != nil {
			status = domain.StatusWaitlisted
		}

		booking, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			LocationID: series.LocationID,
			ClientID:   series.ClientID,
			PetIDs:     series.PetIDs,
			Interval:   interval,
			Status:     status,
			SeriesID:   &series.ID,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}
		result = booking

		if status == domain.StatusWaitlisted {
			_, err = uc.waitlist.Enqueue(txCtx, &domain.WaitlistEntry{
				LocationID: series.LocationID,
				ClientID:   series.ClientID,
				PetIDs:     series.PetIDs,
				Requested:  interval,
				BookingID:  ptr.Ptr(booking.ID),
			})
			if err != nil {
				return fmt.Errorf("%w: failed to enqueue: %v", ErrInternal, err)
			}
			return nil
		}

		inv, err = uc.billing.DraftInvoice(txCtx, booking, location, nil, nil, now)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return result, inv, nil
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
		uc.logger.Error("CreateRecurringBooking: failed to publish %s for booking=%d: %v", eventType, b.ID, err)
	}
}
