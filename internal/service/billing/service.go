package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/internal/infra/events"
	invoiceRepo "github.com/m04kA/DDC-BookingService/internal/infra/storage/invoice"
	"github.com/m04kA/DDC-BookingService/pkg/money"
)

// Методы оплаты
const (
	MethodCard    = "card"
	MethodCash    = "cash"
	MethodDeposit = "deposit"
)

// Service сервис биллинга. Все суммы - целые центы, счет - append-only
// журнал: строки и платежи никогда не редактируются и не удаляются,
// исправления только добавлением строк сторно.
type Service struct {
	invoiceRepo InvoiceRepository
	packages    PackageService
	publisher   EventPublisher
	logger      Logger

	gstRatePercent   int64
	depositPercent   int64
	allowOverpayment bool
}

// NewService создает новый экземпляр сервиса биллинга
func NewService(
	invoiceRepo InvoiceRepository,
	packages PackageService,
	publisher EventPublisher,
	logger Logger,
	gstRatePercent int64,
	depositPercent int64,
	allowOverpayment bool,
) *Service {
	return &Service{
		invoiceRepo:      invoiceRepo,
		packages:         packages,
		publisher:        publisher,
		logger:           logger,
		gstRatePercent:   gstRatePercent,
		depositPercent:   depositPercent,
		allowOverpayment: allowOverpayment,
	}
}

// DraftInvoice выставляет счет за бронирование: посуточные строки за
// каждого питомца, скидка на второго и последующих, дополнительные
// услуги, списание кредитов пакета. GST начисляется на облагаемую
// часть после применения кредитов.
// Вызывается внутри транзакции подтверждения бронирования.
func (s *Service) DraftInvoice(ctx context.Context, booking *domain.Booking, location *domain.Location, extras []ExtraCharge, redemption *Redemption, now time.Time) (*domain.Invoice, error) {
	days := booking.Interval.Days()
	pets := int64(booking.PetCount())
	if days <= 0 || pets <= 0 {
		return nil, fmt.Errorf("%w: booking has no billable days or pets", ErrInvalidInput)
	}

	gstable := location.GSTRegistered
	lines := make([]domain.LineItem, 0, 4)

	lines = append(lines, domain.LineItem{
		Kind:          domain.LineCharge,
		Description:   "Daycare, first pet",
		Quantity:      days,
		UnitPrice:     location.BaseRateCents,
		Total:         location.BaseRateCents.Mul(days),
		GSTApplicable: gstable,
	})

	if pets > 1 {
		discounted := location.BaseRateCents - money.PercentHalfUp(location.BaseRateCents, location.SecondPetDiscountPct)
		qty := days * (pets - 1)
		lines = append(lines, domain.LineItem{
			Kind:          domain.LineCharge,
			Description:   "Daycare, additional pets",
			Quantity:      qty,
			UnitPrice:     discounted,
			Total:         discounted.Mul(qty),
			GSTApplicable: gstable,
		})
	}

	for _, extra := range extras {
		if extra.Quantity <= 0 || extra.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: invalid extra charge %q", ErrInvalidInput, extra.Description)
		}
		lines = append(lines, domain.LineItem{
			Kind:          domain.LineCharge,
			Description:   extra.Description,
			Quantity:      extra.Quantity,
			UnitPrice:     extra.UnitPrice,
			Total:         extra.UnitPrice.Mul(extra.Quantity),
			GSTApplicable: gstable,
		})
	}

	var subtotal money.Cents
	for _, li := range lines {
		subtotal += li.Total
	}

	// Кредиты применяются по зафиксированной стоимости кредита и не
	// могут увести счет в минус - лишние кредиты остаются на пакете
	var creditsApplied int64
	if redemption != nil && redemption.Credits > 0 {
		pkg, err := s.packages.Get(ctx, redemption.PackageID, booking.ClientID)
		if err != nil {
			return nil, err
		}

		creditsApplied = redemption.Credits
		if pkg.CreditValueCents > 0 {
			if maxCredits := int64(subtotal / pkg.CreditValueCents); creditsApplied > maxCredits {
				creditsApplied = maxCredits
			}
		}

		if creditsApplied > 0 {
			lines = append(lines, domain.LineItem{
				Kind:          domain.LineCredit,
				Description:   fmt.Sprintf("Package credits (package %d)", pkg.ID),
				Quantity:      creditsApplied,
				UnitPrice:     pkg.CreditValueCents.Neg(),
				Total:         pkg.CreditValueCents.Neg().Mul(creditsApplied),
				GSTApplicable: gstable,
			})
		}
	}

	number, err := s.invoiceRepo.NextNumber(ctx, now.Year())
	if err != nil {
		s.logger.Error("DraftInvoice: failed to allocate number for booking=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: DraftInvoice - allocate number: %v", ErrInternal, err)
	}

	inv := &domain.Invoice{
		BookingID: booking.ID,
		ClientID:  booking.ClientID,
		Number:    number,
		Status:    domain.InvoiceIssued,
		LineItems: lines,
		IssueDate: now,
		DueDate:   now.AddDate(0, 0, domain.InvoiceDueDays),
	}
	inv.GST = inv.ComputeGST(s.gstRatePercent)
	inv.Deposit = money.PercentHalfUp(inv.Total(), s.depositPercent)

	created, err := s.invoiceRepo.Create(ctx, inv)
	if err != nil {
		s.logger.Error("DraftInvoice: failed to create invoice for booking=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: DraftInvoice - create invoice: %v", ErrInternal, err)
	}

	// Срок действия пакета проверяется на дату начала бронирования:
	// пакет, истекающий до заезда, оплатить этот заезд не может
	if creditsApplied > 0 {
		if _, err := s.packages.Redeem(ctx, redemption.PackageID, booking.ClientID, creditsApplied, created.ID, booking.Interval.Start); err != nil {
			return nil, err
		}
	}

	s.logger.Info("DraftInvoice: invoice %s issued for booking=%d, total=%s, deposit=%s", created.Number, booking.ID, created.Total(), created.Deposit)
	return created, nil
}

// GetByID получает счет клиента с проверкой владения
func (s *Service) GetByID(ctx context.Context, id int64, clientID int64) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, invoiceRepo.ErrInvoiceNotFound) {
			return nil, ErrInvoiceNotFound
		}
		s.logger.Error("GetByID: repository error for invoice=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if inv.ClientID != clientID {
		s.logger.Warn("GetByID: access denied for client=%d to invoice=%d", clientID, id)
		return nil, ErrAccessDenied
	}

	return inv, nil
}

// GetByBooking получает счет бронирования
func (s *Service) GetByBooking(ctx context.Context, bookingID int64) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, invoiceRepo.ErrInvoiceNotFound) {
			return nil, ErrInvoiceNotFound
		}
		s.logger.Error("GetByBooking: repository error for booking=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetByBooking - repository error: %v", ErrInternal, err)
	}
	return inv, nil
}

// ListByClient возвращает счета клиента
func (s *Service) ListByClient(ctx context.Context, clientID int64) ([]*domain.Invoice, error) {
	invoices, err := s.invoiceRepo.GetByClient(ctx, clientID)
	if err != nil {
		s.logger.Error("ListByClient: repository error for client=%d: %v", clientID, err)
		return nil, fmt.Errorf("%w: ListByClient - repository error: %v", ErrInternal, err)
	}
	return invoices, nil
}

// RecordPayment регистрирует платеж по счету и пересчитывает статус.
// Переплата отклоняется, если не разрешена конфигурацией.
// Вызывается внутри транзакции.
func (s *Service) RecordPayment(ctx context.Context, invoiceID int64, amount money.Cents, method string, reference *string, now time.Time) (*domain.Invoice, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrInvalidInput)
	}
	if method == "" {
		return nil, fmt.Errorf("%w: payment method is required", ErrInvalidInput)
	}

	inv, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, invoiceRepo.ErrInvoiceNotFound) {
			return nil, ErrInvoiceNotFound
		}
		s.logger.Error("RecordPayment: repository error for invoice=%d: %v", invoiceID, err)
		return nil, fmt.Errorf("%w: RecordPayment - repository error: %v", ErrInternal, err)
	}

	if inv.Status == domain.InvoiceCancelled {
		return nil, ErrInvoiceCancelled
	}

	if !s.allowOverpayment && amount > inv.Balance() {
		s.logger.Info("RecordPayment: payment %s exceeds balance %s of invoice=%d", amount, inv.Balance(), invoiceID)
		return nil, ErrOverpayment
	}

	payment, err := s.invoiceRepo.AddPayment(ctx, &domain.Payment{
		InvoiceID: invoiceID,
		Amount:    amount,
		Method:    method,
		Reference: reference,
		PaidAt:    now,
	})
	if err != nil {
		s.logger.Error("RecordPayment: failed to add payment to invoice=%d: %v", invoiceID, err)
		return nil, fmt.Errorf("%w: RecordPayment - add payment: %v", ErrInternal, err)
	}

	inv.Payments = append(inv.Payments, *payment)

	if next := inv.PaymentStatus(); next != inv.Status {
		if err := s.invoiceRepo.UpdateStatus(ctx, invoiceID, next); err != nil {
			s.logger.Error("RecordPayment: failed to update status of invoice=%d: %v", invoiceID, err)
			return nil, fmt.Errorf("%w: RecordPayment - update status: %v", ErrInternal, err)
		}
		inv.Status = next
	}

	if inv.Status == domain.InvoicePaid {
		event := events.InvoiceEvent{
			Type:       events.TypeInvoicePaid,
			InvoiceID:  inv.ID,
			BookingID:  inv.BookingID,
			ClientID:   inv.ClientID,
			Number:     inv.Number,
			Status:     string(inv.Status),
			TotalCents: int64(inv.Total()),
			OccurredAt: now,
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("RecordPayment: failed to publish %s for invoice=%d: %v", events.TypeInvoicePaid, inv.ID, err)
		}
	}

	s.logger.Info("RecordPayment: %s %s recorded against invoice=%d, status=%s", method, amount, invoiceID, inv.Status)
	return inv, nil
}

// CancelInvoice отменяет счет: добавляет строки сторно, обнуляющие
// сумму, возвращает кредиты на пакеты и помечает полученные платежи
// подлежащими возврату. Существующие строки не трогаются.
// Вызывается внутри транзакции отмены бронирования.
func (s *Service) CancelInvoice(ctx context.Context, invoiceID int64) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, invoiceRepo.ErrInvoiceNotFound) {
			return nil, ErrInvoiceNotFound
		}
		s.logger.Error("CancelInvoice: repository error for invoice=%d: %v", invoiceID, err)
		return nil, fmt.Errorf("%w: CancelInvoice - repository error: %v", ErrInternal, err)
	}

	if inv.Status == domain.InvoiceCancelled {
		return nil, ErrInvoiceCancelled
	}

	reversals := make([]domain.LineItem, 0, 2)
	if base := inv.GSTBase(); base != 0 {
		reversals = append(reversals, domain.LineItem{
			Kind:          domain.LineReversal,
			Description:   "Cancellation reversal",
			Quantity:      1,
			UnitPrice:     base.Neg(),
			Total:         base.Neg(),
			GSTApplicable: true,
		})
	}
	if rest := inv.Subtotal() - inv.GSTBase(); rest != 0 {
		reversals = append(reversals, domain.LineItem{
			Kind:          domain.LineReversal,
			Description:   "Cancellation reversal (GST free)",
			Quantity:      1,
			UnitPrice:     rest.Neg(),
			Total:         rest.Neg(),
			GSTApplicable: false,
		})
	}

	if len(reversals) > 0 {
		created, err := s.invoiceRepo.AddLineItems(ctx, invoiceID, reversals)
		if err != nil {
			s.logger.Error("CancelInvoice: failed to add reversal lines to invoice=%d: %v", invoiceID, err)
			return nil, fmt.Errorf("%w: CancelInvoice - add reversals: %v", ErrInternal, err)
		}
		inv.LineItems = append(inv.LineItems, created...)
	}

	inv.GST = inv.ComputeGST(s.gstRatePercent)
	if err := s.invoiceRepo.SetGST(ctx, invoiceID, inv.GST); err != nil {
		s.logger.Error("CancelInvoice: failed to update GST of invoice=%d: %v", invoiceID, err)
		return nil, fmt.Errorf("%w: CancelInvoice - update GST: %v", ErrInternal, err)
	}

	if _, err := s.packages.ReverseForInvoice(ctx, invoiceID); err != nil {
		return nil, err
	}

	if inv.TotalPaid() > 0 {
		if err := s.invoiceRepo.FlagPaymentsRefundDue(ctx, invoiceID); err != nil {
			s.logger.Error("CancelInvoice: failed to flag refunds for invoice=%d: %v", invoiceID, err)
			return nil, fmt.Errorf("%w: CancelInvoice - flag refunds: %v", ErrInternal, err)
		}
		for i := range inv.Payments {
			inv.Payments[i].RefundDue = true
		}
	}

	if err := s.invoiceRepo.UpdateStatus(ctx, invoiceID, domain.InvoiceCancelled); err != nil {
		s.logger.Error("CancelInvoice: failed to update status of invoice=%d: %v", invoiceID, err)
		return nil, fmt.Errorf("%w: CancelInvoice - update status: %v", ErrInternal, err)
	}
	inv.Status = domain.InvoiceCancelled

	s.logger.Info("CancelInvoice: invoice %s cancelled, refund_due=%v", inv.Number, inv.TotalPaid() > 0)
	return inv, nil
}

// CancelForBooking отменяет счет бронирования, если он есть.
// Отсутствие счета не ошибка - ожидающие и листы ожидания счетов
// не имеют.
func (s *Service) CancelForBooking(ctx context.Context, bookingID int64) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, invoiceRepo.ErrInvoiceNotFound) {
			return nil, nil
		}
		s.logger.Error("CancelForBooking: repository error for booking=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: CancelForBooking - repository error: %v", ErrInternal, err)
	}

	if inv.Status == domain.InvoiceCancelled {
		return inv, nil
	}

	return s.CancelInvoice(ctx, inv.ID)
}
