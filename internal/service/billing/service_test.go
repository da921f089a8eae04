package billing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/internal/infra/events"
	invoiceRepo "github.com/m04kA/DDC-BookingService/internal/infra/storage/invoice"
	"github.com/m04kA/DDC-BookingService/internal/service/packages"
	"github.com/m04kA/DDC-BookingService/pkg/money"
)

// Mock структуры

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) NextNumber(ctx context.Context, year int) (string, error) {
	args := m.Called(ctx, year)
	return args.String(0), args.Error(1)
}

// Create возвращает копию переданного счета с присвоенным ID,
// как это делает настоящий репозиторий
func (m *MockInvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	args := m.Called(ctx, inv)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	created := *inv
	created.ID = args.Get(0).(int64)
	return &created, nil
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Invoice, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) GetByClient(ctx context.Context, clientID int64) ([]*domain.Invoice, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) AddLineItems(ctx context.Context, invoiceID int64, items []domain.LineItem) ([]domain.LineItem, error) {
	args := m.Called(ctx, invoiceID, items)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return items, nil
}

func (m *MockInvoiceRepository) AddPayment(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	args := m.Called(ctx, p)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	created := *p
	created.ID = args.Get(0).(int64)
	return &created, nil
}

func (m *MockInvoiceRepository) UpdateStatus(ctx context.Context, id int64, status domain.InvoiceStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SetGST(ctx context.Context, id int64, gst money.Cents) error {
	args := m.Called(ctx, id, gst)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FlagPaymentsRefundDue(ctx context.Context, invoiceID int64) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

type MockPackageService struct {
	mock.Mock
}

func (m *MockPackageService) Get(ctx context.Context, packageID, clientID int64) (*domain.ClientPackage, error) {
	args := m.Called(ctx, packageID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClientPackage), args.Error(1)
}

func (m *MockPackageService) Redeem(ctx context.Context, packageID, clientID, credits, invoiceID int64, at time.Time) (*domain.ClientPackage, error) {
	args := m.Called(ctx, packageID, clientID, credits, invoiceID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClientPackage), args.Error(1)
}

func (m *MockPackageService) ReverseForInvoice(ctx context.Context, invoiceID int64) (int64, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).(int64), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, payload any) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newTestService(repo *MockInvoiceRepository, pkgs *MockPackageService, pub *MockEventPublisher) *Service {
	return NewService(repo, pkgs, pub, nopLogger{}, 10, 20, false)
}

func testBooking(pets int, days int64) *domain.Booking {
	petIDs := make([]int64, pets)
	for i := range petIDs {
		petIDs[i] = int64(i + 1)
	}
	start := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:       7,
		ClientID: 3,
		PetIDs:   petIDs,
		Interval: domain.Interval{Start: start, End: start.Add(time.Duration(days) * 24 * time.Hour)},
		Status:   domain.StatusConfirmed,
	}
}

func testLocation() *domain.Location {
	return &domain.Location{
		ID:                   1,
		Capacity:             10,
		BaseRateCents:        money.Cents(6000),
		SecondPetDiscountPct: 20,
		GSTRegistered:        true,
	}
}

func TestDraftInvoiceSinglePet(t *testing.T) {
	repo := new(MockInvoiceRepository)
	pkgs := new(MockPackageService)
	pub := new(MockEventPublisher)
	service := newTestService(repo, pkgs, pub)

	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	repo.On("NextNumber", mock.Anything, 2026).Return("INV-2026-00001", nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(int64(11), nil)

	inv, err := service.DraftInvoice(context.Background(), testBooking(1, 1), testLocation(), nil, nil, now)

	require.NoError(t, err)
	require.Len(t, inv.LineItems, 1)
	assert.Equal(t, money.Cents(6000), inv.Subtotal())
	assert.Equal(t, money.Cents(600), inv.GST)
	assert.Equal(t, money.Cents(6600), inv.Total())
	assert.Equal(t, money.Cents(1320), inv.Deposit)
	assert.Equal(t, "INV-2026-00001", inv.Number)
	assert.Equal(t, domain.InvoiceIssued, inv.Status)
	assert.Equal(t, now.AddDate(0, 0, domain.InvoiceDueDays), inv.DueDate)
	repo.AssertExpectations(t)
}

func TestDraftInvoiceSecondPetDiscount(t *testing.T) {
	repo := new(MockInvoiceRepository)
	service := newTestService(repo, new(MockPackageService), new(MockEventPublisher))

	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	repo.On("NextNumber", mock.Anything, 2026).Return("INV-2026-00002", nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(int64(12), nil)

	// 2 дня, 2 питомца: первый 2 x 6000, второй со скидкой 20% 2 x 4800
	inv, err := service.DraftInvoice(context.Background(), testBooking(2, 2), testLocation(), nil, nil, now)

	require.NoError(t, err)
	require.Len(t, inv.LineItems, 2)
	assert.Equal(t, money.Cents(12000), inv.LineItems[0].Total)
	assert.Equal(t, money.Cents(4800), inv.LineItems[1].UnitPrice)
	assert.Equal(t, money.Cents(9600), inv.LineItems[1].Total)
	assert.Equal(t, money.Cents(21600), inv.Subtotal())
	assert.Equal(t, money.Cents(2160), inv.GST)
}

func TestDraftInvoiceCreditsReduceGSTBase(t *testing.T) {
	repo := new(MockInvoiceRepository)
	pkgs := new(MockPackageService)
	service := newTestService(repo, pkgs, new(MockEventPublisher))

	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	booking := testBooking(1, 1)
	pkgs.On("Get", mock.Anything, int64(5), int64(3)).Return(&domain.ClientPackage{
		ID:               5,
		ClientID:         3,
		RemainingCredits: 4,
		CreditValueCents: money.Cents(1000),
		ExpiryDate:       now.AddDate(1, 0, 0),
	}, nil)
	repo.On("NextNumber", mock.Anything, 2026).Return("INV-2026-00003", nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(int64(13), nil)
	pkgs.On("Redeem", mock.Anything, int64(5), int64(3), int64(3), int64(13), booking.Interval.Start).Return(&domain.ClientPackage{}, nil)

	// 60.00 за день минус 3 кредита по 10.00: GST считается с 30.00
	inv, err := service.DraftInvoice(context.Background(), booking, testLocation(), nil, &Redemption{PackageID: 5, Credits: 3}, now)

	require.NoError(t, err)
	require.Len(t, inv.LineItems, 2)
	assert.Equal(t, money.Cents(-3000), inv.LineItems[1].Total)
	assert.Equal(t, money.Cents(3000), inv.Subtotal())
	assert.Equal(t, money.Cents(300), inv.GST)
	assert.Equal(t, money.Cents(3300), inv.Total())
	pkgs.AssertExpectations(t)
}

func TestDraftInvoiceCreditsCappedAtSubtotal(t *testing.T) {
	repo := new(MockInvoiceRepository)
	pkgs := new(MockPackageService)
	service := newTestService(repo, pkgs, new(MockEventPublisher))

	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	booking := testBooking(1, 1)
	pkgs.On("Get", mock.Anything, int64(5), int64(3)).Return(&domain.ClientPackage{
		ID:               5,
		ClientID:         3,
		RemainingCredits: 10,
		CreditValueCents: money.Cents(1000),
		ExpiryDate:       now.AddDate(1, 0, 0),
	}, nil)
	repo.On("NextNumber", mock.Anything, 2026).Return("INV-2026-00004", nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(int64(14), nil)
	pkgs.On("Redeem", mock.Anything, int64(5), int64(3), int64(6), int64(14), booking.Interval.Start).Return(&domain.ClientPackage{}, nil)

	// Запрошено 10 кредитов, но счет на 60.00 вмещает только 6
	inv, err := service.DraftInvoice(context.Background(), booking, testLocation(), nil, &Redemption{PackageID: 5, Credits: 10}, now)

	require.NoError(t, err)
	assert.Equal(t, money.Cents(0), inv.Subtotal())
	assert.Equal(t, money.Cents(0), inv.GST)
	pkgs.AssertExpectations(t)
}

func TestDraftInvoicePackageExpiredBeforeBookingStart(t *testing.T) {
	repo := new(MockInvoiceRepository)
	pkgs := new(MockPackageService)
	service := newTestService(repo, pkgs, new(MockEventPublisher))

	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	booking := testBooking(1, 1)
	booking.Interval.Start = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	booking.Interval.End = booking.Interval.Start.Add(8 * time.Hour)

	// Пакет еще действует на дату выставления счета, но истекает до заезда
	pkgs.On("Get", mock.Anything, int64(5), int64(3)).Return(&domain.ClientPackage{
		ID:               5,
		ClientID:         3,
		RemainingCredits: 4,
		CreditValueCents: money.Cents(1000),
		ExpiryDate:       time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
	}, nil)
	repo.On("NextNumber", mock.Anything, 2026).Return("INV-2026-00006", nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(int64(16), nil)
	pkgs.On("Redeem", mock.Anything, int64(5), int64(3), int64(3), int64(16), booking.Interval.Start).
		Return(nil, packages.ErrPackageExpired)

	_, err := service.DraftInvoice(context.Background(), booking, testLocation(), nil, &Redemption{PackageID: 5, Credits: 3}, now)

	require.Error(t, err)
	assert.ErrorIs(t, err, packages.ErrPackageExpired)
	pkgs.AssertExpectations(t)
}

func TestDraftInvoiceExtras(t *testing.T) {
	repo := new(MockInvoiceRepository)
	service := newTestService(repo, new(MockPackageService), new(MockEventPublisher))

	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	repo.On("NextNumber", mock.Anything, 2026).Return("INV-2026-00005", nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(int64(15), nil)

	extras := []ExtraCharge{{Description: "Grooming", Quantity: 2, UnitPrice: money.Cents(1500)}}
	inv, err := service.DraftInvoice(context.Background(), testBooking(1, 1), testLocation(), extras, nil, now)

	require.NoError(t, err)
	require.Len(t, inv.LineItems, 2)
	assert.Equal(t, money.Cents(9000), inv.Subtotal())
}

func TestRecordPaymentRejectsOverpayment(t *testing.T) {
	repo := new(MockInvoiceRepository)
	service := newTestService(repo, new(MockPackageService), new(MockEventPublisher))

	repo.On("GetByID", mock.Anything, int64(11)).Return(&domain.Invoice{
		ID:        11,
		Status:    domain.InvoiceIssued,
		LineItems: []domain.LineItem{{Total: money.Cents(3000), GSTApplicable: true}},
		GST:       money.Cents(300),
	}, nil)

	_, err := service.RecordPayment(context.Background(), 11, money.Cents(4000), MethodCard, nil, time.Now())

	assert.ErrorIs(t, err, ErrOverpayment)
	repo.AssertNotCalled(t, "AddPayment", mock.Anything, mock.Anything)
}

func TestRecordPaymentFullPaymentPublishesEvent(t *testing.T) {
	repo := new(MockInvoiceRepository)
	pub := new(MockEventPublisher)
	service := newTestService(repo, new(MockPackageService), pub)

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	repo.On("GetByID", mock.Anything, int64(11)).Return(&domain.Invoice{
		ID:        11,
		BookingID: 7,
		ClientID:  3,
		Number:    "INV-2026-00001",
		Status:    domain.InvoiceIssued,
		LineItems: []domain.LineItem{{Total: money.Cents(3000), GSTApplicable: true}},
		GST:       money.Cents(300),
	}, nil)
	repo.On("AddPayment", mock.Anything, mock.Anything).Return(int64(21), nil)
	repo.On("UpdateStatus", mock.Anything, int64(11), domain.InvoicePaid).Return(nil)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(payload any) bool {
		event, ok := payload.(events.InvoiceEvent)
		return ok && event.Type == events.TypeInvoicePaid && event.InvoiceID == 11 && event.TotalCents == 3300
	})).Return(nil)

	inv, err := service.RecordPayment(context.Background(), 11, money.Cents(3300), MethodCard, nil, now)

	require.NoError(t, err)
	assert.Equal(t, domain.InvoicePaid, inv.Status)
	assert.Equal(t, money.Cents(0), inv.Balance())
	pub.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestRecordPaymentPartialPayment(t *testing.T) {
	repo := new(MockInvoiceRepository)
	pub := new(MockEventPublisher)
	service := newTestService(repo, new(MockPackageService), pub)

	repo.On("GetByID", mock.Anything, int64(11)).Return(&domain.Invoice{
		ID:        11,
		Status:    domain.InvoiceIssued,
		LineItems: []domain.LineItem{{Total: money.Cents(3000), GSTApplicable: true}},
		GST:       money.Cents(300),
	}, nil)
	repo.On("AddPayment", mock.Anything, mock.Anything).Return(int64(22), nil)
	repo.On("UpdateStatus", mock.Anything, int64(11), domain.InvoicePartiallyPaid).Return(nil)

	inv, err := service.RecordPayment(context.Background(), 11, money.Cents(1000), MethodDeposit, nil, time.Now())

	require.NoError(t, err)
	assert.Equal(t, domain.InvoicePartiallyPaid, inv.Status)
	assert.Equal(t, money.Cents(2300), inv.Balance())
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestRecordPaymentCancelledInvoice(t *testing.T) {
	repo := new(MockInvoiceRepository)
	service := newTestService(repo, new(MockPackageService), new(MockEventPublisher))

	repo.On("GetByID", mock.Anything, int64(11)).Return(&domain.Invoice{
		ID:     11,
		Status: domain.InvoiceCancelled,
	}, nil)

	_, err := service.RecordPayment(context.Background(), 11, money.Cents(100), MethodCash, nil, time.Now())

	assert.ErrorIs(t, err, ErrInvoiceCancelled)
}

func TestCancelInvoiceReversesLinesCreditsAndPayments(t *testing.T) {
	repo := new(MockInvoiceRepository)
	pkgs := new(MockPackageService)
	service := newTestService(repo, pkgs, new(MockEventPublisher))

	repo.On("GetByID", mock.Anything, int64(11)).Return(&domain.Invoice{
		ID:       11,
		ClientID: 3,
		Number:   "INV-2026-00001",
		Status:   domain.InvoicePaid,
		LineItems: []domain.LineItem{
			{Kind: domain.LineCharge, Total: money.Cents(6000), GSTApplicable: true},
			{Kind: domain.LineCredit, Total: money.Cents(-3000), GSTApplicable: true},
		},
		GST:      money.Cents(300),
		Payments: []domain.Payment{{ID: 21, Amount: money.Cents(3300)}},
	}, nil)
	repo.On("AddLineItems", mock.Anything, int64(11), mock.MatchedBy(func(items []domain.LineItem) bool {
		return len(items) == 1 && items[0].Kind == domain.LineReversal && items[0].Total == money.Cents(-3000)
	})).Return(nil, nil)
	repo.On("SetGST", mock.Anything, int64(11), money.Cents(0)).Return(nil)
	pkgs.On("ReverseForInvoice", mock.Anything, int64(11)).Return(int64(3), nil)
	repo.On("FlagPaymentsRefundDue", mock.Anything, int64(11)).Return(nil)
	repo.On("UpdateStatus", mock.Anything, int64(11), domain.InvoiceCancelled).Return(nil)

	inv, err := service.CancelInvoice(context.Background(), 11)

	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceCancelled, inv.Status)
	assert.Equal(t, money.Cents(0), inv.Subtotal())
	assert.Equal(t, money.Cents(0), inv.GST)
	assert.True(t, inv.Payments[0].RefundDue)
	repo.AssertExpectations(t)
	pkgs.AssertExpectations(t)
}

func TestCancelInvoiceAlreadyCancelled(t *testing.T) {
	repo := new(MockInvoiceRepository)
	service := newTestService(repo, new(MockPackageService), new(MockEventPublisher))

	repo.On("GetByID", mock.Anything, int64(11)).Return(&domain.Invoice{
		ID:     11,
		Status: domain.InvoiceCancelled,
	}, nil)

	_, err := service.CancelInvoice(context.Background(), 11)

	assert.ErrorIs(t, err, ErrInvoiceCancelled)
}

func TestCancelForBookingWithoutInvoice(t *testing.T) {
	repo := new(MockInvoiceRepository)
	service := newTestService(repo, new(MockPackageService), new(MockEventPublisher))

	repo.On("GetByBookingID", mock.Anything, int64(7)).Return(nil, invoiceRepo.ErrInvoiceNotFound)

	inv, err := service.CancelForBooking(context.Background(), 7)

	assert.NoError(t, err)
	assert.Nil(t, inv)
}
