package cancel_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/internal/infra/events"
	bookingRepo "github.com/m04kA/DDC-BookingService/internal/infra/storage/booking"
)

// Mock структуры

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

type MockWaitlistService struct {
	mock.Mock
}

func (m *MockWaitlistService) PromoteCandidates(ctx context.Context, location *domain.Location, freed domain.Interval) ([]*domain.Booking, error) {
	args := m.Called(ctx, location, freed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *MockWaitlistService) RemoveForBooking(ctx context.Context, bookingID int64) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}

type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) CancelForBooking(ctx context.Context, bookingID int64) (*domain.Invoice, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, payload any) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// stubTxManager выполняет функцию без реальной транзакции
type stubTxManager struct{}

func (stubTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// countingTxManager считает открытые транзакции
type countingTxManager struct {
	calls int
}

func (m *countingTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type testEnv struct {
	bookingRepo  *MockBookingRepository
	locationRepo *MockLocationRepository
	waitlist     *MockWaitlistService
	billing      *MockBillingService
	publisher    *MockEventPublisher
	usecase      *UseCase
}

func newTestEnv() *testEnv {
	env := &testEnv{
		bookingRepo:  new(MockBookingRepository),
		locationRepo: new(MockLocationRepository),
		waitlist:     new(MockWaitlistService),
		billing:      new(MockBillingService),
		publisher:    new(MockEventPublisher),
	}
	env.usecase = NewUseCase(
		env.bookingRepo, env.locationRepo, env.waitlist, env.billing,
		stubTxManager{}, env.publisher, nopLogger{},
	)
	return env
}

func confirmedBooking() *domain.Booking {
	start := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:         7,
		LocationID: 1,
		ClientID:   3,
		PetIDs:     []int64{10},
		Interval:   domain.Interval{Start: start, End: start.Add(8 * time.Hour)},
		Status:     domain.StatusConfirmed,
	}
}

func TestExecuteCancelsAndPromotesWaitlist(t *testing.T) {
	env := newTestEnv()
	booking := confirmedBooking()
	location := &domain.Location{ID: 1, Capacity: 5}
	promoted := &domain.Booking{ID: 50, LocationID: 1, ClientID: 4, Status: domain.StatusConfirmed}

	env.bookingRepo.On("GetByID", mock.Anything, int64(7)).Return(booking, nil)
	env.bookingRepo.On("Cancel", mock.Anything, int64(7), "plans changed").Return(nil)
	env.billing.On("CancelForBooking", mock.Anything, int64(7)).Return(&domain.Invoice{
		Number:   "INV-2026-00001",
		Status:   domain.InvoiceCancelled,
		Payments: []domain.Payment{{Amount: 3300, RefundDue: true}},
	}, nil)
	env.locationRepo.On("GetByID", mock.Anything, int64(1)).Return(location, nil)
	env.waitlist.On("PromoteCandidates", mock.Anything, location, booking.Interval).Return([]*domain.Booking{promoted}, nil)
	env.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(payload any) bool {
		event, ok := payload.(events.BookingEvent)
		return ok && event.Type == events.TypeBookingCancelled && event.BookingID == 7
	})).Return(nil)
	env.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(payload any) bool {
		event, ok := payload.(events.BookingEvent)
		return ok && event.Type == events.TypeBookingPromoted && event.BookingID == 50
	})).Return(nil)

	resp, err := env.usecase.Execute(context.Background(), &Request{BookingID: 7, ClientID: 3, Reason: "plans changed"})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.NotNil(t, resp.CancelledInvoice)
	assert.Equal(t, "INV-2026-00001", *resp.CancelledInvoice)
	assert.True(t, resp.RefundDue)
	assert.Equal(t, []int64{50}, resp.PromotedBookings)
	env.publisher.AssertExpectations(t)
	env.waitlist.AssertNotCalled(t, "RemoveForBooking", mock.Anything, mock.Anything)
}

func TestExecuteCancelWaitlistedBookingRetiresEntry(t *testing.T) {
	env := newTestEnv()
	booking := confirmedBooking()
	booking.Status = domain.StatusWaitlisted

	env.bookingRepo.On("GetByID", mock.Anything, int64(7)).Return(booking, nil)
	env.bookingRepo.On("Cancel", mock.Anything, int64(7), "").Return(nil)
	env.waitlist.On("RemoveForBooking", mock.Anything, int64(7)).Return(nil)
	env.billing.On("CancelForBooking", mock.Anything, int64(7)).Return(nil, nil)
	env.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := env.usecase.Execute(context.Background(), &Request{BookingID: 7, ClientID: 3})

	require.NoError(t, err)
	assert.Nil(t, resp.CancelledInvoice)
	assert.Empty(t, resp.PromotedBookings)
	// Место не освобождалось - очередь не трогаем
	env.waitlist.AssertNotCalled(t, "PromoteCandidates", mock.Anything, mock.Anything, mock.Anything)
	env.waitlist.AssertExpectations(t)
}

func TestExecutePromotionRunsOutsideCancelTransaction(t *testing.T) {
	env := newTestEnv()
	tm := &countingTxManager{}
	env.usecase = NewUseCase(
		env.bookingRepo, env.locationRepo, env.waitlist, env.billing,
		tm, env.publisher, nopLogger{},
	)
	booking := confirmedBooking()
	location := &domain.Location{ID: 1, Capacity: 5}

	env.bookingRepo.On("GetByID", mock.Anything, int64(7)).Return(booking, nil)
	env.bookingRepo.On("Cancel", mock.Anything, int64(7), "").Return(nil)
	env.billing.On("CancelForBooking", mock.Anything, int64(7)).Return(nil, nil)
	env.locationRepo.On("GetByID", mock.Anything, int64(1)).Return(location, nil)
	env.waitlist.On("PromoteCandidates", mock.Anything, location, booking.Interval).Return(nil, nil)
	env.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	_, err := env.usecase.Execute(context.Background(), &Request{BookingID: 7, ClientID: 3})

	require.NoError(t, err)
	// Отмена и поднятие очереди идут раздельными транзакциями
	assert.Equal(t, 2, tm.calls)
}

func TestExecutePromotionFailureKeepsCancellation(t *testing.T) {
	env := newTestEnv()
	booking := confirmedBooking()
	location := &domain.Location{ID: 1, Capacity: 5}

	env.bookingRepo.On("GetByID", mock.Anything, int64(7)).Return(booking, nil)
	env.bookingRepo.On("Cancel", mock.Anything, int64(7), "").Return(nil)
	env.billing.On("CancelForBooking", mock.Anything, int64(7)).Return(nil, nil)
	env.locationRepo.On("GetByID", mock.Anything, int64(1)).Return(location, nil)
	env.waitlist.On("PromoteCandidates", mock.Anything, location, booking.Interval).
		Return(nil, errors.New("deadlock"))
	env.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(payload any) bool {
		event, ok := payload.(events.BookingEvent)
		return ok && event.Type == events.TypeBookingCancelled
	})).Return(nil)

	resp, err := env.usecase.Execute(context.Background(), &Request{BookingID: 7, ClientID: 3})

	// Отмена уже зафиксирована - сбой поднятия ее не откатывает
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Empty(t, resp.PromotedBookings)
	env.publisher.AssertExpectations(t)
}

func TestExecuteAccessDenied(t *testing.T) {
	env := newTestEnv()

	env.bookingRepo.On("GetByID", mock.Anything, int64(7)).Return(confirmedBooking(), nil)

	_, err := env.usecase.Execute(context.Background(), &Request{BookingID: 7, ClientID: 9})

	assert.ErrorIs(t, err, ErrAccessDenied)
	env.bookingRepo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteCannotCancelTerminalBooking(t *testing.T) {
	env := newTestEnv()
	booking := confirmedBooking()
	booking.Status = domain.StatusCheckedOut

	env.bookingRepo.On("GetByID", mock.Anything, int64(7)).Return(booking, nil)

	_, err := env.usecase.Execute(context.Background(), &Request{BookingID: 7, ClientID: 3})

	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestExecuteBookingNotFound(t *testing.T) {
	env := newTestEnv()

	env.bookingRepo.On("GetByID", mock.Anything, int64(7)).Return(nil, bookingRepo.ErrBookingNotFound)

	_, err := env.usecase.Execute(context.Background(), &Request{BookingID: 7, ClientID: 3})

	assert.ErrorIs(t, err, ErrBookingNotFound)
}
