package modify_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/internal/infra/events"
	"github.com/m04kA/DDC-BookingService/internal/service/billing"
	"github.com/m04kA/DDC-BookingService/internal/service/capacity"
	"github.com/m04kA/DDC-BookingService/pkg/ptr"
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

func (m *MockBookingRepository) UpdateInterval(ctx context.Context, id int64, interval domain.Interval) error {
	args := m.Called(ctx, id, interval)
	return args.Error(0)
}

func (m *MockBookingRepository) ReplacePets(ctx context.Context, id int64, petIDs []int64) error {
	args := m.Called(ctx, id, petIDs)
	return args.Error(0)
}

func (m *MockBookingRepository) DetachFromSeries(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSeriesRepository struct {
	mock.Mock
}

func (m *MockSeriesRepository) AddException(ctx context.Context, seriesID int64, date time.Time) error {
	args := m.Called(ctx, seriesID, date)
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

type MockCapacityService struct {
	mock.Mock
}

func (m *MockCapacityService) Admissible(ctx context.Context, location *domain.Location, interval domain.Interval, petCount int, excludeBookingID *int64) error {
	args := m.Called(ctx, location, interval, petCount, excludeBookingID)
	return args.Error(0)
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

func (m *MockBillingService) DraftInvoice(ctx context.Context, booking *domain.Booking, location *domain.Location, extras []billing.ExtraCharge, redemption *billing.Redemption, now time.Time) (*domain.Invoice, error) {
	args := m.Called(ctx, booking, location, extras, redemption, now)
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
	seriesRepo   *MockSeriesRepository
	locationRepo *MockLocationRepository
	capacity     *MockCapacityService
	waitlist     *MockWaitlistService
	billing      *MockBillingService
	publisher    *MockEventPublisher
	txManager    *countingTxManager
	usecase      *UseCase
}

func newTestEnv() *testEnv {
	env := &testEnv{
		bookingRepo:  new(MockBookingRepository),
		seriesRepo:   new(MockSeriesRepository),
		locationRepo: new(MockLocationRepository),
		capacity:     new(MockCapacityService),
		waitlist:     new(MockWaitlistService),
		billing:      new(MockBillingService),
		publisher:    new(MockEventPublisher),
		txManager:    &countingTxManager{},
	}
	env.usecase = NewUseCase(
		env.bookingRepo, env.seriesRepo, env.locationRepo, env.capacity,
		env.waitlist, env.billing, env.txManager, env.publisher, nopLogger{},
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

func TestExecuteShrinksIntervalAndPromotesAfterCommit(t *testing.T) {
	env := newTestEnv()
	booking := confirmedBooking()
	oldInterval := booking.Interval
	location := &domain.Location{ID: 1, Capacity: 5}
	newEnd := oldInterval.Start.Add(4 * time.Hour)
	newInterval := domain.Interval{Start: oldInterval.Start, End: newEnd}

	env.bookingRepo.On("GetByID", mock.Anything, int64(7)).Return(booking, nil)
	env.locationRepo.On("GetByID", mock.Anything, int64(1)).Return(location, nil)
	env.capacity.On("Admissible", mock.Anything, location, newInterval, 1, ptr.Ptr(int64(7))).Return(nil)
	env.bookingRepo.On("UpdateInterval", mock.Anything, int64(7), newInterval).Return(nil)
	env.billing.On("CancelForBooking", mock.Anything, int64(7)).Return(nil, nil)
	env.billing.On("DraftInvoice", mock.Anything, booking, location, mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.Invoice{ID: 21, Number: "INV-2026-00021"}, nil)
	env.waitlist.On("PromoteCandidates", mock.Anything, location, oldInterval).Return(nil, nil)
	env.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(payload any) bool {
		event, ok := payload.(events.BookingEvent)
		return ok && event.Type == events.TypeBookingModified && event.BookingID == 7
	})).Return(nil)

	resp, err := env.usecase.Execute(context.Background(), &Request{BookingID: 7, ClientID: 3, EndTime: &newEnd})

	require.NoError(t, err)
	assert.Equal(t, newEnd, resp.EndTime)
	require.NotNil(t, resp.InvoiceNumber)
	assert.Equal(t, "INV-2026-00021", *resp.InvoiceNumber)
	// Изменение и поднятие очереди идут раздельными транзакциями
	assert.Equal(t, 2, env.txManager.calls)
	env.waitlist.AssertExpectations(t)
	env.publisher.AssertExpectations(t)
}

func TestExecuteRejectedModificationKeepsOriginal(t *testing.T) {
	env := newTestEnv()
	booking := confirmedBooking()
	location := &domain.Location{ID: 1, Capacity: 5}
	newEnd := booking.Interval.End.Add(24 * time.Hour)

	env.bookingRepo.On("GetByID", mock.Anything, int64(7)).Return(booking, nil)
	env.locationRepo.On("GetByID", mock.Anything, int64(1)).Return(location, nil)
	env.capacity.On("Admissible", mock.Anything, location, mock.Anything, 1, ptr.Ptr(int64(7))).
		Return(capacity.ErrCapacityExceeded)

	_, err := env.usecase.Execute(context.Background(), &Request{BookingID: 7, ClientID: 3, EndTime: &newEnd})

	assert.ErrorIs(t, err, ErrCapacityExceeded)
	// Непоместившееся изменение не трогает бронирование и очередь
	env.bookingRepo.AssertNotCalled(t, "UpdateInterval", mock.Anything, mock.Anything, mock.Anything)
	env.waitlist.AssertNotCalled(t, "PromoteCandidates", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 1, env.txManager.calls)
}

func TestExecuteWaitlistedBookingCannotBeModified(t *testing.T) {
	env := newTestEnv()
	booking := confirmedBooking()
	booking.Status = domain.StatusWaitlisted
	newEnd := booking.Interval.End.Add(time.Hour)

	env.bookingRepo.On("GetByID", mock.Anything, int64(7)).Return(booking, nil)

	_, err := env.usecase.Execute(context.Background(), &Request{BookingID: 7, ClientID: 3, EndTime: &newEnd})

	assert.ErrorIs(t, err, ErrCannotModify)
}

func TestExecuteNoChangesSkipsPromotion(t *testing.T) {
	env := newTestEnv()
	booking := confirmedBooking()
	location := &domain.Location{ID: 1, Capacity: 5}
	sameEnd := booking.Interval.End

	env.bookingRepo.On("GetByID", mock.Anything, int64(7)).Return(booking, nil)
	env.locationRepo.On("GetByID", mock.Anything, int64(1)).Return(location, nil)
	env.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := env.usecase.Execute(context.Background(), &Request{BookingID: 7, ClientID: 3, EndTime: &sameEnd})

	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)
	env.waitlist.AssertNotCalled(t, "PromoteCandidates", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 1, env.txManager.calls)
}

func TestExecuteDetachesSeriesOccurrence(t *testing.T) {
	env := newTestEnv()
	booking := confirmedBooking()
	seriesID := int64(5)
	booking.SeriesID = &seriesID
	oldStart := booking.Interval.Start
	location := &domain.Location{ID: 1, Capacity: 5}
	newEnd := booking.Interval.End.Add(-2 * time.Hour)

	env.bookingRepo.On("GetByID", mock.Anything, int64(7)).Return(booking, nil)
	env.locationRepo.On("GetByID", mock.Anything, int64(1)).Return(location, nil)
	env.capacity.On("Admissible", mock.Anything, location, mock.Anything, 1, ptr.Ptr(int64(7))).Return(nil)
	env.bookingRepo.On("UpdateInterval", mock.Anything, int64(7), mock.Anything).Return(nil)
	env.bookingRepo.On("DetachFromSeries", mock.Anything, int64(7)).Return(nil)
	env.seriesRepo.On("AddException", mock.Anything, seriesID, oldStart).Return(nil)
	env.billing.On("CancelForBooking", mock.Anything, int64(7)).Return(nil, nil)
	env.billing.On("DraftInvoice", mock.Anything, booking, location, mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.Invoice{ID: 22, Number: "INV-2026-00022"}, nil)
	env.waitlist.On("PromoteCandidates", mock.Anything, location, mock.Anything).Return(nil, nil)
	env.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := env.usecase.Execute(context.Background(), &Request{BookingID: 7, ClientID: 3, EndTime: &newEnd})

	require.NoError(t, err)
	assert.True(t, resp.Detached)
	env.seriesRepo.AssertExpectations(t)
}
