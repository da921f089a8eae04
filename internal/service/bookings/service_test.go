package bookings

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

func (m *MockBookingRepository) GetByClient(ctx context.Context, filter domain.ClientBookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByLocation(ctx context.Context, filter domain.LocationBookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	args := m.Called(ctx, id, status)
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

type MockWaitlistPromoter struct {
	mock.Mock
}

func (m *MockWaitlistPromoter) PromoteCandidates(ctx context.Context, location *domain.Location, freed domain.Interval) ([]*domain.Booking, error) {
	args := m.Called(ctx, location, freed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
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
	serializable int
}

func (m *countingTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *countingTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.serializable++
	return fn(ctx)
}

func (m *countingTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// fixedTimeProvider возвращает заранее заданное время
type fixedTimeProvider struct {
	now time.Time
}

func (p fixedTimeProvider) Now() time.Time {
	return p.now
}

type testEnv struct {
	bookingRepo  *MockBookingRepository
	locationRepo *MockLocationRepository
	waitlist     *MockWaitlistPromoter
	publisher    *MockEventPublisher
	txManager    *countingTxManager
	service      *Service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		bookingRepo:  new(MockBookingRepository),
		locationRepo: new(MockLocationRepository),
		waitlist:     new(MockWaitlistPromoter),
		publisher:    new(MockEventPublisher),
		txManager:    &countingTxManager{},
	}
	env.service = NewService(
		env.bookingRepo, env.locationRepo, env.waitlist,
		env.txManager, env.publisher, nopLogger{},
	)
	return env
}

func checkedInBooking() *domain.Booking {
	start := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:         7,
		LocationID: 1,
		ClientID:   3,
		PetIDs:     []int64{10},
		Interval:   domain.Interval{Start: start, End: start.Add(8 * time.Hour)},
		Status:     domain.StatusCheckedIn,
	}
}

func TestCheckOutPromotesInSeparateTransaction(t *testing.T) {
	env := newTestEnv()
	booking := checkedInBooking()
	location := &domain.Location{ID: 1, Capacity: 5}
	now := booking.Interval.Start.Add(2 * time.Hour)

	env.bookingRepo.On("GetByID", mock.Anything, int64(7)).Return(booking, nil)
	env.bookingRepo.On("UpdateStatus", mock.Anything, int64(7), domain.StatusCheckedOut).Return(nil)
	env.locationRepo.On("GetByID", mock.Anything, int64(1)).Return(location, nil)
	// Продвижение идет только на остаток интервала с момента выезда
	env.waitlist.On("PromoteCandidates", mock.Anything, location, domain.Interval{
		Start: now, End: booking.Interval.End,
	}).Return(nil, nil)
	env.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	result, err := env.service.CheckOut(context.Background(), 7, now)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCheckedOut, result.Status)
	// Выезд и поднятие очереди идут раздельными транзакциями
	assert.Equal(t, 2, env.txManager.serializable)
	env.waitlist.AssertExpectations(t)
}

func TestCheckOutPromotionFailureKeepsCheckout(t *testing.T) {
	env := newTestEnv()
	booking := checkedInBooking()
	location := &domain.Location{ID: 1, Capacity: 5}
	now := booking.Interval.Start.Add(2 * time.Hour)

	env.bookingRepo.On("GetByID", mock.Anything, int64(7)).Return(booking, nil)
	env.bookingRepo.On("UpdateStatus", mock.Anything, int64(7), domain.StatusCheckedOut).Return(nil)
	env.locationRepo.On("GetByID", mock.Anything, int64(1)).Return(location, nil)
	env.waitlist.On("PromoteCandidates", mock.Anything, location, mock.Anything).
		Return(nil, errors.New("deadlock"))
	env.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(payload any) bool {
		event, ok := payload.(events.BookingEvent)
		return ok && event.Type == events.TypeBookingCheckedOut
	})).Return(nil)

	result, err := env.service.CheckOut(context.Background(), 7, now)

	// Выезд уже зафиксирован - сбой поднятия его не откатывает
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCheckedOut, result.Status)
	env.publisher.AssertExpectations(t)
}

func TestCheckOutAfterIntervalEndSkipsPromotion(t *testing.T) {
	env := newTestEnv()
	booking := checkedInBooking()
	now := booking.Interval.End.Add(time.Hour)

	env.bookingRepo.On("GetByID", mock.Anything, int64(7)).Return(booking, nil)
	env.bookingRepo.On("UpdateStatus", mock.Anything, int64(7), domain.StatusCheckedOut).Return(nil)
	env.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	_, err := env.service.CheckOut(context.Background(), 7, now)

	require.NoError(t, err)
	// Интервал уже истек - освобождать нечего
	env.waitlist.AssertNotCalled(t, "PromoteCandidates", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 1, env.txManager.serializable)
}

func TestCheckOutEventTimestampFromClock(t *testing.T) {
	env := newTestEnv()
	booking := checkedInBooking()
	now := booking.Interval.End.Add(time.Hour)
	env.service.timeProvider = fixedTimeProvider{now: now}

	env.bookingRepo.On("GetByID", mock.Anything, int64(7)).Return(booking, nil)
	env.bookingRepo.On("UpdateStatus", mock.Anything, int64(7), domain.StatusCheckedOut).Return(nil)
	env.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(payload any) bool {
		event, ok := payload.(events.BookingEvent)
		return ok && event.OccurredAt.Equal(now)
	})).Return(nil)

	_, err := env.service.CheckOut(context.Background(), 7, now)

	require.NoError(t, err)
	env.publisher.AssertExpectations(t)
}

func TestCheckInInvalidTransition(t *testing.T) {
	env := newTestEnv()
	booking := checkedInBooking()
	booking.Status = domain.StatusCheckedOut

	env.bookingRepo.On("GetByID", mock.Anything, int64(7)).Return(booking, nil)

	_, err := env.service.CheckIn(context.Background(), 7)

	assert.ErrorIs(t, err, ErrInvalidTransition)
	env.bookingRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetByIDAccessDenied(t *testing.T) {
	env := newTestEnv()
	booking := checkedInBooking()

	env.bookingRepo.On("GetByID", mock.Anything, int64(7)).Return(booking, nil)

	_, err := env.service.GetByID(context.Background(), 7, 99)

	assert.ErrorIs(t, err, ErrAccessDenied)
}
