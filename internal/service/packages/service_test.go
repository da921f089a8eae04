package packages

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	packageRepo "github.com/m04kA/DDC-BookingService/internal/infra/storage/packages"
	"github.com/m04kA/DDC-BookingService/pkg/money"
)

// Mock структуры

type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) Create(ctx context.Context, pkg *domain.ClientPackage) (*domain.ClientPackage, error) {
	args := m.Called(ctx, pkg)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	created := *pkg
	created.ID = args.Get(0).(int64)
	return &created, nil
}

func (m *MockPackageRepository) GetByID(ctx context.Context, id int64) (*domain.ClientPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClientPackage), args.Error(1)
}

func (m *MockPackageRepository) GetByClient(ctx context.Context, clientID int64) ([]*domain.ClientPackage, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ClientPackage), args.Error(1)
}

func (m *MockPackageRepository) DecrementCredits(ctx context.Context, id int64, n int64) error {
	args := m.Called(ctx, id, n)
	return args.Error(0)
}

func (m *MockPackageRepository) IncrementCredits(ctx context.Context, id int64, n int64) error {
	args := m.Called(ctx, id, n)
	return args.Error(0)
}

func (m *MockPackageRepository) RecordRedemption(ctx context.Context, red *domain.CreditRedemption) (*domain.CreditRedemption, error) {
	args := m.Called(ctx, red)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	created := *red
	created.ID = args.Get(0).(int64)
	return &created, nil
}

func (m *MockPackageRepository) GetRedemptionsByInvoice(ctx context.Context, invoiceID int64) ([]*domain.CreditRedemption, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CreditRedemption), args.Error(1)
}

func (m *MockPackageRepository) MarkRedemptionReversed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var (
	purchaseDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	expiryDate   = time.Date(2027, 9, 1, 0, 0, 0, 0, time.UTC)
)

func TestPurchaseFixesCreditValue(t *testing.T) {
	repo := new(MockPackageRepository)
	service := NewService(repo, nopLogger{})

	repo.On("Create", mock.Anything, mock.MatchedBy(func(pkg *domain.ClientPackage) bool {
		return pkg.TotalCredits == 10 && pkg.RemainingCredits == 10 &&
			pkg.CreditValueCents == money.Cents(1000)
	})).Return(int64(5), nil)

	pkg, err := service.Purchase(context.Background(), 3, 10, money.Cents(9999), purchaseDate, expiryDate)

	require.NoError(t, err)
	assert.Equal(t, int64(5), pkg.ID)
	assert.Equal(t, money.Cents(1000), pkg.CreditValueCents)
	repo.AssertExpectations(t)
}

func TestPurchaseInvalidInput(t *testing.T) {
	service := NewService(new(MockPackageRepository), nopLogger{})

	tests := []struct {
		name    string
		credits int64
		price   money.Cents
		expiry  time.Time
	}{
		{"Zero credits", 0, money.Cents(1000), expiryDate},
		{"Negative price", 10, money.Cents(-1), expiryDate},
		{"Expiry before purchase", 10, money.Cents(1000), purchaseDate.AddDate(0, 0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Purchase(context.Background(), 3, tt.credits, tt.price, purchaseDate, tt.expiry)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRedeemDecrementsAndRecords(t *testing.T) {
	repo := new(MockPackageRepository)
	service := NewService(repo, nopLogger{})

	repo.On("GetByID", mock.Anything, int64(5)).Return(&domain.ClientPackage{
		ID: 5, ClientID: 3, RemainingCredits: 10, ExpiryDate: expiryDate,
	}, nil)
	repo.On("DecrementCredits", mock.Anything, int64(5), int64(3)).Return(nil)
	repo.On("RecordRedemption", mock.Anything, mock.MatchedBy(func(red *domain.CreditRedemption) bool {
		return red.PackageID == 5 && red.InvoiceID == 11 && red.Credits == 3
	})).Return(int64(71), nil)

	pkg, err := service.Redeem(context.Background(), 5, 3, 3, 11, purchaseDate)

	require.NoError(t, err)
	assert.Equal(t, int64(7), pkg.RemainingCredits)
	repo.AssertExpectations(t)
}

func TestRedeemInsufficientCreditsLeavesBalance(t *testing.T) {
	repo := new(MockPackageRepository)
	service := NewService(repo, nopLogger{})

	repo.On("GetByID", mock.Anything, int64(5)).Return(&domain.ClientPackage{
		ID: 5, ClientID: 3, RemainingCredits: 2, ExpiryDate: expiryDate,
	}, nil)
	repo.On("DecrementCredits", mock.Anything, int64(5), int64(3)).Return(packageRepo.ErrInsufficientCredits)

	_, err := service.Redeem(context.Background(), 5, 3, 3, 11, purchaseDate)

	assert.ErrorIs(t, err, ErrInsufficientCredits)
	repo.AssertNotCalled(t, "RecordRedemption", mock.Anything, mock.Anything)
}

func TestRedeemExpiredPackage(t *testing.T) {
	repo := new(MockPackageRepository)
	service := NewService(repo, nopLogger{})

	repo.On("GetByID", mock.Anything, int64(5)).Return(&domain.ClientPackage{
		ID: 5, ClientID: 3, RemainingCredits: 10, ExpiryDate: purchaseDate,
	}, nil)

	_, err := service.Redeem(context.Background(), 5, 3, 3, 11, purchaseDate.AddDate(0, 0, 1))

	assert.ErrorIs(t, err, ErrPackageExpired)
	repo.AssertNotCalled(t, "DecrementCredits", mock.Anything, mock.Anything, mock.Anything)
}

func TestRedeemAccessDenied(t *testing.T) {
	repo := new(MockPackageRepository)
	service := NewService(repo, nopLogger{})

	repo.On("GetByID", mock.Anything, int64(5)).Return(&domain.ClientPackage{
		ID: 5, ClientID: 8, RemainingCredits: 10, ExpiryDate: expiryDate,
	}, nil)

	_, err := service.Redeem(context.Background(), 5, 3, 3, 11, purchaseDate)

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestReverseForInvoiceReturnsAllRedeemedCredits(t *testing.T) {
	repo := new(MockPackageRepository)
	service := NewService(repo, nopLogger{})

	repo.On("GetRedemptionsByInvoice", mock.Anything, int64(11)).Return([]*domain.CreditRedemption{
		{ID: 71, PackageID: 5, InvoiceID: 11, Credits: 3},
		{ID: 72, PackageID: 6, InvoiceID: 11, Credits: 2},
	}, nil)
	repo.On("IncrementCredits", mock.Anything, int64(5), int64(3)).Return(nil)
	repo.On("IncrementCredits", mock.Anything, int64(6), int64(2)).Return(nil)
	repo.On("MarkRedemptionReversed", mock.Anything, int64(71)).Return(nil)
	repo.On("MarkRedemptionReversed", mock.Anything, int64(72)).Return(nil)

	returned, err := service.ReverseForInvoice(context.Background(), 11)

	require.NoError(t, err)
	assert.Equal(t, int64(5), returned)
	repo.AssertExpectations(t)
}
