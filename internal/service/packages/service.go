package packages

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	packageRepo "github.com/m04kA/DDC-BookingService/internal/infra/storage/packages"
	"github.com/m04kA/DDC-BookingService/pkg/money"
)

// Service сервис предоплаченных пакетов
type Service struct {
	packageRepo PackageRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса пакетов
func NewService(packageRepo PackageRepository, logger Logger) *Service {
	return &Service{
		packageRepo: packageRepo,
		logger:      logger,
	}
}

// Purchase выпускает пакет. Стоимость кредита фиксируется при продаже
// как цена пакета, поделенная на число кредитов, и больше никогда не
// пересчитывается - изменение тарифов не трогает уже проданные пакеты.
func (s *Service) Purchase(ctx context.Context, clientID int64, totalCredits int64, priceCents money.Cents, purchaseDate, expiryDate time.Time) (*domain.ClientPackage, error) {
	if totalCredits <= 0 || priceCents < 0 {
		return nil, fmt.Errorf("%w: credits and price must be positive", ErrInvalidInput)
	}
	if !expiryDate.After(purchaseDate) {
		return nil, fmt.Errorf("%w: expiry date must be after purchase date", ErrInvalidInput)
	}

	pkg := &domain.ClientPackage{
		ClientID:         clientID,
		TotalCredits:     totalCredits,
		RemainingCredits: totalCredits,
		CreditValueCents: money.DivHalfUp(priceCents, totalCredits),
		PurchaseDate:     purchaseDate,
		ExpiryDate:       expiryDate,
	}

	created, err := s.packageRepo.Create(ctx, pkg)
	if err != nil {
		s.logger.Error("Purchase: failed to create package for client=%d: %v", clientID, err)
		return nil, fmt.Errorf("%w: Purchase - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Purchase: package id=%d issued for client=%d, %d credits at %s each", created.ID, clientID, totalCredits, created.CreditValueCents)
	return created, nil
}

// Get возвращает пакет клиента с проверкой владения
func (s *Service) Get(ctx context.Context, packageID, clientID int64) (*domain.ClientPackage, error) {
	pkg, err := s.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, packageRepo.ErrPackageNotFound) {
			return nil, ErrPackageNotFound
		}
		s.logger.Error("Get: repository error for package=%d: %v", packageID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	if pkg.ClientID != clientID {
		s.logger.Warn("Get: access denied for client=%d to package=%d", clientID, packageID)
		return nil, ErrAccessDenied
	}

	return pkg, nil
}

// GetByClient возвращает пакеты клиента
func (s *Service) GetByClient(ctx context.Context, clientID int64) ([]*domain.ClientPackage, error) {
	result, err := s.packageRepo.GetByClient(ctx, clientID)
	if err != nil {
		s.logger.Error("GetByClient: repository error for client=%d: %v", clientID, err)
		return nil, fmt.Errorf("%w: GetByClient - repository error: %v", ErrInternal, err)
	}
	return result, nil
}

// Redeem списывает кредиты пакета под счет. Условное списание в БД
// гарантирует, что при нехватке кредитов остаток не меняется.
// Вызывается внутри транзакции выставления счета.
func (s *Service) Redeem(ctx context.Context, packageID, clientID, credits, invoiceID int64, at time.Time) (*domain.ClientPackage, error) {
	if credits <= 0 {
		return nil, fmt.Errorf("%w: credits must be positive", ErrInvalidInput)
	}

	pkg, err := s.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, packageRepo.ErrPackageNotFound) {
			return nil, ErrPackageNotFound
		}
		s.logger.Error("Redeem: repository error for package=%d: %v", packageID, err)
		return nil, fmt.Errorf("%w: Redeem - repository error: %v", ErrInternal, err)
	}

	if pkg.ClientID != clientID {
		s.logger.Warn("Redeem: access denied for client=%d to package=%d", clientID, packageID)
		return nil, ErrAccessDenied
	}

	if pkg.IsExpiredAt(at) {
		return nil, ErrPackageExpired
	}

	if err := s.packageRepo.DecrementCredits(ctx, packageID, credits); err != nil {
		if errors.Is(err, packageRepo.ErrInsufficientCredits) {
			s.logger.Info("Redeem: package=%d holds fewer than %d credits", packageID, credits)
			return nil, ErrInsufficientCredits
		}
		s.logger.Error("Redeem: failed to decrement package=%d: %v", packageID, err)
		return nil, fmt.Errorf("%w: Redeem - repository error: %v", ErrInternal, err)
	}

	if _, err := s.packageRepo.RecordRedemption(ctx, &domain.CreditRedemption{
		InvoiceID: invoiceID,
		PackageID: packageID,
		Credits:   credits,
	}); err != nil {
		s.logger.Error("Redeem: failed to record redemption for package=%d invoice=%d: %v", packageID, invoiceID, err)
		return nil, fmt.Errorf("%w: Redeem - repository error: %v", ErrInternal, err)
	}

	pkg.RemainingCredits -= credits
	s.logger.Info("Redeem: %d credits redeemed from package=%d for invoice=%d", credits, packageID, invoiceID)
	return pkg, nil
}

// ReverseForInvoice возвращает на пакеты все кредиты, списанные под
// счет. Возврат идет даже на истекший пакет - кредиты были честно
// списаны и при отмене должны вернуться.
// Вызывается внутри транзакции отмены счета.
func (s *Service) ReverseForInvoice(ctx context.Context, invoiceID int64) (int64, error) {
	redemptions, err := s.packageRepo.GetRedemptionsByInvoice(ctx, invoiceID)
	if err != nil {
		s.logger.Error("ReverseForInvoice: repository error for invoice=%d: %v", invoiceID, err)
		return 0, fmt.Errorf("%w: ReverseForInvoice - repository error: %v", ErrInternal, err)
	}

	var returned int64
	for _, red := range redemptions {
		if err := s.packageRepo.IncrementCredits(ctx, red.PackageID, red.Credits); err != nil {
			return returned, fmt.Errorf("%w: ReverseForInvoice - increment package=%d: %v", ErrInternal, red.PackageID, err)
		}
		if err := s.packageRepo.MarkRedemptionReversed(ctx, red.ID); err != nil {
			return returned, fmt.Errorf("%w: ReverseForInvoice - mark redemption=%d: %v", ErrInternal, red.ID, err)
		}
		returned += red.Credits
		s.logger.Info("ReverseForInvoice: returned %d credits to package=%d for invoice=%d", red.Credits, red.PackageID, invoiceID)
	}

	return returned, nil
}
