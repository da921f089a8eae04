package purchase_package

import (
	"time"

	"github.com/m04kA/DDC-BookingService/internal/domain"
)

// PurchasePackageRequest HTTP request model
type PurchasePackageRequest struct {
	TotalCredits int64  `json:"totalCredits"`
	PriceCents   int64  `json:"priceCents"`
	ExpiryDate   string `json:"expiryDate"` // YYYY-MM-DD
}

// PackageResponse HTTP представление пакета кредитов
type PackageResponse struct {
	ID               int64  `json:"id"`
	ClientID         int64  `json:"clientId"`
	TotalCredits     int64  `json:"totalCredits"`
	RemainingCredits int64  `json:"remainingCredits"`
	CreditValueCents int64  `json:"creditValueCents"`
	PurchaseDate     string `json:"purchaseDate"`
	ExpiryDate       string `json:"expiryDate"`
	CreatedAt        string `json:"createdAt"`
}

// FromDomain конвертирует доменный пакет в HTTP response
func FromDomain(p *domain.ClientPackage) *PackageResponse {
	return &PackageResponse{
		ID:               p.ID,
		ClientID:         p.ClientID,
		TotalCredits:     p.TotalCredits,
		RemainingCredits: p.RemainingCredits,
		CreditValueCents: int64(p.CreditValueCents),
		PurchaseDate:     p.PurchaseDate.Format(domain.DateFormat),
		ExpiryDate:       p.ExpiryDate.Format(domain.DateFormat),
		CreatedAt:        p.CreatedAt.Format(time.RFC3339),
	}
}
