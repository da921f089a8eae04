package create_location

import (
	"time"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/pkg/money"
)

// CreateLocationRequest HTTP request model
type CreateLocationRequest struct {
	Name                 string `json:"name"`
	Capacity             int    `json:"capacity"`
	BaseRateCents        int64  `json:"baseRateCents"`
	SecondPetDiscountPct int64  `json:"secondPetDiscountPct"`
	GSTRegistered        bool   `json:"gstRegistered"`
	Timezone             string `json:"timezone"`
}

// LocationResponse HTTP response model
type LocationResponse struct {
	ID                   int64  `json:"id"`
	Name                 string `json:"name"`
	Capacity             int    `json:"capacity"`
	BaseRateCents        int64  `json:"baseRateCents"`
	SecondPetDiscountPct int64  `json:"secondPetDiscountPct"`
	GSTRegistered        bool   `json:"gstRegistered"`
	Timezone             string `json:"timezone"`
	CreatedAt            string `json:"createdAt"`
	UpdatedAt            string `json:"updatedAt"`
}

// ToDomain конвертирует HTTP запрос в доменную модель
func (r *CreateLocationRequest) ToDomain() *domain.Location {
	return &domain.Location{
		Name:                 r.Name,
		Capacity:             r.Capacity,
		BaseRateCents:        money.Cents(r.BaseRateCents),
		SecondPetDiscountPct: r.SecondPetDiscountPct,
		GSTRegistered:        r.GSTRegistered,
		Timezone:             r.Timezone,
	}
}

// FromDomain конвертирует доменную модель в HTTP response
func FromDomain(l *domain.Location) *LocationResponse {
	return &LocationResponse{
		ID:                   l.ID,
		Name:                 l.Name,
		Capacity:             l.Capacity,
		BaseRateCents:        int64(l.BaseRateCents),
		SecondPetDiscountPct: l.SecondPetDiscountPct,
		GSTRegistered:        l.GSTRegistered,
		Timezone:             l.Timezone,
		CreatedAt:            l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            l.UpdatedAt.Format(time.RFC3339),
	}
}
