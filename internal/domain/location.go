package domain

import (
	"time"

	"github.com/m04kA/DDC-BookingService/pkg/money"
)

// Location represents a daycare site with a fixed pet capacity
type Location struct {
	ID       int64
	Name     string
	Capacity int // max concurrent pets, always > 0

	// Billing attributes
	BaseRateCents        money.Cents // daily daycare rate per pet
	SecondPetDiscountPct int64       // discount percent for the 2nd+ pet of one client
	GSTRegistered        bool

	Timezone string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsValid returns true if the location satisfies its invariants
func (l *Location) IsValid() bool {
	return l.Capacity > 0 && l.BaseRateCents >= 0 &&
		l.SecondPetDiscountPct >= 0 && l.SecondPetDiscountPct <= 100
}
