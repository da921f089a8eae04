package domain

import (
	"time"

	"github.com/m04kA/DDC-BookingService/pkg/money"
)

// ClientPackage is a prepaid daycare pass owned by a client. The value
// of one credit (package price / total credits) is fixed at issuance and
// never recomputed, so redemptions stay consistent if pricing changes.
type ClientPackage struct {
	ID               int64
	ClientID         int64
	TotalCredits     int64
	RemainingCredits int64 // >= 0 at all times
	CreditValueCents money.Cents
	PurchaseDate     time.Time
	ExpiryDate       time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreditRedemption records credits taken from a package for an invoice,
// so a cancellation can return exactly what was redeemed.
type CreditRedemption struct {
	ID        int64
	InvoiceID int64
	PackageID int64
	Credits   int64
	Reversed  bool

	CreatedAt time.Time
}

// IsExpiredAt returns true if the package is expired as of the given date
func (p *ClientPackage) IsExpiredAt(date time.Time) bool {
	return !p.ExpiryDate.IsZero() && date.After(p.ExpiryDate)
}

// CanRedeem returns true if the package holds at least n credits
func (p *ClientPackage) CanRedeem(n int64) bool {
	return n > 0 && p.RemainingCredits >= n
}
