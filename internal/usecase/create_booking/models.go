package create_booking

import (
	"time"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/pkg/money"
)

// ExtraCharge дополнительная услуга в запросе
type ExtraCharge struct {
	Description string
	Quantity    int64
	UnitPrice   money.Cents
}

// Redemption запрос на списание кредитов пакета
type Redemption struct {
	PackageID int64
	Credits   int64
}

// Request модель запроса на создание бронирования
type Request struct {
	ClientID   int64
	LocationID int64
	PetIDs     []int64
	StartTime  time.Time
	EndTime    time.Time
	Notes      *string

	Extras     []ExtraCharge
	Redemption *Redemption
}

// InvoiceSummary краткая сводка выставленного счета
type InvoiceSummary struct {
	ID            int64
	Number        string
	Status        string
	SubtotalCents money.Cents
	GSTCents      money.Cents
	TotalCents    money.Cents
	DepositCents  money.Cents
	DueDate       time.Time
}

// Response модель ответа с созданным бронированием
// Waitlisted показывает, что вместимости не хватило и запрос встал
// в очередь; Invoice заполнен только для подтвержденных бронирований.
type Response struct {
	ID         int64
	LocationID int64
	ClientID   int64
	PetIDs     []int64
	StartTime  time.Time
	EndTime    time.Time
	Status     string
	Notes      *string

	Waitlisted      bool
	WaitlistEntryID *int64
	Invoice         *InvoiceSummary

	CreatedAt time.Time
	UpdatedAt time.Time
}

func toResponse(b *domain.Booking, entry *domain.WaitlistEntry, inv *domain.Invoice) *Response {
	resp := &Response{
		ID:         b.ID,
		LocationID: b.LocationID,
		ClientID:   b.ClientID,
		PetIDs:     b.PetIDs,
		StartTime:  b.Interval.Start,
		EndTime:    b.Interval.End,
		Status:     string(b.Status),
		Notes:      b.Notes,
		Waitlisted: b.Status == domain.StatusWaitlisted,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}

	if entry != nil {
		resp.WaitlistEntryID = &entry.ID
	}

	if inv != nil {
		resp.Invoice = &InvoiceSummary{
			ID:            inv.ID,
			Number:        inv.Number,
			Status:        string(inv.Status),
			SubtotalCents: inv.Subtotal(),
			GSTCents:      inv.GST,
			TotalCents:    inv.Total(),
			DepositCents:  inv.Deposit,
			DueDate:       inv.DueDate,
		}
	}

	return resp
}
