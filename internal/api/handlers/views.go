package handlers

import (
	"time"

	"github.com/m04kA/DDC-BookingService/internal/domain"
)

// BookingView общее HTTP представление бронирования
type BookingView struct {
	ID                 int64   `json:"id"`
	LocationID         int64   `json:"locationId"`
	ClientID           int64   `json:"clientId"`
	PetIDs             []int64 `json:"petIds"`
	StartTime          string  `json:"startTime"`
	EndTime            string  `json:"endTime"`
	Status             string  `json:"status"`
	SeriesID           *int64  `json:"seriesId,omitempty"`
	Notes              *string `json:"notes,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// ToBookingView конвертирует доменное бронирование в HTTP представление
func ToBookingView(b *domain.Booking) *BookingView {
	return &BookingView{
		ID:                 b.ID,
		LocationID:         b.LocationID,
		ClientID:           b.ClientID,
		PetIDs:             b.PetIDs,
		StartTime:          b.Interval.Start.Format(time.RFC3339),
		EndTime:            b.Interval.End.Format(time.RFC3339),
		Status:             string(b.Status),
		SeriesID:           b.SeriesID,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          b.UpdatedAt.Format(time.RFC3339),
	}
}

// ToBookingViews конвертирует список бронирований
func ToBookingViews(bs []*domain.Booking) []*BookingView {
	out := make([]*BookingView, 0, len(bs))
	for _, b := range bs {
		out = append(out, ToBookingView(b))
	}
	return out
}

// LineItemView HTTP представление строки счета
type LineItemView struct {
	ID             int64  `json:"id"`
	Kind           string `json:"kind"`
	Description    string `json:"description"`
	Quantity       int64  `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	TotalCents     int64  `json:"totalCents"`
	GSTApplicable  bool   `json:"gstApplicable"`
}

// PaymentView HTTP представление платежа
type PaymentView struct {
	ID          int64   `json:"id"`
	AmountCents int64   `json:"amountCents"`
	Method      string  `json:"method"`
	Reference   *string `json:"reference,omitempty"`
	RefundDue   bool    `json:"refundDue"`
	PaidAt      string  `json:"paidAt"`
}

// InvoiceView общее HTTP представление счета с строками и платежами
type InvoiceView struct {
	ID            int64          `json:"id"`
	BookingID     int64          `json:"bookingId"`
	ClientID      int64          `json:"clientId"`
	Number        string         `json:"number"`
	Status        string         `json:"status"`
	LineItems     []LineItemView `json:"lineItems"`
	Payments      []PaymentView  `json:"payments"`
	SubtotalCents int64          `json:"subtotalCents"`
	GSTCents      int64          `json:"gstCents"`
	TotalCents    int64          `json:"totalCents"`
	DepositCents  int64          `json:"depositCents"`
	PaidCents     int64          `json:"paidCents"`
	BalanceCents  int64          `json:"balanceCents"`
	IssueDate     string         `json:"issueDate"`
	DueDate       string         `json:"dueDate"`
}

// ToInvoiceView конвертирует доменный счет в HTTP представление
func ToInvoiceView(inv *domain.Invoice) *InvoiceView {
	view := &InvoiceView{
		ID:            inv.ID,
		BookingID:     inv.BookingID,
		ClientID:      inv.ClientID,
		Number:        inv.Number,
		Status:        string(inv.Status),
		LineItems:     make([]LineItemView, 0, len(inv.LineItems)),
		Payments:      make([]PaymentView, 0, len(inv.Payments)),
		SubtotalCents: int64(inv.Subtotal()),
		GSTCents:      int64(inv.GST),
		TotalCents:    int64(inv.Total()),
		DepositCents:  int64(inv.Deposit),
		PaidCents:     int64(inv.TotalPaid()),
		BalanceCents:  int64(inv.Balance()),
		IssueDate:     inv.IssueDate.Format(domain.DateFormat),
		DueDate:       inv.DueDate.Format(domain.DateFormat),
	}
	for _, li := range inv.LineItems {
		view.LineItems = append(view.LineItems, LineItemView{
			ID:             li.ID,
			Kind:           string(li.Kind),
			Description:    li.Description,
			Quantity:       li.Quantity,
			UnitPriceCents: int64(li.UnitPrice),
			TotalCents:     int64(li.Total),
			GSTApplicable:  li.GSTApplicable,
		})
	}
	for _, p := range inv.Payments {
		view.Payments = append(view.Payments, PaymentView{
			ID:          p.ID,
			AmountCents: int64(p.Amount),
			Method:      p.Method,
			Reference:   p.Reference,
			RefundDue:   p.RefundDue,
			PaidAt:      p.PaidAt.Format(time.RFC3339),
		})
	}
	return view
}
