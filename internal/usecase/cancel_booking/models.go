package cancel_booking

import (
	"time"

	"github.com/m04kA/DDC-BookingService/internal/domain"
)

// Request модель запроса на отмену бронирования
type Request struct {
	BookingID int64
	ClientID  int64
	Reason    string
}

// Response модель ответа с отмененным бронированием
type Response struct {
	ID         int64
	LocationID int64
	ClientID   int64
	Status     string

	// CancelledInvoice номер аннулированного счета, если он был
	CancelledInvoice *string
	// RefundDue хотя бы один платеж по счету помечен к возврату
	RefundDue bool
	// PromotedBookings бронирования, поднятые из листа ожидания
	// на освободившееся место
	PromotedBookings []int64

	UpdatedAt time.Time
}

func toResponse(b *domain.Booking, inv *domain.Invoice, promoted []*domain.Booking) *Response {
	resp := &Response{
		ID:         b.ID,
		LocationID: b.LocationID,
		ClientID:   b.ClientID,
		Status:     string(b.Status),
		UpdatedAt:  b.UpdatedAt,
	}
	if inv != nil {
		resp.CancelledInvoice = &inv.Number
		for _, p := range inv.Payments {
			if p.RefundDue {
				resp.RefundDue = true
				break
			}
		}
	}
	for _, p := range promoted {
		resp.PromotedBookings = append(resp.PromotedBookings, p.ID)
	}
	return resp
}
