package cancel_booking

import (
	"time"

	cancelBooking "github.com/m04kA/DDC-BookingService/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	ID               int64   `json:"id"`
	LocationID       int64   `json:"locationId"`
	ClientID         int64   `json:"clientId"`
	Status           string  `json:"status"`
	CancelledInvoice *string `json:"cancelledInvoice,omitempty"`
	RefundDue        bool    `json:"refundDue"`
	PromotedBookings []int64 `json:"promotedBookings,omitempty"`
	UpdatedAt        string  `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	return &CancelBookingResponse{
		ID:               resp.ID,
		LocationID:       resp.LocationID,
		ClientID:         resp.ClientID,
		Status:           resp.Status,
		CancelledInvoice: resp.CancelledInvoice,
		RefundDue:        resp.RefundDue,
		PromotedBookings: resp.PromotedBookings,
		UpdatedAt:        resp.UpdatedAt.Format(time.RFC3339),
	}
}
