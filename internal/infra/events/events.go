package events

import "time"

// Типы событий, публикуемых в Kafka
const (
	TypeBookingConfirmed  = "booking.confirmed"
	TypeBookingWaitlisted = "booking.waitlisted"
	TypeBookingPromoted   = "booking.promoted"
	TypeBookingModified   = "booking.modified"
	TypeBookingCancelled  = "booking.cancelled"
	TypeBookingCheckedIn  = "booking.checked_in"
	TypeBookingCheckedOut = "booking.checked_out"
	TypeInvoicePaid       = "invoice.paid"
)

// BookingEvent событие жизненного цикла бронирования
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  int64     `json:"booking_id"`
	LocationID int64     `json:"location_id"`
	ClientID   int64     `json:"client_id"`
	PetIDs     []int64   `json:"pet_ids"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// InvoiceEvent событие жизненного цикла счета
type InvoiceEvent struct {
	Type       string    `json:"type"`
	InvoiceID  int64     `json:"invoice_id"`
	BookingID  int64     `json:"booking_id"`
	ClientID   int64     `json:"client_id"`
	Number     string    `json:"number"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"total_cents"`
	OccurredAt time.Time `json:"occurred_at"`
}
