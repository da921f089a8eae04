package domain

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusWaitlisted BookingStatus = "waitlisted"
	StatusCheckedIn  BookingStatus = "checked_in"
	StatusCheckedOut BookingStatus = "checked_out"
	StatusCancelled  BookingStatus = "cancelled"
)

// Booking represents a daycare reservation for a set of pets
type Booking struct {
	ID         int64
	LocationID int64
	ClientID   int64
	PetIDs     []int64 // non-empty
	Interval   Interval
	Status     BookingStatus

	// Back-reference to the recurrence series that generated this
	// occurrence. Nil for one-off bookings and detached exceptions.
	SeriesID *int64

	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PetCount returns the number of pets on the booking
func (b *Booking) PetCount() int {
	return len(b.PetIDs)
}

// IsActive returns true if the booking commits location capacity
func (b *Booking) IsActive() bool {
	return b.Status == StatusConfirmed || b.Status == StatusCheckedIn
}

// IsTerminal returns true for states without outgoing transitions
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCheckedOut || b.Status == StatusCancelled
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return !b.IsTerminal()
}

// CanBeModified returns true if interval/pets can still be changed
func (b *Booking) CanBeModified() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed || b.Status == StatusWaitlisted
}

// CanTransitionTo validates a state-machine move:
// pending -> {confirmed, waitlisted}; waitlisted -> confirmed;
// confirmed -> checked_in -> checked_out; any non-terminal -> cancelled.
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	if next == StatusCancelled {
		return !b.IsTerminal()
	}

	switch b.Status {
	case StatusPending:
		return next == StatusConfirmed || next == StatusWaitlisted
	case StatusWaitlisted:
		return next == StatusConfirmed
	case StatusConfirmed:
		return next == StatusCheckedIn
	case StatusCheckedIn:
		return next == StatusCheckedOut
	default:
		return false
	}
}

// ClientBookingsFilter фильтр для выборки бронирований клиента
type ClientBookingsFilter struct {
	ClientID        int64
	Status          *BookingStatus
	IncludeInactive bool
}

// LocationBookingsFilter фильтр для выборки бронирований площадки
type LocationBookingsFilter struct {
	LocationID      int64
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *BookingStatus
	IncludeInactive bool
}
