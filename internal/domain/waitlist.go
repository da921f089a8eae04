package domain

import "time"

// WaitlistEntryStatus represents the status of a waitlist entry
type WaitlistEntryStatus string

const (
	WaitlistPending  WaitlistEntryStatus = "pending"
	WaitlistPromoted WaitlistEntryStatus = "promoted"
	WaitlistRemoved  WaitlistEntryStatus = "removed"
)

// WaitlistEntry is a booking request parked because the location had no
// capacity for its interval. Promotion order is FIFO by EnqueuedAt with
// ties broken by ID. Entries are kept (status promoted/removed) rather
// than deleted, so the queue history stays auditable.
type WaitlistEntry struct {
	ID         int64
	LocationID int64
	ClientID   int64
	PetIDs     []int64
	Requested  Interval
	Status     WaitlistEntryStatus
	EnqueuedAt time.Time

	// The waitlisted booking this entry parks. Promotion confirms that
	// booking; cancelling the booking retires the entry.
	BookingID *int64

	Notes *string
}

// PetCount returns the number of pets the entry asks capacity for
func (e *WaitlistEntry) PetCount() int {
	return len(e.PetIDs)
}

// IsPending returns true if the entry is still waiting for capacity
func (e *WaitlistEntry) IsPending() bool {
	return e.Status == WaitlistPending
}
