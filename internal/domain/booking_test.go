package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{"Pending to confirmed", StatusPending, StatusConfirmed, true},
		{"Pending to waitlisted", StatusPending, StatusWaitlisted, true},
		{"Pending to checked_in", StatusPending, StatusCheckedIn, false},
		{"Waitlisted to confirmed", StatusWaitlisted, StatusConfirmed, true},
		{"Waitlisted to checked_in", StatusWaitlisted, StatusCheckedIn, false},
		{"Confirmed to checked_in", StatusConfirmed, StatusCheckedIn, true},
		{"Confirmed to checked_out", StatusConfirmed, StatusCheckedOut, false},
		{"Confirmed to waitlisted", StatusConfirmed, StatusWaitlisted, false},
		{"Checked_in to checked_out", StatusCheckedIn, StatusCheckedOut, true},
		{"Checked_in to confirmed", StatusCheckedIn, StatusConfirmed, false},
		{"Pending to cancelled", StatusPending, StatusCancelled, true},
		{"Waitlisted to cancelled", StatusWaitlisted, StatusCancelled, true},
		{"Confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"Checked_in to cancelled", StatusCheckedIn, StatusCancelled, true},
		{"Checked_out to cancelled", StatusCheckedOut, StatusCancelled, false},
		{"Cancelled to cancelled", StatusCancelled, StatusCancelled, false},
		{"Cancelled to confirmed", StatusCancelled, StatusConfirmed, false},
		{"Checked_out to checked_in", StatusCheckedOut, StatusCheckedIn, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{Status: tt.from}
			assert.Equal(t, tt.allowed, b.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingIsActive(t *testing.T) {
	active := map[BookingStatus]bool{
		StatusPending:    false,
		StatusConfirmed:  true,
		StatusWaitlisted: false,
		StatusCheckedIn:  true,
		StatusCheckedOut: false,
		StatusCancelled:  false,
	}

	for status, expected := range active {
		b := &Booking{Status: status}
		assert.Equal(t, expected, b.IsActive(), "status %s", status)
	}
}

func TestBookingCanBeCancelled(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusPending}).CanBeCancelled())
	assert.True(t, (&Booking{Status: StatusConfirmed}).CanBeCancelled())
	assert.True(t, (&Booking{Status: StatusWaitlisted}).CanBeCancelled())
	assert.True(t, (&Booking{Status: StatusCheckedIn}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusCheckedOut}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusCancelled}).CanBeCancelled())
}

func TestBookingCanBeModified(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusPending}).CanBeModified())
	assert.True(t, (&Booking{Status: StatusConfirmed}).CanBeModified())
	assert.True(t, (&Booking{Status: StatusWaitlisted}).CanBeModified())
	assert.False(t, (&Booking{Status: StatusCheckedIn}).CanBeModified())
	assert.False(t, (&Booking{Status: StatusCheckedOut}).CanBeModified())
	assert.False(t, (&Booking{Status: StatusCancelled}).CanBeModified())
}
