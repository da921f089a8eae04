package domain

// Default billing values
const (
	DefaultGSTRatePercent = 10
	DefaultDepositPercent = 0
	InvoiceDueDays        = 7
)

// Business validation constants
const (
	MaxPetsPerBooking           = 20
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxSeriesSpanDays           = 366
)

// Time format constants
const (
	TimeFormat     = "15:04"            // HH:MM
	DateFormat     = "2006-01-02"       // YYYY-MM-DD
	DateTimeFormat = "2006-01-02 15:04" // YYYY-MM-DD HH:MM
)

// ActiveStatuses список статусов, при которых бронирование удерживает
// вместимость площадки. Используется в запросах контроля вместимости.
var ActiveStatuses = []BookingStatus{
	StatusConfirmed,
	StatusCheckedIn,
}

// InactiveStatuses список статусов, не удерживающих вместимость
var InactiveStatuses = []BookingStatus{
	StatusPending,
	StatusWaitlisted,
	StatusCheckedOut,
	StatusCancelled,
}
