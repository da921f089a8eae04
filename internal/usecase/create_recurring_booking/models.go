package create_recurring_booking

import (
	"time"

	"github.com/m04kA/DDC-BookingService/internal/domain"
)

// Request модель запроса на создание серии повторяющихся бронирований
type Request struct {
	ClientID   int64
	LocationID int64
	PetIDs     []int64

	Weekdays  []time.Weekday
	StartDate time.Time
	EndDate   time.Time

	DayStartMinutes int
	DayEndMinutes   int

	ExceptionDates []time.Time
	Notes          *string
}

// OccurrenceResult результат размещения одного вхождения серии
type OccurrenceResult struct {
	BookingID     int64
	StartTime     time.Time
	EndTime       time.Time
	Status        string
	InvoiceNumber *string
}

// Response модель ответа с созданной серией. Каждое вхождение
// размещается независимо: часть может подтвердиться, часть встать в
// лист ожидания. Interrupted показывает, что разворачивание серии
// прервано отменой запроса и часть вхождений не размещена.
type Response struct {
	SeriesID    int64
	Occurrences []OccurrenceResult
	Interrupted bool

	CreatedAt time.Time
}

func toOccurrenceResult(b *domain.Booking, inv *domain.Invoice) OccurrenceResult {
	result := OccurrenceResult{
		BookingID: b.ID,
		StartTime: b.Interval.Start,
		EndTime:   b.Interval.End,
		Status:    string(b.Status),
	}
	if inv != nil {
		result.InvoiceNumber = &inv.Number
	}
	return result
}
