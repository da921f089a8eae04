package create_recurring_booking

import (
	"time"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	createRecurring "github.com/m04kA/DDC-BookingService/internal/usecase/create_recurring_booking"
)

// CreateRecurringBookingRequest HTTP request model
type CreateRecurringBookingRequest struct {
	LocationID int64   `json:"locationId"`
	PetIDs     []int64 `json:"petIds"`

	Weekdays  []int  `json:"weekdays"`  // 0=Sunday ... 6=Saturday
	StartDate string `json:"startDate"` // YYYY-MM-DD
	EndDate   string `json:"endDate"`   // YYYY-MM-DD

	DayStartTime string `json:"dayStartTime"` // HH:MM
	DayEndTime   string `json:"dayEndTime"`   // HH:MM

	ExceptionDates []string `json:"exceptionDates,omitempty"` // YYYY-MM-DD
	Notes          *string  `json:"notes,omitempty"`
}

// OccurrenceResponse результат размещения одного вхождения серии
type OccurrenceResponse struct {
	BookingID     int64   `json:"bookingId"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	Status        string  `json:"status"`
	InvoiceNumber *string `json:"invoiceNumber,omitempty"`
}

// RecurringBookingResponse HTTP response model
type RecurringBookingResponse struct {
	SeriesID    int64                `json:"seriesId"`
	Occurrences []OccurrenceResponse `json:"occurrences"`
	Interrupted bool                 `json:"interrupted"`
	CreatedAt   string               `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateRecurringBookingRequest) ToUseCaseRequest(clientID int64) (*createRecurring.Request, error) {
	startDate, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return nil, err
	}

	endDate, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return nil, err
	}

	dayStart, err := time.Parse(domain.TimeFormat, r.DayStartTime)
	if err != nil {
		return nil, err
	}

	dayEnd, err := time.Parse(domain.TimeFormat, r.DayEndTime)
	if err != nil {
		return nil, err
	}

	weekdays := make([]time.Weekday, 0, len(r.Weekdays))
	for _, wd := range r.Weekdays {
		weekdays = append(weekdays, time.Weekday(wd))
	}

	exceptions := make([]time.Time, 0, len(r.ExceptionDates))
	for _, raw := range r.ExceptionDates {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		exceptions = append(exceptions, date)
	}

	return &createRecurring.Request{
		ClientID:        clientID,
		LocationID:      r.LocationID,
		PetIDs:          r.PetIDs,
		Weekdays:        weekdays,
		StartDate:       startDate,
		EndDate:         endDate,
		DayStartMinutes: dayStart.Hour()*60 + dayStart.Minute(),
		DayEndMinutes:   dayEnd.Hour()*60 + dayEnd.Minute(),
		ExceptionDates:  exceptions,
		Notes:           r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createRecurring.Response) *RecurringBookingResponse {
	out := &RecurringBookingResponse{
		SeriesID:    resp.SeriesID,
		Occurrences: make([]OccurrenceResponse, 0, len(resp.Occurrences)),
		Interrupted: resp.Interrupted,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
	}

	for _, occ := range resp.Occurrences {
		out.Occurrences = append(out.Occurrences, OccurrenceResponse{
			BookingID:     occ.BookingID,
			StartTime:     occ.StartTime.Format(time.RFC3339),
			EndTime:       occ.EndTime.Format(time.RFC3339),
			Status:        occ.Status,
			InvoiceNumber: occ.InvoiceNumber,
		})
	}

	return out
}
