package modify_booking

import (
	"time"

	"github.com/m04kA/DDC-BookingService/internal/domain"
)

// Request модель запроса на изменение бронирования.
// Нулевые поля оставляют соответствующий параметр без изменений.
type Request struct {
	BookingID int64
	ClientID  int64

	StartTime *time.Time
	EndTime   *time.Time
	PetIDs    []int64
}

// Response модель ответа с измененным бронированием
type Response struct {
	ID            int64
	LocationID    int64
	ClientID      int64
	PetIDs        []int64
	StartTime     time.Time
	EndTime       time.Time
	Status        string
	Detached      bool // вхождение серии откреплено от серии
	InvoiceNumber *string

	UpdatedAt time.Time
}

func toResponse(b *domain.Booking, detached bool, inv *domain.Invoice) *Response {
	resp := &Response{
		ID:         b.ID,
		LocationID: b.LocationID,
		ClientID:   b.ClientID,
		PetIDs:     b.PetIDs,
		StartTime:  b.Interval.Start,
		EndTime:    b.Interval.End,
		Status:     string(b.Status),
		Detached:   detached,
		UpdatedAt:  b.UpdatedAt,
	}
	if inv != nil {
		resp.InvoiceNumber = &inv.Number
	}
	return resp
}
