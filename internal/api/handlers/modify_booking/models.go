package modify_booking

import (
	"time"

	modifyBooking "github.com/m04kA/DDC-BookingService/internal/usecase/modify_booking"
)

// ModifyBookingRequest HTTP request model. Отсутствующие поля
// оставляют соответствующий параметр без изменений.
type ModifyBookingRequest struct {
	StartTime *string `json:"startTime,omitempty"` // RFC3339
	EndTime   *string `json:"endTime,omitempty"`   // RFC3339
	PetIDs    []int64 `json:"petIds,omitempty"`
}

// ModifyBookingResponse HTTP response model
type ModifyBookingResponse struct {
	ID            int64   `json:"id"`
	LocationID    int64   `json:"locationId"`
	ClientID      int64   `json:"clientId"`
	PetIDs        []int64 `json:"petIds"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	Status        string  `json:"status"`
	Detached      bool    `json:"detached"`
	InvoiceNumber *string `json:"invoiceNumber,omitempty"`
	UpdatedAt     string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ModifyBookingRequest) ToUseCaseRequest(bookingID, clientID int64) (*modifyBooking.Request, error) {
	req := &modifyBooking.Request{
		BookingID: bookingID,
		ClientID:  clientID,
		PetIDs:    r.PetIDs,
	}

	if r.StartTime != nil {
		startTime, err := time.Parse(time.RFC3339, *r.StartTime)
		if err != nil {
			return nil, err
		}
		req.StartTime = &startTime
	}

	if r.EndTime != nil {
		endTime, err := time.Parse(time.RFC3339, *r.EndTime)
		if err != nil {
			return nil, err
		}
		req.EndTime = &endTime
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *modifyBooking.Response) *ModifyBookingResponse {
	return &ModifyBookingResponse{
		ID:            resp.ID,
		LocationID:    resp.LocationID,
		ClientID:      resp.ClientID,
		PetIDs:        resp.PetIDs,
		StartTime:     resp.StartTime.Format(time.RFC3339),
		EndTime:       resp.EndTime.Format(time.RFC3339),
		Status:        resp.Status,
		Detached:      resp.Detached,
		InvoiceNumber: resp.InvoiceNumber,
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
