package create_booking

import (
	"time"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	createBooking "github.com/m04kA/DDC-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/DDC-BookingService/pkg/money"
)

// ExtraChargeRequest дополнительная услуга в HTTP запросе
type ExtraChargeRequest struct {
	Description    string `json:"description"`
	Quantity       int64  `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
}

// RedemptionRequest списание кредитов пакета в HTTP запросе
type RedemptionRequest struct {
	PackageID int64 `json:"packageId"`
	Credits   int64 `json:"credits"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	LocationID int64                `json:"locationId"`
	PetIDs     []int64              `json:"petIds"`
	StartTime  string               `json:"startTime"` // RFC3339
	EndTime    string               `json:"endTime"`   // RFC3339
	Notes      *string              `json:"notes,omitempty"`
	Extras     []ExtraChargeRequest `json:"extras,omitempty"`
	Redemption *RedemptionRequest   `json:"redemption,omitempty"`
}

// InvoiceSummaryResponse краткая сводка счета в HTTP ответе
type InvoiceSummaryResponse struct {
	ID            int64  `json:"id"`
	Number        string `json:"number"`
	Status        string `json:"status"`
	SubtotalCents int64  `json:"subtotalCents"`
	GSTCents      int64  `json:"gstCents"`
	TotalCents    int64  `json:"totalCents"`
	DepositCents  int64  `json:"depositCents"`
	DueDate       string `json:"dueDate"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64                   `json:"id"`
	LocationID      int64                   `json:"locationId"`
	ClientID        int64                   `json:"clientId"`
	PetIDs          []int64                 `json:"petIds"`
	StartTime       string                  `json:"startTime"`
	EndTime         string                  `json:"endTime"`
	Status          string                  `json:"status"`
	Notes           *string                 `json:"notes,omitempty"`
	Waitlisted      bool                    `json:"waitlisted"`
	WaitlistEntryID *int64                  `json:"waitlistEntryId,omitempty"`
	Invoice         *InvoiceSummaryResponse `json:"invoice,omitempty"`
	CreatedAt       string                  `json:"createdAt"`
	UpdatedAt       string                  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(clientID int64) (*createBooking.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return nil, err
	}

	req := &createBooking.Request{
		ClientID:   clientID,
		LocationID: r.LocationID,
		PetIDs:     r.PetIDs,
		StartTime:  startTime,
		EndTime:    endTime,
		Notes:      r.Notes,
	}

	for _, extra := range r.Extras {
		req.Extras = append(req.Extras, createBooking.ExtraCharge{
			Description: extra.Description,
			Quantity:    extra.Quantity,
			UnitPrice:   money.Cents(extra.UnitPriceCents),
		})
	}

	if r.Redemption != nil {
		req.Redemption = &createBooking.Redemption{
			PackageID: r.Redemption.PackageID,
			Credits:   r.Redemption.Credits,
		}
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	out := &BookingResponse{
		ID:              resp.ID,
		LocationID:      resp.LocationID,
		ClientID:        resp.ClientID,
		PetIDs:          resp.PetIDs,
		StartTime:       resp.StartTime.Format(time.RFC3339),
		EndTime:         resp.EndTime.Format(time.RFC3339),
		Status:          resp.Status,
		Notes:           resp.Notes,
		Waitlisted:      resp.Waitlisted,
		WaitlistEntryID: resp.WaitlistEntryID,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}

	if resp.Invoice != nil {
		out.Invoice = &InvoiceSummaryResponse{
			ID:            resp.Invoice.ID,
			Number:        resp.Invoice.Number,
			Status:        resp.Invoice.Status,
			SubtotalCents: int64(resp.Invoice.SubtotalCents),
			GSTCents:      int64(resp.Invoice.GSTCents),
			TotalCents:    int64(resp.Invoice.TotalCents),
			DepositCents:  int64(resp.Invoice.DepositCents),
			DueDate:       resp.Invoice.DueDate.Format(domain.DateFormat),
		}
	}

	return out
}
