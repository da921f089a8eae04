package get_location_waitlist

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/DDC-BookingService/internal/api/handlers"
	"github.com/m04kA/DDC-BookingService/internal/domain"
)

const msgInvalidLocationID = "некорректный ID площадки"

// WaitlistEntryResponse HTTP представление записи листа ожидания
type WaitlistEntryResponse struct {
	ID         int64   `json:"id"`
	LocationID int64   `json:"locationId"`
	ClientID   int64   `json:"clientId"`
	PetIDs     []int64 `json:"petIds"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Status     string  `json:"status"`
	BookingID  *int64  `json:"bookingId,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	EnqueuedAt string  `json:"enqueuedAt"`
}

// WaitlistResponse лист ожидания площадки в FIFO порядке
type WaitlistResponse struct {
	LocationID int64                    `json:"locationId"`
	Entries    []*WaitlistEntryResponse `json:"entries"`
}

func fromDomain(e *domain.WaitlistEntry) *WaitlistEntryResponse {
	return &WaitlistEntryResponse{
		ID:         e.ID,
		LocationID: e.LocationID,
		ClientID:   e.ClientID,
		PetIDs:     e.PetIDs,
		StartTime:  e.Requested.Start.Format(time.RFC3339),
		EndTime:    e.Requested.End.Format(time.RFC3339),
		Status:     string(e.Status),
		BookingID:  e.BookingID,
		Notes:      e.Notes,
		EnqueuedAt: e.EnqueuedAt.Format(time.RFC3339),
	}
}

type Handler struct {
	service WaitlistService
	logger  Logger
}

func NewHandler(service WaitlistService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/waitlist
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	locationID, err := strconv.ParseInt(vars["locationId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /locations/{id}/waitlist - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	entries, err := h.service.ListPending(r.Context(), locationID)
	if err != nil {
		h.logger.Error("GET /locations/{id}/waitlist - Failed to list waitlist: location_id=%d, error=%v", locationID, err)
		handlers.RespondInternalError(w)
		return
	}

	response := &WaitlistResponse{
		LocationID: locationID,
		Entries:    make([]*WaitlistEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		response.Entries = append(response.Entries, fromDomain(e))
	}

	h.logger.Info("GET /locations/{id}/waitlist - %d entries listed: location_id=%d", len(entries), locationID)
	handlers.RespondJSON(w, http.StatusOK, response)
}
