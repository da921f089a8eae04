package get_location_bookings

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/DDC-BookingService/internal/api/handlers"
	"github.com/m04kA/DDC-BookingService/internal/domain"
)

const (
	msgInvalidLocationID = "некорректный ID площадки"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidStatus     = "некорректный статус бронирования"
)

// BookingsResponse список бронирований площадки
type BookingsResponse struct {
	LocationID int64                   `json:"locationId"`
	Bookings   []*handlers.BookingView `json:"bookings"`
}

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/bookings?startDate=&endDate=&status=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	locationID, err := strconv.ParseInt(vars["locationId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /locations/{id}/bookings - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	filter := domain.LocationBookingsFilter{
		LocationID:      locationID,
		IncludeInactive: r.URL.Query().Get("includeInactive") == "true",
	}

	if raw := r.URL.Query().Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /locations/{id}/bookings - Invalid startDate: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		filter.StartDate = &startDate
	}

	if raw := r.URL.Query().Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /locations/{id}/bookings - Invalid endDate: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		filter.EndDate = &endDate
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.BookingStatus(raw)
		switch status {
		case domain.StatusPending, domain.StatusConfirmed, domain.StatusWaitlisted,
			domain.StatusCheckedIn, domain.StatusCheckedOut, domain.StatusCancelled:
			filter.Status = &status
		default:
			h.logger.Warn("GET /locations/{id}/bookings - Invalid status filter: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
	}

	bookings, err := h.service.ListByLocation(r.Context(), filter)
	if err != nil {
		h.logger.Error("GET /locations/{id}/bookings - Failed to list bookings: location_id=%d, error=%v", locationID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /locations/{id}/bookings - %d bookings listed: location_id=%d", len(bookings), locationID)
	handlers.RespondJSON(w, http.StatusOK, &BookingsResponse{
		LocationID: locationID,
		Bookings:   handlers.ToBookingViews(bookings),
	})
}
