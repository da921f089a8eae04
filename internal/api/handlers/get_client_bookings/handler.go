package get_client_bookings

import (
	"net/http"

	"github.com/m04kA/DDC-BookingService/internal/api/handlers"
	"github.com/m04kA/DDC-BookingService/internal/api/middleware"
	"github.com/m04kA/DDC-BookingService/internal/domain"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidStatus = "некорректный статус бронирования"
)

// BookingsResponse список бронирований клиента
type BookingsResponse struct {
	Bookings []*handlers.BookingView `json:"bookings"`
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

// Handle GET /api/v1/bookings?status=&includeInactive=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	filter := domain.ClientBookingsFilter{
		ClientID:        clientID,
		IncludeInactive: r.URL.Query().Get("includeInactive") == "true",
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.BookingStatus(raw)
		switch status {
		case domain.StatusPending, domain.StatusConfirmed, domain.StatusWaitlisted,
			domain.StatusCheckedIn, domain.StatusCheckedOut, domain.StatusCancelled:
			filter.Status = &status
		default:
			h.logger.Warn("GET /bookings - Invalid status filter: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
	}

	bookings, err := h.service.ListByClient(r.Context(), filter)
	if err != nil {
		h.logger.Error("GET /bookings - Failed to list bookings: client_id=%d, error=%v", clientID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /bookings - %d bookings listed: client_id=%d", len(bookings), clientID)
	handlers.RespondJSON(w, http.StatusOK, &BookingsResponse{Bookings: handlers.ToBookingViews(bookings)})
}
