package get_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/DDC-BookingService/internal/api/handlers"
	"github.com/m04kA/DDC-BookingService/internal/api/middleware"
	"github.com/m04kA/DDC-BookingService/internal/service/billing"
	"github.com/m04kA/DDC-BookingService/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgForbidden        = "доступ запрещен"
)

// BookingWithInvoiceResponse бронирование со снимком счета
type BookingWithInvoiceResponse struct {
	Booking *handlers.BookingView `json:"booking"`
	Invoice *handlers.InvoiceView `json:"invoice,omitempty"`
}

type Handler struct {
	bookingService BookingService
	billingService BillingService
	logger         Logger
}

func NewHandler(bookingService BookingService, billingService BillingService, logger Logger) *Handler {
	return &Handler{
		bookingService: bookingService,
		billingService: billingService,
		logger:         logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	booking, err := h.bookingService.GetByID(r.Context(), bookingID, clientID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /bookings/{id} - Access denied: booking_id=%d, client_id=%d", bookingID, clientID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /bookings/{id} - Failed to get booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := &BookingWithInvoiceResponse{Booking: handlers.ToBookingView(booking)}

	// Счета может не быть: лист ожидания еще не биллится
	invoice, err := h.billingService.GetByBooking(r.Context(), bookingID)
	switch {
	case err == nil:
		response.Invoice = handlers.ToInvoiceView(invoice)
	case errors.Is(err, billing.ErrInvoiceNotFound):
	default:
		h.logger.Error("GET /bookings/{id} - Failed to get invoice: booking_id=%d, error=%v", bookingID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /bookings/{id} - Booking retrieved: booking_id=%d, client_id=%d", bookingID, clientID)
	handlers.RespondJSON(w, http.StatusOK, response)
}
