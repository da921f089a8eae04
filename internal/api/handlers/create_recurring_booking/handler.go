package create_recurring_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/DDC-BookingService/internal/api/handlers"
	"github.com/m04kA/DDC-BookingService/internal/api/middleware"
	createRecurring "github.com/m04kA/DDC-BookingService/internal/usecase/create_recurring_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат даты или времени"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgLocationNotFound   = "площадка не найдена"
	msgClientNotFound     = "клиент не найден"
	msgPetNotOwned        = "питомец не принадлежит клиенту"
	msgInvalidSeries      = "некорректные параметры серии"
	msgEmptySeries        = "серия не дает ни одного бронирования"
	msgInvalidInput       = "некорректные входные данные"
)

type Handler struct {
	useCase CreateRecurringBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateRecurringBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/recurring
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/recurring - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateRecurringBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/recurring - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(clientID)
	if err != nil {
		h.logger.Warn("POST /bookings/recurring - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createRecurring.ErrLocationNotFound):
			h.logger.Warn("POST /bookings/recurring - Location not found: location_id=%d", req.LocationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, createRecurring.ErrClientNotFound):
			h.logger.Warn("POST /bookings/recurring - Client not found: client_id=%d", clientID)
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, createRecurring.ErrPetNotOwned):
			h.logger.Warn("POST /bookings/recurring - Pet not owned: client_id=%d", clientID)
			handlers.RespondForbidden(w, msgPetNotOwned)

		case errors.Is(err, createRecurring.ErrInvalidSeries):
			h.logger.Warn("POST /bookings/recurring - Invalid series: client_id=%d, error=%v", clientID, err)
			handlers.RespondBadRequest(w, msgInvalidSeries)

		case errors.Is(err, createRecurring.ErrEmptySeries):
			h.logger.Warn("POST /bookings/recurring - Empty series: client_id=%d", clientID)
			handlers.RespondBadRequest(w, msgEmptySeries)

		case errors.Is(err, createRecurring.ErrInvalidInput):
			h.logger.Warn("POST /bookings/recurring - Invalid input: client_id=%d, error=%v", clientID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings/recurring - Failed to create series: client_id=%d, location_id=%d, error=%v",
				clientID, req.LocationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings/recurring - Series created: series_id=%d, client_id=%d, occurrences=%d, interrupted=%t",
		result.SeriesID, clientID, len(result.Occurrences), result.Interrupted)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
