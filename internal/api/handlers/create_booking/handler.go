package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/DDC-BookingService/internal/api/handlers"
	"github.com/m04kA/DDC-BookingService/internal/api/middleware"
	createBooking "github.com/m04kA/DDC-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается RFC3339"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgLocationNotFound   = "площадка не найдена"
	msgClientNotFound     = "клиент не найден"
	msgPetNotOwned        = "питомец не принадлежит клиенту"
	msgInvalidInterval    = "некорректный интервал бронирования"
	msgIntervalInPast     = "бронирование начинается в прошлом"
	msgOutsideHours       = "интервал выходит за операционные часы площадки"
	msgTooManyPets        = "превышен лимит питомцев на бронирование"
	msgInvalidInput       = "некорректные входные данные"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(clientID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrLocationNotFound):
			h.logger.Warn("POST /bookings - Location not found: location_id=%d", req.LocationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, createBooking.ErrClientNotFound):
			h.logger.Warn("POST /bookings - Client not found: client_id=%d", clientID)
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, createBooking.ErrPetNotOwned):
			h.logger.Warn("POST /bookings - Pet not owned: client_id=%d", clientID)
			handlers.RespondForbidden(w, msgPetNotOwned)

		case errors.Is(err, createBooking.ErrIntervalInPast):
			h.logger.Warn("POST /bookings - Interval in past: client_id=%d", clientID)
			handlers.RespondBadRequest(w, msgIntervalInPast)

		case errors.Is(err, createBooking.ErrOutsideOperatingHours):
			h.logger.Warn("POST /bookings - Outside operating hours: client_id=%d", clientID)
			handlers.RespondBadRequest(w, msgOutsideHours)

		case errors.Is(err, createBooking.ErrInvalidInterval):
			h.logger.Warn("POST /bookings - Invalid interval: client_id=%d", clientID)
			handlers.RespondBadRequest(w, msgInvalidInterval)

		case errors.Is(err, createBooking.ErrTooManyPets):
			h.logger.Warn("POST /bookings - Too many pets: client_id=%d, pets=%d", clientID, len(req.PetIDs))
			handlers.RespondBadRequest(w, msgTooManyPets)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: client_id=%d, error=%v", clientID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: client_id=%d, location_id=%d, error=%v",
				clientID, req.LocationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, client_id=%d, status=%s",
		result.ID, clientID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
