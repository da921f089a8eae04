package create_location

import (
	"errors"
	"net/http"

	"github.com/m04kA/DDC-BookingService/internal/api/handlers"
	"github.com/m04kA/DDC-BookingService/internal/service/locations"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные параметры площадки"
)

type Handler struct {
	service LocationService
	logger  Logger
}

func NewHandler(service LocationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/locations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateLocationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /locations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	location, err := h.service.Create(r.Context(), req.ToDomain())
	if err != nil {
		switch {
		case errors.Is(err, locations.ErrInvalidInput):
			h.logger.Warn("POST /locations - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /locations - Failed to create location: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /locations - Location created: location_id=%d, capacity=%d", location.ID, location.Capacity)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(location))
}
