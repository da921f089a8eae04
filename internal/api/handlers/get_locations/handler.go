package get_locations

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/DDC-BookingService/internal/api/handlers"
	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/internal/service/locations"
)

const (
	msgInvalidLocationID = "некорректный ID площадки"
	msgNotFound          = "площадка не найдена"
)

// LocationResponse HTTP представление площадки
type LocationResponse struct {
	ID                   int64  `json:"id"`
	Name                 string `json:"name"`
	Capacity             int    `json:"capacity"`
	BaseRateCents        int64  `json:"baseRateCents"`
	SecondPetDiscountPct int64  `json:"secondPetDiscountPct"`
	GSTRegistered        bool   `json:"gstRegistered"`
	Timezone             string `json:"timezone"`
	CreatedAt            string `json:"createdAt"`
	UpdatedAt            string `json:"updatedAt"`
}

// LocationsResponse список площадок
type LocationsResponse struct {
	Locations []*LocationResponse `json:"locations"`
}

func fromDomain(l *domain.Location) *LocationResponse {
	return &LocationResponse{
		ID:                   l.ID,
		Name:                 l.Name,
		Capacity:             l.Capacity,
		BaseRateCents:        int64(l.BaseRateCents),
		SecondPetDiscountPct: l.SecondPetDiscountPct,
		GSTRegistered:        l.GSTRegistered,
		Timezone:             l.Timezone,
		CreatedAt:            l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            l.UpdatedAt.Format(time.RFC3339),
	}
}

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

// HandleList GET /api/v1/locations
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("GET /locations - Failed to list locations: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	response := &LocationsResponse{Locations: make([]*LocationResponse, 0, len(list))}
	for _, l := range list {
		response.Locations = append(response.Locations, fromDomain(l))
	}

	h.logger.Info("GET /locations - %d locations listed", len(list))
	handlers.RespondJSON(w, http.StatusOK, response)
}

// HandleGet GET /api/v1/locations/{locationId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	locationID, err := strconv.ParseInt(vars["locationId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /locations/{id} - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	location, err := h.service.GetByID(r.Context(), locationID)
	if err != nil {
		switch {
		case errors.Is(err, locations.ErrLocationNotFound):
			h.logger.Warn("GET /locations/{id} - Location not found: location_id=%d", locationID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /locations/{id} - Failed to get location: location_id=%d, error=%v", locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /locations/{id} - Location retrieved: location_id=%d", locationID)
	handlers.RespondJSON(w, http.StatusOK, fromDomain(location))
}
