package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/DDC-BookingService/internal/api/handlers"
	getAvailability "github.com/m04kA/DDC-BookingService/internal/usecase/get_availability"
)

const (
	msgInvalidLocationID = "некорректный ID площадки"
	msgInvalidTime       = "некорректный формат времени, ожидается RFC3339"
	msgInvalidInterval   = "некорректный интервал запроса"
	msgLocationNotFound  = "площадка не найдена"
)

// SegmentResponse отрезок постоянной занятости площадки
type SegmentResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Occupied  int    `json:"occupied"`
	Free      int    `json:"free"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	LocationID int64             `json:"locationId"`
	StartTime  string            `json:"startTime"`
	EndTime    string            `json:"endTime"`
	Capacity   int               `json:"capacity"`
	Segments   []SegmentResponse `json:"segments"`
}

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/availability?startTime=&endTime=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	locationID, err := strconv.ParseInt(vars["locationId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /locations/{id}/availability - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	startTime, err := time.Parse(time.RFC3339, r.URL.Query().Get("startTime"))
	if err != nil {
		h.logger.Warn("GET /locations/{id}/availability - Invalid startTime: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	endTime, err := time.Parse(time.RFC3339, r.URL.Query().Get("endTime"))
	if err != nil {
		h.logger.Warn("GET /locations/{id}/availability - Invalid endTime: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		LocationID: locationID,
		StartTime:  startTime,
		EndTime:    endTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrLocationNotFound):
			h.logger.Warn("GET /locations/{id}/availability - Location not found: location_id=%d", locationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, getAvailability.ErrInvalidInterval), errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /locations/{id}/availability - Invalid request: location_id=%d, error=%v", locationID, err)
			handlers.RespondBadRequest(w, msgInvalidInterval)

		default:
			h.logger.Error("GET /locations/{id}/availability - Failed: location_id=%d, error=%v", locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := &AvailabilityResponse{
		LocationID: result.LocationID,
		StartTime:  result.StartTime.Format(time.RFC3339),
		EndTime:    result.EndTime.Format(time.RFC3339),
		Capacity:   result.Capacity,
		Segments:   make([]SegmentResponse, 0, len(result.Segments)),
	}
	for _, seg := range result.Segments {
		response.Segments = append(response.Segments, SegmentResponse{
			StartTime: seg.StartTime.Format(time.RFC3339),
			EndTime:   seg.EndTime.Format(time.RFC3339),
			Occupied:  seg.Occupied,
			Free:      seg.Free,
		})
	}

	h.logger.Info("GET /locations/{id}/availability - %d segments: location_id=%d", len(response.Segments), locationID)
	handlers.RespondJSON(w, http.StatusOK, response)
}
