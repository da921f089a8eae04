package get_client_packages

import (
	"net/http"
	"time"

	"github.com/m04kA/DDC-BookingService/internal/api/handlers"
	"github.com/m04kA/DDC-BookingService/internal/api/middleware"
	"github.com/m04kA/DDC-BookingService/internal/domain"
)

const msgMissingUserID = "отсутствует ID пользователя"

// PackageResponse HTTP представление пакета кредитов
type PackageResponse struct {
	ID               int64  `json:"id"`
	ClientID         int64  `json:"clientId"`
	TotalCredits     int64  `json:"totalCredits"`
	RemainingCredits int64  `json:"remainingCredits"`
	CreditValueCents int64  `json:"creditValueCents"`
	PurchaseDate     string `json:"purchaseDate"`
	ExpiryDate       string `json:"expiryDate"`
	Expired          bool   `json:"expired"`
}

// PackagesResponse список пакетов клиента
type PackagesResponse struct {
	Packages []*PackageResponse `json:"packages"`
}

type Handler struct {
	service PackageService
	logger  Logger
}

func NewHandler(service PackageService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/packages
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /packages - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	list, err := h.service.GetByClient(r.Context(), clientID)
	if err != nil {
		h.logger.Error("GET /packages - Failed to list packages: client_id=%d, error=%v", clientID, err)
		handlers.RespondInternalError(w)
		return
	}

	now := time.Now()
	response := &PackagesResponse{Packages: make([]*PackageResponse, 0, len(list))}
	for _, p := range list {
		response.Packages = append(response.Packages, &PackageResponse{
			ID:               p.ID,
			ClientID:         p.ClientID,
			TotalCredits:     p.TotalCredits,
			RemainingCredits: p.RemainingCredits,
			CreditValueCents: int64(p.CreditValueCents),
			PurchaseDate:     p.PurchaseDate.Format(domain.DateFormat),
			ExpiryDate:       p.ExpiryDate.Format(domain.DateFormat),
			Expired:          p.IsExpiredAt(now),
		})
	}

	h.logger.Info("GET /packages - %d packages listed: client_id=%d", len(list), clientID)
	handlers.RespondJSON(w, http.StatusOK, response)
}
