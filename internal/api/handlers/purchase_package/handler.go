package purchase_package

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/DDC-BookingService/internal/api/handlers"
	"github.com/m04kA/DDC-BookingService/internal/api/middleware"
	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/internal/service/packages"
	"github.com/m04kA/DDC-BookingService/pkg/money"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные параметры пакета"
)

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

// Handle POST /api/v1/packages
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /packages - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req PurchasePackageRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /packages - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	expiryDate, err := time.Parse(domain.DateFormat, req.ExpiryDate)
	if err != nil {
		h.logger.Warn("POST /packages - Invalid expiry date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	pkg, err := h.service.Purchase(r.Context(), clientID, req.TotalCredits, money.Cents(req.PriceCents), time.Now(), expiryDate)
	if err != nil {
		switch {
		case errors.Is(err, packages.ErrInvalidInput):
			h.logger.Warn("POST /packages - Invalid input: client_id=%d, error=%v", clientID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /packages - Failed to purchase package: client_id=%d, error=%v", clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /packages - Package purchased: package_id=%d, client_id=%d, credits=%d",
		pkg.ID, clientID, pkg.TotalCredits)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(pkg))
}
