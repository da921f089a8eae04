package get_invoice

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/DDC-BookingService/internal/api/handlers"
	"github.com/m04kA/DDC-BookingService/internal/api/middleware"
	"github.com/m04kA/DDC-BookingService/internal/service/billing"
)

const (
	msgInvalidInvoiceID = "некорректный ID счета"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "счет не найден"
	msgForbidden        = "доступ запрещен"
)

// InvoicesResponse список счетов клиента
type InvoicesResponse struct {
	Invoices []*handlers.InvoiceView `json:"invoices"`
}

type Handler struct {
	service BillingService
	logger  Logger
}

func NewHandler(service BillingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleGet GET /api/v1/invoices/{invoiceId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	invoiceID, err := strconv.ParseInt(vars["invoiceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /invoices/{id} - Invalid invoice ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInvoiceID)
		return
	}

	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /invoices/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	invoice, err := h.service.GetByID(r.Context(), invoiceID, clientID)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrInvoiceNotFound):
			h.logger.Warn("GET /invoices/{id} - Invoice not found: invoice_id=%d", invoiceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, billing.ErrAccessDenied):
			h.logger.Warn("GET /invoices/{id} - Access denied: invoice_id=%d, client_id=%d", invoiceID, clientID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /invoices/{id} - Failed to get invoice: invoice_id=%d, error=%v", invoiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /invoices/{id} - Invoice retrieved: invoice_id=%d, client_id=%d", invoiceID, clientID)
	handlers.RespondJSON(w, http.StatusOK, handlers.ToInvoiceView(invoice))
}

// HandleList GET /api/v1/invoices
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /invoices - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	list, err := h.service.ListByClient(r.Context(), clientID)
	if err != nil {
		h.logger.Error("GET /invoices - Failed to list invoices: client_id=%d, error=%v", clientID, err)
		handlers.RespondInternalError(w)
		return
	}

	response := &InvoicesResponse{Invoices: make([]*handlers.InvoiceView, 0, len(list))}
	for _, inv := range list {
		response.Invoices = append(response.Invoices, handlers.ToInvoiceView(inv))
	}

	h.logger.Info("GET /invoices - %d invoices listed: client_id=%d", len(list), clientID)
	handlers.RespondJSON(w, http.StatusOK, response)
}
