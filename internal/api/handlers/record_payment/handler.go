package record_payment

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/DDC-BookingService/internal/api/handlers"
	"github.com/m04kA/DDC-BookingService/internal/service/billing"
	"github.com/m04kA/DDC-BookingService/pkg/money"
)

const (
	msgInvalidInvoiceID   = "некорректный ID счета"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "счет не найден"
	msgCancelled          = "счет отменен"
	msgOverpayment        = "платеж превышает остаток по счету"
	msgInvalidInput       = "некорректные параметры платежа"
)

// RecordPaymentRequest HTTP request model
type RecordPaymentRequest struct {
	AmountCents int64   `json:"amountCents"`
	Method      string  `json:"method"` // card, cash, deposit
	Reference   *string `json:"reference,omitempty"`
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

// Handle POST /api/v1/invoices/{invoiceId}/payments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	invoiceID, err := strconv.ParseInt(vars["invoiceId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /invoices/{id}/payments - Invalid invoice ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInvoiceID)
		return
	}

	var req RecordPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /invoices/{id}/payments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	invoice, err := h.service.RecordPayment(r.Context(), invoiceID, money.Cents(req.AmountCents), req.Method, req.Reference, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrInvoiceNotFound):
			h.logger.Warn("POST /invoices/{id}/payments - Invoice not found: invoice_id=%d", invoiceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, billing.ErrInvoiceCancelled):
			h.logger.Warn("POST /invoices/{id}/payments - Invoice cancelled: invoice_id=%d", invoiceID)
			handlers.RespondConflict(w, msgCancelled)

		case errors.Is(err, billing.ErrOverpayment):
			h.logger.Warn("POST /invoices/{id}/payments - Overpayment: invoice_id=%d, amount=%d", invoiceID, req.AmountCents)
			handlers.RespondConflict(w, msgOverpayment)

		case errors.Is(err, billing.ErrInvalidInput):
			h.logger.Warn("POST /invoices/{id}/payments - Invalid input: invoice_id=%d, error=%v", invoiceID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /invoices/{id}/payments - Failed to record payment: invoice_id=%d, error=%v", invoiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /invoices/{id}/payments - Payment recorded: invoice_id=%d, amount=%d, status=%s",
		invoiceID, req.AmountCents, invoice.Status)
	handlers.RespondJSON(w, http.StatusCreated, handlers.ToInvoiceView(invoice))
}
