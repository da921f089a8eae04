package billing

import "errors"

var (
	// ErrInvoiceNotFound возвращается, когда счет не найден
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrInvoiceCancelled возвращается при операции над отмененным счетом
	ErrInvoiceCancelled = errors.New("invoice is cancelled")

	// ErrOverpayment возвращается, когда платеж превышает остаток по счету
	ErrOverpayment = errors.New("payment exceeds invoice balance")

	// ErrAccessDenied возвращается, когда счет принадлежит другому клиенту
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("billing service: internal error")
)
