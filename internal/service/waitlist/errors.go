package waitlist

import "errors"

var (
	// ErrEntryNotFound возвращается, когда запись листа ожидания не найдена
	ErrEntryNotFound = errors.New("waitlist entry not found")

	// ErrNotPending возвращается при операции над уже обработанной записью
	ErrNotPending = errors.New("waitlist entry is not pending")

	// ErrAccessDenied возвращается, когда у клиента нет прав на запись
	ErrAccessDenied = errors.New("access denied")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("waitlist service: internal error")
)
