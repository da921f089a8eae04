package packages

import "errors"

var (
	// ErrPackageNotFound возвращается, когда пакет не найден
	ErrPackageNotFound = errors.New("package not found")

	// ErrInsufficientCredits возвращается, когда кредитов не хватает
	ErrInsufficientCredits = errors.New("insufficient package credits")

	// ErrPackageExpired возвращается при списании с истекшего пакета
	ErrPackageExpired = errors.New("package is expired")

	// ErrAccessDenied возвращается, когда пакет принадлежит другому клиенту
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("packages service: internal error")
)
