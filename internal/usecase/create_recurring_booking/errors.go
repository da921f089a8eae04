package create_recurring_booking

import "errors"

var (
	// ErrLocationNotFound возвращается, когда площадка не найдена
	ErrLocationNotFound = errors.New("create_recurring_booking: location not found")

	// ErrClientNotFound возвращается, когда клиент не найден в CRM
	ErrClientNotFound = errors.New("create_recurring_booking: client not found")

	// ErrPetNotOwned возвращается, когда питомец не принадлежит клиенту
	ErrPetNotOwned = errors.New("create_recurring_booking: pet does not belong to client")

	// ErrInvalidSeries возвращается при некорректных параметрах серии
	ErrInvalidSeries = errors.New("create_recurring_booking: invalid series")

	// ErrEmptySeries возвращается, когда серия не дает ни одного вхождения
	ErrEmptySeries = errors.New("create_recurring_booking: series yields no occurrences")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_recurring_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_recurring_booking: internal error")
)
