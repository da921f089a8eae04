package modify_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("modify_booking: booking not found")

	// ErrLocationNotFound возвращается, когда площадка не найдена
	ErrLocationNotFound = errors.New("modify_booking: location not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит другому клиенту
	ErrAccessDenied = errors.New("modify_booking: access denied")

	// ErrCannotModify возвращается, когда бронирование нельзя изменить
	// (завершенное, отмененное или стоящее в листе ожидания)
	ErrCannotModify = errors.New("modify_booking: booking cannot be modified")

	// ErrCapacityExceeded возвращается, когда измененное бронирование не
	// помещается. Исходное бронирование при этом остается нетронутым.
	ErrCapacityExceeded = errors.New("modify_booking: location capacity exceeded")

	// ErrInvalidInterval возвращается при некорректном новом интервале
	ErrInvalidInterval = errors.New("modify_booking: invalid booking interval")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("modify_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("modify_booking: internal error")
)
