package create_booking

import "errors"

var (
	// ErrLocationNotFound возвращается, когда площадка не найдена
	ErrLocationNotFound = errors.New("create_booking: location not found")

	// ErrClientNotFound возвращается, когда клиент не найден в CRM
	ErrClientNotFound = errors.New("create_booking: client not found")

	// ErrPetNotOwned возвращается, когда питомец не принадлежит клиенту
	ErrPetNotOwned = errors.New("create_booking: pet does not belong to client")

	// ErrInvalidInterval возвращается при некорректном интервале бронирования
	ErrInvalidInterval = errors.New("create_booking: invalid booking interval")

	// ErrIntervalInPast возвращается, когда интервал начинается в прошлом
	ErrIntervalInPast = errors.New("create_booking: booking starts in the past")

	// ErrOutsideOperatingHours возвращается, когда интервал выходит за
	// операционные часы площадки
	ErrOutsideOperatingHours = errors.New("create_booking: outside operating hours")

	// ErrTooManyPets возвращается при превышении лимита питомцев на бронирование
	ErrTooManyPets = errors.New("create_booking: too many pets")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
