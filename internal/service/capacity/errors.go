package capacity

import "errors"

var (
	// ErrCapacityExceeded возвращается, когда площадка не вмещает запрос
	ErrCapacityExceeded = errors.New("location capacity exceeded")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("capacity service: internal error")
)
