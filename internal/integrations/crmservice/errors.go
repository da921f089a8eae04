package crmservice

import "errors"

var (
	// ErrClientNotFound возвращается, когда клиент не найден в CRM
	ErrClientNotFound = errors.New("client not found in crm")

	// ErrPetNotOwned возвращается, когда питомец не принадлежит клиенту
	ErrPetNotOwned = errors.New("pet does not belong to client")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("crmservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("crmservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что CRM недоступна и проверку владения питомцами
	// на этот запрос пропускаем
	ErrServiceDegraded = errors.New("crmservice unavailable: graceful degradation applied")
)
