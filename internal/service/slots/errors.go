package slots

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден или уже отменён
	ErrSlotNotFound = errors.New("slot not found")

	// ErrSlotClaimed возвращается при попытке отменить занятый слот
	ErrSlotClaimed = errors.New("slot is claimed by a booking")

	// ErrAccessDenied возвращается, когда слот принадлежит другому провайдеру
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
