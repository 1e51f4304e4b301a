package discover_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных параметрах поиска
	ErrInvalidInput = errors.New("discover_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("discover_slots: internal error")
)
