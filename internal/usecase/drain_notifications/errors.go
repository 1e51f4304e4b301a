package drain_notifications

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("drain_notifications: internal error")
)
