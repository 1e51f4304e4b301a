package mailsender

import "errors"

var (
	// ErrSendRejected возвращается, когда сервис отправки отклонил письмо
	ErrSendRejected = errors.New("mailsender client: send rejected")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("mailsender client: internal error")
)
