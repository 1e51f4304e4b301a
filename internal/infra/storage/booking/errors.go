package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrStatusConflict возвращается, когда условное обновление статуса не
	// прошло: бронирование уже не в ожидаемом статусе
	ErrStatusConflict = errors.New("booking.repository: booking is not in the expected status")

	// ErrSlotAlreadyBooked возвращается при нарушении уникальности slot_id
	ErrSlotAlreadyBooked = errors.New("booking.repository: slot already has a booking")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
