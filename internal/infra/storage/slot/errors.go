package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrSlotNotAvailable возвращается, когда условный Claim не прошел:
	// слот уже занят, отменен или не существует
	ErrSlotNotAvailable = errors.New("slot.repository: slot not available")

	// ErrSlotNotClaimed возвращается при попытке переоткрыть незанятый слот
	ErrSlotNotClaimed = errors.New("slot.repository: slot is not claimed")

	// ErrSlotClaimed возвращается при попытке отменить занятый слот
	ErrSlotClaimed = errors.New("slot.repository: slot is claimed")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
