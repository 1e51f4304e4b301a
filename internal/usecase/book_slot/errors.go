package book_slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден или отменён
	ErrSlotNotFound = errors.New("book_slot: slot not found")

	// ErrSlotNotAvailable возвращается, когда слот уже занят другим бронированием
	ErrSlotNotAvailable = errors.New("book_slot: slot is not available")

	// ErrSlotInPast возвращается при попытке забронировать начавшийся слот
	ErrSlotInPast = errors.New("book_slot: slot has already started")

	// ErrOwnSlot возвращается, когда провайдер бронирует собственный слот
	ErrOwnSlot = errors.New("book_slot: provider cannot book own slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_slot: internal error")
)
