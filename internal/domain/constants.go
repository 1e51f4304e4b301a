package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 hours
	MaxServiceLabelLength  = 200
)

// LiveBookingStatuses статусы, при которых бронирование удерживает слот.
// Используется при поиске осиротевших claim'ов.
var LiveBookingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}

// ValidBookingStatuses все допустимые статусы бронирования
var ValidBookingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
}
