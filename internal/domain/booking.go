package domain

import (
	"time"

	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking represents a customer's reservation against a claimed slot.
// Date, times and price are copied from the slot at claim time and are
// not live-linked afterwards.
type Booking struct {
	ID              string
	SlotID          string
	CustomerID      int64
	ProviderID      int64
	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	Price           float64
	Status          BookingStatus
	StatusChangedAt time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsTerminal returns true if the booking is in a terminal state
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// IsLive returns true if the booking keeps its slot claimed
func (b *Booking) IsLive() bool {
	return b.Status != StatusCancelled
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanTransitionTo reports whether the state machine permits the transition
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	switch next {
	case StatusConfirmed:
		return b.Status == StatusPending
	case StatusCompleted:
		return b.Status == StatusConfirmed
	case StatusCancelled:
		return b.CanBeCancelled()
	default:
		return false
	}
}
