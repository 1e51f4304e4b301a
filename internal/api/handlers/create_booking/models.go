package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	bookSlot "github.com/m04kA/SMC-SlotService/internal/usecase/book_slot"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SlotID string `json:"slotId"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          string  `json:"id"`
	SlotID      string  `json:"slotId"`
	CustomerID  int64   `json:"customerId"`
	ProviderID  int64   `json:"providerId"`
	BookingDate string  `json:"bookingDate"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookSlot.Response) *BookingResponse {
	return &BookingResponse{
		ID:          resp.ID,
		SlotID:      resp.SlotID,
		CustomerID:  resp.CustomerID,
		ProviderID:  resp.ProviderID,
		BookingDate: resp.BookingDate.Format(domain.DateFormat),
		StartTime:   resp.StartTime.String(),
		EndTime:     resp.EndTime.String(),
		Price:       resp.Price,
		Status:      resp.Status,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
	}
}
