package book_slot

import (
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// Request модель запроса на бронирование слота
type Request struct {
	CustomerID int64  // ID клиента
	SlotID     string // ID слота
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          string           // ID созданного бронирования
	SlotID      string           // ID слота
	CustomerID  int64            // ID клиента
	ProviderID  int64            // ID провайдера
	BookingDate time.Time        // Дата бронирования
	StartTime   types.TimeString // Время начала
	EndTime     types.TimeString // Время окончания
	Price       float64          // Зафиксированная цена на момент бронирования
	Status      string           // Статус бронирования

	CreatedAt time.Time // Время создания
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:          b.ID,
		SlotID:      b.SlotID,
		CustomerID:  b.CustomerID,
		ProviderID:  b.ProviderID,
		BookingDate: b.BookingDate,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Price:       b.Price,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
	}
}
