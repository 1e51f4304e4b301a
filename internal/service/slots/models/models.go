package models

import (
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// Request модели

// CreateSlotRequest запрос на публикацию слота
type CreateSlotRequest struct {
	ProviderID    int64
	Date          time.Time
	StartTime     types.TimeString
	EndTime       types.TimeString
	Price         float64
	DiscountPrice *float64
	ServiceLabel  string
}

// GetProviderSlotsRequest запрос на получение слотов провайдера
type GetProviderSlotsRequest struct {
	ProviderID int64
	DateFrom   *time.Time
	DateTo     *time.Time
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetProviderSlotsRequest) ToDomainFilter() domain.ProviderSlotsFilter {
	return domain.ProviderSlotsFilter{
		ProviderID: r.ProviderID,
		DateFrom:   r.DateFrom,
		DateTo:     r.DateTo,
	}
}

// Response модели

// SlotResponse ответ с данными слота
type SlotResponse struct {
	ID              string    `json:"id"`
	ProviderID      int64     `json:"providerId"`
	Date            string    `json:"date"`      // "2025-10-15"
	StartTime       string    `json:"startTime"` // "10:00"
	EndTime         string    `json:"endTime"`   // "11:00"
	DurationMinutes int       `json:"durationMinutes"`
	Price           float64   `json:"price"`
	DiscountPrice   *float64  `json:"discountPrice,omitempty"`
	ServiceLabel    string    `json:"serviceLabel"`
	IsClaimed       bool      `json:"isClaimed"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// SlotListResponse ответ со списком слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// Методы конвертации

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.AvailabilitySlot) *SlotResponse {
	if s == nil {
		return nil
	}

	return &SlotResponse{
		ID:              s.ID,
		ProviderID:      s.ProviderID,
		Date:            s.Date.Format(domain.DateFormat),
		StartTime:       s.StartTime.String(),
		EndTime:         s.EndTime.String(),
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		DiscountPrice:   s.DiscountPrice,
		ServiceLabel:    s.ServiceLabel,
		IsClaimed:       s.IsClaimed,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// FromDomainSlotList конвертирует список domain моделей в DTO
func FromDomainSlotList(slots []*domain.AvailabilitySlot) *SlotListResponse {
	resp := &SlotListResponse{
		Slots: make([]SlotResponse, 0, len(slots)),
	}

	for _, slot := range slots {
		if slotResp := FromDomainSlot(slot); slotResp != nil {
			resp.Slots = append(resp.Slots, *slotResp)
		}
	}

	return resp
}
