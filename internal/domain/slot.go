package domain

import (
	"time"

	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// AvailabilitySlot represents a provider-published time window open for booking
type AvailabilitySlot struct {
	ID              string
	ProviderID      int64
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Price           float64
	DiscountPrice   *float64
	ServiceLabel    string
	IsClaimed       bool
	IsCancelled     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsOpen returns true if the slot can still be claimed
func (s *AvailabilitySlot) IsOpen() bool {
	return !s.IsClaimed && !s.IsCancelled
}

// EffectivePrice returns the discount price when present, the base price otherwise
func (s *AvailabilitySlot) EffectivePrice() float64 {
	if s.DiscountPrice != nil {
		return *s.DiscountPrice
	}
	return s.Price
}

// HasStarted returns true if the slot's start moment is in the past relative to now
func (s *AvailabilitySlot) HasStarted(now time.Time) bool {
	y, m, d := s.Date.Date()
	slotDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if slotDay.Before(nowDay) {
		return true
	}
	if slotDay.After(nowDay) {
		return false
	}
	return !s.StartTime.IsAfter(types.NewTimeString(now))
}

// ProviderSlotsFilter фильтр для выборки слотов провайдера
type ProviderSlotsFilter struct {
	ProviderID int64
	DateFrom   *time.Time // Начало периода (опционально)
	DateTo     *time.Time // Конец периода (опционально)
}

// SlotSortOrder порядок сортировки поисковой выдачи
type SlotSortOrder string

const (
	SortByDate  SlotSortOrder = "date"
	SortByPrice SlotSortOrder = "price"
)

// SlotSearchQuery параметры выборки открытых слотов для discovery.
// Location фильтруется на уровне usecase после обогащения данными провайдера.
type SlotSearchQuery struct {
	Category string // Подстрока service_label (без учета регистра)
	DateFrom time.Time
	DateTo   *time.Time       // nil = без верхней границы
	TimeFrom types.TimeString // "" = без нижней границы времени
	TimeTo   types.TimeString // "" = без верхней границы времени (исключительно)
	Sort     SlotSortOrder
	Limit    uint64
}
