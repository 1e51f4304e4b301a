package discover_slots

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/internal/integrations/providerservice"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// Поддерживаемые значения dateRange
const (
	dateRangeToday       = "today"
	dateRangeTomorrow    = "tomorrow"
	dateRangeWithin7Days = "within7days"
	dateRangeAny         = "any"
)

// Поддерживаемые значения timeOfDay и их окна
const (
	timeOfDayMorning   = "morning"   // 06:00 - 12:00
	timeOfDayAfternoon = "afternoon" // 12:00 - 18:00
	timeOfDayEvening   = "evening"   // 18:00 - 22:00
)

// dateWindow возвращает границы дат для dateRange
// Верхняя граница nil означает отсутствие ограничения
func dateWindow(dateRange string, now time.Time) (time.Time, *time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch dateRange {
	case "", dateRangeAny:
		return today, nil, nil
	case dateRangeToday:
		return today, &today, nil
	case dateRangeTomorrow:
		tomorrow := today.AddDate(0, 0, 1)
		return tomorrow, &tomorrow, nil
	case dateRangeWithin7Days:
		horizon := today.AddDate(0, 0, 7)
		return today, &horizon, nil
	default:
		return time.Time{}, nil, fmt.Errorf("%w: unknown dateRange %q", ErrInvalidInput, dateRange)
	}
}

// timeWindow возвращает границы времени для timeOfDay
// Нижняя граница включительно, верхняя исключительно
func timeWindow(timeOfDay string) (types.TimeString, types.TimeString, error) {
	switch timeOfDay {
	case "":
		return "", "", nil
	case timeOfDayMorning:
		return types.TimeString("06:00"), types.TimeString("12:00"), nil
	case timeOfDayAfternoon:
		return types.TimeString("12:00"), types.TimeString("18:00"), nil
	case timeOfDayEvening:
		return types.TimeString("18:00"), types.TimeString("22:00"), nil
	default:
		return "", "", fmt.Errorf("%w: unknown timeOfDay %q", ErrInvalidInput, timeOfDay)
	}
}

// sortOrder возвращает порядок сортировки выдачи
func sortOrder(sortBy string) (domain.SlotSortOrder, error) {
	switch sortBy {
	case "", string(domain.SortByDate):
		return domain.SortByDate, nil
	case string(domain.SortByPrice):
		return domain.SortByPrice, nil
	default:
		return "", fmt.Errorf("%w: unknown sortBy %q", ErrInvalidInput, sortBy)
	}
}

// maxDistanceKm разбирает параметр maxDistance. Пустое значение означает
// отсутствие ограничения (0)
func maxDistanceKm(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}

	km, err := strconv.ParseFloat(raw, 64)
	if err != nil || km <= 0 {
		return 0, fmt.Errorf("%w: maxDistance must be a positive number, got %q", ErrInvalidInput, raw)
	}
	return km, nil
}

// matchesLocation проверяет вхождение подстроки location в город,
// адрес или индекс провайдера без учета регистра
func matchesLocation(p *providerservice.Provider, location string) bool {
	needle := strings.ToLower(strings.TrimSpace(location))
	if needle == "" {
		return true
	}

	haystacks := []string{p.City, p.Address, p.Postcode}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}
