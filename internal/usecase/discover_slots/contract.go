package discover_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/internal/integrations/providerservice"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	SearchOpen(ctx context.Context, q domain.SlotSearchQuery) ([]*domain.AvailabilitySlot, error)
}

// ProviderDirectory интерфейс каталога провайдеров
type ProviderDirectory interface {
	GetProvider(ctx context.Context, providerID int64) (*providerservice.Provider, error)
}

// ProviderCache интерфейс кэша профилей провайдеров
// Кэш опционален: nil отключает кэширование
type ProviderCache interface {
	Get(ctx context.Context, providerID int64) (*providerservice.Provider, error)
	Set(ctx context.Context, provider *providerservice.Provider) error
}

// DistanceFilter интерфейс гео-фильтрации поисковой выдачи
// Подключается внешней реализацией, nil отключает фильтр.
// maxDistanceKm = 0 означает отсутствие ограничения по дистанции
type DistanceFilter interface {
	Apply(ctx context.Context, origin string, maxDistanceKm float64, results []SlotResult) []SlotResult
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
