package discover_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/internal/infra/cache"
	"github.com/m04kA/SMC-SlotService/internal/integrations/providerservice"
)

// Множитель выборки при фильтрации по локации: часть строк
// отсеивается после обогащения, добираем с запасом
const locationFetchMultiplier = 5

// UseCase use case публичного поиска открытых слотов
type UseCase struct {
	slotRepo       SlotRepository
	directory      ProviderDirectory
	providerCache  ProviderCache  // nil = без кэширования
	distanceFilter DistanceFilter // nil = без гео-фильтра
	timeProvider   TimeProvider
	pageSize       uint64
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	directory ProviderDirectory,
	providerCache ProviderCache,
	distanceFilter DistanceFilter,
	pageSize uint64,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:       slotRepo,
		directory:      directory,
		providerCache:  providerCache,
		distanceFilter: distanceFilter,
		timeProvider:   &RealTimeProvider{},
		pageSize:       pageSize,
		logger:         logger,
	}
}

// Execute выполняет поиск открытых слотов с обогащением данными провайдеров
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("DiscoverSlots: category=%q, dateRange=%q, timeOfDay=%q, location=%q, sortBy=%q",
		req.Category, req.DateRange, req.TimeOfDay, req.Location, req.SortBy)

	// 1. Разбираем параметры поиска
	now := uc.timeProvider.Now()

	dateFrom, dateTo, err := dateWindow(req.DateRange, now)
	if err != nil {
		uc.logger.Warn("DiscoverSlots: %v", err)
		return nil, err
	}

	timeFrom, timeTo, err := timeWindow(req.TimeOfDay)
	if err != nil {
		uc.logger.Warn("DiscoverSlots: %v", err)
		return nil, err
	}

	sort, err := sortOrder(req.SortBy)
	if err != nil {
		uc.logger.Warn("DiscoverSlots: %v", err)
		return nil, err
	}

	maxDistance, err := maxDistanceKm(req.MaxDistance)
	if err != nil {
		uc.logger.Warn("DiscoverSlots: %v", err)
		return nil, err
	}

	// 2. Определяем размер выборки: при фильтре по локации берем с запасом
	limit := uc.pageSize
	if req.Location != "" {
		limit = uc.pageSize * locationFetchMultiplier
	}

	// 3. Выбираем открытые слоты
	slots, err := uc.slotRepo.SearchOpen(ctx, domain.SlotSearchQuery{
		Category: req.Category,
		DateFrom: dateFrom,
		DateTo:   dateTo,
		TimeFrom: timeFrom,
		TimeTo:   timeTo,
		Sort:     sort,
		Limit:    limit,
	})
	if err != nil {
		uc.logger.Error("DiscoverSlots: repository error: %v", err)
		return nil, fmt.Errorf("%w: search failed: %v", ErrInternal, err)
	}

	// 4. Обогащаем выдачу профилями провайдеров
	results := uc.enrich(ctx, slots, req.Location)

	// 5. Опциональный гео-фильтр
	if uc.distanceFilter != nil && req.Location != "" {
		results = uc.distanceFilter.Apply(ctx, req.Location, maxDistance, results)
	}

	// 6. Ограничиваем выдачу размером страницы
	if uint64(len(results)) > uc.pageSize {
		results = results[:uc.pageSize]
	}

	uc.logger.Info("DiscoverSlots: returning %d slots", len(results))
	return &Response{Slots: results}, nil
}

// enrich добавляет к слотам профили провайдеров и применяет фильтр по локации.
// Слоты провайдеров, чьи профили получить не удалось, выпадают из выдачи
func (uc *UseCase) enrich(ctx context.Context, slots []*domain.AvailabilitySlot, location string) []SlotResult {
	providers := make(map[int64]*providerservice.Provider)
	results := make([]SlotResult, 0, len(slots))

	for _, slot := range slots {
		provider, ok := providers[slot.ProviderID]
		if !ok {
			var err error
			provider, err = uc.fetchProvider(ctx, slot.ProviderID)
			if err != nil {
				uc.logger.Warn("DiscoverSlots: dropping slots of provider=%d: %v", slot.ProviderID, err)
				providers[slot.ProviderID] = nil
				continue
			}
			providers[slot.ProviderID] = provider
		}
		if provider == nil {
			continue
		}

		if !matchesLocation(provider, location) {
			continue
		}

		results = append(results, SlotResult{
			ID:              slot.ID,
			Date:            slot.Date.Format(domain.DateFormat),
			StartTime:       slot.StartTime.String(),
			EndTime:         slot.EndTime.String(),
			DurationMinutes: slot.DurationMinutes,
			Price:           slot.Price,
			DiscountPrice:   slot.DiscountPrice,
			ServiceLabel:    slot.ServiceLabel,
			Provider: ProviderInfo{
				ID:           provider.ID,
				DisplayName:  provider.DisplayName,
				BusinessName: provider.BusinessName,
				Category:     provider.Category,
				City:         provider.City,
				Address:      provider.Address,
				Postcode:     provider.Postcode,
				Rating:       provider.Rating,
				ReviewCount:  provider.ReviewCount,
			},
		})
	}

	return results
}

// fetchProvider получает профиль провайдера через кэш с фолбэком в каталог
func (uc *UseCase) fetchProvider(ctx context.Context, providerID int64) (*providerservice.Provider, error) {
	if uc.providerCache != nil {
		provider, err := uc.providerCache.Get(ctx, providerID)
		if err == nil {
			return provider, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			uc.logger.Warn("DiscoverSlots: cache error for provider=%d: %v", providerID, err)
		}
	}

	provider, err := uc.directory.GetProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	if uc.providerCache != nil {
		if err := uc.providerCache.Set(ctx, provider); err != nil {
			uc.logger.Warn("DiscoverSlots: failed to cache provider=%d: %v", providerID, err)
		}
	}

	return provider, nil
}
