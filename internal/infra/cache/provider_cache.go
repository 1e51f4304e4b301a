package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SlotService/internal/integrations/providerservice"
)

// ErrCacheMiss возвращается, когда профиль провайдера отсутствует в кэше
var ErrCacheMiss = errors.New("provider cache: miss")

// ProviderCache кэш профилей провайдеров поверх Redis.
// Снимает нагрузку с ProviderService при обогащении поисковой выдачи.
type ProviderCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProviderCache создает кэш профилей провайдеров
func NewProviderCache(client *redis.Client, ttl time.Duration) *ProviderCache {
	return &ProviderCache{client: client, ttl: ttl}
}

// Get возвращает профиль провайдера из кэша или ErrCacheMiss
func (c *ProviderCache) Get(ctx context.Context, providerID int64) (*providerservice.Provider, error) {
	raw, err := c.client.Get(ctx, providerKey(providerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("provider cache: get: %w", err)
	}

	var provider providerservice.Provider
	if err := json.Unmarshal(raw, &provider); err != nil {
		// Битая запись равносильна промаху
		return nil, ErrCacheMiss
	}

	return &provider, nil
}

// Set сохраняет профиль провайдера в кэш с настроенным TTL
func (c *ProviderCache) Set(ctx context.Context, provider *providerservice.Provider) error {
	raw, err := json.Marshal(provider)
	if err != nil {
		return fmt.Errorf("provider cache: marshal: %w", err)
	}

	if err := c.client.Set(ctx, providerKey(provider.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("provider cache: set: %w", err)
	}

	return nil
}

func providerKey(providerID int64) string {
	return fmt.Sprintf("provider:%d", providerID)
}
