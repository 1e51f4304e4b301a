package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error)
	GetByID(ctx context.Context, id string) (*domain.AvailabilitySlot, error)
	ListByProvider(ctx context.Context, filter domain.ProviderSlotsFilter) ([]*domain.AvailabilitySlot, error)
	CancelOpen(ctx context.Context, id string) error
	ReopenOrphaned(ctx context.Context, grace time.Duration) ([]string, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
