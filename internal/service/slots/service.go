package slots

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	slotRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-SlotService/internal/service/slots/models"
)

// Service сервис для работы со слотами доступности
type Service struct {
	slotRepo SlotRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(slotRepo SlotRepository, logger Logger) *Service {
	return &Service{
		slotRepo: slotRepo,
		logger:   logger,
	}
}

// Create публикует новый слот доступности
func (s *Service) Create(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("Create: creating slot for provider=%d, date=%s, start=%s",
		req.ProviderID, req.Date.Format(domain.DateFormat), req.StartTime)

	slot, err := s.buildSlot(req)
	if err != nil {
		s.logger.Warn("Create: validation failed for provider=%d: %v", req.ProviderID, err)
		return nil, err
	}

	created, err := s.slotRepo.Create(ctx, slot)
	if err != nil {
		s.logger.Error("Create: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created slot id=%s for provider=%d", created.ID, created.ProviderID)
	return models.FromDomainSlot(created), nil
}

// Cancel отменяет открытый слот
// Провайдер может отменить только свой слот, занятый слот отменить нельзя
func (s *Service) Cancel(ctx context.Context, slotID string, providerID int64) error {
	s.logger.Info("Cancel: cancelling slot id=%s by provider=%d", slotID, providerID)

	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("Cancel: slot id=%s not found", slotID)
			return ErrSlotNotFound
		}
		s.logger.Error("Cancel: repository error for slot id=%s: %v", slotID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if slot.ProviderID != providerID {
		s.logger.Warn("Cancel: access denied for provider=%d to slot id=%s", providerID, slotID)
		return ErrAccessDenied
	}

	// Отменённый слот для клиента неотличим от несуществующего
	if slot.IsCancelled {
		s.logger.Warn("Cancel: slot id=%s is already cancelled", slotID)
		return ErrSlotNotFound
	}

	if slot.IsClaimed {
		s.logger.Warn("Cancel: slot id=%s is claimed, cannot cancel", slotID)
		return ErrSlotClaimed
	}

	if err := s.slotRepo.CancelOpen(ctx, slotID); err != nil {
		// Слот могли занять между чтением и отменой
		if errors.Is(err, slotRepo.ErrSlotClaimed) {
			s.logger.Warn("Cancel: slot id=%s was claimed concurrently", slotID)
			return ErrSlotClaimed
		}
		s.logger.Error("Cancel: repository error for slot id=%s: %v", slotID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled slot id=%s", slotID)
	return nil
}

// ListByProvider получает слоты провайдера, включая занятые
func (s *Service) ListByProvider(ctx context.Context, req *models.GetProviderSlotsRequest) (*models.SlotListResponse, error) {
	s.logger.Info("ListByProvider: fetching slots for provider=%d", req.ProviderID)

	slots, err := s.slotRepo.ListByProvider(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("ListByProvider: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: ListByProvider - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByProvider: successfully fetched %d slots for provider=%d", len(slots), req.ProviderID)
	return models.FromDomainSlotList(slots), nil
}

// ReconcileOrphaned возвращает в продажу слоты, занятые без живого бронирования
// дольше grace-периода. Используется internal-эндпоинтом сверки.
func (s *Service) ReconcileOrphaned(ctx context.Context, grace time.Duration) ([]string, error) {
	s.logger.Info("ReconcileOrphaned: sweeping slots claimed longer than %s without a live booking", grace)

	ids, err := s.slotRepo.ReopenOrphaned(ctx, grace)
	if err != nil {
		s.logger.Error("ReconcileOrphaned: repository error: %v", err)
		return nil, fmt.Errorf("%w: ReconcileOrphaned - repository error: %v", ErrInternal, err)
	}

	if len(ids) > 0 {
		s.logger.Warn("ReconcileOrphaned: reopened %d orphaned slots: %v", len(ids), ids)
	} else {
		s.logger.Info("ReconcileOrphaned: no orphaned slots found")
	}
	return ids, nil
}

// buildSlot валидирует запрос и собирает domain модель слота
func (s *Service) buildSlot(req *models.CreateSlotRequest) (*domain.AvailabilitySlot, error) {
	if req.ProviderID <= 0 {
		return nil, fmt.Errorf("%w: providerId must be positive", ErrInvalidInput)
	}

	label := strings.TrimSpace(req.ServiceLabel)
	if label == "" {
		return nil, fmt.Errorf("%w: serviceLabel is required", ErrInvalidInput)
	}
	if len(label) > domain.MaxServiceLabelLength {
		return nil, fmt.Errorf("%w: serviceLabel exceeds %d characters", ErrInvalidInput, domain.MaxServiceLabelLength)
	}

	if err := req.StartTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	if err := req.EndTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}
	if !req.StartTime.IsBefore(req.EndTime) {
		return nil, fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	duration, err := req.StartTime.MinutesBetween(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid time range: %v", ErrInvalidInput, err)
	}
	if duration < domain.MinSlotDurationMinutes || duration > domain.MaxSlotDurationMinutes {
		return nil, fmt.Errorf("%w: slot duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	// Начало календарного дня в локальной зоне, а не UTC-сутки
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if req.Date.Before(today) {
		return nil, fmt.Errorf("%w: date must not be in the past", ErrInvalidInput)
	}

	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if req.DiscountPrice != nil {
		if *req.DiscountPrice < 0 {
			return nil, fmt.Errorf("%w: discountPrice must not be negative", ErrInvalidInput)
		}
		if *req.DiscountPrice >= req.Price {
			return nil, fmt.Errorf("%w: discountPrice must be less than price", ErrInvalidInput)
		}
	}

	return &domain.AvailabilitySlot{
		ProviderID:      req.ProviderID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationMinutes: duration,
		Price:           req.Price,
		DiscountPrice:   req.DiscountPrice,
		ServiceLabel:    label,
	}, nil
}
