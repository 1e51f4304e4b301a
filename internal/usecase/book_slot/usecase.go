package book_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/slot"
)

// UseCase use case для бронирования слота
type UseCase struct {
	slotRepo         SlotRepository
	bookingRepo      BookingRepository
	notificationRepo NotificationRepository
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	notificationRepo NotificationRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:         slotRepo,
		bookingRepo:      bookingRepo,
		notificationRepo: notificationRepo,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case бронирования слота
// Захват слота, создание бронирования и постановка уведомлений выполняются
// в одной транзакции. Сериализуемая изоляция не нужна: условный Claim и
// уникальный индекс по живым бронированиям сами гарантируют, что слот
// достанется ровно одному клиенту, а проигравший гонку получит конфликт,
// а не serialization failure
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookSlot: customer=%d, slot=%s", req.CustomerID, req.SlotID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookSlot: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// Переменная для хранения результата
	var result *domain.Booking

	// 3. Выполняем операции с БД в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3.1. Получаем слот
		slot, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("BookSlot: slot id=%s not found", req.SlotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("BookSlot: failed to get slot id=%s: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		// 3.2. Проверяем, что слот можно бронировать
		if slot.IsCancelled {
			uc.logger.Warn("BookSlot: slot id=%s is cancelled", req.SlotID)
			return ErrSlotNotFound
		}
		if slot.IsClaimed {
			uc.logger.Warn("BookSlot: slot id=%s is already claimed", req.SlotID)
			return ErrSlotNotAvailable
		}
		if slot.HasStarted(now) {
			uc.logger.Warn("BookSlot: slot id=%s has already started", req.SlotID)
			return ErrSlotInPast
		}
		if slot.ProviderID == req.CustomerID {
			uc.logger.Warn("BookSlot: provider=%d tried to book own slot id=%s", req.CustomerID, req.SlotID)
			return ErrOwnSlot
		}

		// 3.3. Захватываем слот условным обновлением
		if err := uc.slotRepo.Claim(txCtx, req.SlotID); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("BookSlot: slot id=%s was claimed concurrently", req.SlotID)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("BookSlot: failed to claim slot id=%s: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to claim slot: %v", ErrInternal, err)
		}

		// 3.4. Создаем бронирование, фиксируя цену и расписание слота
		booking := &domain.Booking{
			SlotID:      slot.ID,
			CustomerID:  req.CustomerID,
			ProviderID:  slot.ProviderID,
			BookingDate: slot.Date,
			StartTime:   slot.StartTime,
			EndTime:     slot.EndTime,
			Price:       slot.EffectivePrice(),
			Status:      domain.StatusPending,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			// Уникальный индекс по живым бронированиям страхует условное обновление
			if errors.Is(err, bookingRepo.ErrSlotAlreadyBooked) {
				uc.logger.Warn("BookSlot: slot id=%s already has a booking", req.SlotID)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("BookSlot: failed to create booking for slot id=%s: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 3.5. Ставим задачи уведомлений в той же транзакции
		tasks := domain.TasksForBookingEvent(created, domain.NotifyBookingCreated)
		if err := uc.notificationRepo.Enqueue(txCtx, tasks); err != nil {
			uc.logger.Error("BookSlot: failed to enqueue notifications for booking id=%s: %v", created.ID, err)
			return fmt.Errorf("%w: failed to enqueue notifications: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("BookSlot: successfully created booking id=%s for slot=%s, customer=%d",
		result.ID, result.SlotID, result.CustomerID)
	return toResponse(result), nil
}
