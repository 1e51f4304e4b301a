package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-SlotService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo      BookingRepository
	slotRepo         SlotRepository
	notificationRepo NotificationRepository
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	notificationRepo NotificationRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:      bookingRepo,
		slotRepo:         slotRepo,
		notificationRepo: notificationRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// GetByID получает бронирование по ID
// Доступно только клиенту бронирования или его провайдеру
func (s *Service) GetByID(ctx context.Context, id string, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%d", id, userID)

	booking, err := s.fetchBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if booking.CustomerID != userID && booking.ProviderID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%s", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByCustomer(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// Confirm подтверждает бронирование
// Доступно только провайдеру, допустимо только из статуса pending
func (s *Service) Confirm(ctx context.Context, bookingID string, userID int64) (*models.BookingResponse, error) {
	return s.providerTransition(ctx, "Confirm", bookingID, userID,
		domain.StatusConfirmed, domain.NotifyBookingConfirmed)
}

// Complete завершает бронирование
// Доступно только провайдеру, допустимо только из статуса confirmed
func (s *Service) Complete(ctx context.Context, bookingID string, userID int64) (*models.BookingResponse, error) {
	return s.providerTransition(ctx, "Complete", bookingID, userID,
		domain.StatusCompleted, domain.NotifyBookingCompleted)
}

// Cancel отменяет бронирование
// Доступно клиенту и провайдеру. Если слот ещё не начался, он возвращается
// в продажу; иначе остаётся занятым.
func (s *Service) Cancel(ctx context.Context, bookingID string, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s by user=%d", bookingID, userID)

	booking, err := s.fetchBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return nil, err
	}

	if booking.CustomerID != userID && booking.ProviderID != userID {
		s.logger.Warn("Cancel: access denied for user=%d to booking id=%s", userID, bookingID)
		return nil, ErrAccessDenied
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%s cannot be cancelled from status=%s", bookingID, booking.Status)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, domain.StatusCancelled)
	}

	from := booking.Status
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.bookingRepo.UpdateStatus(ctx, bookingID, from, domain.StatusCancelled); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, domain.StatusCancelled)
			}
			return fmt.Errorf("%w: Cancel - update status: %v", ErrInternal, err)
		}

		if err := s.reopenSlotIfNotStarted(ctx, booking); err != nil {
			return err
		}

		tasks := domain.TasksForBookingEvent(booking, domain.NotifyBookingCancelled)
		if err := s.notificationRepo.Enqueue(ctx, tasks); err != nil {
			return fmt.Errorf("%w: Cancel - enqueue notifications: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			s.logger.Warn("Cancel: concurrent status change for booking id=%s: %v", bookingID, err)
		} else {
			s.logger.Error("Cancel: transaction failed for booking id=%s: %v", bookingID, err)
		}
		return nil, err
	}

	booking.Status = domain.StatusCancelled
	booking.StatusChangedAt = time.Now()

	s.logger.Info("Cancel: successfully cancelled booking id=%s", bookingID)
	return models.FromDomainBooking(booking), nil
}

// providerTransition выполняет переход статуса, доступный только провайдеру,
// и ставит задачи уведомлений в той же транзакции
func (s *Service) providerTransition(
	ctx context.Context,
	op string,
	bookingID string,
	userID int64,
	next domain.BookingStatus,
	event domain.NotificationType,
) (*models.BookingResponse, error) {
	s.logger.Info("%s: updating booking id=%s to status=%s by user=%d", op, bookingID, next, userID)

	booking, err := s.fetchBooking(ctx, op, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.ProviderID != userID {
		s.logger.Warn("%s: access denied for user=%d to booking id=%s", op, userID, bookingID)
		return nil, ErrAccessDenied
	}

	if !booking.CanTransitionTo(next) {
		s.logger.Warn("%s: invalid transition %s -> %s for booking id=%s", op, booking.Status, next, bookingID)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, next)
	}

	from := booking.Status
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.bookingRepo.UpdateStatus(ctx, bookingID, from, next); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, next)
			}
			return fmt.Errorf("%w: %s - update status: %v", ErrInternal, op, err)
		}

		tasks := domain.TasksForBookingEvent(booking, event)
		if err := s.notificationRepo.Enqueue(ctx, tasks); err != nil {
			return fmt.Errorf("%w: %s - enqueue notifications: %v", ErrInternal, op, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			s.logger.Warn("%s: concurrent status change for booking id=%s: %v", op, bookingID, err)
		} else {
			s.logger.Error("%s: transaction failed for booking id=%s: %v", op, bookingID, err)
		}
		return nil, err
	}

	booking.Status = next
	booking.StatusChangedAt = time.Now()

	s.logger.Info("%s: successfully updated booking id=%s to status=%s", op, bookingID, next)
	return models.FromDomainBooking(booking), nil
}

// reopenSlotIfNotStarted возвращает слот в продажу, если его время ещё не наступило
func (s *Service) reopenSlotIfNotStarted(ctx context.Context, booking *domain.Booking) error {
	slot, err := s.slotRepo.GetByID(ctx, booking.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("Cancel: slot id=%s not found for booking id=%s, skipping reopen", booking.SlotID, booking.ID)
			return nil
		}
		return fmt.Errorf("%w: Cancel - fetch slot: %v", ErrInternal, err)
	}

	if slot.HasStarted(time.Now()) {
		s.logger.Info("Cancel: slot id=%s has already started, keeping it claimed", slot.ID)
		return nil
	}

	if err := s.slotRepo.Reopen(ctx, slot.ID); err != nil {
		// Слот уже открыт: сверка могла вернуть его раньше нас
		if errors.Is(err, slotRepo.ErrSlotNotClaimed) {
			s.logger.Warn("Cancel: slot id=%s is already open", slot.ID)
			return nil
		}
		return fmt.Errorf("%w: Cancel - reopen slot: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: slot id=%s reopened for booking id=%s", slot.ID, booking.ID)
	return nil
}

// fetchBooking получает бронирование с маппингом ошибок репозитория
func (s *Service) fetchBooking(ctx context.Context, op, id string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}
