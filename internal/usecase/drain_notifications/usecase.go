package drain_notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/internal/integrations/mailsender"
	"github.com/m04kA/SMC-SlotService/pkg/ptr"
)

const msgSMSNotImplemented = "sms channel has no sender configured"

// UseCase use case прохода по очереди задач уведомлений
//
// Задачи выбираются с FOR UPDATE SKIP LOCKED, поэтому параллельные проходы
// не пересекаются. Каждая задача завершается терминальным статусом за один
// проход: повторных попыток нет, failed разбирает оператор через ResetFailed
type UseCase struct {
	notificationRepo NotificationRepository
	emailSender      EmailSender
	txManager        TransactionManager
	metrics          MetricsCollector // nil = без метрик
	batchSize        uint64
	taskTimeout      time.Duration
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	notificationRepo NotificationRepository,
	emailSender EmailSender,
	txManager TransactionManager,
	metrics MetricsCollector,
	batchSize uint64,
	taskTimeout time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		notificationRepo: notificationRepo,
		emailSender:      emailSender,
		txManager:        txManager,
		metrics:          metrics,
		batchSize:        batchSize,
		taskTimeout:      taskTimeout,
		logger:           logger,
	}
}

// Execute выполняет один проход по очереди: выбирает батч pending задач,
// обрабатывает каждую изолированно и фиксирует терминальные статусы
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	uc.logger.Info("DrainNotifications: starting drain pass, batch=%d", uc.batchSize)

	resp := &Response{Results: []TaskResult{}}

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		tasks, err := uc.notificationRepo.FetchPending(txCtx, uc.batchSize)
		if err != nil {
			uc.logger.Error("DrainNotifications: failed to fetch pending tasks: %v", err)
			return fmt.Errorf("%w: failed to fetch pending tasks: %v", ErrInternal, err)
		}

		for _, task := range tasks {
			status, errMsg := uc.processTask(ctx, task)

			if err := uc.notificationRepo.SetTerminalStatus(txCtx, task.ID, status, errMsg); err != nil {
				uc.logger.Error("DrainNotifications: failed to set status for task id=%s: %v", task.ID, err)
				return fmt.Errorf("%w: failed to set task status: %v", ErrInternal, err)
			}

			if uc.metrics != nil {
				uc.metrics.ObserveDrainedTask(string(task.Channel), string(status))
			}

			resp.Processed++
			resp.Results = append(resp.Results, TaskResult{
				ID:     task.ID,
				Status: string(status),
				Error:  errMsg,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("DrainNotifications: drain pass finished, processed=%d", resp.Processed)
	return resp, nil
}

// processTask обрабатывает одну задачу изолированно: паника или таймаут
// отправителя переводят задачу в failed, не задевая остальной батч
func (uc *UseCase) processTask(ctx context.Context, task *domain.NotificationTask) (status domain.TaskStatus, errMsg *string) {
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error("DrainNotifications: panic while processing task id=%s: %v", task.ID, r)
			status = domain.TaskFailed
			errMsg = ptr.Ptr(fmt.Sprintf("panic: %v", r))
		}
	}()

	sendCtx, cancel := context.WithTimeout(ctx, uc.taskTimeout)
	defer cancel()

	switch task.Channel {
	case domain.ChannelEmail:
		err := uc.emailSender.SendEmail(sendCtx, mailsender.SendRequest{
			TaskID:           task.ID,
			BookingID:        task.BookingID,
			RecipientID:      task.RecipientID,
			NotificationType: string(task.NotificationType),
		})
		if err != nil {
			uc.logger.Warn("DrainNotifications: email send failed for task id=%s: %v", task.ID, err)
			return domain.TaskFailed, ptr.Ptr(err.Error())
		}
		uc.logger.Info("DrainNotifications: email sent for task id=%s, booking=%s", task.ID, task.BookingID)
		return domain.TaskProcessed, nil

	case domain.ChannelSMS:
		uc.logger.Info("DrainNotifications: sms task id=%s marked not_implemented", task.ID)
		return domain.TaskNotImplemented, ptr.Ptr(msgSMSNotImplemented)

	default:
		uc.logger.Error("DrainNotifications: unknown channel %q for task id=%s", task.Channel, task.ID)
		return domain.TaskFailed, ptr.Ptr(fmt.Sprintf("unknown channel: %s", task.Channel))
	}
}
