package drain_notifications

import (
	"context"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/internal/integrations/mailsender"
)

// NotificationRepository интерфейс очереди задач уведомлений
type NotificationRepository interface {
	FetchPending(ctx context.Context, limit uint64) ([]*domain.NotificationTask, error)
	SetTerminalStatus(ctx context.Context, id string, status domain.TaskStatus, errorMessage *string) error
}

// EmailSender интерфейс внешнего сервиса отправки email
type EmailSender interface {
	SendEmail(ctx context.Context, req mailsender.SendRequest) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsCollector интерфейс метрик обработки задач
// nil отключает метрики
type MetricsCollector interface {
	ObserveDrainedTask(channel, status string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
