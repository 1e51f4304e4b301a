package drain_notifications

import (
	"context"

	drainNotifications "github.com/m04kA/SMC-SlotService/internal/usecase/drain_notifications"
)

type DrainNotificationsUseCase interface {
	Execute(ctx context.Context) (*drainNotifications.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
