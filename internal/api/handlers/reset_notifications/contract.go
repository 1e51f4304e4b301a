package reset_notifications

import "context"

type NotificationTasks interface {
	ResetFailed(ctx context.Context, ids []string) (int64, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
