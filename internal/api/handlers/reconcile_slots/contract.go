package reconcile_slots

import (
	"context"
	"time"
)

type SlotService interface {
	ReconcileOrphaned(ctx context.Context, grace time.Duration) ([]string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
