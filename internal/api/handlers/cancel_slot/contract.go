package cancel_slot

import "context"

type SlotService interface {
	Cancel(ctx context.Context, slotID string, providerID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
