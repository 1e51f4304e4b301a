package search_slots

import (
	"context"

	discoverSlots "github.com/m04kA/SMC-SlotService/internal/usecase/discover_slots"
)

type DiscoverSlotsUseCase interface {
	Execute(ctx context.Context, req *discoverSlots.Request) (*discoverSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
