package drain_notifications

import (
	"net/http"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
)

type Handler struct {
	useCase DrainNotificationsUseCase
	logger  Logger
}

func NewHandler(useCase DrainNotificationsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /internal/notifications/drain
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.useCase.Execute(r.Context())
	if err != nil {
		h.logger.Error("POST /internal/notifications/drain - Drain pass failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /internal/notifications/drain - Drain pass finished: processed=%d", result.Processed)
	handlers.RespondJSON(w, http.StatusOK, result)
}
