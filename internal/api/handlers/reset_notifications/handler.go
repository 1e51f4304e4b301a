package reset_notifications

import (
	"net/http"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgEmptyTaskList      = "список задач пуст"
)

type Handler struct {
	tasks  NotificationTasks
	logger Logger
}

func NewHandler(tasks NotificationTasks, logger Logger) *Handler {
	return &Handler{
		tasks:  tasks,
		logger: logger,
	}
}

// Handle POST /internal/notifications/reset
// Возвращает указанные failed задачи в pending: следующий drain-проход
// обработает их заново.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /internal/notifications/reset - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if len(req.TaskIDs) == 0 {
		h.logger.Warn("POST /internal/notifications/reset - Empty task list")
		handlers.RespondBadRequest(w, msgEmptyTaskList)
		return
	}

	count, err := h.tasks.ResetFailed(r.Context(), req.TaskIDs)
	if err != nil {
		h.logger.Error("POST /internal/notifications/reset - Failed to reset tasks: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /internal/notifications/reset - Tasks reset: requested=%d, reset=%d", len(req.TaskIDs), count)
	handlers.RespondJSON(w, http.StatusOK, ResetResponse{Reset: count})
}
