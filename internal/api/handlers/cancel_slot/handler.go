package cancel_slot

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
	"github.com/m04kA/SMC-SlotService/internal/api/middleware"
	"github.com/m04kA/SMC-SlotService/internal/service/slots"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgNotFound      = "слот не найден"
	msgForbidden     = "доступ запрещен"
	msgSlotClaimed   = "слот занят бронированием и не может быть отменен"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/slots/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	slotID := vars["slotId"]

	providerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /slots/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Cancel(r.Context(), slotID, providerID); err != nil {
		switch {
		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("DELETE /slots/{id} - Slot not found: slot_id=%s", slotID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, slots.ErrAccessDenied):
			h.logger.Warn("DELETE /slots/{id} - Access denied: slot_id=%s, provider_id=%d", slotID, providerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, slots.ErrSlotClaimed):
			h.logger.Warn("DELETE /slots/{id} - Slot is claimed: slot_id=%s", slotID)
			handlers.RespondError(w, http.StatusConflict, msgSlotClaimed)

		default:
			h.logger.Error("DELETE /slots/{id} - Failed to cancel slot: slot_id=%s, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /slots/{id} - Slot cancelled successfully: slot_id=%s, provider_id=%d", slotID, providerID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
