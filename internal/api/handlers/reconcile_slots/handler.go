package reconcile_slots

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
)

// ReconcileResponse итог сверки занятых слотов с бронированиями
type ReconcileResponse struct {
	Reopened int      `json:"reopened"`
	SlotIDs  []string `json:"slotIds"`
}

type Handler struct {
	service SlotService
	grace   time.Duration
	logger  Logger
}

func NewHandler(service SlotService, grace time.Duration, logger Logger) *Handler {
	return &Handler{
		service: service,
		grace:   grace,
		logger:  logger,
	}
}

// Handle POST /internal/slots/reconcile
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ids, err := h.service.ReconcileOrphaned(r.Context(), h.grace)
	if err != nil {
		h.logger.Error("POST /internal/slots/reconcile - Reconciliation failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	if ids == nil {
		ids = []string{}
	}

	h.logger.Info("POST /internal/slots/reconcile - Reconciliation finished: reopened=%d", len(ids))
	handlers.RespondJSON(w, http.StatusOK, ReconcileResponse{
		Reopened: len(ids),
		SlotIDs:  ids,
	})
}
