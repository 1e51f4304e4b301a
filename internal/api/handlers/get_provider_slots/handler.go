package get_provider_slots

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
	"github.com/m04kA/SMC-SlotService/internal/api/middleware"
	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/internal/service/slots/models"
)

const (
	msgInvalidProviderID = "некорректный ID провайдера"
	msgInvalidDateFilter = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgForbidden         = "доступ запрещен"
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

// Handle GET /api/v1/providers/{providerId}/slots?dateFrom=...&dateTo=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{id}/slots - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /providers/{id}/slots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Провайдер видит только собственное расписание
	if userID != providerID {
		h.logger.Warn("GET /providers/{id}/slots - Access denied: provider_id=%d, user_id=%d", providerID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	req := &models.GetProviderSlotsRequest{ProviderID: providerID}

	if raw := r.URL.Query().Get("dateFrom"); raw != "" {
		dateFrom, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /providers/{id}/slots - Invalid dateFrom: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDateFilter)
			return
		}
		req.DateFrom = &dateFrom
	}

	if raw := r.URL.Query().Get("dateTo"); raw != "" {
		dateTo, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /providers/{id}/slots - Invalid dateTo: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDateFilter)
			return
		}
		req.DateTo = &dateTo
	}

	slots, err := h.service.ListByProvider(r.Context(), req)
	if err != nil {
		h.logger.Error("GET /providers/{id}/slots - Failed to list slots: provider_id=%d, error=%v", providerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /providers/{id}/slots - Retrieved %d slots: provider_id=%d", len(slots.Slots), providerID)
	handlers.RespondJSON(w, http.StatusOK, slots)
}
