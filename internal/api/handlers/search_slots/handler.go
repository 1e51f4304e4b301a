package search_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
	discoverSlots "github.com/m04kA/SMC-SlotService/internal/usecase/discover_slots"
)

const msgInvalidSearchParams = "некорректные параметры поиска"

type Handler struct {
	useCase DiscoverSlotsUseCase
	logger  Logger
}

func NewHandler(useCase DiscoverSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots?category=...&dateRange=...&timeOfDay=...&location=...&maxDistance=...&sortBy=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &discoverSlots.Request{
		Category:    query.Get("category"),
		DateRange:   query.Get("dateRange"),
		TimeOfDay:   query.Get("timeOfDay"),
		Location:    query.Get("location"),
		MaxDistance: query.Get("maxDistance"),
		SortBy:      query.Get("sortBy"),
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, discoverSlots.ErrInvalidInput):
			h.logger.Warn("GET /slots - Invalid search params: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSearchParams)

		default:
			h.logger.Error("GET /slots - Search failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /slots - Search returned %d slots", len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
