package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
	"github.com/m04kA/SMC-SlotService/internal/api/middleware"
	bookSlot "github.com/m04kA/SMC-SlotService/internal/usecase/book_slot"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgSlotNotFound       = "слот не найден"
	msgSlotNotAvailable   = "слот уже забронирован"
	msgSlotInPast         = "слот уже начался"
	msgOwnSlot            = "нельзя забронировать собственный слот"
)

type Handler struct {
	useCase BookSlotUseCase
	logger  Logger
}

func NewHandler(useCase BookSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &bookSlot.Request{
		CustomerID: customerID,
		SlotID:     req.SlotID,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookSlot.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid request: customer_id=%d, error=%v", customerID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, bookSlot.ErrSlotNotFound):
			h.logger.Warn("POST /bookings - Slot not found: slot_id=%s", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, bookSlot.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: slot_id=%s, customer_id=%d", req.SlotID, customerID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, bookSlot.ErrSlotInPast):
			h.logger.Warn("POST /bookings - Slot in past: slot_id=%s", req.SlotID)
			handlers.RespondError(w, http.StatusConflict, msgSlotInPast)

		case errors.Is(err, bookSlot.ErrOwnSlot):
			h.logger.Warn("POST /bookings - Own slot: slot_id=%s, customer_id=%d", req.SlotID, customerID)
			handlers.RespondForbidden(w, msgOwnSlot)

		default:
			h.logger.Error("POST /bookings - Failed to book slot: slot_id=%s, customer_id=%d, error=%v",
				req.SlotID, customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, slot_id=%s, customer_id=%d",
		result.ID, result.SlotID, customerID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
