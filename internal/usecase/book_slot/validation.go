package book_slot

import (
	"fmt"

	"github.com/google/uuid"
)

// validateRequest проверяет корректность входных данных
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerId must be positive", ErrInvalidInput)
	}
	if _, err := uuid.Parse(req.SlotID); err != nil {
		return fmt.Errorf("%w: slotId must be a valid UUID", ErrInvalidInput)
	}
	return nil
}
