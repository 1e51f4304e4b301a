package create_slot

import (
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/internal/service/slots/models"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// CreateSlotRequest HTTP request model
type CreateSlotRequest struct {
	Date          string   `json:"date"`      // "2025-10-15"
	StartTime     string   `json:"startTime"` // "10:00"
	EndTime       string   `json:"endTime"`   // "11:00"
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
	ServiceLabel  string   `json:"serviceLabel"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateSlotRequest) ToServiceRequest(providerID int64) (*models.CreateSlotRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &models.CreateSlotRequest{
		ProviderID:    providerID,
		Date:          date,
		StartTime:     startTime,
		EndTime:       endTime,
		Price:         r.Price,
		DiscountPrice: r.DiscountPrice,
		ServiceLabel:  r.ServiceLabel,
	}, nil
}
