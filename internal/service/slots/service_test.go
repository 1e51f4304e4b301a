package slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	slotRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-SlotService/internal/service/slots/models"
	"github.com/m04kA/SMC-SlotService/pkg/ptr"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// Mock структуры

type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) Create(ctx context.Context, slot *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error) {
	args := m.Called(ctx, slot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AvailabilitySlot), args.Error(1)
}

func (m *MockSlotRepository) GetByID(ctx context.Context, id string) (*domain.AvailabilitySlot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AvailabilitySlot), args.Error(1)
}

func (m *MockSlotRepository) ListByProvider(ctx context.Context, filter domain.ProviderSlotsFilter) ([]*domain.AvailabilitySlot, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AvailabilitySlot), args.Error(1)
}

func (m *MockSlotRepository) CancelOpen(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSlotRepository) ReopenOrphaned(ctx context.Context, grace time.Duration) ([]string, error) {
	args := m.Called(ctx, grace)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

func validCreateRequest() *models.CreateSlotRequest {
	return &models.CreateSlotRequest{
		ProviderID:   42,
		Date:         time.Now().AddDate(0, 0, 3),
		StartTime:    types.TimeString("10:00"),
		EndTime:      types.TimeString("11:00"),
		Price:        2500,
		ServiceLabel: "Haircut",
	}
}

// Тесты

func TestSlotService_Create_Success(t *testing.T) {
	mockRepo := &MockSlotRepository{}
	service := NewService(mockRepo, noopLogger{})
	ctx := context.Background()

	req := validCreateRequest()
	req.DiscountPrice = ptr.Ptr(2000.0)

	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.AvailabilitySlot")).
		Run(func(args mock.Arguments) {
			slot := args.Get(1).(*domain.AvailabilitySlot)
			assert.Equal(t, 60, slot.DurationMinutes)
			assert.Equal(t, "Haircut", slot.ServiceLabel)
		}).
		Return(&domain.AvailabilitySlot{
			ID:              "f4b5a1de-1111-2222-3333-444455556666",
			ProviderID:      42,
			Date:            req.Date,
			StartTime:       req.StartTime,
			EndTime:         req.EndTime,
			DurationMinutes: 60,
			Price:           2500,
			DiscountPrice:   req.DiscountPrice,
			ServiceLabel:    "Haircut",
		}, nil).Once()

	resp, err := service.Create(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, 60, resp.DurationMinutes)
	mockRepo.AssertExpectations(t)
}

// Слот на сегодняшнюю дату валиден в любой часовой зоне: граница "в прошлом"
// проходит по локальному календарному дню, а не по UTC-суткам
func TestSlotService_Create_TodayAccepted(t *testing.T) {
	mockRepo := &MockSlotRepository{}
	service := NewService(mockRepo, noopLogger{})
	ctx := context.Background()

	now := time.Now()
	req := validCreateRequest()
	req.Date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.AvailabilitySlot")).
		Return(&domain.AvailabilitySlot{
			ID:         "f4b5a1de-1111-2222-3333-444455556666",
			ProviderID: 42,
			Date:       req.Date,
			StartTime:  req.StartTime,
			EndTime:    req.EndTime,
		}, nil).Once()

	_, err := service.Create(ctx, req)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestSlotService_Create_ValidationErrors(t *testing.T) {
	service := NewService(&MockSlotRepository{}, noopLogger{})
	ctx := context.Background()

	testCases := []struct {
		name   string
		mutate func(req *models.CreateSlotRequest)
	}{
		{
			name:   "end before start",
			mutate: func(req *models.CreateSlotRequest) { req.EndTime = types.TimeString("09:00") },
		},
		{
			name:   "end equals start",
			mutate: func(req *models.CreateSlotRequest) { req.EndTime = req.StartTime },
		},
		{
			name:   "empty service label",
			mutate: func(req *models.CreateSlotRequest) { req.ServiceLabel = "   " },
		},
		{
			name:   "negative price",
			mutate: func(req *models.CreateSlotRequest) { req.Price = -1 },
		},
		{
			name:   "discount above price",
			mutate: func(req *models.CreateSlotRequest) { req.DiscountPrice = ptr.Ptr(3000.0) },
		},
		{
			name:   "date in the past",
			mutate: func(req *models.CreateSlotRequest) { req.Date = time.Now().AddDate(0, 0, -2) },
		},
		{
			name:   "malformed start time",
			mutate: func(req *models.CreateSlotRequest) { req.StartTime = types.TimeString("25:99") },
		},
		{
			name: "duration too short",
			mutate: func(req *models.CreateSlotRequest) {
				req.StartTime = types.TimeString("10:00")
				req.EndTime = types.TimeString("10:02")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(req)

			resp, err := service.Create(ctx, req)

			assert.Nil(t, resp)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestSlotService_Cancel_Success(t *testing.T) {
	mockRepo := &MockSlotRepository{}
	service := NewService(mockRepo, noopLogger{})
	ctx := context.Background()

	slot := &domain.AvailabilitySlot{ID: "slot-1", ProviderID: 42}
	mockRepo.On("GetByID", ctx, "slot-1").Return(slot, nil).Once()
	mockRepo.On("CancelOpen", ctx, "slot-1").Return(nil).Once()

	err := service.Cancel(ctx, "slot-1", 42)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestSlotService_Cancel_NotFound(t *testing.T) {
	mockRepo := &MockSlotRepository{}
	service := NewService(mockRepo, noopLogger{})
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "missing").Return(nil, slotRepo.ErrSlotNotFound).Once()

	err := service.Cancel(ctx, "missing", 42)

	assert.ErrorIs(t, err, ErrSlotNotFound)
	mockRepo.AssertExpectations(t)
}

func TestSlotService_Cancel_AccessDenied(t *testing.T) {
	mockRepo := &MockSlotRepository{}
	service := NewService(mockRepo, noopLogger{})
	ctx := context.Background()

	slot := &domain.AvailabilitySlot{ID: "slot-1", ProviderID: 42}
	mockRepo.On("GetByID", ctx, "slot-1").Return(slot, nil).Once()

	err := service.Cancel(ctx, "slot-1", 99)

	assert.ErrorIs(t, err, ErrAccessDenied)
	mockRepo.AssertExpectations(t)
}

func TestSlotService_Cancel_ClaimedSlot(t *testing.T) {
	mockRepo := &MockSlotRepository{}
	service := NewService(mockRepo, noopLogger{})
	ctx := context.Background()

	slot := &domain.AvailabilitySlot{ID: "slot-1", ProviderID: 42, IsClaimed: true}
	mockRepo.On("GetByID", ctx, "slot-1").Return(slot, nil).Once()

	err := service.Cancel(ctx, "slot-1", 42)

	assert.ErrorIs(t, err, ErrSlotClaimed)
	mockRepo.AssertExpectations(t)
}

func TestSlotService_Cancel_ClaimedConcurrently(t *testing.T) {
	mockRepo := &MockSlotRepository{}
	service := NewService(mockRepo, noopLogger{})
	ctx := context.Background()

	slot := &domain.AvailabilitySlot{ID: "slot-1", ProviderID: 42}
	mockRepo.On("GetByID", ctx, "slot-1").Return(slot, nil).Once()
	mockRepo.On("CancelOpen", ctx, "slot-1").Return(slotRepo.ErrSlotClaimed).Once()

	err := service.Cancel(ctx, "slot-1", 42)

	assert.ErrorIs(t, err, ErrSlotClaimed)
	mockRepo.AssertExpectations(t)
}

func TestSlotService_ListByProvider(t *testing.T) {
	mockRepo := &MockSlotRepository{}
	service := NewService(mockRepo, noopLogger{})
	ctx := context.Background()

	req := &models.GetProviderSlotsRequest{ProviderID: 42}
	slots := []*domain.AvailabilitySlot{
		{ID: "slot-1", ProviderID: 42, StartTime: types.TimeString("10:00"), EndTime: types.TimeString("11:00")},
		{ID: "slot-2", ProviderID: 42, StartTime: types.TimeString("11:00"), EndTime: types.TimeString("12:00"), IsClaimed: true},
	}
	mockRepo.On("ListByProvider", ctx, req.ToDomainFilter()).Return(slots, nil).Once()

	resp, err := service.ListByProvider(ctx, req)

	assert.NoError(t, err)
	assert.Len(t, resp.Slots, 2)
	assert.True(t, resp.Slots[1].IsClaimed)
	mockRepo.AssertExpectations(t)
}

func TestSlotService_ReconcileOrphaned(t *testing.T) {
	mockRepo := &MockSlotRepository{}
	service := NewService(mockRepo, noopLogger{})
	ctx := context.Background()

	grace := 15 * time.Minute
	mockRepo.On("ReopenOrphaned", ctx, grace).Return([]string{"slot-1", "slot-7"}, nil).Once()

	ids, err := service.ReconcileOrphaned(ctx, grace)

	assert.NoError(t, err)
	assert.Equal(t, []string{"slot-1", "slot-7"}, ids)
	mockRepo.AssertExpectations(t)
}

func TestSlotService_ReconcileOrphaned_RepositoryError(t *testing.T) {
	mockRepo := &MockSlotRepository{}
	service := NewService(mockRepo, noopLogger{})
	ctx := context.Background()

	mockRepo.On("ReopenOrphaned", ctx, mock.Anything).Return(nil, errors.New("db down")).Once()

	ids, err := service.ReconcileOrphaned(ctx, time.Minute)

	assert.Nil(t, ids)
	assert.ErrorIs(t, err, ErrInternal)
	mockRepo.AssertExpectations(t)
}
