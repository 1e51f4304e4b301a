package book_slot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-SlotService/pkg/ptr"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// Mock структуры

type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) GetByID(ctx context.Context, id string) (*domain.AvailabilitySlot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AvailabilitySlot), args.Error(1)
}

func (m *MockSlotRepository) Claim(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, booking)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Enqueue(ctx context.Context, tasks []*domain.NotificationTask) error {
	args := m.Called(ctx, tasks)
	return args.Error(0)
}

// fakeTxManager прогоняет колбэк без реальной транзакции
type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p fixedTimeProvider) Now() time.Time {
	return p.now
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

const testSlotID = "4f6b3a1e-9c2d-4e8f-b1a7-0d5c6e7f8a9b"

func newTestUseCase(slots *MockSlotRepository, bookings *MockBookingRepository, notifications *MockNotificationRepository, now time.Time) *UseCase {
	uc := NewUseCase(slots, bookings, notifications, fakeTxManager{}, noopLogger{})
	uc.timeProvider = fixedTimeProvider{now: now}
	return uc
}

func openSlot(date time.Time) *domain.AvailabilitySlot {
	return &domain.AvailabilitySlot{
		ID:              testSlotID,
		ProviderID:      42,
		Date:            date,
		StartTime:       types.TimeString("10:00"),
		EndTime:         types.TimeString("11:00"),
		DurationMinutes: 60,
		Price:           3000,
		DiscountPrice:   ptr.Ptr(2500.0),
		ServiceLabel:    "Massage",
	}
}

// Тесты

func TestBookSlot_Success(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	mockSlots := &MockSlotRepository{}
	mockBookings := &MockBookingRepository{}
	mockNotifications := &MockNotificationRepository{}
	uc := newTestUseCase(mockSlots, mockBookings, mockNotifications, now)
	ctx := context.Background()

	slot := openSlot(now.AddDate(0, 0, 2))
	mockSlots.On("GetByID", ctx, testSlotID).Return(slot, nil).Once()
	mockSlots.On("Claim", ctx, testSlotID).Return(nil).Once()
	mockBookings.On("Create", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		// Цена фиксируется со скидкой, расписание копируется из слота
		return b.SlotID == testSlotID &&
			b.CustomerID == int64(7) &&
			b.ProviderID == int64(42) &&
			b.Price == 2500 &&
			b.StartTime == types.TimeString("10:00") &&
			b.Status == domain.StatusPending
	})).Return(&domain.Booking{
		ID:         "booking-1",
		SlotID:     testSlotID,
		CustomerID: 7,
		ProviderID: 42,
		Price:      2500,
		Status:     domain.StatusPending,
	}, nil).Once()
	mockNotifications.On("Enqueue", ctx, mock.MatchedBy(func(tasks []*domain.NotificationTask) bool {
		if len(tasks) != 3 {
			return false
		}
		// email провайдеру, email и sms клиенту
		return tasks[0].RecipientID == int64(42) && tasks[0].Channel == domain.ChannelEmail &&
			tasks[1].RecipientID == int64(7) && tasks[1].Channel == domain.ChannelEmail &&
			tasks[2].RecipientID == int64(7) && tasks[2].Channel == domain.ChannelSMS
	})).Return(nil).Once()

	resp, err := uc.Execute(ctx, &Request{CustomerID: 7, SlotID: testSlotID})

	assert.NoError(t, err)
	assert.Equal(t, "booking-1", resp.ID)
	assert.Equal(t, 2500.0, resp.Price)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	mockSlots.AssertExpectations(t)
	mockBookings.AssertExpectations(t)
	mockNotifications.AssertExpectations(t)
}

// Слот, переоткрытый после отмены бронирования, бронируется заново: строка
// отмененного бронирования остается в истории и не мешает новой вставке
func TestBookSlot_RebookAfterCancelledBooking(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	mockSlots := &MockSlotRepository{}
	mockBookings := &MockBookingRepository{}
	mockNotifications := &MockNotificationRepository{}
	uc := newTestUseCase(mockSlots, mockBookings, mockNotifications, now)
	ctx := context.Background()

	// Слот снова открыт: прежнее бронирование отменено, Reopen сбросил is_claimed
	slot := openSlot(now.AddDate(0, 0, 2))
	mockSlots.On("GetByID", ctx, testSlotID).Return(slot, nil).Once()
	mockSlots.On("Claim", ctx, testSlotID).Return(nil).Once()
	mockBookings.On("Create", ctx, mock.Anything).Return(&domain.Booking{
		ID:         "booking-2",
		SlotID:     testSlotID,
		CustomerID: 9,
		ProviderID: 42,
		Price:      2500,
		Status:     domain.StatusPending,
	}, nil).Once()
	mockNotifications.On("Enqueue", ctx, mock.Anything).Return(nil).Once()

	resp, err := uc.Execute(ctx, &Request{CustomerID: 9, SlotID: testSlotID})

	assert.NoError(t, err)
	assert.Equal(t, "booking-2", resp.ID)
	mockSlots.AssertExpectations(t)
	mockBookings.AssertExpectations(t)
}

func TestBookSlot_ValidationErrors(t *testing.T) {
	uc := newTestUseCase(&MockSlotRepository{}, &MockBookingRepository{}, &MockNotificationRepository{}, time.Now())
	ctx := context.Background()

	testCases := []struct {
		name string
		req  *Request
	}{
		{name: "zero customer", req: &Request{CustomerID: 0, SlotID: testSlotID}},
		{name: "negative customer", req: &Request{CustomerID: -5, SlotID: testSlotID}},
		{name: "empty slot id", req: &Request{CustomerID: 7, SlotID: ""}},
		{name: "malformed slot id", req: &Request{CustomerID: 7, SlotID: "not-a-uuid"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := uc.Execute(ctx, tc.req)

			assert.Nil(t, resp)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestBookSlot_SlotNotFound(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	mockSlots := &MockSlotRepository{}
	uc := newTestUseCase(mockSlots, &MockBookingRepository{}, &MockNotificationRepository{}, now)
	ctx := context.Background()

	mockSlots.On("GetByID", ctx, testSlotID).Return(nil, slotRepo.ErrSlotNotFound).Once()

	resp, err := uc.Execute(ctx, &Request{CustomerID: 7, SlotID: testSlotID})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrSlotNotFound)
	mockSlots.AssertExpectations(t)
}

func TestBookSlot_CancelledSlotLooksMissing(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	mockSlots := &MockSlotRepository{}
	uc := newTestUseCase(mockSlots, &MockBookingRepository{}, &MockNotificationRepository{}, now)
	ctx := context.Background()

	slot := openSlot(now.AddDate(0, 0, 2))
	slot.IsCancelled = true
	mockSlots.On("GetByID", ctx, testSlotID).Return(slot, nil).Once()

	resp, err := uc.Execute(ctx, &Request{CustomerID: 7, SlotID: testSlotID})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestBookSlot_ClaimedSlot(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	mockSlots := &MockSlotRepository{}
	uc := newTestUseCase(mockSlots, &MockBookingRepository{}, &MockNotificationRepository{}, now)
	ctx := context.Background()

	slot := openSlot(now.AddDate(0, 0, 2))
	slot.IsClaimed = true
	mockSlots.On("GetByID", ctx, testSlotID).Return(slot, nil).Once()

	resp, err := uc.Execute(ctx, &Request{CustomerID: 7, SlotID: testSlotID})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestBookSlot_StartedSlot(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	mockSlots := &MockSlotRepository{}
	uc := newTestUseCase(mockSlots, &MockBookingRepository{}, &MockNotificationRepository{}, now)
	ctx := context.Background()

	// Слот сегодня в 10:00, сейчас 12:00
	slot := openSlot(now)
	mockSlots.On("GetByID", ctx, testSlotID).Return(slot, nil).Once()

	resp, err := uc.Execute(ctx, &Request{CustomerID: 7, SlotID: testSlotID})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrSlotInPast)
}

func TestBookSlot_OwnSlot(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	mockSlots := &MockSlotRepository{}
	uc := newTestUseCase(mockSlots, &MockBookingRepository{}, &MockNotificationRepository{}, now)
	ctx := context.Background()

	slot := openSlot(now.AddDate(0, 0, 2))
	mockSlots.On("GetByID", ctx, testSlotID).Return(slot, nil).Once()

	resp, err := uc.Execute(ctx, &Request{CustomerID: 42, SlotID: testSlotID})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrOwnSlot)
}

func TestBookSlot_ConcurrentClaim(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	mockSlots := &MockSlotRepository{}
	uc := newTestUseCase(mockSlots, &MockBookingRepository{}, &MockNotificationRepository{}, now)
	ctx := context.Background()

	slot := openSlot(now.AddDate(0, 0, 2))
	mockSlots.On("GetByID", ctx, testSlotID).Return(slot, nil).Once()
	mockSlots.On("Claim", ctx, testSlotID).Return(slotRepo.ErrSlotNotAvailable).Once()

	resp, err := uc.Execute(ctx, &Request{CustomerID: 7, SlotID: testSlotID})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	mockSlots.AssertExpectations(t)
}

func TestBookSlot_UniqueIndexBackstop(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	mockSlots := &MockSlotRepository{}
	mockBookings := &MockBookingRepository{}
	uc := newTestUseCase(mockSlots, mockBookings, &MockNotificationRepository{}, now)
	ctx := context.Background()

	slot := openSlot(now.AddDate(0, 0, 2))
	mockSlots.On("GetByID", ctx, testSlotID).Return(slot, nil).Once()
	mockSlots.On("Claim", ctx, testSlotID).Return(nil).Once()
	mockBookings.On("Create", ctx, mock.Anything).Return(nil, bookingRepo.ErrSlotAlreadyBooked).Once()

	resp, err := uc.Execute(ctx, &Request{CustomerID: 7, SlotID: testSlotID})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	mockBookings.AssertExpectations(t)
}
