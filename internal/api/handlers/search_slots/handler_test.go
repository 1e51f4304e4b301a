package search_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	discoverSlots "github.com/m04kA/SMC-SlotService/internal/usecase/discover_slots"
)

type MockDiscoverSlotsUseCase struct {
	mock.Mock
}

func (m *MockDiscoverSlotsUseCase) Execute(ctx context.Context, req *discoverSlots.Request) (*discoverSlots.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discoverSlots.Response), args.Error(1)
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

func newTestRouter(useCase DiscoverSlotsUseCase) *mux.Router {
	handler := NewHandler(useCase, noopLogger{})
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/slots", handler.Handle).Methods(http.MethodGet)
	return r
}

func TestSearchSlotsHandler_PassesQueryParams(t *testing.T) {
	mockUC := &MockDiscoverSlotsUseCase{}
	router := newTestRouter(mockUC)

	mockUC.On("Execute", mock.Anything, &discoverSlots.Request{
		Category:    "haircut",
		DateRange:   "today",
		TimeOfDay:   "morning",
		Location:    "berlin",
		MaxDistance: "10",
		SortBy:      "price",
	}).Return(&discoverSlots.Response{Slots: []discoverSlots.SlotResult{{ID: "slot-1"}}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/slots?category=haircut&dateRange=today&timeOfDay=morning&location=berlin&maxDistance=10&sortBy=price", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp discoverSlots.Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Slots, 1)
	mockUC.AssertExpectations(t)
}

func TestSearchSlotsHandler_NoAuthRequired(t *testing.T) {
	mockUC := &MockDiscoverSlotsUseCase{}
	router := newTestRouter(mockUC)

	mockUC.On("Execute", mock.Anything, &discoverSlots.Request{}).
		Return(&discoverSlots.Response{Slots: []discoverSlots.SlotResult{}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/slots", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockUC.AssertExpectations(t)
}

func TestSearchSlotsHandler_InvalidParams(t *testing.T) {
	mockUC := &MockDiscoverSlotsUseCase{}
	router := newTestRouter(mockUC)

	mockUC.On("Execute", mock.Anything, mock.Anything).Return(nil, discoverSlots.ErrInvalidInput).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/slots?dateRange=whenever", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
