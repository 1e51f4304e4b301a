package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/ptr"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

const testSlotID = "3f2b8c6e-9d41-4a7b-8f13-5e2a9c7d1b04"

func testBooking() *domain.Booking {
	return &domain.Booking{
		SlotID:      testSlotID,
		CustomerID:  7,
		ProviderID:  42,
		BookingDate: time.Now().AddDate(0, 0, 1),
		StartTime:   types.TimeString("10:00"),
		EndTime:     types.TimeString("11:00"),
		Price:       2500,
	}
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO bookings .+ RETURNING status_changed_at, created_at, updated_at").
		WillReturnRows(sqlmock.NewRows([]string{"status_changed_at", "created_at", "updated_at"}).
			AddRow(now, now, now))

	created, err := repo.Create(context.Background(), testBooking())

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_SlotAlreadyBooked(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	// Уникальный индекс по живым бронированиям: второе живое бронирование слота
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "idx_bookings_slot_live"})

	created, err := repo.Create(context.Background(), testBooking())

	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)
	assert.Nil(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec("UPDATE bookings SET status = .+ WHERE id = .+ AND status =").
		WithArgs("confirmed", "booking-1", "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpdateStatus(context.Background(), "booking-1", domain.StatusPending, domain.StatusConfirmed)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_Conflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	// Статус успел измениться параллельным переходом
	mock.ExpectExec("UPDATE bookings SET status =").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateStatus(context.Background(), "booking-1", domain.StatusPending, domain.StatusCancelled)

	assert.ErrorIs(t, err, ErrStatusConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByCustomer_StatusFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "slot_id", "customer_id", "provider_id", "booking_date",
		"start_time", "end_time", "price", "status",
		"status_changed_at", "created_at", "updated_at",
	}).AddRow(
		"booking-1", testSlotID, int64(7), int64(42), now,
		"10:00", "11:00", 2500.0, "confirmed",
		now, now, now,
	)

	mock.ExpectQuery("SELECT .+ FROM bookings WHERE customer_id = .+ AND status =").
		WithArgs(int64(7), "confirmed").
		WillReturnRows(rows)

	bookings, err := repo.GetByCustomer(context.Background(), 7, ptr.Ptr(domain.StatusConfirmed))

	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, domain.StatusConfirmed, bookings[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
