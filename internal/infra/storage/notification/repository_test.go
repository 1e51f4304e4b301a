package notification

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/ptr"
)

const testBookingID = "7a1c4e92-3b58-4d06-9f27-8c5b1a6e0d43"

func TestRepository_Enqueue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	tasks := []*domain.NotificationTask{
		{BookingID: testBookingID, RecipientID: 42, Channel: domain.ChannelEmail, NotificationType: domain.NotifyBookingCreated},
		{BookingID: testBookingID, RecipientID: 7, Channel: domain.ChannelSMS, NotificationType: domain.NotifyBookingCreated},
	}

	mock.ExpectExec("INSERT INTO notification_tasks").
		WillReturnResult(sqlmock.NewResult(0, 2))

	err = repo.Enqueue(context.Background(), tasks)

	require.NoError(t, err)
	for _, task := range tasks {
		assert.NotEmpty(t, task.ID)
		assert.Equal(t, domain.TaskPending, task.Status)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Enqueue_EmptyBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	// Пустой пакет не должен ходить в БД
	err = repo.Enqueue(context.Background(), nil)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FetchPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "booking_id", "recipient_id", "channel",
		"notification_type", "status", "error_message", "created_at", "processed_at",
	}).
		AddRow("task-1", testBookingID, int64(42), "email", "booking_created", "pending", nil, now, nil).
		AddRow("task-2", testBookingID, int64(7), "sms", "booking_created", "pending", nil, now, nil)

	mock.ExpectQuery("SELECT .+ FROM notification_tasks WHERE status = .+ ORDER BY created_at ASC LIMIT 50 FOR UPDATE SKIP LOCKED").
		WithArgs("pending").
		WillReturnRows(rows)

	tasks, err := repo.FetchPending(context.Background(), 50)

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "task-1", tasks[0].ID)
	assert.Equal(t, domain.ChannelEmail, tasks[0].Channel)
	assert.Nil(t, tasks[0].ErrorMessage)
	assert.Equal(t, domain.ChannelSMS, tasks[1].Channel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetTerminalStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec("UPDATE notification_tasks SET status = .+, error_message = .+, processed_at = NOW").
		WithArgs("failed", "smtp: connection refused", "task-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.SetTerminalStatus(context.Background(), "task-1", domain.TaskFailed, ptr.Ptr("smtp: connection refused"))

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetTerminalStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec("UPDATE notification_tasks SET status =").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.SetTerminalStatus(context.Background(), "missing", domain.TaskProcessed, nil)

	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ResetFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec("UPDATE notification_tasks SET status = .+ WHERE id IN .+ AND status =").
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := repo.ResetFailed(context.Background(), []string{"task-1", "task-2"})

	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ResetFailed_EmptyIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	count, err := repo.ResetFailed(context.Background(), nil)

	require.NoError(t, err)
	assert.Zero(t, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
