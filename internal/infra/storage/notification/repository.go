package notification

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotService/pkg/psqlbuilder"
)

var taskColumns = []string{
	"id",
	"booking_id",
	"recipient_id",
	"channel",
	"notification_type",
	"status",
	"error_message",
	"created_at",
	"processed_at",
}

// Repository репозиторий очереди задач уведомлений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория уведомлений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Enqueue вставляет пакет задач в статусе pending.
// Вызывается внутри транзакции изменения бронирования: задачи коммитятся
// вместе с переходом статуса или не коммитятся вовсе.
func (r *Repository) Enqueue(ctx context.Context, tasks []*domain.NotificationTask) error {
	if len(tasks) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("notification_tasks").
		Columns(
			"id",
			"booking_id",
			"recipient_id",
			"channel",
			"notification_type",
			"status",
		)

	for _, task := range tasks {
		task.ID = uuid.NewString()
		task.Status = domain.TaskPending
		insertBuilder = insertBuilder.Values(
			task.ID,
			task.BookingID,
			task.RecipientID,
			task.Channel,
			task.NotificationType,
			task.Status,
		)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Enqueue - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Enqueue - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// FetchPending выбирает до limit самых старых pending задач с блокировкой строк.
// SKIP LOCKED позволяет параллельным drain-проходам не конкурировать за
// одни и те же задачи. Должен вызываться внутри транзакции.
func (r *Repository) FetchPending(ctx context.Context, limit uint64) ([]*domain.NotificationTask, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(taskColumns...).
		From("notification_tasks").
		Where(squirrel.Eq{"status": domain.TaskPending}).
		OrderBy("created_at ASC").
		Limit(limit).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FetchPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FetchPending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanTasks(rows)
}

// SetTerminalStatus переводит задачу в терминальный статус с опциональным
// сообщением об ошибке
func (r *Repository) SetTerminalStatus(ctx context.Context, id string, status domain.TaskStatus, errorMessage *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("notification_tasks").
		Set("status", status).
		Set("error_message", errorMessage).
		Set("processed_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetTerminalStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetTerminalStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetTerminalStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// ResetFailed возвращает failed задачи в pending. Точка входа для
// операторского перезапуска: drain сам failed задачи не трогает.
func (r *Repository) ResetFailed(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("notification_tasks").
		Set("status", domain.TaskPending).
		Set("error_message", nil).
		Set("processed_at", nil).
		Where(squirrel.Eq{"id": ids}).
		Where(squirrel.Eq{"status": domain.TaskFailed}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: ResetFailed - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ResetFailed - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: ResetFailed - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

func (r *Repository) scanTasks(rows *sql.Rows) ([]*domain.NotificationTask, error) {
	tasks := make([]*domain.NotificationTask, 0)

	for rows.Next() {
		var t domain.NotificationTask
		var errorMessage sql.NullString
		var createdAt, processedAt sql.NullTime

		err := rows.Scan(
			&t.ID,
			&t.BookingID,
			&t.RecipientID,
			&t.Channel,
			&t.NotificationType,
			&t.Status,
			&errorMessage,
			&createdAt,
			&processedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanTasks - scan row: %v", ErrScanRow, err)
		}

		if errorMessage.Valid {
			t.ErrorMessage = &errorMessage.String
		}
		t.CreatedAt = createdAt.Time
		if processedAt.Valid {
			t.ProcessedAt = &processedAt.Time
		}

		tasks = append(tasks, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanTasks - rows error: %v", ErrScanRow, err)
	}

	return tasks, nil
}
