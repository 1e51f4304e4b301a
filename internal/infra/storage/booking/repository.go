package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotService/pkg/psqlbuilder"
)

// Код PostgreSQL для нарушения уникального ограничения
const pgUniqueViolation = "23505"

var bookingColumns = []string{
	"id",
	"slot_id",
	"customer_id",
	"provider_id",
	"booking_date",
	"start_time",
	"end_time",
	"price",
	"status",
	"status_changed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование в статусе pending.
// Частичный уникальный индекс по slot_id (без отмененных) страхует инвариант
// "один слот - одно живое бронирование" на случай обхода условного Claim.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	booking.ID = uuid.NewString()
	booking.Status = domain.StatusPending

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"slot_id",
			"customer_id",
			"provider_id",
			"booking_date",
			"start_time",
			"end_time",
			"price",
			"status",
		).
		Values(
			booking.ID,
			booking.SlotID,
			booking.CustomerID,
			booking.ProviderID,
			booking.BookingDate,
			booking.StartTime,
			booking.EndTime,
			booking.Price,
			booking.Status,
		).
		Suffix("RETURNING status_changed_at, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var statusChangedAt, createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&statusChangedAt, &createdAt, &updatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrSlotAlreadyBooked
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.StatusChangedAt = statusChangedAt.Time
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var b domain.Booking
	if err := r.scanBooking(executor.QueryRowContext(ctx, query, args...), &b); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return &b, nil
}

// GetByCustomer получает историю бронирований пользователя.
// Опционально фильтрует по статусу.
func (r *Repository) GetByCustomer(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("booking_date DESC", "start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// UpdateStatus переводит бронирование из ожидаемого статуса в новый.
// Ожидаемый статус в WHERE делает переход условным: параллельный переход
// того же бронирования получит ErrStatusConflict, а не перезапишет статус.
func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("status_changed_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanBooking(row rowScanner, b *domain.Booking) error {
	var statusChangedAt, createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.SlotID,
		&b.CustomerID,
		&b.ProviderID,
		&b.BookingDate,
		&b.StartTime,
		&b.EndTime,
		&b.Price,
		&b.Status,
		&statusChangedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return err
	}

	b.StatusChangedAt = statusChangedAt.Time
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return nil
}

func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var b domain.Booking
		if err := r.scanBooking(rows, &b); err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
