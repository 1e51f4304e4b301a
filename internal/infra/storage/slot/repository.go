package slot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotService/pkg/psqlbuilder"
)

var slotColumns = []string{
	"id",
	"provider_id",
	"slot_date",
	"start_time",
	"end_time",
	"duration_minutes",
	"price",
	"discount_price",
	"service_label",
	"is_claimed",
	"is_cancelled",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами доступности
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый слот. ID генерируется на стороне сервиса (UUID).
func (r *Repository) Create(ctx context.Context, slot *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	slot.ID = uuid.NewString()

	query, args, err := psqlbuilder.Insert("slots").
		Columns(
			"id",
			"provider_id",
			"slot_date",
			"start_time",
			"end_time",
			"duration_minutes",
			"price",
			"discount_price",
			"service_label",
		).
		Values(
			slot.ID,
			slot.ProviderID,
			slot.Date,
			slot.StartTime,
			slot.EndTime,
			slot.DurationMinutes,
			slot.Price,
			slot.DiscountPrice,
			slot.ServiceLabel,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time
	slot.IsClaimed = false
	slot.IsCancelled = false

	return slot, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.AvailabilitySlot
	if err := r.scanSlot(executor.QueryRowContext(ctx, query, args...), &s); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return &s, nil
}

// ListByProvider получает слоты провайдера, упорядоченные по (дата, время начала)
func (r *Repository) ListByProvider(ctx context.Context, filter domain.ProviderSlotsFilter) ([]*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"provider_id": filter.ProviderID}).
		Where(squirrel.Eq{"is_cancelled": false}).
		OrderBy("slot_date ASC", "start_time ASC")

	if filter.DateFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"slot_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"slot_date": *filter.DateTo})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByProvider - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByProvider - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// SearchOpen выбирает открытые слоты для поисковой выдачи.
// Занятые, отмененные и прошедшие слоты отфильтрованы на уровне SQL.
func (r *Repository) SearchOpen(ctx context.Context, q domain.SlotSearchQuery) ([]*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"is_claimed": false}).
		Where(squirrel.Eq{"is_cancelled": false}).
		Where(squirrel.GtOrEq{"slot_date": q.DateFrom})

	if q.DateTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"slot_date": *q.DateTo})
	}
	if !q.TimeFrom.IsZero() {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": q.TimeFrom})
	}
	if !q.TimeTo.IsZero() {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": q.TimeTo})
	}
	if q.Category != "" {
		selectBuilder = selectBuilder.Where(squirrel.ILike{"service_label": "%" + q.Category + "%"})
	}

	switch q.Sort {
	case domain.SortByPrice:
		selectBuilder = selectBuilder.OrderBy("COALESCE(discount_price, price) ASC", "slot_date ASC", "start_time ASC")
	default:
		selectBuilder = selectBuilder.OrderBy("slot_date ASC", "start_time ASC")
	}

	if q.Limit > 0 {
		selectBuilder = selectBuilder.Limit(q.Limit)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: SearchOpen - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: SearchOpen - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// Claim атомарно занимает слот: единственный разрешенный способ перевести
// is_claimed false -> true. Условие в WHERE гарантирует, что при гонке
// двух бронирований успешным будет ровно одно.
func (r *Repository) Claim(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("is_claimed", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"is_claimed": false}).
		Where(squirrel.Eq{"is_cancelled": false}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Claim - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Claim - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Claim - get rows affected: %v", ErrExecQuery, err)
	}

	// 0 строк = слот не существует, уже занят или отменен.
	// Для вызывающего это один и тот же результат: слот недоступен.
	if rowsAffected == 0 {
		return ErrSlotNotAvailable
	}

	return nil
}

// Reopen возвращает занятый слот в открытое состояние (is_claimed true -> false).
// Используется при отмене бронирования и при репарации осиротевших claim'ов.
func (r *Repository) Reopen(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("is_claimed", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"is_claimed": true}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reopen - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Reopen - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Reopen - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotClaimed
	}

	return nil
}

// CancelOpen отменяет открытый слот. Условие is_claimed = FALSE в WHERE
// защищает от гонки с параллельным бронированием: если слот успели занять,
// отмена не проходит.
func (r *Repository) CancelOpen(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("is_cancelled", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"is_claimed": false}).
		Where(squirrel.Eq{"is_cancelled": false}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CancelOpen - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: CancelOpen - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: CancelOpen - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotClaimed
	}

	return nil
}

// ReopenOrphaned переоткрывает занятые слоты без живого бронирования,
// находящиеся в этом состоянии дольше grace-периода. Возвращает ID переоткрытых слотов.
func (r *Repository) ReopenOrphaned(ctx context.Context, grace time.Duration) ([]string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	statuses := make([]string, len(domain.LiveBookingStatuses))
	for i, s := range domain.LiveBookingStatuses {
		statuses[i] = string(s)
	}

	query, args, err := psqlbuilder.Update("slots").
		Set("is_claimed", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"is_claimed": true}).
		Where(squirrel.Eq{"is_cancelled": false}).
		Where(squirrel.Expr("updated_at < NOW() - ?::interval", fmt.Sprintf("%d seconds", int(grace.Seconds())))).
		Where(squirrel.Expr(
			"NOT EXISTS (SELECT 1 FROM bookings b WHERE b.slot_id = slots.id AND b.status = ANY(?))",
			pq.Array(statuses),
		)).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ReopenOrphaned - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ReopenOrphaned - execute update: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ReopenOrphaned - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ReopenOrphaned - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanSlot(row rowScanner, s *domain.AvailabilitySlot) error {
	var createdAt, updatedAt sql.NullTime
	var discountPrice sql.NullFloat64

	err := row.Scan(
		&s.ID,
		&s.ProviderID,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.DurationMinutes,
		&s.Price,
		&discountPrice,
		&s.ServiceLabel,
		&s.IsClaimed,
		&s.IsCancelled,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return err
	}

	if discountPrice.Valid {
		s.DiscountPrice = &discountPrice.Float64
	}
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return nil
}

func (r *Repository) scanSlots(rows *sql.Rows) ([]*domain.AvailabilitySlot, error) {
	slots := make([]*domain.AvailabilitySlot, 0)

	for rows.Next() {
		var s domain.AvailabilitySlot
		if err := r.scanSlot(rows, &s); err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
