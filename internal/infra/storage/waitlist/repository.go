package waitlist

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/pkg/dbmetrics"
	"github.com/m04kA/DDC-BookingService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий листа ожидания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория листа ожидания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет запись в лист ожидания. Порядок продвижения
// определяется enqueued_at (NOW() из БД), при равенстве - по id.
func (r *Repository) Create(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("waitlist_entries").
		Columns(
			"location_id",
			"client_id",
			"requested_start",
			"requested_end",
			"status",
			"booking_id",
			"notes",
		).
		Values(
			entry.LocationID,
			entry.ClientID,
			entry.Requested.Start,
			entry.Requested.End,
			domain.WaitlistPending,
			entry.BookingID,
			entry.Notes,
		).
		Suffix("RETURNING id, enqueued_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&entry.ID,
		&entry.EnqueuedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	entry.Status = domain.WaitlistPending

	if err := r.insertPets(ctx, executor, entry.ID, entry.PetIDs); err != nil {
		return nil, err
	}

	return entry, nil
}

// GetByID получает запись листа ожидания по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.selectEntries().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries, err := r.scanEntries(ctx, executor, rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrEntryNotFound
	}

	return entries[0], nil
}

// ListPending получает ожидающие записи площадки в порядке продвижения
// (FIFO по enqueued_at, при равенстве - по id)
func (r *Repository) ListPending(ctx context.Context, locationID int64) ([]*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.selectEntries().
		Where(squirrel.Eq{"location_id": locationID}).
		Where(squirrel.Eq{"status": domain.WaitlistPending}).
		OrderBy("enqueued_at ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanEntries(ctx, executor, rows)
}

// ListOverlappingPending получает ожидающие записи площадки, чей
// запрошенный интервал пересекается с освободившимся, в порядке
// продвижения
func (r *Repository) ListOverlappingPending(ctx context.Context, locationID int64, freed domain.Interval) ([]*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.selectEntries().
		Where(squirrel.Eq{"location_id": locationID}).
		Where(squirrel.Eq{"status": domain.WaitlistPending}).
		Where(squirrel.Lt{"requested_start": freed.End}).
		Where(squirrel.Gt{"requested_end": freed.Start}).
		OrderBy("enqueued_at ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlappingPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlappingPending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanEntries(ctx, executor, rows)
}

// UpdateStatus помечает запись продвинутой или снятой. Записи
// не удаляются - история очереди сохраняется для аудита.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.WaitlistEntryStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("waitlist_entries").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
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
		return ErrEntryNotFound
	}

	return nil
}

// RemoveByBooking снимает ожидающую запись, привязанную к бронированию.
// Отсутствие такой записи не ошибка.
func (r *Repository) RemoveByBooking(ctx context.Context, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("waitlist_entries").
		Set("status", domain.WaitlistRemoved).
		Where(squirrel.Eq{"booking_id": bookingID}).
		Where(squirrel.Eq{"status": domain.WaitlistPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RemoveByBooking - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: RemoveByBooking - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) selectEntries() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"location_id",
		"client_id",
		"requested_start",
		"requested_end",
		"status",
		"booking_id",
		"notes",
		"enqueued_at",
	).From("waitlist_entries")
}

func (r *Repository) insertPets(ctx context.Context, executor DBExecutor, entryID int64, petIDs []int64) error {
	if len(petIDs) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("waitlist_pets").Columns("entry_id", "pet_id")
	for _, petID := range petIDs {
		insertBuilder = insertBuilder.Values(entryID, petID)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertPets - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertPets - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) scanEntries(ctx context.Context, executor DBExecutor, rows *sql.Rows) ([]*domain.WaitlistEntry, error) {
	entries := make([]*domain.WaitlistEntry, 0)

	for rows.Next() {
		var entry domain.WaitlistEntry

		err := rows.Scan(
			&entry.ID,
			&entry.LocationID,
			&entry.ClientID,
			&entry.Requested.Start,
			&entry.Requested.End,
			&entry.Status,
			&entry.BookingID,
			&entry.Notes,
			&entry.EnqueuedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanEntries - scan row: %v", ErrScanRow, err)
		}

		entry.PetIDs = make([]int64, 0)
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanEntries - rows error: %v", ErrScanRow, err)
	}

	if err := r.loadPets(ctx, executor, entries); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *Repository) loadPets(ctx context.Context, executor DBExecutor, entries []*domain.WaitlistEntry) error {
	if len(entries) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.WaitlistEntry, len(entries))
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}

	query := "SELECT entry_id, pet_id FROM waitlist_pets WHERE entry_id = ANY($1) ORDER BY entry_id, pet_id"

	rows, err := executor.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("%w: loadPets - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var entryID, petID int64
		if err := rows.Scan(&entryID, &petID); err != nil {
			return fmt.Errorf("%w: loadPets - scan row: %v", ErrScanRow, err)
		}
		if e, ok := byID[entryID]; ok {
			e.PetIDs = append(e.PetIDs, petID)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadPets - rows error: %v", ErrScanRow, err)
	}

	return nil
}
