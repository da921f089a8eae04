package series

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/pkg/dbmetrics"
	"github.com/m04kA/DDC-BookingService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий серий повторяющихся бронирований
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория серий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает серию вместе с питомцами и датами-исключениями
func (r *Repository) Create(ctx context.Context, s *domain.RecurrenceSeries) (*domain.RecurrenceSeries, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	weekdays := make([]int64, 0, len(s.Weekdays))
	for _, wd := range s.Weekdays {
		weekdays = append(weekdays, int64(wd))
	}

	query, args, err := psqlbuilder.Insert("recurrence_series").
		Columns(
			"location_id",
			"client_id",
			"weekdays",
			"start_date",
			"end_date",
			"day_start_minutes",
			"day_end_minutes",
		).
		Values(
			s.LocationID,
			s.ClientID,
			pq.Array(weekdays),
			s.StartDate,
			s.EndDate,
			s.DayStartMinutes,
			s.DayEndMinutes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	if err := r.insertPets(ctx, executor, s.ID, s.PetIDs); err != nil {
		return nil, err
	}

	for _, ex := range s.ExceptionDates {
		if err := r.AddException(ctx, s.ID, ex); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// GetByID получает серию по ID вместе с питомцами и исключениями
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.RecurrenceSeries, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.selectSeries().Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result, err := r.scanSeries(rows)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, ErrSeriesNotFound
	}

	s := result[0]
	if err := r.loadDetails(ctx, executor, s); err != nil {
		return nil, err
	}

	return s, nil
}

// GetByClient получает серии клиента
func (r *Repository) GetByClient(ctx context.Context, clientID int64) ([]*domain.RecurrenceSeries, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.selectSeries().
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("start_date ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByClient - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClient - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result, err := r.scanSeries(rows)
	if err != nil {
		return nil, err
	}

	for _, s := range result {
		if err := r.loadDetails(ctx, executor, s); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// AddException исключает дату из разворачивания серии. Дата-исключение
// остается навсегда - серия не перегенерирует пропущенное бронирование.
func (r *Repository) AddException(ctx context.Context, seriesID int64, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("series_exceptions").
		Columns("series_id", "exception_date").
		Values(seriesID, date).
		Suffix("ON CONFLICT (series_id, exception_date) DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AddException - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AddException - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) insertPets(ctx context.Context, executor DBExecutor, seriesID int64, petIDs []int64) error {
	builder := psqlbuilder.Insert("series_pets").Columns("series_id", "pet_id")
	for _, petID := range petIDs {
		builder = builder.Values(seriesID, petID)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertPets - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertPets - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) selectSeries() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"location_id",
		"client_id",
		"weekdays",
		"start_date",
		"end_date",
		"day_start_minutes",
		"day_end_minutes",
		"created_at",
		"updated_at",
	).From("recurrence_series")
}

func (r *Repository) scanSeries(rows *sql.Rows) ([]*domain.RecurrenceSeries, error) {
	result := make([]*domain.RecurrenceSeries, 0)

	for rows.Next() {
		var s domain.RecurrenceSeries
		var weekdays []int64
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&s.ID,
			&s.LocationID,
			&s.ClientID,
			pq.Array(&weekdays),
			&s.StartDate,
			&s.EndDate,
			&s.DayStartMinutes,
			&s.DayEndMinutes,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSeries - scan row: %v", ErrScanRow, err)
		}

		s.Weekdays = make([]time.Weekday, 0, len(weekdays))
		for _, wd := range weekdays {
			s.Weekdays = append(s.Weekdays, time.Weekday(wd))
		}

		s.CreatedAt = createdAt.Time
		s.UpdatedAt = updatedAt.Time
		result = append(result, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSeries - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

func (r *Repository) loadDetails(ctx context.Context, executor DBExecutor, s *domain.RecurrenceSeries) error {
	petsQuery, petsArgs, err := psqlbuilder.Select("pet_id").
		From("series_pets").
		Where(squirrel.Eq{"series_id": s.ID}).
		OrderBy("pet_id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadDetails - build pets query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, petsQuery, petsArgs...)
	if err != nil {
		return fmt.Errorf("%w: loadDetails - execute pets query: %v", ErrExecQuery, err)
	}

	s.PetIDs = make([]int64, 0)
	for rows.Next() {
		var petID int64
		if err := rows.Scan(&petID); err != nil {
			rows.Close()
			return fmt.Errorf("%w: loadDetails - scan pet row: %v", ErrScanRow, err)
		}
		s.PetIDs = append(s.PetIDs, petID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("%w: loadDetails - pets rows error: %v", ErrScanRow, err)
	}
	rows.Close()

	exQuery, exArgs, err := psqlbuilder.Select("exception_date").
		From("series_exceptions").
		Where(squirrel.Eq{"series_id": s.ID}).
		OrderBy("exception_date ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadDetails - build exceptions query: %v", ErrBuildQuery, err)
	}

	exRows, err := executor.QueryContext(ctx, exQuery, exArgs...)
	if err != nil {
		return fmt.Errorf("%w: loadDetails - execute exceptions query: %v", ErrExecQuery, err)
	}
	defer exRows.Close()

	s.ExceptionDates = make([]time.Time, 0)
	for exRows.Next() {
		var date time.Time
		if err := exRows.Scan(&date); err != nil {
			return fmt.Errorf("%w: loadDetails - scan exception row: %v", ErrScanRow, err)
		}
		s.ExceptionDates = append(s.ExceptionDates, date)
	}
	if err := exRows.Err(); err != nil {
		return fmt.Errorf("%w: loadDetails - exceptions rows error: %v", ErrScanRow, err)
	}

	return nil
}
