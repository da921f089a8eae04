package location

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/pkg/dbmetrics"
	"github.com/m04kA/DDC-BookingService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с площадками
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория площадок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую площадку
func (r *Repository) Create(ctx context.Context, location *domain.Location) (*domain.Location, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("locations").
		Columns(
			"name",
			"capacity",
			"base_rate_cents",
			"second_pet_discount_pct",
			"gst_registered",
			"timezone",
		).
		Values(
			location.Name,
			location.Capacity,
			location.BaseRateCents,
			location.SecondPetDiscountPct,
			location.GSTRegistered,
			location.Timezone,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&location.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	location.CreatedAt = createdAt.Time
	location.UpdatedAt = updatedAt.Time

	return location, nil
}

// GetByID получает площадку по ID
// Внутри транзакции блокирует строку площадки - это точка сериализации
// всех операций контроля вместимости по одной площадке
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.selectLocations().Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var location domain.Location
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&location.ID,
		&location.Name,
		&location.Capacity,
		&location.BaseRateCents,
		&location.SecondPetDiscountPct,
		&location.GSTRegistered,
		&location.Timezone,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan location: %v", ErrScanRow, err)
	}

	location.CreatedAt = createdAt.Time
	location.UpdatedAt = updatedAt.Time

	return &location, nil
}

// List получает все площадки
func (r *Repository) List(ctx context.Context) ([]*domain.Location, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.selectLocations().OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	locations := make([]*domain.Location, 0)
	for rows.Next() {
		var location domain.Location
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&location.ID,
			&location.Name,
			&location.Capacity,
			&location.BaseRateCents,
			&location.SecondPetDiscountPct,
			&location.GSTRegistered,
			&location.Timezone,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}

		location.CreatedAt = createdAt.Time
		location.UpdatedAt = updatedAt.Time
		locations = append(locations, &location)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return locations, nil
}

func (r *Repository) selectLocations() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"name",
		"capacity",
		"base_rate_cents",
		"second_pet_discount_pct",
		"gst_registered",
		"timezone",
		"created_at",
		"updated_at",
	).From("locations")
}
