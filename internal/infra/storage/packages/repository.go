package packages

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

// Repository репозиторий предоплаченных пакетов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория пакетов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create выпускает пакет для клиента
func (r *Repository) Create(ctx context.Context, pkg *domain.ClientPackage) (*domain.ClientPackage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("client_packages").
		Columns(
			"client_id",
			"total_credits",
			"remaining_credits",
			"credit_value_cents",
			"purchase_date",
			"expiry_date",
		).
		Values(
			pkg.ClientID,
			pkg.TotalCredits,
			pkg.RemainingCredits,
			pkg.CreditValueCents,
			pkg.PurchaseDate,
			pkg.ExpiryDate,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&pkg.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	pkg.CreatedAt = createdAt.Time
	pkg.UpdatedAt = updatedAt.Time

	return pkg, nil
}

// GetByID получает пакет по ID
// Внутри транзакции блокирует строку - списание кредитов и запись
// строки счета должны быть атомарными
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ClientPackage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.selectPackages().Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanPackage(executor.QueryRowContext(ctx, query, args...))
}

// GetByClient получает пакеты клиента, раньше истекающие - первыми
func (r *Repository) GetByClient(ctx context.Context, clientID int64) ([]*domain.ClientPackage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.selectPackages().
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("expiry_date ASC, purchase_date ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByClient - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClient - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.ClientPackage, 0)
	for rows.Next() {
		var pkg domain.ClientPackage
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&pkg.ID,
			&pkg.ClientID,
			&pkg.TotalCredits,
			&pkg.RemainingCredits,
			&pkg.CreditValueCents,
			&pkg.PurchaseDate,
			&pkg.ExpiryDate,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByClient - scan row: %v", ErrScanRow, err)
		}

		pkg.CreatedAt = createdAt.Time
		pkg.UpdatedAt = updatedAt.Time
		result = append(result, &pkg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByClient - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// DecrementCredits условно списывает n кредитов. Условие
// remaining_credits >= n в самом UPDATE гарантирует, что остаток
// никогда не уйдет в минус даже при конкурентных списаниях.
func (r *Repository) DecrementCredits(ctx context.Context, id int64, n int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("client_packages").
		Set("remaining_credits", squirrel.Expr("remaining_credits - ?", n)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.GtOrEq{"remaining_credits": n}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DecrementCredits - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DecrementCredits - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DecrementCredits - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrInsufficientCredits
	}

	return nil
}

// IncrementCredits возвращает n кредитов на пакет (сторно списания
// при отмене бронирования)
func (r *Repository) IncrementCredits(ctx context.Context, id int64, n int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("client_packages").
		Set("remaining_credits", squirrel.Expr("remaining_credits + ?", n)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: IncrementCredits - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: IncrementCredits - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: IncrementCredits - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrPackageNotFound
	}

	return nil
}

// RecordRedemption фиксирует списание кредитов под конкретный счет
func (r *Repository) RecordRedemption(ctx context.Context, red *domain.CreditRedemption) (*domain.CreditRedemption, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("credit_redemptions").
		Columns("invoice_id", "package_id", "credits").
		Values(red.InvoiceID, red.PackageID, red.Credits).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: RecordRedemption - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&red.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: RecordRedemption - execute insert: %v", ErrExecQuery, err)
	}

	red.CreatedAt = createdAt.Time

	return red, nil
}

// GetRedemptionsByInvoice получает несторнированные списания по счету
func (r *Repository) GetRedemptionsByInvoice(ctx context.Context, invoiceID int64) ([]*domain.CreditRedemption, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"invoice_id",
		"package_id",
		"credits",
		"reversed",
		"created_at",
	).
		From("credit_redemptions").
		Where(squirrel.Eq{"invoice_id": invoiceID, "reversed": false}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetRedemptionsByInvoice - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRedemptionsByInvoice - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.CreditRedemption, 0)
	for rows.Next() {
		var red domain.CreditRedemption
		var createdAt sql.NullTime

		err := rows.Scan(
			&red.ID,
			&red.InvoiceID,
			&red.PackageID,
			&red.Credits,
			&red.Reversed,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetRedemptionsByInvoice - scan row: %v", ErrScanRow, err)
		}

		red.CreatedAt = createdAt.Time
		result = append(result, &red)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetRedemptionsByInvoice - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// MarkRedemptionReversed помечает списание сторнированным
func (r *Repository) MarkRedemptionReversed(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("credit_redemptions").
		Set("reversed", true).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkRedemptionReversed - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkRedemptionReversed - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) selectPackages() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"client_id",
		"total_credits",
		"remaining_credits",
		"credit_value_cents",
		"purchase_date",
		"expiry_date",
		"created_at",
		"updated_at",
	).From("client_packages")
}

func (r *Repository) scanPackage(row *sql.Row) (*domain.ClientPackage, error) {
	var pkg domain.ClientPackage
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&pkg.ID,
		&pkg.ClientID,
		&pkg.TotalCredits,
		&pkg.RemainingCredits,
		&pkg.CreditValueCents,
		&pkg.PurchaseDate,
		&pkg.ExpiryDate,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanPackage - scan row: %v", ErrScanRow, err)
	}

	pkg.CreatedAt = createdAt.Time
	pkg.UpdatedAt = updatedAt.Time

	return &pkg, nil
}
