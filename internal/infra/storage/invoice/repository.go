package invoice

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/DDC-BookingService/internal/domain"
	"github.com/m04kA/DDC-BookingService/pkg/dbmetrics"
	"github.com/m04kA/DDC-BookingService/pkg/money"
	"github.com/m04kA/DDC-BookingService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий счетов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория счетов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// NextNumber выдает следующий номер счета формата INV-<год>-<NNNNN>.
// Счетчик ведется в таблице invoice_sequences отдельно по годам, UPSERT
// атомарен и внутри транзакции сериализуется с конкурентными выписками.
func (r *Repository) NextNumber(ctx context.Context, year int) (string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query := `INSERT INTO invoice_sequences (year, last_value)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_value = invoice_sequences.last_value + 1
		RETURNING last_value`

	var seq int64
	if err := executor.QueryRowContext(ctx, query, year).Scan(&seq); err != nil {
		return "", fmt.Errorf("%w: NextNumber - execute upsert: %v", ErrExecQuery, err)
	}

	return fmt.Sprintf("INV-%d-%05d", year, seq), nil
}

// Create создает счет вместе с его строками
func (r *Repository) Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("invoices").
		Columns(
			"booking_id",
			"client_id",
			"number",
			"status",
			"gst_cents",
			"deposit_cents",
			"issue_date",
			"due_date",
		).
		Values(
			inv.BookingID,
			inv.ClientID,
			inv.Number,
			inv.Status,
			inv.GST,
			inv.Deposit,
			inv.IssueDate,
			inv.DueDate,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&inv.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrDuplicateNumber
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	inv.CreatedAt = createdAt.Time
	inv.UpdatedAt = updatedAt.Time

	if len(inv.LineItems) > 0 {
		created, err := r.AddLineItems(ctx, inv.ID, inv.LineItems)
		if err != nil {
			return nil, err
		}
		inv.LineItems = created
	}

	return inv, nil
}

// GetByID получает счет по ID вместе со строками и платежами
// Внутри транзакции блокирует строку счета
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByBookingID получает счет бронирования (связь 1:1)
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Invoice, error) {
	return r.getOne(ctx, squirrel.Eq{"booking_id": bookingID})
}

// GetByClient получает счета клиента, новые - первыми
func (r *Repository) GetByClient(ctx context.Context, clientID int64) ([]*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.selectInvoices().
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("issue_date DESC, id DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByClient - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClient - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	invoices, err := r.scanInvoices(rows)
	if err != nil {
		return nil, err
	}

	for _, inv := range invoices {
		if err := r.loadDetails(ctx, executor, inv); err != nil {
			return nil, err
		}
	}

	return invoices, nil
}

// AddLineItems добавляет строки к счету. Существующие строки никогда
// не изменяются и не удаляются - корректировки только новыми строками.
func (r *Repository) AddLineItems(ctx context.Context, invoiceID int64, items []domain.LineItem) ([]domain.LineItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert("invoice_line_items").
		Columns(
			"invoice_id",
			"kind",
			"description",
			"quantity",
			"unit_price_cents",
			"total_cents",
			"gst_applicable",
		)

	for _, li := range items {
		builder = builder.Values(
			invoiceID,
			li.Kind,
			li.Description,
			li.Quantity,
			li.UnitPrice,
			li.Total,
			li.GSTApplicable,
		)
	}

	query, args, err := builder.Suffix("RETURNING id, created_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: AddLineItems - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: AddLineItems - execute insert: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	created := make([]domain.LineItem, 0, len(items))
	i := 0
	for rows.Next() {
		li := items[i]
		li.InvoiceID = invoiceID

		var createdAt sql.NullTime
		if err := rows.Scan(&li.ID, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: AddLineItems - scan row: %v", ErrScanRow, err)
		}
		li.CreatedAt = createdAt.Time

		created = append(created, li)
		i++
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: AddLineItems - rows error: %v", ErrScanRow, err)
	}

	return created, nil
}

// AddPayment записывает платеж по счету
func (r *Repository) AddPayment(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payments").
		Columns(
			"invoice_id",
			"amount_cents",
			"method",
			"reference",
			"refund_due",
			"paid_at",
		).
		Values(
			p.InvoiceID,
			p.Amount,
			p.Method,
			p.Reference,
			p.RefundDue,
			p.PaidAt,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: AddPayment - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: AddPayment - execute insert: %v", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time

	return p, nil
}

// UpdateStatus обновляет статус счета
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.InvoiceStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("invoices").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
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
		return ErrInvoiceNotFound
	}

	return nil
}

// SetGST перезаписывает сумму GST после добавления строк сторно
func (r *Repository) SetGST(ctx context.Context, id int64, gst money.Cents) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("invoices").
		Set("gst_cents", gst).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetGST - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetGST - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetGST - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrInvoiceNotFound
	}

	return nil
}

// FlagPaymentsRefundDue помечает все платежи счета подлежащими возврату
func (r *Repository) FlagPaymentsRefundDue(ctx context.Context, invoiceID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payments").
		Set("refund_due", true).
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: FlagPaymentsRefundDue - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: FlagPaymentsRefundDue - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) getOne(ctx context.Context, pred squirrel.Eq) (*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.selectInvoices().Where(pred)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	invoices, err := r.scanInvoices(rows)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, ErrInvoiceNotFound
	}

	inv := invoices[0]
	if err := r.loadDetails(ctx, executor, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

func (r *Repository) selectInvoices() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"booking_id",
		"client_id",
		"number",
		"status",
		"gst_cents",
		"deposit_cents",
		"issue_date",
		"due_date",
		"created_at",
		"updated_at",
	).From("invoices")
}

func (r *Repository) scanInvoices(rows *sql.Rows) ([]*domain.Invoice, error) {
	result := make([]*domain.Invoice, 0)

	for rows.Next() {
		var inv domain.Invoice
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&inv.ID,
			&inv.BookingID,
			&inv.ClientID,
			&inv.Number,
			&inv.Status,
			&inv.GST,
			&inv.Deposit,
			&inv.IssueDate,
			&inv.DueDate,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanInvoices - scan row: %v", ErrScanRow, err)
		}

		inv.CreatedAt = createdAt.Time
		inv.UpdatedAt = updatedAt.Time
		result = append(result, &inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanInvoices - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

func (r *Repository) loadDetails(ctx context.Context, executor DBExecutor, inv *domain.Invoice) error {
	if err := r.loadLineItems(ctx, executor, inv); err != nil {
		return err
	}
	return r.loadPayments(ctx, executor, inv)
}

func (r *Repository) loadLineItems(ctx context.Context, executor DBExecutor, inv *domain.Invoice) error {
	query, args, err := psqlbuilder.Select(
		"id",
		"invoice_id",
		"kind",
		"description",
		"quantity",
		"unit_price_cents",
		"total_cents",
		"gst_applicable",
		"created_at",
	).
		From("invoice_line_items").
		Where(squirrel.Eq{"invoice_id": inv.ID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadLineItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadLineItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	inv.LineItems = make([]domain.LineItem, 0)
	for rows.Next() {
		var li domain.LineItem
		var createdAt sql.NullTime

		err := rows.Scan(
			&li.ID,
			&li.InvoiceID,
			&li.Kind,
			&li.Description,
			&li.Quantity,
			&li.UnitPrice,
			&li.Total,
			&li.GSTApplicable,
			&createdAt,
		)
		if err != nil {
			return fmt.Errorf("%w: loadLineItems - scan row: %v", ErrScanRow, err)
		}

		li.CreatedAt = createdAt.Time
		inv.LineItems = append(inv.LineItems, li)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadLineItems - rows error: %v", ErrScanRow, err)
	}

	return nil
}

func (r *Repository) loadPayments(ctx context.Context, executor DBExecutor, inv *domain.Invoice) error {
	query, args, err := psqlbuilder.Select(
		"id",
		"invoice_id",
		"amount_cents",
		"method",
		"reference",
		"refund_due",
		"paid_at",
		"created_at",
	).
		From("payments").
		Where(squirrel.Eq{"invoice_id": inv.ID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadPayments - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadPayments - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	inv.Payments = make([]domain.Payment, 0)
	for rows.Next() {
		var p domain.Payment
		var createdAt sql.NullTime

		err := rows.Scan(
			&p.ID,
			&p.InvoiceID,
			&p.Amount,
			&p.Method,
			&p.Reference,
			&p.RefundDue,
			&p.PaidAt,
			&createdAt,
		)
		if err != nil {
			return fmt.Errorf("%w: loadPayments - scan row: %v", ErrScanRow, err)
		}

		p.CreatedAt = createdAt.Time
		inv.Payments = append(inv.Payments, p)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadPayments - rows error: %v", ErrScanRow, err)
	}

	return nil
}
