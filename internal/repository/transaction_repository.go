package repository

import (
	"context"
	"time"

	"granabox/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var transactionColumns = []string{
	"t.id", "t.description", "t.amount", "t.date", "t.category_id", "c.name",
	"t.recurrence_id", "t.paid", "t.paid_at", "t.created_at", "t.updated_at",
}

type TransactionRepository struct {
	db     Querier
	logger *zap.Logger
}

func NewTransactionRepository(db Querier, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// WithTx returns a copy of the repository bound to q.
func (r *TransactionRepository) WithTx(q Querier) *TransactionRepository {
	return &TransactionRepository{db: q, logger: r.logger}
}

func selectTransactions() squirrel.SelectBuilder {
	return squirrel.Select(transactionColumns...).
		From("transactions t").
		Join("categories c ON c.id = t.category_id")
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var tx models.Transaction
	if err := row.Scan(
		&tx.ID, &tx.Description, &tx.Amount, &tx.Date, &tx.CategoryID, &tx.CategoryName,
		&tx.RecurrenceID, &tx.Paid, &tx.PaidAt, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &tx, nil
}

// Create inserts tx and fills in its id and timestamps.
func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Insert("transactions").
		Columns("description", "amount", "date", "category_id", "recurrence_id", "paid", "paid_at").
		Values(tx.Description, tx.Amount, tx.Date, tx.CategoryID, tx.RecurrenceID, tx.Paid, tx.PaidAt).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	return fail(r.logger, "create transaction", err)
}

// CreateBatch inserts all transactions in one statement. Ids are assigned in
// slice order.
func (r *TransactionRepository) CreateBatch(ctx context.Context, transactions []*models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	builder := squirrel.Insert("transactions").
		Columns("description", "amount", "date", "category_id", "recurrence_id", "paid", "paid_at").
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	for _, tx := range transactions {
		builder = builder.Values(tx.Description, tx.Amount, tx.Date, tx.CategoryID, tx.RecurrenceID, tx.Paid, tx.PaidAt)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return fail(r.logger, "create transactions", err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		tx := transactions[i]
		if err := rows.Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt); err != nil {
			return fail(r.logger, "create transactions", err)
		}
		i++
	}

	return fail(r.logger, "create transactions", rows.Err())
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	return r.getOne(ctx, selectTransactions().Where(squirrel.Eq{"t.id": id}))
}

// GetByIDForUpdate reads the transaction and locks its row until the
// surrounding transaction ends.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Transaction, error) {
	return r.getOne(ctx, selectTransactions().
		Where(squirrel.Eq{"t.id": id}).
		Suffix("FOR UPDATE OF t"))
}

func (r *TransactionRepository) getOne(ctx context.Context, query squirrel.SelectBuilder) (*models.Transaction, error) {
	sql, args, err := query.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	tx, err := scanTransaction(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, fail(r.logger, "get transaction", err)
	}
	return tx, nil
}

// List returns the transactions matching filter ordered by id.
func (r *TransactionRepository) List(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, error) {
	query := selectTransactions().OrderBy("t.id ASC")

	if filter.CategoryID != nil {
		query = query.Where(squirrel.Eq{"t.category_id": *filter.CategoryID})
	}
	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"t.date": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.LtOrEq{"t.date": *filter.To})
	}
	switch filter.Kind {
	case models.KindIncome:
		query = query.Where(squirrel.Gt{"t.amount": 0})
	case models.KindExpense:
		query = query.Where(squirrel.Lt{"t.amount": 0})
	}
	switch filter.Status {
	case models.StatusPaid:
		query = query.Where(squirrel.Lt{"t.amount": 0}).Where(squirrel.Eq{"t.paid": true})
	case models.StatusUnpaid:
		query = query.Where(squirrel.Lt{"t.amount": 0}).Where(squirrel.Eq{"t.paid": false})
	}
	if filter.RecurrenceID != nil {
		query = query.Where(squirrel.Eq{"t.recurrence_id": *filter.RecurrenceID})
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	return r.list(ctx, "list transactions", query)
}

// ListByRecurrence returns a whole series ordered by date.
func (r *TransactionRepository) ListByRecurrence(ctx context.Context, recurrenceID uuid.UUID) ([]*models.Transaction, error) {
	return r.list(ctx, "list series", selectTransactions().
		Where(squirrel.Eq{"t.recurrence_id": recurrenceID}).
		OrderBy("t.date ASC", "t.id ASC"))
}

// ListSeriesFrom locks and returns the items of a series at or after the
// given one, ordered by date.
func (r *TransactionRepository) ListSeriesFrom(ctx context.Context, from *models.Transaction) ([]*models.Transaction, error) {
	return r.list(ctx, "list series", selectTransactions().
		Where(squirrel.Eq{"t.recurrence_id": *from.RecurrenceID}).
		Where(squirrel.Expr("(t.date, t.id) >= (?, ?)", from.Date, from.ID)).
		OrderBy("t.date ASC", "t.id ASC").
		Suffix("FOR UPDATE OF t"))
}

func (r *TransactionRepository) list(ctx context.Context, op string, query squirrel.SelectBuilder) ([]*models.Transaction, error) {
	sql, args, err := query.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fail(r.logger, op, err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fail(r.logger, op, err)
		}
		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fail(r.logger, op, err)
	}
	return transactions, nil
}

// Update writes every mutable column of tx and refreshes its updated_at.
func (r *TransactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Update("transactions").
		Set("description", tx.Description).
		Set("amount", tx.Amount).
		Set("date", tx.Date).
		Set("category_id", tx.CategoryID).
		Set("paid", tx.Paid).
		Set("paid_at", tx.PaidAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": tx.ID}).
		Suffix("RETURNING updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	return fail(r.logger, "update transaction", r.db.QueryRow(ctx, sql, args...).Scan(&tx.UpdatedAt))
}

// SetPaid stores the payment state of tx. paid_at is stamped by the database
// and cleared when the expense goes back to unpaid.
func (r *TransactionRepository) SetPaid(ctx context.Context, tx *models.Transaction, paid bool) error {
	query := squirrel.Update("transactions").
		Set("paid", paid).
		Set("paid_at", squirrel.Expr("CASE WHEN ? THEN NOW() END", paid)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": tx.ID}).
		Suffix("RETURNING paid, paid_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&tx.Paid, &tx.PaidAt, &tx.UpdatedAt)
	return fail(r.logger, "set transaction status", err)
}

func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	query := squirrel.Delete("transactions").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fail(r.logger, "delete transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSeriesFrom removes the given item of a series and every later one.
func (r *TransactionRepository) DeleteSeriesFrom(ctx context.Context, from *models.Transaction) (int64, error) {
	query := squirrel.Delete("transactions").
		Where(squirrel.Eq{"recurrence_id": *from.RecurrenceID}).
		Where(squirrel.Expr("(date, id) >= (?, ?)", from.Date, from.ID)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fail(r.logger, "delete series", err)
	}
	return tag.RowsAffected(), nil
}

func (r *TransactionRepository) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	query := squirrel.Select("COUNT(*)").
		From("transactions").
		Where(squirrel.Eq{"category_id": categoryID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fail(r.logger, "count transactions", err)
	}
	return n, nil
}

// YearRange returns the first and last year with transactions. ok is false
// when the table is empty.
func (r *TransactionRepository) YearRange(ctx context.Context) (yr models.YearRange, ok bool, err error) {
	query := squirrel.Select(
		"EXTRACT(YEAR FROM MIN(date))::int",
		"EXTRACT(YEAR FROM MAX(date))::int",
	).From("transactions")

	sql, args, err := query.ToSql()
	if err != nil {
		return yr, false, err
	}

	var minYear, maxYear *int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&minYear, &maxYear); err != nil {
		return yr, false, fail(r.logger, "year range", err)
	}
	if minYear == nil || maxYear == nil {
		return yr, false, nil
	}
	return models.YearRange{MinYear: *minYear, MaxYear: *maxYear}, true, nil
}

// Totals sums the transactions between from and to inclusive. Expenses are
// absolute values split into paid and pending.
func (r *TransactionRepository) Totals(ctx context.Context, from, to time.Time) (models.Overview, error) {
	var o models.Overview
	query := squirrel.Select(
		"COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0)",
		"COALESCE(-SUM(amount) FILTER (WHERE amount < 0 AND paid), 0)",
		"COALESCE(-SUM(amount) FILTER (WHERE amount < 0 AND NOT paid), 0)",
	).
		From("transactions").
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return o, err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&o.Income, &o.Expenses, &o.Pending); err != nil {
		return o, fail(r.logger, "totals", err)
	}
	return o, nil
}
