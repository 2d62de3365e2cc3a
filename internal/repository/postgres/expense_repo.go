package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/obras-hq/obras-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL.
// The table uses snake_case columns (category_id, project_id, receipt_url);
// translation to the camelCase domain model happens here.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// GetAll retrieves all expenses ordered by date descending.
func (r *ExpenseRepository) GetAll(ctx context.Context) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, description, amount::text, date, category_id, project_id, receipt_url
		FROM expenses
		ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		var (
			e          domain.Expense
			amount     string
			date       time.Time
			categoryID pgtype.Text
			projectID  pgtype.Text
			receiptURL pgtype.Text
		)
		if err := rows.Scan(&e.ID, &e.Description, &amount, &date, &categoryID, &projectID, &receiptURL); err != nil {
			return nil, err
		}
		e.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		e.Date = date.Format(domain.DateLayout)
		e.CategoryID = categoryID.String
		e.ProjectID = projectID.String
		e.Receipt = receiptURL.String
		expenses = append(expenses, &e)
	}
	return expenses, rows.Err()
}

// Insert creates a new expense row. The store assigns the id; callers that
// need it reload the collection.
func (r *ExpenseRepository) Insert(ctx context.Context, expense *domain.Expense) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO expenses (description, amount, date, category_id, project_id, receipt_url)
		VALUES ($1, $2::numeric, $3::date, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''))`,
		expense.Description,
		expense.Amount.String(),
		expense.Date,
		expense.CategoryID,
		expense.ProjectID,
		expense.Receipt,
	)
	return err
}

// Delete removes an expense row.
func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id::text = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}
