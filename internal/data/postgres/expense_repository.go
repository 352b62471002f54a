package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fintrack-ledger/internal/domain/expense"
	"github.com/fintrack-ledger/internal/platform/persistence"
)

const expenseColumns = "id, user_id, amount, occurred_on, merchant, note, payment_method, category_id, excluded_from_budget, created_at, updated_at"

// ExpenseRepository implements the expense.Repository interface for PostgreSQL
type ExpenseRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewExpenseRepository creates a new PostgreSQL expense repository
func NewExpenseRepository(logger *slog.Logger, db *persistence.PostgresDB) expense.Repository {
	return &ExpenseRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *ExpenseRepository) WithTx(tx pgx.Tx) expense.Repository {
	return &ExpenseRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new expense
func (r *ExpenseRepository) Create(ctx context.Context, exp *expense.Expense) error {
	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.querier.Exec(ctx, query,
		exp.ID,
		exp.UserID,
		exp.Amount,
		exp.OccurredOn,
		exp.Merchant,
		exp.Note,
		exp.PaymentMethod,
		exp.CategoryID,
		exp.ExcludedFromBudget,
		exp.CreatedAt,
		exp.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create expense", "id", exp.ID.String(), "error", err)
		return fmt.Errorf("failed to create expense: %w", err)
	}

	return nil
}

// GetByID retrieves an expense by its id, scoped to the owning user
func (r *ExpenseRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*expense.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE id = $1 AND user_id = $2
	`

	exp, err := scanExpenseRow(r.querier.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, expense.ErrExpenseNotFound{ExpenseID: id}
		}
		r.logger.Error("Failed to get expense", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return exp, nil
}

// Update rewrites the expense's mutable fields
func (r *ExpenseRepository) Update(ctx context.Context, exp *expense.Expense) error {
	query := `
		UPDATE expenses
		SET amount = $1, occurred_on = $2, merchant = $3, note = $4, payment_method = $5,
		    category_id = $6, excluded_from_budget = $7, updated_at = $8
		WHERE id = $9 AND user_id = $10
	`

	result, err := r.querier.Exec(ctx, query,
		exp.Amount,
		exp.OccurredOn,
		exp.Merchant,
		exp.Note,
		exp.PaymentMethod,
		exp.CategoryID,
		exp.ExcludedFromBudget,
		exp.UpdatedAt,
		exp.ID,
		exp.UserID,
	)
	if err != nil {
		r.logger.Error("Failed to update expense", "id", exp.ID.String(), "error", err)
		return fmt.Errorf("failed to update expense: %w", err)
	}

	if result.RowsAffected() == 0 {
		return expense.ErrExpenseNotFound{ExpenseID: exp.ID}
	}

	return nil
}

// Delete removes the expense row
func (r *ExpenseRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM expenses WHERE id = $1 AND user_id = $2`

	result, err := r.querier.Exec(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete expense", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	if result.RowsAffected() == 0 {
		return expense.ErrExpenseNotFound{ExpenseID: id}
	}

	return nil
}

// ListByUser returns the user's expenses newest first, paginated
func (r *ExpenseRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*expense.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE user_id = $1
		ORDER BY occurred_on DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list expenses", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// CountByUser returns the total number of expenses for the user
func (r *ExpenseRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM expenses WHERE user_id = $1`

	var count int64
	if err := r.querier.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.logger.Error("Failed to count expenses", "user_id", userID.String(), "error", err)
		return 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	return count, nil
}

// ListAllByUser returns every expense of the user for the reconciliation auditor
func (r *ExpenseRepository) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]*expense.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE user_id = $1
		ORDER BY occurred_on, created_at
	`

	rows, err := r.querier.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list all expenses", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to list all expenses: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

func scanExpenseRow(row pgx.Row) (*expense.Expense, error) {
	var exp expense.Expense
	err := row.Scan(
		&exp.ID,
		&exp.UserID,
		&exp.Amount,
		&exp.OccurredOn,
		&exp.Merchant,
		&exp.Note,
		&exp.PaymentMethod,
		&exp.CategoryID,
		&exp.ExcludedFromBudget,
		&exp.CreatedAt,
		&exp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &exp, nil
}

func scanExpenses(rows pgx.Rows) ([]*expense.Expense, error) {
	var expenses []*expense.Expense
	for rows.Next() {
		exp, err := scanExpenseRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}
