package expense

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines expense persistence operations
type Repository interface {
	Create(ctx context.Context, expense *Expense) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Expense, error)
	Update(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Expense, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// ListAllByUser returns every expense without pagination; used by the
	// reconciliation auditor
	ListAllByUser(ctx context.Context, userID uuid.UUID) ([]*Expense, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrExpenseNotFound indicates a missing expense or one not owned by the user
type ErrExpenseNotFound struct {
	ExpenseID uuid.UUID
}

func (e ErrExpenseNotFound) Error() string {
	return "expense not found: " + e.ExpenseID.String()
}
