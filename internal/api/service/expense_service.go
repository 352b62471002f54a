package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fintrack-ledger/internal/domain/expense"
	"github.com/fintrack-ledger/internal/engine"
)

// ExpenseServiceImpl implements the ExpenseService interface. Every mutation
// runs the source-table write and the engine's journal protocol inside one
// transaction, so the two tables never commit out of step.
type ExpenseServiceImpl struct {
	db       TxRunner
	eng      *engine.Engine
	expenses expense.Repository
	logger   *slog.Logger
}

// NewExpenseService creates a new expense service
func NewExpenseService(logger *slog.Logger, db TxRunner, eng *engine.Engine, expenses expense.Repository) ExpenseService {
	return &ExpenseServiceImpl{
		db:       db,
		eng:      eng,
		expenses: expenses,
		logger:   logger,
	}
}

// Create inserts the expense and, when it counts toward the budget, its
// single out entry
func (s *ExpenseServiceImpl) Create(ctx context.Context, userID uuid.UUID, input CreateExpenseInput) (*expense.Expense, error) {
	exp, err := expense.NewExpense(userID, input.Amount, input.OccurredOn, input.Merchant, input.Note, input.PaymentMethod, input.CategoryID, input.ExcludedFromBudget)
	if err != nil {
		return nil, err
	}

	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.expenses.WithTx(tx).Create(ctx, exp); err != nil {
			return err
		}
		return s.eng.WithTx(tx).OnExpenseCreated(ctx, exp)
	})
	if err != nil {
		s.logger.Error("Failed to create expense", "user_id", userID.String(), "error", err)
		return nil, err
	}

	s.logger.Info("Expense created",
		"expense_id", exp.ID.String(),
		"user_id", userID.String(),
		"amount", exp.Amount,
		"payment_method", string(exp.PaymentMethod),
	)
	return exp, nil
}

// Update applies the edit and lets the engine reconcile the journal against
// the before/after pair
func (s *ExpenseServiceImpl) Update(ctx context.Context, userID, id uuid.UUID, input CreateExpenseInput) (*expense.Expense, error) {
	var updated *expense.Expense

	err := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := s.expenses.WithTx(tx)

		before, err := repo.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}

		after := *before
		after.Amount = input.Amount
		after.OccurredOn = input.OccurredOn
		after.Merchant = input.Merchant
		after.Note = input.Note
		after.PaymentMethod = input.PaymentMethod
		after.CategoryID = input.CategoryID
		after.ExcludedFromBudget = input.ExcludedFromBudget
		after.UpdatedAt = time.Now()

		if err := repo.Update(ctx, &after); err != nil {
			return err
		}
		if err := s.eng.WithTx(tx).OnExpenseUpdated(ctx, before, &after); err != nil {
			return err
		}

		updated = &after
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the expense row and whatever entry it has, counting or not
func (s *ExpenseServiceImpl) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.eng.WithTx(tx).OnExpenseDeleted(ctx, userID, id); err != nil {
			return err
		}
		return s.expenses.WithTx(tx).Delete(ctx, userID, id)
	})
}

// BulkDelete runs the single-delete protocol once per id, each in its own
// transaction. A failure is recorded and the sweep moves on.
func (s *ExpenseServiceImpl) BulkDelete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) BulkDeleteResult {
	result := BulkDeleteResult{}

	for _, id := range ids {
		if err := s.Delete(ctx, userID, id); err != nil {
			s.logger.Warn("Bulk delete skipped expense",
				"expense_id", id.String(),
				"user_id", userID.String(),
				"error", err,
			)
			result.Failed = append(result.Failed, BulkDeleteFailure{ID: id, Reason: err.Error()})
			continue
		}
		result.Deleted = append(result.Deleted, id)
	}

	return result
}

// List retrieves a paginated list of the user's expenses, newest first.
// Returns expenses, total count, and any error.
func (s *ExpenseServiceImpl) List(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*expense.Expense, int64, error) {
	offset := (page - 1) * perPage

	expenses, err := s.expenses.ListByUser(ctx, userID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.expenses.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

// ConvertToWithdrawal rewrites a disguised ATM expense as an explicit
// card-to-cash transfer and returns the new transfer's id
func (s *ExpenseServiceImpl) ConvertToWithdrawal(ctx context.Context, userID, id uuid.UUID) (uuid.UUID, error) {
	var transferID uuid.UUID

	err := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		exp, err := s.expenses.WithTx(tx).GetByID(ctx, userID, id)
		if err != nil {
			return err
		}

		transferID, err = s.eng.WithTx(tx).ConvertExpenseToWithdrawal(ctx, exp)
		return err
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.logger.Info("Expense converted to cash withdrawal",
		"expense_id", id.String(),
		"transfer_id", transferID.String(),
		"user_id", userID.String(),
	)
	return transferID, nil
}
