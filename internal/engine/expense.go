package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fintrack-ledger/internal/domain/expense"
	"github.com/fintrack-ledger/internal/domain/ledger"
	"github.com/fintrack-ledger/internal/domain/shared"
)

// OnExpenseCreated posts the single out entry for a budget-counted expense.
// Excluded expenses own no entry, so the call is a no-op for them.
func (e *Engine) OnExpenseCreated(ctx context.Context, exp *expense.Expense) error {
	if exp.ExcludedFromBudget {
		return nil
	}
	return e.postExpenseEntry(ctx, exp)
}

// OnExpenseUpdated reconciles the journal with an expense edit by comparing
// the before and after snapshots. The excluded flag drives entry existence:
//
//	counted  -> excluded   delete the entry
//	excluded -> counted    insert a fresh entry from the after values
//	excluded -> excluded   nothing to do
//	counted  -> counted    account change: delete + insert; field change:
//	                       update the entry in place
func (e *Engine) OnExpenseUpdated(ctx context.Context, before, after *expense.Expense) error {
	switch {
	case !before.ExcludedFromBudget && after.ExcludedFromBudget:
		_, err := e.entries.DeleteBySource(ctx, before.UserID, shared.SourceTypeExpense, before.ID)
		return err

	case before.ExcludedFromBudget && !after.ExcludedFromBudget:
		return e.postExpenseEntry(ctx, after)

	case before.ExcludedFromBudget && after.ExcludedFromBudget:
		return nil
	}

	// Both snapshots count toward the budget.
	if before.PaymentMethod != after.PaymentMethod {
		// Never move an entry between accounts in place; a delete plus a
		// fresh insert rules out any account/entry mismatch.
		if _, err := e.entries.DeleteBySource(ctx, before.UserID, shared.SourceTypeExpense, before.ID); err != nil {
			return err
		}
		return e.postExpenseEntry(ctx, after)
	}

	if !expenseFieldsChanged(before, after) {
		return nil
	}

	acc, err := e.ensureAccount(ctx, after.UserID, after.PaymentMethod)
	if err != nil {
		return err
	}

	return e.entries.UpdateBySource(ctx, after.UserID, shared.SourceTypeExpense, after.ID, acc.ID,
		after.Amount, after.OccurredOn, after.Merchant, after.Note)
}

// OnExpenseDeleted removes every entry the expense may own. Deleting an
// excluded expense is a harmless no-op here.
func (e *Engine) OnExpenseDeleted(ctx context.Context, userID, expenseID uuid.UUID) error {
	_, err := e.entries.DeleteBySource(ctx, userID, shared.SourceTypeExpense, expenseID)
	return err
}

// postExpenseEntry resolves the account for the payment method and inserts
// the expense's single out entry
func (e *Engine) postExpenseEntry(ctx context.Context, exp *expense.Expense) error {
	acc, err := e.ensureAccount(ctx, exp.UserID, exp.PaymentMethod)
	if err != nil {
		return fmt.Errorf("failed to resolve %s account for expense %s: %w", exp.PaymentMethod, exp.ID.String(), err)
	}

	entry, err := ledger.NewEntry(exp.UserID, acc.ID, shared.DirectionOut, exp.Amount, exp.OccurredOn,
		shared.SourceTypeExpense, exp.ID, exp.Merchant, exp.Note)
	if err != nil {
		return err
	}

	return e.entries.Create(ctx, entry)
}

// expenseFieldsChanged reports whether any entry-relevant field differs
func expenseFieldsChanged(before, after *expense.Expense) bool {
	return before.Amount != after.Amount ||
		!before.OccurredOn.Equal(after.OccurredOn) ||
		!stringPtrEqual(before.Merchant, after.Merchant) ||
		!stringPtrEqual(before.Note, after.Note)
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
