package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fintrack-ledger/internal/domain/expense"
	"github.com/fintrack-ledger/internal/domain/shared"
	"github.com/fintrack-ledger/internal/domain/transfer"
)

// ConvertExpenseToWithdrawal turns an expense that is really a disguised cash
// machine withdrawal into an explicit card-to-cash transfer. The transfer and
// its entry pair land first; only then is the expense's own entry removed and
// the expense marked excluded and re-tagged. A failure in the first step
// aborts before the second so money never silently disappears; a failure in
// the second step leaves a duplication the auditor surfaces.
func (e *Engine) ConvertExpenseToWithdrawal(ctx context.Context, exp *expense.Expense) (uuid.UUID, error) {
	if !exp.LooksLikeWithdrawal() {
		return uuid.Nil, shared.ErrNotConvertible
	}

	// An excluded expense filed under the reserved category that owns no
	// entry is exactly what a completed conversion leaves behind. Converting
	// it again would post a second transfer pair for the same money, so the
	// operation refuses rather than duplicate the movement.
	if exp.ExcludedFromBudget && exp.CategoryID == shared.CategoryTransfers {
		owned, err := e.entries.ExistsBySource(ctx, exp.UserID, shared.SourceTypeExpense, exp.ID)
		if err != nil {
			return uuid.Nil, err
		}
		if !owned {
			return uuid.Nil, shared.ErrNotConvertible
		}
	}

	accounts, err := e.EnsureAccounts(ctx, exp.UserID)
	if err != nil {
		return uuid.Nil, err
	}

	tr, err := transfer.NewTransfer(exp.UserID, accounts.CardID, accounts.CashID, exp.Amount, exp.OccurredOn, exp.Note)
	if err != nil {
		return uuid.Nil, err
	}

	// Step 1: the transfer record and its entry pair, tagged as a withdrawal.
	if err := e.transfers.Create(ctx, tr); err != nil {
		return uuid.Nil, err
	}
	if err := e.postTransferEntries(ctx, tr, shared.SourceTypeCashWithdrawal); err != nil {
		return uuid.Nil, err
	}

	// Step 2: retire the expense's ledger presence and exclude it.
	if _, err := e.entries.DeleteBySource(ctx, exp.UserID, shared.SourceTypeExpense, exp.ID); err != nil {
		return uuid.Nil, err
	}

	exp.ExcludedFromBudget = true
	exp.CategoryID = shared.CategoryTransfers
	exp.UpdatedAt = time.Now()
	if err := e.expenses.Update(ctx, exp); err != nil {
		return uuid.Nil, err
	}

	e.logger.Info("expense converted to cash withdrawal",
		"expense_id", exp.ID.String(),
		"transfer_id", tr.ID.String(),
		"amount", exp.Amount,
	)
	return tr.ID, nil
}
