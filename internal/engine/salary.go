package engine

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/fintrack-ledger/internal/domain/account"
	"github.com/fintrack-ledger/internal/domain/ledger"
	"github.com/fintrack-ledger/internal/domain/salary"
	"github.com/fintrack-ledger/internal/domain/shared"
)

// OnSalaryPaymentReceived posts the payment's single in entry on the card
// account. Idempotent: a received toggle can be retried, so an entry that
// already exists (seen via the pre-check or the unique index) is left alone.
func (e *Engine) OnSalaryPaymentReceived(ctx context.Context, payment *salary.Payment) error {
	exists, err := e.entries.ExistsBySource(ctx, payment.UserID, shared.SourceTypeSalaryPayment, payment.ID)
	if err != nil {
		return err
	}
	if exists {
		e.logger.Debug("salary payment already posted", "payment_id", payment.ID.String())
		return nil
	}

	card, err := e.ensureAccount(ctx, payment.UserID, shared.AccountTypeCard)
	if err != nil {
		return err
	}

	entry, err := ledger.NewEntry(payment.UserID, card.ID, shared.DirectionIn, payment.Amount, payment.PaidOn,
		shared.SourceTypeSalaryPayment, payment.ID, nil, nil)
	if err != nil {
		return err
	}

	if err := e.entries.Create(ctx, entry); err != nil {
		// A concurrent toggle won the insert; the income is posted either way.
		if errors.Is(err, ledger.ErrDuplicateEntry{}) {
			return nil
		}
		return err
	}

	return nil
}

// CorrectOpeningBalance re-anchors an account's opening balance so that the
// computed balance matches a user-supplied current value. Historical entries
// stay untouched: new_opening = user_value − ledger_delta_since_cutover.
func (e *Engine) CorrectOpeningBalance(ctx context.Context, userID uuid.UUID, accountType shared.AccountType, currentValue int64) error {
	if !accountType.Valid() {
		return shared.ErrUnknownAccountType
	}

	acc, err := e.accounts.GetByUserAndType(ctx, userID, accountType)
	if err != nil {
		return err
	}
	if acc == nil {
		return account.ErrAccountNotFound{}
	}

	delta, err := e.entries.DeltaSince(ctx, acc.ID, e.cutover)
	if err != nil {
		return err
	}

	newOpening := currentValue - delta
	if err := e.accounts.UpdateOpeningBalance(ctx, userID, acc.ID, newOpening); err != nil {
		return err
	}

	e.logger.Info("opening balance corrected",
		"user_id", userID.String(),
		"account_type", accountType,
		"old_opening", acc.OpeningBalance,
		"new_opening", newOpening,
	)
	return nil
}
