package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/fintrack-ledger/internal/domain/ledger"
	"github.com/fintrack-ledger/internal/domain/shared"
	"github.com/fintrack-ledger/internal/domain/transfer"
)

// OnTransferCreated posts the transfer's entry pair: out on the from-account,
// in on the to-account, both sharing the transfer's id. Both accounts must
// resolve to the acting user's own accounts and must differ. The caller runs
// this inside the same transaction that created the transfer record, so a
// failed insert rolls the record back with it.
func (e *Engine) OnTransferCreated(ctx context.Context, tr *transfer.Transfer) error {
	return e.postTransferEntries(ctx, tr, shared.SourceTypeTransfer)
}

// OnTransferDeleted removes the transfer's entry pair. The caller deletes the
// transfer record only after this succeeds: failing closed leaves an orphan
// transfer the auditor can see, never entries without their transfer.
func (e *Engine) OnTransferDeleted(ctx context.Context, userID, transferID uuid.UUID) error {
	// A transfer created by the withdrawal conversion carries
	// cash_withdrawal entries instead; sweep both tags.
	for _, sourceType := range []shared.SourceType{shared.SourceTypeTransfer, shared.SourceTypeCashWithdrawal} {
		if _, err := e.entries.DeleteBySource(ctx, userID, sourceType, transferID); err != nil {
			return err
		}
	}
	return nil
}

// postTransferEntries validates account ownership and writes the pair
func (e *Engine) postTransferEntries(ctx context.Context, tr *transfer.Transfer, sourceType shared.SourceType) error {
	if tr.FromAccountID == tr.ToAccountID {
		return shared.ErrSameAccountTransfer
	}

	from, err := e.accounts.GetByID(ctx, tr.UserID, tr.FromAccountID)
	if err != nil {
		return err
	}
	to, err := e.accounts.GetByID(ctx, tr.UserID, tr.ToAccountID)
	if err != nil {
		return err
	}

	out, err := ledger.NewEntry(tr.UserID, from.ID, shared.DirectionOut, tr.Amount, tr.OccurredOn,
		sourceType, tr.ID, nil, tr.Note)
	if err != nil {
		return err
	}
	in, err := ledger.NewEntry(tr.UserID, to.ID, shared.DirectionIn, tr.Amount, tr.OccurredOn,
		sourceType, tr.ID, nil, tr.Note)
	if err != nil {
		return err
	}

	if err := e.entries.Create(ctx, out); err != nil {
		return err
	}
	if err := e.entries.Create(ctx, in); err != nil {
		return err
	}

	return nil
}
