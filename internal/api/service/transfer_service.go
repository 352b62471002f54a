package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fintrack-ledger/internal/domain/transfer"
	"github.com/fintrack-ledger/internal/engine"
)

// TransferServiceImpl implements the TransferService interface
type TransferServiceImpl struct {
	db        TxRunner
	eng       *engine.Engine
	transfers transfer.Repository
	logger    *slog.Logger
}

// NewTransferService creates a new transfer service
func NewTransferService(logger *slog.Logger, db TxRunner, eng *engine.Engine, transfers transfer.Repository) TransferService {
	return &TransferServiceImpl{
		db:        db,
		eng:       eng,
		transfers: transfers,
		logger:    logger,
	}
}

// Create inserts the transfer record and its paired out/in entries. If either
// entry fails the transaction rolls the record back, so a transfer never
// exists without both legs.
func (s *TransferServiceImpl) Create(ctx context.Context, userID uuid.UUID, input CreateTransferInput) (*transfer.Transfer, error) {
	tr, err := transfer.NewTransfer(userID, input.FromAccountID, input.ToAccountID, input.Amount, input.OccurredOn, input.Note)
	if err != nil {
		return nil, err
	}

	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.transfers.WithTx(tx).Create(ctx, tr); err != nil {
			return err
		}
		return s.eng.WithTx(tx).OnTransferCreated(ctx, tr)
	})
	if err != nil {
		s.logger.Error("Failed to create transfer", "user_id", userID.String(), "error", err)
		return nil, err
	}

	s.logger.Info("Transfer created",
		"transfer_id", tr.ID.String(),
		"user_id", userID.String(),
		"amount", tr.Amount,
	)
	return tr, nil
}

// Delete removes both entries before the record; if the sweep fails nothing
// is deleted
func (s *TransferServiceImpl) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.eng.WithTx(tx).OnTransferDeleted(ctx, userID, id); err != nil {
			return err
		}
		return s.transfers.WithTx(tx).Delete(ctx, userID, id)
	})
}

// List retrieves a paginated list of the user's transfers, newest first.
// Returns transfers, total count, and any error.
func (s *TransferServiceImpl) List(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*transfer.Transfer, int64, error) {
	offset := (page - 1) * perPage

	transfers, err := s.transfers.ListByUser(ctx, userID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.transfers.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return transfers, total, nil
}
