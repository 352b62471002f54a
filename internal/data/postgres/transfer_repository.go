package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fintrack-ledger/internal/domain/transfer"
	"github.com/fintrack-ledger/internal/platform/persistence"
)

const transferColumns = "id, user_id, from_account_id, to_account_id, amount, occurred_on, note, created_at"

// TransferRepository implements the transfer.Repository interface for PostgreSQL
type TransferRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewTransferRepository creates a new PostgreSQL transfer repository
func NewTransferRepository(logger *slog.Logger, db *persistence.PostgresDB) transfer.Repository {
	return &TransferRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *TransferRepository) WithTx(tx pgx.Tx) transfer.Repository {
	return &TransferRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new transfer
func (r *TransferRepository) Create(ctx context.Context, tr *transfer.Transfer) error {
	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.querier.Exec(ctx, query,
		tr.ID,
		tr.UserID,
		tr.FromAccountID,
		tr.ToAccountID,
		tr.Amount,
		tr.OccurredOn,
		tr.Note,
		tr.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create transfer", "id", tr.ID.String(), "error", err)
		return fmt.Errorf("failed to create transfer: %w", err)
	}

	return nil
}

// GetByID retrieves a transfer by its id, scoped to the owning user
func (r *TransferRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*transfer.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE id = $1 AND user_id = $2
	`

	var tr transfer.Transfer
	err := r.querier.QueryRow(ctx, query, id, userID).Scan(
		&tr.ID,
		&tr.UserID,
		&tr.FromAccountID,
		&tr.ToAccountID,
		&tr.Amount,
		&tr.OccurredOn,
		&tr.Note,
		&tr.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transfer.ErrTransferNotFound{TransferID: id}
		}
		r.logger.Error("Failed to get transfer", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get transfer: %w", err)
	}

	return &tr, nil
}

// Delete removes the transfer row
func (r *TransferRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM transfers WHERE id = $1 AND user_id = $2`

	result, err := r.querier.Exec(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete transfer", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete transfer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return transfer.ErrTransferNotFound{TransferID: id}
	}

	return nil
}

// ListByUser returns the user's transfers newest first, paginated
func (r *TransferRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*transfer.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE user_id = $1
		ORDER BY occurred_on DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list transfers", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	defer rows.Close()

	return scanTransfers(rows)
}

// CountByUser returns the total number of transfers for the user
func (r *TransferRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM transfers WHERE user_id = $1`

	var count int64
	if err := r.querier.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.logger.Error("Failed to count transfers", "user_id", userID.String(), "error", err)
		return 0, fmt.Errorf("failed to count transfers: %w", err)
	}

	return count, nil
}

// ListAllByUser returns every transfer of the user for the reconciliation auditor
func (r *TransferRepository) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]*transfer.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE user_id = $1
		ORDER BY occurred_on, created_at
	`

	rows, err := r.querier.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list all transfers", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to list all transfers: %w", err)
	}
	defer rows.Close()

	return scanTransfers(rows)
}

func scanTransfers(rows pgx.Rows) ([]*transfer.Transfer, error) {
	var transfers []*transfer.Transfer
	for rows.Next() {
		var tr transfer.Transfer
		if err := rows.Scan(
			&tr.ID,
			&tr.UserID,
			&tr.FromAccountID,
			&tr.ToAccountID,
			&tr.Amount,
			&tr.OccurredOn,
			&tr.Note,
			&tr.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, &tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transfers: %w", err)
	}

	return transfers, nil
}
