package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fintrack-ledger/internal/domain/ledger"
	"github.com/fintrack-ledger/internal/domain/shared"
	"github.com/fintrack-ledger/internal/platform/persistence"
)

// LedgerRepository implements the ledger.Repository interface for PostgreSQL
type LedgerRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewLedgerRepository creates a new PostgreSQL ledger repository
func NewLedgerRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &LedgerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *LedgerRepository) WithTx(tx pgx.Tx) ledger.Repository {
	return &LedgerRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new ledger entry. The unique index on
// (source_type, source_id, account_id) turns a double posting into
// ErrDuplicateEntry instead of a silent second row.
func (r *LedgerRepository) Create(ctx context.Context, entry *ledger.Entry) error {
	query := `
		INSERT INTO ledger_entries (id, user_id, account_id, direction, amount, occurred_on, source_type, source_id, merchant, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.querier.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.AccountID,
		entry.Direction,
		entry.Amount,
		entry.OccurredOn,
		entry.SourceType,
		entry.SourceID,
		entry.Merchant,
		entry.Note,
		entry.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ledger.ErrDuplicateEntry{SourceID: entry.SourceID}
		}
		r.logger.Error("Failed to create ledger entry", "source_id", entry.SourceID.String(), "error", err)
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return nil
}

// UpdateBySource rewrites the mutable fields of the single entry identified
// by (source_type, source_id, account_id)
func (r *LedgerRepository) UpdateBySource(ctx context.Context, userID uuid.UUID, sourceType shared.SourceType, sourceID, accountID uuid.UUID, amount int64, occurredOn time.Time, merchant, note *string) error {
	query := `
		UPDATE ledger_entries
		SET amount = $1, occurred_on = $2, merchant = $3, note = $4
		WHERE user_id = $5 AND source_type = $6 AND source_id = $7 AND account_id = $8
	`

	result, err := r.querier.Exec(ctx, query, amount, occurredOn, merchant, note, userID, sourceType, sourceID, accountID)
	if err != nil {
		r.logger.Error("Failed to update ledger entry", "source_id", sourceID.String(), "error", err)
		return fmt.Errorf("failed to update ledger entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ledger.ErrEntryNotFound{SourceID: sourceID}
	}

	return nil
}

// DeleteBySource removes every entry of the source record and reports the
// number of rows removed; zero rows is a harmless no-op
func (r *LedgerRepository) DeleteBySource(ctx context.Context, userID uuid.UUID, sourceType shared.SourceType, sourceID uuid.UUID) (int64, error) {
	query := `
		DELETE FROM ledger_entries
		WHERE user_id = $1 AND source_type = $2 AND source_id = $3
	`

	result, err := r.querier.Exec(ctx, query, userID, sourceType, sourceID)
	if err != nil {
		r.logger.Error("Failed to delete ledger entries", "source_id", sourceID.String(), "error", err)
		return 0, fmt.Errorf("failed to delete ledger entries: %w", err)
	}

	return result.RowsAffected(), nil
}

// ExistsBySource reports whether any entry references the source record
func (r *LedgerRepository) ExistsBySource(ctx context.Context, userID uuid.UUID, sourceType shared.SourceType, sourceID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM ledger_entries
			WHERE user_id = $1 AND source_type = $2 AND source_id = $3
		)
	`

	var exists bool
	if err := r.querier.QueryRow(ctx, query, userID, sourceType, sourceID).Scan(&exists); err != nil {
		r.logger.Error("Failed to check ledger entry existence", "source_id", sourceID.String(), "error", err)
		return false, fmt.Errorf("failed to check ledger entry existence: %w", err)
	}

	return exists, nil
}

// DeltaSince computes Σ(in) − Σ(out) over entries dated on or after the given
// date; entries before it belong to the opening balance
func (r *LedgerRepository) DeltaSince(ctx context.Context, accountID uuid.UUID, since time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN direction = 'in' THEN amount ELSE -amount END), 0)
		FROM ledger_entries
		WHERE account_id = $1 AND occurred_on >= $2
	`

	var delta int64
	if err := r.querier.QueryRow(ctx, query, accountID, since).Scan(&delta); err != nil {
		r.logger.Error("Failed to compute ledger delta", "account_id", accountID.String(), "error", err)
		return 0, fmt.Errorf("failed to compute ledger delta: %w", err)
	}

	return delta, nil
}

// ListByAccount returns entries newest first, created_at breaking same-day ties
func (r *LedgerRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*ledger.Entry, error) {
	query := `
		SELECT id, user_id, account_id, direction, amount, occurred_on, source_type, source_id, merchant, note, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY occurred_on DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list ledger entries", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// CountByAccount returns the total number of entries for the account
func (r *LedgerRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM ledger_entries WHERE account_id = $1`

	var count int64
	if err := r.querier.QueryRow(ctx, query, accountID).Scan(&count); err != nil {
		r.logger.Error("Failed to count ledger entries", "account_id", accountID.String(), "error", err)
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}

	return count, nil
}

// ListByUser returns every entry of the user for the reconciliation auditor
func (r *LedgerRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*ledger.Entry, error) {
	query := `
		SELECT id, user_id, account_id, direction, amount, occurred_on, source_type, source_id, merchant, note, created_at
		FROM ledger_entries
		WHERE user_id = $1
		ORDER BY occurred_on, created_at
	`

	rows, err := r.querier.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list ledger entries by user", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to list ledger entries by user: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]*ledger.Entry, error) {
	var entries []*ledger.Entry
	for rows.Next() {
		var entry ledger.Entry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.AccountID,
			&entry.Direction,
			&entry.Amount,
			&entry.OccurredOn,
			&entry.SourceType,
			&entry.SourceID,
			&entry.Merchant,
			&entry.Note,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}
