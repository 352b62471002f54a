// Package postgres provides PostgreSQL implementations of the domain
// repositories. Source records and ledger entries live in the same database
// so every mutation protocol can run inside a single transaction.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fintrack-ledger/internal/domain/account"
	"github.com/fintrack-ledger/internal/domain/shared"
	"github.com/fintrack-ledger/internal/platform/persistence"
)

// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
const uniqueViolationCode = "23505"

// isUniqueViolation reports whether the error is a unique constraint violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so that multiple repository
// calls share one atomic unit
func (r *AccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new account. The (user_id, type) unique constraint decides
// lazy-provisioning races; a violation comes back as ErrDuplicateAccount.
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (id, user_id, type, name, opening_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query,
		acc.ID,
		acc.UserID,
		acc.Type,
		acc.Name,
		acc.OpeningBalance,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return account.ErrDuplicateAccount{UserID: acc.UserID, Type: acc.Type}
		}
		r.logger.Error("Failed to create account", "user_id", acc.UserID.String(), "type", acc.Type, "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its id, scoped to the owning user
func (r *AccountRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*account.Account, error) {
	query := `
		SELECT id, user_id, type, name, opening_balance, created_at, updated_at
		FROM accounts
		WHERE id = $1 AND user_id = $2
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, id, userID).Scan(
		&acc.ID,
		&acc.UserID,
		&acc.Type,
		&acc.Name,
		&acc.OpeningBalance,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to get account", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &acc, nil
}

// GetByUserAndType retrieves the user's account of the given type.
// Returns nil, nil when the account has not been provisioned yet.
func (r *AccountRepository) GetByUserAndType(ctx context.Context, userID uuid.UUID, accountType shared.AccountType) (*account.Account, error) {
	query := `
		SELECT id, user_id, type, name, opening_balance, created_at, updated_at
		FROM accounts
		WHERE user_id = $1 AND type = $2
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, userID, accountType).Scan(
		&acc.ID,
		&acc.UserID,
		&acc.Type,
		&acc.Name,
		&acc.OpeningBalance,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get account by type", "user_id", userID.String(), "type", accountType, "error", err)
		return nil, fmt.Errorf("failed to get account by type: %w", err)
	}

	return &acc, nil
}

// ListByUser returns the user's accounts in a stable order (card before cash)
func (r *AccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	query := `
		SELECT id, user_id, type, name, opening_balance, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY type
	`

	rows, err := r.querier.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list accounts", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		var acc account.Account
		if err := rows.Scan(
			&acc.ID,
			&acc.UserID,
			&acc.Type,
			&acc.Name,
			&acc.OpeningBalance,
			&acc.CreatedAt,
			&acc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

// UpdateOpeningBalance re-anchors the opening balance
func (r *AccountRepository) UpdateOpeningBalance(ctx context.Context, userID, id uuid.UUID, openingBalance int64) error {
	query := `
		UPDATE accounts
		SET opening_balance = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`

	result, err := r.querier.Exec(ctx, query, openingBalance, id, userID)
	if err != nil {
		r.logger.Error("Failed to update opening balance", "id", id.String(), "error", err)
		return fmt.Errorf("failed to update opening balance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{AccountID: id}
	}

	return nil
}
