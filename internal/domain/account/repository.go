package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fintrack-ledger/internal/domain/shared"
)

// Repository defines account persistence operations
type Repository interface {
	// Create inserts a new account. Returns ErrDuplicateAccount when an
	// account of the same type already exists for the user (benign race
	// during lazy provisioning).
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Account, error)

	// GetByUserAndType returns nil, nil when the account does not exist yet
	GetByUserAndType(ctx context.Context, userID uuid.UUID, accountType shared.AccountType) (*Account, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Account, error)

	// UpdateOpeningBalance re-anchors the opening balance without touching
	// ledger entries
	UpdateOpeningBalance(ctx context.Context, userID, id uuid.UUID, openingBalance int64) error
	WithTx(tx pgx.Tx) Repository
}

// ErrAccountNotFound indicates a missing account or one not owned by the user
type ErrAccountNotFound struct {
	AccountID uuid.UUID
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.AccountID.String()
}

// ErrDuplicateAccount indicates a (user_id, type) uniqueness violation
type ErrDuplicateAccount struct {
	UserID uuid.UUID
	Type   shared.AccountType
}

func (e ErrDuplicateAccount) Error() string {
	return "account of type " + string(e.Type) + " already exists for user " + e.UserID.String()
}
