package transfer

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines transfer persistence operations
type Repository interface {
	Create(ctx context.Context, transfer *Transfer) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Transfer, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Transfer, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// ListAllByUser returns every transfer without pagination; used by the
	// reconciliation auditor
	ListAllByUser(ctx context.Context, userID uuid.UUID) ([]*Transfer, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrTransferNotFound indicates a missing transfer or one not owned by the user
type ErrTransferNotFound struct {
	TransferID uuid.UUID
}

func (e ErrTransferNotFound) Error() string {
	return "transfer not found: " + e.TransferID.String()
}
