package salary

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines salary payment persistence operations
type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Payment, error)

	// MarkReceived flips the received flag. Safe to call repeatedly; the
	// ledger posting above it is what carries the idempotency guarantee.
	MarkReceived(ctx context.Context, userID, id uuid.UUID, receivedAt time.Time) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Payment, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// ListAllByUser returns every payment without pagination; used by the
	// reconciliation auditor
	ListAllByUser(ctx context.Context, userID uuid.UUID) ([]*Payment, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrPaymentNotFound indicates a missing payment or one not owned by the user
type ErrPaymentNotFound struct {
	PaymentID uuid.UUID
}

func (e ErrPaymentNotFound) Error() string {
	return "salary payment not found: " + e.PaymentID.String()
}
