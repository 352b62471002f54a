package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fintrack-ledger/internal/domain/shared"
)

// Repository manages ledger entry persistence. A unique index on
// (source_type, source_id, account_id) backs the idempotency contract for
// singular entries; Create translates violations to ErrDuplicateEntry.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error

	// UpdateBySource rewrites amount, date, merchant and note of the single
	// entry identified by (source_type, source_id, account_id). Returns
	// ErrEntryNotFound when no such entry exists.
	UpdateBySource(ctx context.Context, userID uuid.UUID, sourceType shared.SourceType, sourceID, accountID uuid.UUID, amount int64, occurredOn time.Time, merchant, note *string) error

	// DeleteBySource removes every entry for the source record and reports
	// how many rows went away (0 is a harmless no-op)
	DeleteBySource(ctx context.Context, userID uuid.UUID, sourceType shared.SourceType, sourceID uuid.UUID) (int64, error)

	// ExistsBySource reports whether any entry references the source record
	ExistsBySource(ctx context.Context, userID uuid.UUID, sourceType shared.SourceType, sourceID uuid.UUID) (bool, error)

	// DeltaSince computes Σ(in) − Σ(out) over entries with occurred_on on or
	// after the given date
	DeltaSince(ctx context.Context, accountID uuid.UUID, since time.Time) (int64, error)

	// ListByAccount returns entries newest first, paginated, for history display
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Entry, error)
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)

	// ListByUser returns every entry of the user; used by the reconciliation auditor
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Entry, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrEntryNotFound indicates a missing ledger entry
type ErrEntryNotFound struct {
	SourceID uuid.UUID
}

func (e ErrEntryNotFound) Error() string {
	return "ledger entry not found for source: " + e.SourceID.String()
}

// Is matches any ErrEntryNotFound when the target carries a nil source id
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	if t.SourceID == uuid.Nil {
		return true
	}
	return e.SourceID == t.SourceID
}

// ErrDuplicateEntry indicates a (source_type, source_id, account_id)
// uniqueness violation: the movement has already been posted
type ErrDuplicateEntry struct {
	SourceID uuid.UUID
}

func (e ErrDuplicateEntry) Error() string {
	return "ledger entry already posted for source: " + e.SourceID.String()
}

// Is matches any ErrDuplicateEntry when the target carries a nil source id
func (e ErrDuplicateEntry) Is(target error) bool {
	t, ok := target.(ErrDuplicateEntry)
	if !ok {
		return false
	}
	if t.SourceID == uuid.Nil {
		return true
	}
	return e.SourceID == t.SourceID
}
