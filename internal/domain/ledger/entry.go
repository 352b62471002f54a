package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/fintrack-ledger/internal/domain/shared"
)

// Entry is one signed, dated movement against one account, tagged with the
// source record that caused it. Each non-transfer source record maps to
// exactly one entry; a transfer maps to two entries (out on the from-account,
// in on the to-account) sharing the same source id.
type Entry struct {
	ID         uuid.UUID         `json:"id"`
	UserID     uuid.UUID         `json:"user_id"`
	AccountID  uuid.UUID         `json:"account_id"`
	Direction  shared.Direction  `json:"direction"`
	Amount     int64             `json:"amount"` // Stored in cents/minor units, always positive
	OccurredOn time.Time         `json:"occurred_on"`
	SourceType shared.SourceType `json:"source_type"`
	SourceID   uuid.UUID         `json:"source_id"`
	Merchant   *string           `json:"merchant,omitempty"`
	Note       *string           `json:"note,omitempty"`
	CreatedAt  time.Time         `json:"created_at"` // Tiebreak for same-day ordering
}

// NewEntry builds an entry for the given movement
func NewEntry(userID, accountID uuid.UUID, direction shared.Direction, amount int64, occurredOn time.Time, sourceType shared.SourceType, sourceID uuid.UUID, merchant, note *string) (*Entry, error) {
	if amount <= 0 {
		return nil, shared.ErrInvalidAmount
	}

	return &Entry{
		ID:         uuid.New(),
		UserID:     userID,
		AccountID:  accountID,
		Direction:  direction,
		Amount:     amount,
		OccurredOn: occurredOn,
		SourceType: sourceType,
		SourceID:   sourceID,
		Merchant:   merchant,
		Note:       note,
		CreatedAt:  time.Now(),
	}, nil
}

// Signed returns the amount with direction applied
func (e *Entry) Signed() int64 {
	if e.Direction == shared.DirectionOut {
		return -e.Amount
	}
	return e.Amount
}
