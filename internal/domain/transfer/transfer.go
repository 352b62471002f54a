package transfer

import (
	"time"

	"github.com/google/uuid"

	"github.com/fintrack-ledger/internal/domain/shared"
)

// Transfer moves a fixed amount between the user's two accounts on a date.
// Every live transfer owns exactly two ledger entries (out on the
// from-account, in on the to-account) sharing its id.
type Transfer struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	FromAccountID uuid.UUID `json:"from_account_id"`
	ToAccountID   uuid.UUID `json:"to_account_id"`
	Amount        int64     `json:"amount"` // Stored in cents/minor units
	OccurredOn    time.Time `json:"occurred_on"`
	Note          *string   `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewTransfer validates and builds a transfer record
func NewTransfer(userID, fromAccountID, toAccountID uuid.UUID, amount int64, occurredOn time.Time, note *string) (*Transfer, error) {
	if amount <= 0 {
		return nil, shared.ErrInvalidAmount
	}
	if fromAccountID == toAccountID {
		return nil, shared.ErrSameAccountTransfer
	}

	return &Transfer{
		ID:            uuid.New(),
		UserID:        userID,
		FromAccountID: fromAccountID,
		ToAccountID:   toAccountID,
		Amount:        amount,
		OccurredOn:    occurredOn,
		Note:          note,
		CreatedAt:     time.Now(),
	}, nil
}
