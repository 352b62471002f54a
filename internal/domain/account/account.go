package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/fintrack-ledger/internal/domain/shared"
)

// Account is one of the two logical accounts (card, cash) kept per user.
// Exactly one account of each type exists per user once the registry has run;
// accounts are never deleted. The opening balance reflects all activity
// strictly before the ledger cutover date and changes only through the
// explicit balance correction operation.
type Account struct {
	ID             uuid.UUID          `json:"id"`
	UserID         uuid.UUID          `json:"user_id"`
	Type           shared.AccountType `json:"type"`
	Name           string             `json:"name"`
	OpeningBalance int64              `json:"opening_balance"` // Stored in cents/minor units
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// NewAccount creates a fresh account with a zero opening balance
func NewAccount(userID uuid.UUID, accountType shared.AccountType) (*Account, error) {
	if !accountType.Valid() {
		return nil, shared.ErrUnknownAccountType
	}

	now := time.Now()
	return &Account{
		ID:             uuid.New(),
		UserID:         userID,
		Type:           accountType,
		Name:           defaultName(accountType),
		OpeningBalance: 0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func defaultName(accountType shared.AccountType) string {
	switch accountType {
	case shared.AccountTypeCash:
		return "Cash"
	default:
		return "Card"
	}
}
