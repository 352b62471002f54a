package expense

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fintrack-ledger/internal/domain/shared"
)

// Expense is a single spending record. An expense counts toward the budget
// (and therefore has exactly one out ledger entry) unless ExcludedFromBudget
// is set; the flag can flip over the record's lifetime.
type Expense struct {
	ID                 uuid.UUID          `json:"id"`
	UserID             uuid.UUID          `json:"user_id"`
	Amount             int64              `json:"amount"` // Stored in cents/minor units
	OccurredOn         time.Time          `json:"occurred_on"`
	Merchant           *string            `json:"merchant,omitempty"`
	Note               *string            `json:"note,omitempty"`
	PaymentMethod      shared.AccountType `json:"payment_method"`
	CategoryID         string             `json:"category_id"`
	ExcludedFromBudget bool               `json:"excluded_from_budget"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// NewExpense validates and builds an expense record
func NewExpense(userID uuid.UUID, amount int64, occurredOn time.Time, merchant, note *string, paymentMethod shared.AccountType, categoryID string, excluded bool) (*Expense, error) {
	if amount <= 0 {
		return nil, shared.ErrInvalidAmount
	}
	if !paymentMethod.Valid() {
		return nil, shared.ErrUnknownAccountType
	}

	now := time.Now()
	return &Expense{
		ID:                 uuid.New(),
		UserID:             userID,
		Amount:             amount,
		OccurredOn:         occurredOn,
		Merchant:           merchant,
		Note:               note,
		PaymentMethod:      paymentMethod,
		CategoryID:         categoryID,
		ExcludedFromBudget: excluded,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// atmMerchantMarkers flags merchants that indicate a cash machine withdrawal
var atmMerchantMarkers = []string{"atm", "cash withdrawal", "bankomat"}

// LooksLikeWithdrawal reports whether the expense is a disguised cash
// withdrawal: either an excluded expense filed under the reserved transfers
// category, or a card expense whose merchant matches an ATM pattern.
func (e *Expense) LooksLikeWithdrawal() bool {
	if e.PaymentMethod != shared.AccountTypeCard {
		return false
	}
	if e.ExcludedFromBudget && e.CategoryID == shared.CategoryTransfers {
		return true
	}
	if e.Merchant == nil {
		return false
	}
	merchant := strings.ToLower(*e.Merchant)
	for _, marker := range atmMerchantMarkers {
		if strings.Contains(merchant, marker) {
			return true
		}
	}
	return false
}
