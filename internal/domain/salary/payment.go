package salary

import (
	"time"

	"github.com/google/uuid"

	"github.com/fintrack-ledger/internal/domain/shared"
)

// Payment is one salary payout. Forecasting the amount and date is upstream
// of this system; the ledger only consumes the final figures once the payment
// is marked received, at which point exactly one in entry lands on the card
// account.
type Payment struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Amount     int64      `json:"amount"` // Stored in cents/minor units
	PaidOn     time.Time  `json:"paid_on"`
	Received   bool       `json:"received"`
	ReceivedAt *time.Time `json:"received_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewPayment validates and builds a pending payment record
func NewPayment(userID uuid.UUID, amount int64, paidOn time.Time) (*Payment, error) {
	if amount <= 0 {
		return nil, shared.ErrInvalidAmount
	}

	now := time.Now()
	return &Payment{
		ID:        uuid.New(),
		UserID:    userID,
		Amount:    amount,
		PaidOn:    paidOn,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
