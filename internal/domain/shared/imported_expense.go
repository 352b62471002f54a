package shared

import (
	"time"

	"github.com/google/uuid"
)

// ImportedExpense defines a Kafka message carrying one expense row produced by
// an import source (spreadsheet upload, assistant tooling). The worker feeds
// each row through the same expense creation path as manual entry.
type ImportedExpense struct {
	ImportID uuid.UUID `json:"import_id"`

	// RowID becomes the expense id, so a redelivered message lands on the
	// primary key instead of creating a second expense
	RowID              uuid.UUID   `json:"row_id"`
	UserID             uuid.UUID   `json:"user_id"`
	Amount             int64       `json:"amount"` // Stored in cents/minor units
	OccurredOn         time.Time   `json:"occurred_on"`
	Merchant           string      `json:"merchant,omitempty"`
	Note               string      `json:"note,omitempty"`
	PaymentMethod      AccountType `json:"payment_method"`
	CategoryID         string      `json:"category_id"`
	ExcludedFromBudget bool        `json:"excluded_from_budget"`
	CorrelationID      string      `json:"correlation_id"`
	Timestamp          time.Time   `json:"timestamp"`
}
