package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/fintrack-ledger/internal/domain/shared"
)

// ProcessingService defines the interface for turning imported rows into
// expenses
type ProcessingService interface {
	// ProcessExpense creates the expense and its ledger entry for one
	// imported row. A row that was already processed is a no-op.
	ProcessExpense(ctx context.Context, row *shared.ImportedExpense) error
}

// TxRunner runs a function inside one storage transaction. Satisfied by
// persistence.PostgresDB; substituted in tests.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}
